package signature

import (
	"encoding/base64"
	"strings"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/h2non/filetype"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
)

// EncodeDataURL renders data as a base64 data URL of the given media type
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL returns the payload of a base64 image data URL and its sniffed
// media type. The declared type is not trusted; only PNG and JPEG payloads
// are accepted.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(dataURL), "data:")
	if !ok {
		return nil, "", invalidDataURL("missing data: scheme")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, "", invalidDataURL("only base64 data URLs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ierr.WithError(err).
			WithHint("Signature image is not valid base64").
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, "", invalidDataURL("unrecognized image payload")
	}

	switch kind.MIME.Value {
	case MimePNG, MimeJPEG:
		return data, kind.MIME.Value, nil
	default:
		return nil, "", invalidDataURL("unsupported image type " + kind.MIME.Value)
	}
}

func invalidDataURL(reason string) error {
	return ierr.NewError(reason).
		WithHint("Signature must be a PNG or JPEG image").
		Mark(ierr.ErrValidation)
}
