package v1

import (
	"io"
	"mime/multipart"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/gin-gonic/gin"
)

// readFormFile reads the multipart part named field, refusing anything
// larger than types.MaxDocumentSize.
func readFormFile(c *gin.Context, field string) (string, []byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil, ierr.WithError(err).
			WithHintf("Please attach a file in the %q field", field).
			Mark(ierr.ErrValidation)
	}
	if header.Size > types.MaxDocumentSize {
		return "", nil, tooLarge(header)
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, ierr.WithError(err).
			WithHint("Could not read the uploaded file").
			Mark(ierr.ErrValidation)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, types.MaxDocumentSize+1))
	if err != nil {
		return "", nil, ierr.WithError(err).
			WithHint("Could not read the uploaded file").
			Mark(ierr.ErrValidation)
	}
	if int64(len(data)) > types.MaxDocumentSize {
		return "", nil, tooLarge(header)
	}
	return header.Filename, data, nil
}

func tooLarge(header *multipart.FileHeader) error {
	return ierr.NewErrorf("file %s too large", header.Filename).
		WithHintf("Files must be at most %d MB", types.MaxDocumentSize>>20).
		Mark(ierr.ErrValidation)
}

func session(c *gin.Context) *types.Session {
	return types.GetSession(c.Request.Context())
}
