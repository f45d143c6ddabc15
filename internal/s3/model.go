package s3

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/config"
)

const (
	ContentTypePDF    = "application/pdf"
	ContentTypeBinary = "application/octet-stream"
)

// Object is a blob to be stored under Key
type Object struct {
	Key         string
	Data        []byte
	ContentType string
}

func NewPdfObject(key string, data []byte) *Object {
	return &Object{
		Key:         key,
		Data:        data,
		ContentType: ContentTypePDF,
	}
}

// DocumentKey is where a document file lives: <prefix>/<tenant>/<document id>.<ext>
func DocumentKey(cfg config.StorageConfig, tenantID, documentID, ext string) string {
	return objectKey(cfg.DocumentPrefix, tenantID, documentID, ext)
}

// TemplateKey is where a template upload lives: <prefix>/<tenant>/<kind>/<short id>.pdf
func TemplateKey(cfg config.StorageConfig, tenantID, kind, shortID string) string {
	return objectKey(cfg.TemplatePrefix, path.Join(tenantID, kind), shortID, "pdf")
}

func objectKey(prefix, dir, name, ext string) string {
	file := name
	if ext != "" {
		file = fmt.Sprintf("%s.%s", name, strings.TrimPrefix(ext, "."))
	}
	return path.Join(prefix, dir, file)
}

// ObjectURL resolves the address of a stored object. A configured public base
// URL wins; otherwise a custom endpoint is addressed path style and AWS
// virtual-host style.
func ObjectURL(cfg config.StorageConfig, key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()

	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/") + "/" + escaped
	case cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket, escaped)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, escaped)
	}
}
