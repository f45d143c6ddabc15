package s3

import (
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestObjectKeys(t *testing.T) {
	cfg := config.StorageConfig{DocumentPrefix: "documents", TemplatePrefix: "templates"}

	assert.Equal(t, "documents/tenant_1/doc_01.pdf", DocumentKey(cfg, "tenant_1", "doc_01", "pdf"))
	assert.Equal(t, "documents/tenant_1/doc_01.png", DocumentKey(cfg, "tenant_1", "doc_01", ".png"))
	assert.Equal(t, "templates/tenant_1/rental_agreement/abc123.pdf",
		TemplateKey(cfg, "tenant_1", "rental_agreement", "abc123"))
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		key  string
		want string
	}{
		{
			name: "public base url wins",
			cfg:  config.StorageConfig{PublicBaseURL: "https://cdn.example.com/", Endpoint: "http://localhost:9000", Bucket: "b"},
			key:  "documents/t/doc.pdf",
			want: "https://cdn.example.com/documents/t/doc.pdf",
		},
		{
			name: "custom endpoint is path style",
			cfg:  config.StorageConfig{Endpoint: "http://localhost:9000", Bucket: "brokerdesk"},
			key:  "documents/t/doc.pdf",
			want: "http://localhost:9000/brokerdesk/documents/t/doc.pdf",
		},
		{
			name: "aws virtual host",
			cfg:  config.StorageConfig{Bucket: "brokerdesk", Region: "eu-central-1"},
			key:  "documents/t/my doc.pdf",
			want: "https://brokerdesk.s3.eu-central-1.amazonaws.com/documents/t/my%20doc.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectURL(tt.cfg, tt.key))
		})
	}
}
