package service

import (
	"context"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	"github.com/brokerdesk/brokerdesk/internal/domain/template"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/s3"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/h2non/filetype"
)

// TemplateSource is where the filler fetches a template from
type TemplateSource struct {
	// Key stays the same for the life of the template and keys the cache
	Key string
	URL string
}

type TemplateService interface {
	UploadTemplate(ctx context.Context, sess *types.Session, req *dto.UploadTemplateRequest) (*dto.TemplateResponse, error)
	ListTemplates(ctx context.Context, sess *types.Session) (*dto.ListTemplatesResponse, error)
	// Resolve returns the active template of a kind, falling back to the
	// configured URL when none was uploaded.
	Resolve(ctx context.Context, sess *types.Session, kind types.DocumentType) (*TemplateSource, error)
}

type templateService struct {
	ServiceParams
}

func NewTemplateService(params ServiceParams) TemplateService {
	return &templateService{ServiceParams: params}
}

func (s *templateService) UploadTemplate(ctx context.Context, sess *types.Session, req *dto.UploadTemplateRequest) (*dto.TemplateResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !filetype.Is(req.Data, "pdf") {
		return nil, ierr.NewError("template is not a pdf").
			WithHint("Templates must be PDF files").
			Mark(ierr.ErrValidation)
	}
	if err := s.requireStorage(); err != nil {
		return nil, err
	}

	key := s3.TemplateKey(s.Config.Storage, sess.TenantID, string(req.Kind), types.GenerateShortID())
	url, err := s.Storage.Upload(ctx, s3.NewPdfObject(key, req.Data))
	if err != nil {
		return nil, err
	}

	tmpl := &template.Template{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TEMPLATE),
		TenantID:   sess.TenantID,
		Kind:       req.Kind,
		Name:       req.DisplayName(),
		StorageKey: key,
		URL:        url,
		Size:       int64(len(req.Data)),
		CreatedAt:  time.Now().UTC(),
		CreatedBy:  sess.UserID,
	}
	if err := s.TemplateRepo.Create(ctx, tmpl); err != nil {
		s.removeObject(ctx, key)
		return nil, err
	}

	s.Logger.Infow("template uploaded",
		"template_id", tmpl.ID,
		"kind", tmpl.Kind,
		"tenant_id", tmpl.TenantID,
		"size", tmpl.Size)

	return &dto.TemplateResponse{Template: tmpl, Active: true}, nil
}

func (s *templateService) ListTemplates(ctx context.Context, sess *types.Session) (*dto.ListTemplatesResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	templates, err := s.TemplateRepo.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	// newest first, so the first of each kind is the active one
	seen := make(map[types.DocumentType]bool)
	items := make([]*dto.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		items = append(items, &dto.TemplateResponse{Template: t, Active: !seen[t.Kind]})
		seen[t.Kind] = true
	}
	return &dto.ListTemplatesResponse{Items: items}, nil
}

func (s *templateService) Resolve(ctx context.Context, sess *types.Session, kind types.DocumentType) (*TemplateSource, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := s.TemplateRepo.GetLatest(ctx, sess, kind)
	switch {
	case err == nil:
		url := tmpl.URL
		if s.Storage != nil {
			if url, err = s.Storage.GetPresignedURL(ctx, tmpl.StorageKey); err != nil {
				return nil, err
			}
		}
		return &TemplateSource{Key: tmpl.ID, URL: url}, nil
	case !ierr.IsNotFound(err):
		return nil, err
	}

	if url := s.Config.Templates.GetTemplateFallback(kind); url != "" {
		return &TemplateSource{Key: "fallback:" + string(kind), URL: url}, nil
	}

	return nil, ierr.NewErrorf("no template for %s", kind).
		WithHintf("No template has been uploaded for %s documents", kind).
		Mark(ierr.ErrInvalidOperation)
}
