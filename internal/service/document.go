package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	"github.com/brokerdesk/brokerdesk/internal/domain/document"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/pdf"
	"github.com/brokerdesk/brokerdesk/internal/s3"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/brokerdesk/brokerdesk/internal/wizard"
	"github.com/h2non/filetype"
	"github.com/samber/lo"
)

type DocumentService interface {
	ListDocuments(ctx context.Context, sess *types.Session, filter *types.DocumentFilter) (*dto.ListDocumentsResponse, error)
	GetDocument(ctx context.Context, sess *types.Session, id string) (*dto.DocumentResponse, error)
	UploadDocument(ctx context.Context, sess *types.Session, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error)
	UpdateDocument(ctx context.Context, sess *types.Session, id string, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	DeleteDocument(ctx context.Context, sess *types.Session, id string) error
	GenerateDocument(ctx context.Context, sess *types.Session, req *dto.GenerateDocumentRequest) (*dto.DocumentResponse, error)
	CreateVersion(ctx context.Context, sess *types.Session, id string, req *dto.CreateVersionRequest) (*dto.DocumentResponse, error)
	ListVersions(ctx context.Context, sess *types.Session, id string) (*dto.ListDocumentsResponse, error)
	DownloadDocument(ctx context.Context, sess *types.Session, id string) (*dto.DocumentDownload, error)
}

type documentService struct {
	ServiceParams
	templates TemplateService
}

func NewDocumentService(params ServiceParams) DocumentService {
	return &documentService{
		ServiceParams: params,
		templates:     NewTemplateService(params),
	}
}

func (s *documentService) ListDocuments(ctx context.Context, sess *types.Session, filter *types.DocumentFilter) (*dto.ListDocumentsResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = types.NewDocumentFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	docs, err := s.DocumentRepo.List(ctx, sess, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.DocumentRepo.Count(ctx, sess, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(docs, func(d *document.Document, _ int) *dto.DocumentResponse {
		return &dto.DocumentResponse{Document: d}
	})
	resp := types.NewListResponse(items, total, filter)
	return &resp, nil
}

func (s *documentService) GetDocument(ctx context.Context, sess *types.Session, id string) (*dto.DocumentResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	doc, err := s.DocumentRepo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return &dto.DocumentResponse{Document: doc}, nil
}

func (s *documentService) UploadDocument(ctx context.Context, sess *types.Session, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	kind, err := filetype.Match(req.Data)
	if err != nil || kind == filetype.Unknown ||
		!(filetype.IsDocument(req.Data) || filetype.IsImage(req.Data) || kind.MIME.Value == s3.ContentTypePDF) {
		return nil, ierr.NewError("unsupported file type").
			WithHint("Only PDF, office documents and images can be archived").
			WithReportableDetails(map[string]interface{}{"file_name": req.FileName}).
			Mark(ierr.ErrValidation)
	}
	if err := s.requireStorage(); err != nil {
		return nil, err
	}

	doc := req.ToDocument(sess)
	doc.ContentType = kind.MIME.Value
	doc.StorageKey = s3.DocumentKey(s.Config.Storage, sess.TenantID, doc.ID, kind.Extension)
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.store(ctx, sess, doc, req.Data); err != nil {
		return nil, err
	}

	documentsUploadedTotal.WithLabelValues(doc.ContentType).Inc()
	return &dto.DocumentResponse{Document: doc}, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, sess *types.Session, id string, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.DocumentRepo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	req.Apply(doc)
	doc.Touch(sess)
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := s.DocumentRepo.Update(ctx, sess, doc); err != nil {
		return nil, err
	}
	return &dto.DocumentResponse{Document: doc}, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, sess *types.Session, id string) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	var key string
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		doc, err := s.DocumentRepo.Get(txCtx, sess, id)
		if err != nil {
			return err
		}
		key = doc.StorageKey
		return s.DocumentRepo.Delete(txCtx, sess, id)
	})
	if err != nil {
		return err
	}

	s.removeObject(ctx, key)
	s.Logger.Infow("document deleted", "document_id", id, "owner_id", sess.UserID)
	return nil
}

func (s *documentService) GenerateDocument(ctx context.Context, sess *types.Session, req *dto.GenerateDocumentRequest) (*dto.DocumentResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc := req.ToDocument(sess, defaultDocumentName(req.Type, req.Values))
	if err := s.generate(ctx, sess, doc, req.Values, req.Signatures); err != nil {
		return nil, err
	}

	documentsGeneratedTotal.WithLabelValues(string(doc.Type), "new").Inc()
	return &dto.DocumentResponse{Document: doc}, nil
}

func (s *documentService) CreateVersion(ctx context.Context, sess *types.Session, id string, req *dto.CreateVersionRequest) (*dto.DocumentResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	base, err := s.DocumentRepo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !base.Type.IsGeneratable() {
		return nil, ierr.NewErrorf("document type %q cannot be generated", base.Type).
			WithHint("Only generated documents can get a new version").
			Mark(ierr.ErrInvalidOperation)
	}

	latest, err := s.DocumentRepo.GetLatestVersion(ctx, sess, base.LogicalID)
	if err != nil {
		return nil, err
	}

	next := latest.NextVersion(sess)
	if req.Notes != nil {
		next.Notes = *req.Notes
	}
	if err := s.generate(ctx, sess, next, req.Values, req.Signatures); err != nil {
		return nil, err
	}

	documentsGeneratedTotal.WithLabelValues(string(next.Type), "version").Inc()
	return &dto.DocumentResponse{Document: next}, nil
}

func (s *documentService) ListVersions(ctx context.Context, sess *types.Session, id string) (*dto.ListDocumentsResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.DocumentRepo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	filter := types.NewDocumentFilter()
	filter.LogicalID = doc.LogicalID
	filter.Sort = lo.ToPtr("version")
	filter.Order = lo.ToPtr(types.OrderDesc)
	filter.PageSize = lo.ToPtr(types.FILTER_MAX_PAGE_SIZE)
	return s.ListDocuments(ctx, sess, filter)
}

func (s *documentService) DownloadDocument(ctx context.Context, sess *types.Session, id string) (*dto.DocumentDownload, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.DocumentRepo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireStorage(); err != nil {
		return nil, err
	}

	data, err := s.Storage.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, err
	}

	return &dto.DocumentDownload{
		FileName:    DownloadFileName(doc.Name, doc.Version, path.Ext(doc.StorageKey), doc.CreatedAt),
		ContentType: doc.ContentType,
		Data:        data,
	}, nil
}

// generate gates the input through the wizard, fills the active template,
// stores the PDF and writes the record.
func (s *documentService) generate(ctx context.Context, sess *types.Session, doc *document.Document, values map[string]string, signatures map[pdf.Overlay]string) error {
	wz, err := wizard.For(doc.Type)
	if err != nil {
		return err
	}
	if err := wz.Validate(values, signatures); err != nil {
		return err
	}

	layout, err := pdf.LayoutFor(doc.Type)
	if err != nil {
		return err
	}
	if err := s.requireStorage(); err != nil {
		return err
	}

	src, err := s.templates.Resolve(ctx, sess, doc.Type)
	if err != nil {
		return err
	}

	overlays := lo.PickBy(signatures, func(slot pdf.Overlay, dataURL string) bool {
		_, ok := layout.Overlays[slot]
		return ok && strings.TrimSpace(dataURL) != ""
	})

	res, err := s.Filler.Fill(ctx, pdf.FillRequest{
		TemplateKey: src.Key,
		TemplateURL: src.URL,
		Layout:      layout,
		Values:      values,
		Overlays:    overlays,
	})
	if err != nil {
		return err
	}

	// the wizard only checks the image header, the filler decodes the whole image
	for _, slot := range wz.Signatures() {
		if !res.Drew(slot) {
			return ierr.NewErrorf("required %s could not be drawn", slot).
				WithHint("Signature image could not be read").
				WithReportableDetails(map[string]interface{}{
					"document_type": doc.Type,
					"signature":     slot,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	data := res.Data
	doc.HasSignature = len(res.Overlays) > 0
	switch {
	case doc.HasSignature:
		doc.Status = types.DocumentStatusSigned
	case len(layout.Overlays) > 0:
		doc.Status = types.DocumentStatusPendingSignature
	default:
		doc.Status = types.DocumentStatusDraft
	}
	doc.ContentType = s3.ContentTypePDF
	doc.Size = int64(len(data))
	doc.StorageKey = s3.DocumentKey(s.Config.Storage, sess.TenantID, doc.ID, "pdf")
	if err := doc.Validate(); err != nil {
		return err
	}

	return s.store(ctx, sess, doc, data)
}

// store uploads the file and writes the record, removing the object again
// when the record cannot be written.
func (s *documentService) store(ctx context.Context, sess *types.Session, doc *document.Document, data []byte) error {
	url, err := s.Storage.Upload(ctx, &s3.Object{
		Key:         doc.StorageKey,
		Data:        data,
		ContentType: doc.ContentType,
	})
	if err != nil {
		return err
	}
	doc.FileURL = url

	if err := s.DocumentRepo.Create(ctx, sess, doc); err != nil {
		s.removeObject(ctx, doc.StorageKey)
		return err
	}

	s.Logger.Infow("document stored",
		"document_id", doc.ID,
		"logical_id", doc.LogicalID,
		"version", doc.Version,
		"type", doc.Type,
		"size", doc.Size,
		"owner_id", sess.UserID)
	return nil
}

var documentTitles = map[types.DocumentType]string{
	types.DocumentTypeRentalAgreement: "Rental agreement",
	types.DocumentTypeShowingForm:     "Showing form",
	types.DocumentTypeEvictionNotice:  "Eviction notice",
}

// defaultDocumentName titles a generated document after its main party
func defaultDocumentName(docType types.DocumentType, values map[string]string) string {
	title := lo.ValueOr(documentTitles, docType, string(docType))
	for _, key := range []string{"tenant_name", "customer_name", "landlord_name"} {
		if v := strings.TrimSpace(values[key]); v != "" {
			return title + " - " + v
		}
	}
	return title
}

// DownloadFileName derives the attachment name: the sanitized document name
// followed by _v<version>, or by the creation time when there is no version.
func DownloadFileName(name string, version int, ext string, createdAt time.Time) string {
	base := sanitizeFileName(name)
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "pdf"
	}
	if version > 0 {
		return fmt.Sprintf("%s_v%d.%s", base, version, ext)
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return fmt.Sprintf("%s_%s.%s", base, createdAt.UTC().Format("20060102-150405"), ext)
}

func sanitizeFileName(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "document"
	}
	return out
}
