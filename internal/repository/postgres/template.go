package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/brokerdesk/brokerdesk/internal/domain/template"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

const templateNotFound = "No template has been uploaded for this document type"

var templateColumns = []string{
	"id", "tenant_id", "kind", "name", "storage_key", "url", "size", "created_at", "created_by",
}

type templateRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTemplateRepository(db *postgres.DB, logger *logger.Logger) template.Repository {
	return &templateRepository{db: db, logger: logger}
}

func (r *templateRepository) Create(ctx context.Context, t *template.Template) error {
	query, args, err := qb().Insert("templates").
		Columns(templateColumns...).
		Values(t.ID, t.TenantID, t.Kind, t.Name, t.StorageKey, t.URL, t.Size, t.CreatedAt, t.CreatedBy).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("creating template", "template_id", t.ID, "kind", t.Kind, "tenant_id", t.TenantID)

	_, err = r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	return postgres.WrapError(err, templateNotFound)
}

func (r *templateRepository) GetLatest(ctx context.Context, sess *types.Session, kind types.DocumentType) (*template.Template, error) {
	query, args, err := qb().Select(templateColumns...).
		From("templates").
		Where(sq.Eq{"tenant_id": sess.TenantID, "kind": kind}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var t template.Template
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &t, query, args...); err != nil {
		return nil, postgres.WrapError(err, templateNotFound)
	}
	return &t, nil
}

func (r *templateRepository) List(ctx context.Context, sess *types.Session) ([]*template.Template, error) {
	query, args, err := qb().Select(templateColumns...).
		From("templates").
		Where(sq.Eq{"tenant_id": sess.TenantID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var templates []*template.Template
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &templates, query, args...); err != nil {
		return nil, postgres.WrapError(err, templateNotFound)
	}
	return templates, nil
}
