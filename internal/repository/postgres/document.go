package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/brokerdesk/brokerdesk/internal/domain/document"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/lib/pq"
)

const documentNotFound = "Document not found"

var documentColumns = []string{
	"id", "tenant_id", "owner_id", "logical_id", "version", "name", "type", "status",
	"department", "notes", "tags", "has_signature", "size", "content_type",
	"storage_key", "file_url", "customer_id", "property_id",
	"created_at", "updated_at", "created_by", "updated_by",
}

type documentRow struct {
	document.Document
	Tags pq.StringArray `db:"tags"`
}

func (r documentRow) toDomain() *document.Document {
	d := r.Document
	d.Tags = []string(r.Tags)
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return &d
}

type documentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewDocumentRepository(db *postgres.DB, logger *logger.Logger) document.Repository {
	return &documentRepository{db: db, logger: logger}
}

func (r *documentRepository) Create(ctx context.Context, sess *types.Session, d *document.Document) error {
	query, args, err := qb().Insert("documents").
		Columns(documentColumns...).
		Values(
			d.ID, sess.TenantID, sess.UserID, d.LogicalID, d.Version, d.Name, d.Type, d.Status,
			d.Department, d.Notes, pq.Array(d.Tags), d.HasSignature, d.Size, d.ContentType,
			d.StorageKey, d.FileURL, d.CustomerID, d.PropertyID,
			d.CreatedAt, d.UpdatedAt, d.CreatedBy, d.UpdatedBy,
		).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("creating document",
		"document_id", d.ID,
		"logical_id", d.LogicalID,
		"version", d.Version,
		"tenant_id", sess.TenantID,
	)

	if _, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Version %d of this document already exists", d.Version).
				WithReportableDetails(map[string]any{
					"logical_id": d.LogicalID,
					"version":    d.Version,
				}).
				Mark(ierr.ErrVersionConflict)
		}
		return postgres.WrapError(err, documentNotFound)
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, sess *types.Session, id string) (*document.Document, error) {
	query, args, err := qb().Select(documentColumns...).
		From("documents").
		Where(sq.Eq{"id": id}).
		Where(ownedBy(sess)).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var row documentRow
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, args...); err != nil {
		return nil, postgres.WrapError(err, documentNotFound)
	}
	return row.toDomain(), nil
}

func (r *documentRepository) List(ctx context.Context, sess *types.Session, filter *types.DocumentFilter) ([]*document.Document, error) {
	if filter == nil {
		filter = types.NewDocumentFilter()
	}

	b := r.applyFilter(qb().Select(documentColumns...).From("documents"), sess, filter)
	query, args, err := withPaging(b, filter.QueryFilter, types.DocumentSortFields).ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var rows []documentRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, postgres.WrapError(err, documentNotFound)
	}

	docs := make([]*document.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDomain())
	}
	return docs, nil
}

func (r *documentRepository) Count(ctx context.Context, sess *types.Session, filter *types.DocumentFilter) (int, error) {
	if filter == nil {
		filter = types.NewDocumentFilter()
	}

	query, args, err := r.applyFilter(qb().Select("COUNT(*)").From("documents"), sess, filter).ToSql()
	if err != nil {
		return 0, buildError(err)
	}

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, postgres.WrapError(err, documentNotFound)
	}
	return count, nil
}

// Update writes the mutable archive fields. The row must belong to the session.
func (r *documentRepository) Update(ctx context.Context, sess *types.Session, d *document.Document) error {
	query, args, err := qb().Update("documents").
		SetMap(map[string]interface{}{
			"name":          d.Name,
			"status":        d.Status,
			"department":    d.Department,
			"notes":         d.Notes,
			"tags":          pq.Array(d.Tags),
			"has_signature": d.HasSignature,
			"customer_id":   d.CustomerID,
			"property_id":   d.PropertyID,
			"updated_at":    time.Now().UTC(),
			"updated_by":    sess.UserID,
		}).
		Where(sq.Eq{"id": d.ID}).
		Where(ownedBy(sess)).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("updating document", "document_id", d.ID, "tenant_id", sess.TenantID)

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return postgres.WrapError(err, documentNotFound)
	}
	return expectAffected(res, documentNotFound)
}

func (r *documentRepository) Delete(ctx context.Context, sess *types.Session, id string) error {
	query, args, err := qb().Delete("documents").
		Where(sq.Eq{"id": id}).
		Where(ownedBy(sess)).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("deleting document", "document_id", id, "tenant_id", sess.TenantID)

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return postgres.WrapError(err, documentNotFound)
	}
	return expectAffected(res, documentNotFound)
}

func (r *documentRepository) GetLatestVersion(ctx context.Context, sess *types.Session, logicalID string) (*document.Document, error) {
	query, args, err := qb().Select(documentColumns...).
		From("documents").
		Where(sq.Eq{"logical_id": logicalID}).
		Where(ownedBy(sess)).
		OrderBy("version DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var row documentRow
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, args...); err != nil {
		return nil, postgres.WrapError(err, documentNotFound)
	}
	return row.toDomain(), nil
}

func (r *documentRepository) applyFilter(b sq.SelectBuilder, sess *types.Session, f *types.DocumentFilter) sq.SelectBuilder {
	b = b.Where(ownedBy(sess))

	if f.Search != "" {
		b = b.Where(searchAny(f.Search, "name", "notes"))
	}
	if f.Type != "" {
		b = b.Where(sq.Eq{"type": f.Type})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if f.Department != "" {
		b = b.Where(sq.Eq{"department": f.Department})
	}
	if len(f.Tags) > 0 {
		b = b.Where(tagsOverlap(f.Tags))
	}
	if f.HasSignature != nil {
		b = b.Where(sq.Eq{"has_signature": *f.HasSignature})
	}
	if f.MinSize != nil {
		b = b.Where(sq.GtOrEq{"size": *f.MinSize})
	}
	if f.MaxSize != nil {
		b = b.Where(sq.LtOrEq{"size": *f.MaxSize})
	}
	if f.LogicalID != "" {
		b = b.Where(sq.Eq{"logical_id": f.LogicalID})
	}
	return withTimeRange(b, f.TimeRangeFilter)
}
