package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/brokerdesk/brokerdesk/internal/domain/property"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/lib/pq"
)

const propertyNotFound = "Property not found"

var propertyColumns = []string{
	"id", "tenant_id", "owner_id", "title", "type", "listing_type", "address", "city",
	"district", "price", "currency", "area_sqm", "rooms", "notes", "tags", "status",
	"created_at", "updated_at", "created_by", "updated_by",
}

type propertyRow struct {
	property.Property
	Tags pq.StringArray `db:"tags"`
}

func (r propertyRow) toDomain() *property.Property {
	p := r.Property
	p.Tags = []string(r.Tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p
}

type propertyRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPropertyRepository(db *postgres.DB, logger *logger.Logger) property.Repository {
	return &propertyRepository{db: db, logger: logger}
}

func (r *propertyRepository) Create(ctx context.Context, sess *types.Session, p *property.Property) error {
	query, args, err := qb().Insert("properties").
		Columns(propertyColumns...).
		Values(
			p.ID, sess.TenantID, sess.UserID, p.Title, p.Type, p.ListingType, p.Address, p.City,
			p.District, p.Price, p.Currency, p.AreaSqm, p.Rooms, p.Notes, pq.Array(p.Tags), p.Status,
			p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
		).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("creating property", "property_id", p.ID, "tenant_id", sess.TenantID)

	_, err = r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	return postgres.WrapError(err, propertyNotFound)
}

func (r *propertyRepository) Get(ctx context.Context, sess *types.Session, id string) (*property.Property, error) {
	query, args, err := qb().Select(propertyColumns...).
		From("properties").
		Where(sq.Eq{"id": id}).
		Where(ownedBy(sess)).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var row propertyRow
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, args...); err != nil {
		return nil, postgres.WrapError(err, propertyNotFound)
	}
	return row.toDomain(), nil
}

func (r *propertyRepository) List(ctx context.Context, sess *types.Session, filter *types.PropertyFilter) ([]*property.Property, error) {
	if filter == nil {
		filter = types.NewPropertyFilter()
	}

	b := r.applyFilter(qb().Select(propertyColumns...).From("properties"), sess, filter)
	query, args, err := withPaging(b, filter.QueryFilter, types.PropertySortFields).ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var rows []propertyRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, postgres.WrapError(err, propertyNotFound)
	}

	properties := make([]*property.Property, 0, len(rows))
	for _, row := range rows {
		properties = append(properties, row.toDomain())
	}
	return properties, nil
}

func (r *propertyRepository) Count(ctx context.Context, sess *types.Session, filter *types.PropertyFilter) (int, error) {
	if filter == nil {
		filter = types.NewPropertyFilter()
	}

	query, args, err := r.applyFilter(qb().Select("COUNT(*)").From("properties"), sess, filter).ToSql()
	if err != nil {
		return 0, buildError(err)
	}

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, postgres.WrapError(err, propertyNotFound)
	}
	return count, nil
}

func (r *propertyRepository) Update(ctx context.Context, sess *types.Session, p *property.Property) error {
	query, args, err := qb().Update("properties").
		SetMap(map[string]interface{}{
			"title":        p.Title,
			"type":         p.Type,
			"listing_type": p.ListingType,
			"address":      p.Address,
			"city":         p.City,
			"district":     p.District,
			"price":        p.Price,
			"currency":     p.Currency,
			"area_sqm":     p.AreaSqm,
			"rooms":        p.Rooms,
			"notes":        p.Notes,
			"tags":         pq.Array(p.Tags),
			"status":       p.Status,
			"updated_at":   time.Now().UTC(),
			"updated_by":   sess.UserID,
		}).
		Where(sq.Eq{"id": p.ID}).
		Where(ownedBy(sess)).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("updating property", "property_id", p.ID, "tenant_id", sess.TenantID)

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return postgres.WrapError(err, propertyNotFound)
	}
	return expectAffected(res, propertyNotFound)
}

func (r *propertyRepository) Delete(ctx context.Context, sess *types.Session, id string) error {
	query, args, err := qb().Delete("properties").
		Where(sq.Eq{"id": id}).
		Where(ownedBy(sess)).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("deleting property", "property_id", id, "tenant_id", sess.TenantID)

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return postgres.WrapError(err, propertyNotFound)
	}
	return expectAffected(res, propertyNotFound)
}

func (r *propertyRepository) applyFilter(b sq.SelectBuilder, sess *types.Session, f *types.PropertyFilter) sq.SelectBuilder {
	b = b.Where(ownedBy(sess))

	if f.Search != "" {
		b = b.Where(searchAny(f.Search, "title", "notes", "address"))
	}
	if f.Type != "" {
		b = b.Where(sq.Eq{"type": f.Type})
	}
	if f.ListingType != "" {
		b = b.Where(sq.Eq{"listing_type": f.ListingType})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if f.City != "" {
		b = b.Where(sq.ILike{"city": likeEscaper.Replace(f.City)})
	}
	if len(f.Tags) > 0 {
		b = b.Where(tagsOverlap(f.Tags))
	}
	if f.MinPrice != nil {
		b = b.Where(sq.GtOrEq{"price": *f.MinPrice})
	}
	if f.MaxPrice != nil {
		b = b.Where(sq.LtOrEq{"price": *f.MaxPrice})
	}
	return withTimeRange(b, f.TimeRangeFilter)
}
