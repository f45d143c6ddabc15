package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/brokerdesk/brokerdesk/internal/domain/customer"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/postgres"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/lib/pq"
)

const customerNotFound = "Customer not found"

var customerColumns = []string{
	"id", "tenant_id", "owner_id", "name", "email", "phone", "notes", "tags",
	"status", "role", "profile", "created_at", "updated_at", "created_by", "updated_by",
}

type customerRow struct {
	customer.Customer
	Tags    pq.StringArray `db:"tags"`
	Profile []byte         `db:"profile"`
}

func (r customerRow) toDomain() (*customer.Customer, error) {
	c := r.Customer
	c.Tags = []string(r.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	profile, err := customer.UnmarshalProfile(c.Role, r.Profile)
	if err != nil {
		return nil, err
	}
	c.Profile = profile
	return &c, nil
}

type customerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return &customerRepository{db: db, logger: logger}
}

func (r *customerRepository) Create(ctx context.Context, sess *types.Session, c *customer.Customer) error {
	profile, err := customer.MarshalProfile(c.Profile)
	if err != nil {
		return err
	}

	query, args, err := qb().Insert("customers").
		Columns(customerColumns...).
		Values(
			c.ID, sess.TenantID, sess.UserID, c.Name, c.Email, c.Phone, c.Notes, pq.Array(c.Tags),
			c.Status, c.Role, string(profile), c.CreatedAt, c.UpdatedAt, c.CreatedBy, c.UpdatedBy,
		).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("creating customer", "customer_id", c.ID, "role", c.Role, "tenant_id", sess.TenantID)

	_, err = r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	return postgres.WrapError(err, customerNotFound)
}

func (r *customerRepository) Get(ctx context.Context, sess *types.Session, id string) (*customer.Customer, error) {
	query, args, err := qb().Select(customerColumns...).
		From("customers").
		Where(sq.Eq{"id": id}).
		Where(ownedBy(sess)).
		ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var row customerRow
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, args...); err != nil {
		return nil, postgres.WrapError(err, customerNotFound)
	}
	return row.toDomain()
}

func (r *customerRepository) List(ctx context.Context, sess *types.Session, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	if filter == nil {
		filter = types.NewCustomerFilter()
	}

	b := r.applyFilter(qb().Select(customerColumns...).From("customers"), sess, filter)
	query, args, err := withPaging(b, filter.QueryFilter, types.CustomerSortFields).ToSql()
	if err != nil {
		return nil, buildError(err)
	}

	var rows []customerRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, postgres.WrapError(err, customerNotFound)
	}

	customers := make([]*customer.Customer, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context, sess *types.Session, filter *types.CustomerFilter) (int, error) {
	if filter == nil {
		filter = types.NewCustomerFilter()
	}

	query, args, err := r.applyFilter(qb().Select("COUNT(*)").From("customers"), sess, filter).ToSql()
	if err != nil {
		return 0, buildError(err)
	}

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, postgres.WrapError(err, customerNotFound)
	}
	return count, nil
}

func (r *customerRepository) Update(ctx context.Context, sess *types.Session, c *customer.Customer) error {
	profile, err := customer.MarshalProfile(c.Profile)
	if err != nil {
		return err
	}

	query, args, err := qb().Update("customers").
		SetMap(map[string]interface{}{
			"name":       c.Name,
			"email":      c.Email,
			"phone":      c.Phone,
			"notes":      c.Notes,
			"tags":       pq.Array(c.Tags),
			"status":     c.Status,
			"role":       c.Role,
			"profile":    string(profile),
			"updated_at": time.Now().UTC(),
			"updated_by": sess.UserID,
		}).
		Where(sq.Eq{"id": c.ID}).
		Where(ownedBy(sess)).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("updating customer", "customer_id", c.ID, "tenant_id", sess.TenantID)

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return postgres.WrapError(err, customerNotFound)
	}
	return expectAffected(res, customerNotFound)
}

func (r *customerRepository) Delete(ctx context.Context, sess *types.Session, id string) error {
	query, args, err := qb().Delete("customers").
		Where(sq.Eq{"id": id}).
		Where(ownedBy(sess)).
		ToSql()
	if err != nil {
		return buildError(err)
	}

	r.logger.Debugw("deleting customer", "customer_id", id, "tenant_id", sess.TenantID)

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return postgres.WrapError(err, customerNotFound)
	}
	return expectAffected(res, customerNotFound)
}

func (r *customerRepository) applyFilter(b sq.SelectBuilder, sess *types.Session, f *types.CustomerFilter) sq.SelectBuilder {
	b = b.Where(ownedBy(sess))

	if f.Search != "" {
		b = b.Where(searchAny(f.Search, "name", "notes", "email"))
	}
	if f.Role != "" {
		b = b.Where(sq.Eq{"role": f.Role})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if len(f.Tags) > 0 {
		b = b.Where(tagsOverlap(f.Tags))
	}
	return withTimeRange(b, f.TimeRangeFilter)
}
