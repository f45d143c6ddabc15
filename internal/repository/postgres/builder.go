package postgres

import (
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

// qb returns a statement builder using postgres placeholders
func qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// ownedBy scopes a statement to the session's tenant and owner
func ownedBy(sess *types.Session) sq.Eq {
	return sq.Eq{
		"tenant_id": sess.TenantID,
		"owner_id":  sess.UserID,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchAny matches term as a case-insensitive substring of any of the columns
func searchAny(term string, columns ...string) sq.Sqlizer {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
	or := sq.Or{}
	for _, col := range columns {
		or = append(or, sq.ILike{col: pattern})
	}
	return or
}

// tagsOverlap matches rows carrying at least one of the tags
func tagsOverlap(tags []string) sq.Sqlizer {
	return sq.Expr("tags && ?", pq.Array(tags))
}

func withTimeRange(b sq.SelectBuilder, tr *types.TimeRangeFilter) sq.SelectBuilder {
	if tr == nil {
		return b
	}
	if tr.StartTime != nil {
		b = b.Where(sq.GtOrEq{"created_at": *tr.StartTime})
	}
	if tr.EndTime != nil {
		b = b.Where(sq.LtOrEq{"created_at": *tr.EndTime})
	}
	return b
}

// withPaging applies ordering and limits. Sort columns are checked against
// the allowed set so user input never reaches the ORDER BY clause unchecked.
func withPaging(b sq.SelectBuilder, f *types.QueryFilter, allowed []string) sq.SelectBuilder {
	sort := f.GetSort()
	if !lo.Contains(allowed, sort) {
		sort = types.FILTER_DEFAULT_SORT
	}
	order := "DESC"
	if f.GetOrder() == types.OrderAsc {
		order = "ASC"
	}
	return b.
		OrderBy(sort+" "+order, "id "+order).
		Limit(uint64(f.GetLimit())).
		Offset(uint64(f.GetOffset()))
}

// expectAffected turns a write that matched nothing into not found
func expectAffected(res sql.Result, hint string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if n == 0 {
		return ierr.NewError("no rows affected").
			WithHint(hint).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func buildError(err error) error {
	return ierr.WithError(err).
		WithHint("Failed to build query").
		Mark(ierr.ErrSystem)
}
