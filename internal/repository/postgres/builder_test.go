package postgres

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchAnyEscapesWildcards(t *testing.T) {
	sql, args, err := searchAny("50%_off", "name", "notes").ToSql()
	require.NoError(t, err)

	assert.Equal(t, "(name ILIKE ? OR notes ILIKE ?)", sql)
	assert.Equal(t, []interface{}{`%50\%\_off%`, `%50\%\_off%`}, args)
}

func TestDocumentFilterQuery(t *testing.T) {
	sess := types.NewSession("user_1", "tenant_1", "")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	filter := types.NewDocumentFilter()
	filter.Type = types.DocumentTypeRentalAgreement
	filter.Tags = []string{"urgent"}
	filter.HasSignature = lo.ToPtr(true)
	filter.TimeRangeFilter = &types.TimeRangeFilter{StartTime: &start}

	repo := &documentRepository{}
	b := repo.applyFilter(qb().Select("id").From("documents"), sess, filter)
	sql, args, err := withPaging(b, filter.QueryFilter, types.DocumentSortFields).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "owner_id = $")
	assert.Contains(t, sql, "tenant_id = $")
	assert.Contains(t, sql, "type = $")
	assert.Contains(t, sql, "tags && $")
	assert.Contains(t, sql, "has_signature = $")
	assert.Contains(t, sql, "created_at >= $")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC LIMIT 20 OFFSET 0")
	assert.Contains(t, args, "user_1")
	assert.Contains(t, args, "tenant_1")
}

func TestWithPagingFallsBackOnUnknownSort(t *testing.T) {
	f := &types.QueryFilter{
		Page:     lo.ToPtr(3),
		PageSize: lo.ToPtr(10),
		Sort:     lo.ToPtr("name; DROP TABLE documents"),
		Order:    lo.ToPtr(types.OrderAsc),
	}

	sql, _, err := withPaging(sq.Select("id").From("documents"), f, types.DocumentSortFields).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM documents ORDER BY created_at ASC, id ASC LIMIT 10 OFFSET 20", sql)
}
