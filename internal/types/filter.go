package types

import (
	"time"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/samber/lo"
)

const (
	FILTER_DEFAULT_PAGE      = 1
	FILTER_DEFAULT_PAGE_SIZE = 20
	FILTER_MAX_PAGE_SIZE     = 100
	FILTER_DEFAULT_SORT      = "created_at"
	FILTER_DEFAULT_ORDER     = OrderDesc

	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// BaseFilter defines common paging and ordering capabilities
type BaseFilter interface {
	GetLimit() int
	GetOffset() int
	GetPage() int
	GetPageSize() int
	GetSort() string
	GetOrder() string
	Validate() error
}

// QueryFilter represents page based paging with optional ordering
type QueryFilter struct {
	Page     *int    `json:"page,omitempty" form:"page" validate:"omitempty,min=1"`
	PageSize *int    `json:"page_size,omitempty" form:"page_size" validate:"omitempty,min=1,max=100"`
	Sort     *string `json:"sort,omitempty" form:"sort"`
	Order    *string `json:"order,omitempty" form:"order" validate:"omitempty,oneof=asc desc"`
}

// NewDefaultQueryFilter returns the first page sorted by creation time, newest first
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Page:     lo.ToPtr(FILTER_DEFAULT_PAGE),
		PageSize: lo.ToPtr(FILTER_DEFAULT_PAGE_SIZE),
		Sort:     lo.ToPtr(FILTER_DEFAULT_SORT),
		Order:    lo.ToPtr(FILTER_DEFAULT_ORDER),
	}
}

func (f *QueryFilter) GetPage() int {
	if f == nil || f.Page == nil || *f.Page < 1 {
		return FILTER_DEFAULT_PAGE
	}
	return *f.Page
}

func (f *QueryFilter) GetPageSize() int {
	if f == nil || f.PageSize == nil || *f.PageSize < 1 {
		return FILTER_DEFAULT_PAGE_SIZE
	}
	return min(*f.PageSize, FILTER_MAX_PAGE_SIZE)
}

func (f *QueryFilter) GetLimit() int {
	return f.GetPageSize()
}

func (f *QueryFilter) GetOffset() int {
	return (f.GetPage() - 1) * f.GetPageSize()
}

func (f *QueryFilter) GetSort() string {
	if f == nil || f.Sort == nil || *f.Sort == "" {
		return FILTER_DEFAULT_SORT
	}
	return *f.Sort
}

func (f *QueryFilter) GetOrder() string {
	if f == nil || f.Order == nil || *f.Order == "" {
		return FILTER_DEFAULT_ORDER
	}
	return *f.Order
}

// Validate validates the paging fields
func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Page != nil && *f.Page < 1 {
		return ierr.NewError("page must be at least 1").
			WithHint("Page must be at least 1").
			Mark(ierr.ErrValidation)
	}
	if f.PageSize != nil && (*f.PageSize < 1 || *f.PageSize > FILTER_MAX_PAGE_SIZE) {
		return ierr.NewErrorf("page_size must be between 1 and %d", FILTER_MAX_PAGE_SIZE).
			WithHintf("Page size must be between 1 and %d", FILTER_MAX_PAGE_SIZE).
			Mark(ierr.ErrValidation)
	}
	if f.Order != nil && *f.Order != OrderAsc && *f.Order != OrderDesc {
		return ierr.NewError("order must be either 'asc' or 'desc'").
			WithHint("Order must be either 'asc' or 'desc'").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateSort rejects sort columns outside the allowed set
func (f *QueryFilter) ValidateSort(allowed ...string) error {
	if lo.Contains(allowed, f.GetSort()) {
		return nil
	}
	return ierr.NewErrorf("unsupported sort field %q", f.GetSort()).
		WithHintf("Sort must be one of %v", allowed).
		Mark(ierr.ErrValidation)
}

// TimeRangeFilter bounds created_at, both ends inclusive
type TimeRangeFilter struct {
	StartTime *time.Time `json:"start_time,omitempty" form:"start_time" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   *time.Time `json:"end_time,omitempty" form:"end_time" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Validate validates the time range filter
func (f *TimeRangeFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.StartTime != nil && f.EndTime != nil && f.EndTime.Before(*f.StartTime) {
		return ierr.NewError("end_time must be after start_time").
			WithHint("End time must be after start time").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Contains reports whether t falls inside the range, bounds included
func (f *TimeRangeFilter) Contains(t time.Time) bool {
	if f == nil {
		return true
	}
	if f.StartTime != nil && t.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && t.After(*f.EndTime) {
		return false
	}
	return true
}
