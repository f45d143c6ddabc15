package archive

import (
	"slices"
	"strings"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/samber/lo"
)

// SizeRange bounds the document size in bytes. The zero value and
// [0, MaxDocumentSize] both mean no bound.
type SizeRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// FullSizeRange is the inactive size range
func FullSizeRange() SizeRange {
	return SizeRange{Min: 0, Max: types.MaxDocumentSize}
}

func (r SizeRange) IsFull() bool {
	return r.Min <= 0 && (r.Max <= 0 || r.Max >= types.MaxDocumentSize)
}

// DateRange bounds created_at, both ends inclusive. Nil ends are open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

func (r DateRange) IsOpen() bool {
	return r.From == nil && r.To == nil
}

// Filter is the archive view's filter. It is a value: every With and Reset
// returns a new Filter and never touches the receiver.
type Filter struct {
	Search       string               `json:"search,omitempty"`
	Type         types.DocumentType   `json:"type,omitempty"`
	Status       types.DocumentStatus `json:"status,omitempty"`
	Department   string               `json:"department,omitempty"`
	Tags         []string             `json:"tags,omitempty"`
	HasSignature *bool                `json:"has_signature,omitempty"`
	Size         SizeRange            `json:"size"`
	Dates        DateRange            `json:"dates"`
}

// NewFilter returns a filter with every field inactive
func NewFilter() Filter {
	return Filter{Size: FullSizeRange()}
}

func (f Filter) WithSearch(s string) Filter {
	f.Search = s
	return f
}

func (f Filter) ResetSearch() Filter {
	f.Search = ""
	return f
}

func (f Filter) WithType(t types.DocumentType) Filter {
	f.Type = t
	return f
}

func (f Filter) ResetType() Filter {
	f.Type = ""
	return f
}

func (f Filter) WithStatus(s types.DocumentStatus) Filter {
	f.Status = s
	return f
}

func (f Filter) ResetStatus() Filter {
	f.Status = ""
	return f
}

func (f Filter) WithDepartment(d string) Filter {
	f.Department = d
	return f
}

func (f Filter) ResetDepartment() Filter {
	f.Department = ""
	return f
}

// WithTags replaces the tag set. Blank and duplicate tags are dropped.
func (f Filter) WithTags(tags ...string) Filter {
	out := lo.Uniq(lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	}))
	slices.Sort(out)
	if len(out) == 0 {
		out = nil
	}
	f.Tags = out
	return f
}

// WithTag adds one tag to the set
func (f Filter) WithTag(tag string) Filter {
	return f.WithTags(append(slices.Clone(f.Tags), tag)...)
}

// WithoutTag removes one tag from the set
func (f Filter) WithoutTag(tag string) Filter {
	return f.WithTags(lo.Without(f.Tags, tag)...)
}

func (f Filter) ResetTags() Filter {
	f.Tags = nil
	return f
}

func (f Filter) WithHasSignature(v bool) Filter {
	f.HasSignature = lo.ToPtr(v)
	return f
}

func (f Filter) ResetHasSignature() Filter {
	f.HasSignature = nil
	return f
}

// WithSize clamps the range to [0, MaxDocumentSize] and orders its ends
func (f Filter) WithSize(minSize, maxSize int64) Filter {
	minSize = max(0, min(minSize, types.MaxDocumentSize))
	maxSize = max(0, min(maxSize, types.MaxDocumentSize))
	if maxSize < minSize {
		minSize, maxSize = maxSize, minSize
	}
	f.Size = SizeRange{Min: minSize, Max: maxSize}
	return f
}

func (f Filter) ResetSize() Filter {
	f.Size = FullSizeRange()
	return f
}

// WithDates sets the created_at bounds. Either end may be nil.
func (f Filter) WithDates(from, to *time.Time) Filter {
	f.Dates = DateRange{From: copyTime(from), To: copyTime(to)}
	if f.Dates.From != nil && f.Dates.To != nil && f.Dates.To.Before(*f.Dates.From) {
		f.Dates.From, f.Dates.To = f.Dates.To, f.Dates.From
	}
	return f
}

func (f Filter) ResetDates() Filter {
	f.Dates = DateRange{}
	return f
}

// Reset returns the all-inactive filter
func (f Filter) Reset() Filter {
	return NewFilter()
}

// ActiveCount is the number of fields that currently narrow the result
func (f Filter) ActiveCount() int {
	active := []bool{
		strings.TrimSpace(f.Search) != "",
		f.Type != "",
		f.Status != "",
		strings.TrimSpace(f.Department) != "",
		len(f.Tags) > 0,
		f.HasSignature != nil,
		!f.Size.IsFull(),
		!f.Dates.IsOpen(),
	}
	return lo.Count(active, true)
}

// ToDocumentFilter converts the filter for the record service. Inactive
// fields stay unset.
func (f Filter) ToDocumentFilter(page, pageSize int) *types.DocumentFilter {
	df := types.NewDocumentFilter()
	if page > 0 {
		df.Page = lo.ToPtr(page)
	}
	if pageSize > 0 {
		df.PageSize = lo.ToPtr(pageSize)
	}

	df.Search = strings.TrimSpace(f.Search)
	df.Type = f.Type
	df.Status = f.Status
	df.Department = strings.TrimSpace(f.Department)
	df.Tags = slices.Clone(f.Tags)
	if f.HasSignature != nil {
		df.HasSignature = lo.ToPtr(*f.HasSignature)
	}
	if !f.Size.IsFull() {
		df.MinSize = lo.ToPtr(max(f.Size.Min, 0))
		maxSize := f.Size.Max
		if maxSize <= 0 {
			maxSize = types.MaxDocumentSize
		}
		df.MaxSize = lo.ToPtr(maxSize)
	}
	if !f.Dates.IsOpen() {
		df.TimeRangeFilter = &types.TimeRangeFilter{
			StartTime: copyTime(f.Dates.From),
			EndTime:   copyTime(f.Dates.To),
		}
	}
	return df
}

// FromDocumentFilter builds a Filter from a record filter, as parsed from
// query parameters.
func FromDocumentFilter(df *types.DocumentFilter) Filter {
	f := NewFilter()
	if df == nil {
		return f
	}
	f = f.WithSearch(df.Search).
		WithType(df.Type).
		WithStatus(df.Status).
		WithDepartment(df.Department).
		WithTags(df.Tags...)
	if df.HasSignature != nil {
		f = f.WithHasSignature(*df.HasSignature)
	}
	if df.MinSize != nil || df.MaxSize != nil {
		f = f.WithSize(lo.FromPtr(df.MinSize), lo.FromPtrOr(df.MaxSize, types.MaxDocumentSize))
	}
	if df.TimeRangeFilter != nil {
		f = f.WithDates(df.StartTime, df.EndTime)
	}
	return f
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
