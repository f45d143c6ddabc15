package testutil

import (
	"context"

	"github.com/brokerdesk/brokerdesk/internal/pdf"
	"github.com/stretchr/testify/mock"
)

// MockFiller is a testify mock of pdf.Filler
type MockFiller struct {
	mock.Mock
}

var _ pdf.Filler = (*MockFiller)(nil)

func (m *MockFiller) Fill(ctx context.Context, req pdf.FillRequest) (*pdf.FillResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(pdf.FillRequest) *pdf.FillResult); ok {
		return fn(req), args.Error(1)
	}
	return args.Get(0).(*pdf.FillResult), args.Error(1)
}
