package archive

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type BrowserSuite struct {
	suite.Suite
	ctx context.Context

	mu    sync.Mutex
	calls []*types.DocumentFilter
}

func TestBrowser(t *testing.T) {
	suite.Run(t, new(BrowserSuite))
}

func (s *BrowserSuite) SetupTest() {
	s.ctx = context.Background()
	s.calls = nil
}

func (s *BrowserSuite) record(_ context.Context, f *types.DocumentFilter) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, f)
	return f.Search, nil
}

func (s *BrowserSuite) TestApplyRequeries() {
	b := NewBrowser(s.record, 10)

	res, err := b.Apply(s.ctx, func(f Filter) Filter { return f.WithSearch("kira") })
	s.Require().NoError(err)
	s.False(res.Stale)
	s.Equal("kira", res.Value)
	s.Equal(1, res.Filter.ActiveCount())

	_, err = b.SetPage(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal(3, s.calls[1].GetPage())

	// a filter change returns to the first page
	_, err = b.Apply(s.ctx, Filter.ResetSearch)
	s.Require().NoError(err)
	s.Len(s.calls, 3)
	s.Equal(1, s.calls[2].GetPage())
	s.Equal(10, s.calls[2].GetPageSize())

	latest, ok := b.Latest()
	s.True(ok)
	s.Equal(uint64(3), latest.Seq)
	s.Equal(0, b.Filter().ActiveCount())
}

func (s *BrowserSuite) TestOvertakenQueryIsStale() {
	release := make(chan struct{})
	started := make(chan struct{})

	b := NewBrowser(func(ctx context.Context, f *types.DocumentFilter) (string, error) {
		if f.Search == "slow" {
			close(started)
			<-release
		}
		return f.Search, nil
	}, 10)

	var slow Result[string]
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow, _ = b.Apply(s.ctx, func(f Filter) Filter { return f.WithSearch("slow") })
	}()
	<-started

	fast, err := b.Apply(s.ctx, func(f Filter) Filter { return f.WithSearch("fast") })
	s.Require().NoError(err)
	s.False(fast.Stale)

	close(release)
	wg.Wait()

	s.True(slow.Stale)
	latest, ok := b.Latest()
	s.True(ok)
	s.Equal("fast", latest.Value)
}

func (s *BrowserSuite) TestErrorKeepsPreviousResult() {
	fail := false
	b := NewBrowser(func(ctx context.Context, f *types.DocumentFilter) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "ok", nil
	}, 0)

	_, err := b.Refresh(s.ctx)
	s.Require().NoError(err)

	fail = true
	_, err = b.Apply(s.ctx, func(f Filter) Filter { return f.WithType(types.DocumentTypeOther) })
	s.Error(err)

	latest, _ := b.Latest()
	s.Equal("ok", latest.Value)
	s.Equal(1, b.Filter().ActiveCount())
}
