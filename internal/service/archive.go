package service

import (
	"context"
	"strconv"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	"github.com/brokerdesk/brokerdesk/internal/archive"
	"github.com/brokerdesk/brokerdesk/internal/types"
	goCache "github.com/patrickmn/go-cache"
)

const archiveBrowserTTL = 30 * time.Minute

type ArchiveService interface {
	// Browse replaces the session's archive filter and re-queries
	Browse(ctx context.Context, sess *types.Session, filter archive.Filter, page, pageSize int) (*dto.ArchiveResponse, error)
}

type archiveBrowser = archive.Browser[*dto.ListDocumentsResponse]

type archiveService struct {
	ServiceParams
	documents DocumentService
	browsers  *goCache.Cache
}

func NewArchiveService(params ServiceParams, documents DocumentService) ArchiveService {
	return &archiveService{
		ServiceParams: params,
		documents:     documents,
		browsers:      goCache.New(archiveBrowserTTL, time.Hour),
	}
}

func (s *archiveService) Browse(ctx context.Context, sess *types.Session, filter archive.Filter, page, pageSize int) (*dto.ArchiveResponse, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	b := s.browser(sess, pageSize)
	res, err := b.ApplyPage(ctx, func(archive.Filter) archive.Filter { return filter }, page)
	if err != nil {
		return nil, err
	}

	if res.Stale {
		// a newer request from the same session owns the view
		s.Logger.Debugw("archive result overtaken", "user_id", sess.UserID, "seq", res.Seq)
	}

	list := res.Value
	if list == nil {
		list = &dto.ListDocumentsResponse{Items: []*dto.DocumentResponse{}}
	}
	return &dto.ArchiveResponse{
		ListDocumentsResponse: *list,
		Filter:                res.Filter,
		ActiveFilters:         res.Filter.ActiveCount(),
		Seq:                   res.Seq,
		Stale:                 res.Stale,
	}, nil
}

// browser returns the session's browser, creating it on first use
func (s *archiveService) browser(sess *types.Session, pageSize int) *archiveBrowser {
	key := sess.TenantID + ":" + sess.UserID + ":" + strconv.Itoa(pageSize)
	if b, ok := s.browsers.Get(key); ok {
		s.browsers.SetDefault(key, b)
		return b.(*archiveBrowser)
	}

	b := archive.NewBrowser(func(ctx context.Context, f *types.DocumentFilter) (*dto.ListDocumentsResponse, error) {
		return s.documents.ListDocuments(ctx, sess, f)
	}, pageSize)
	// a concurrent first request may have won, use whichever is stored
	if err := s.browsers.Add(key, b, goCache.DefaultExpiration); err != nil {
		if existing, ok := s.browsers.Get(key); ok {
			return existing.(*archiveBrowser)
		}
	}
	return b
}
