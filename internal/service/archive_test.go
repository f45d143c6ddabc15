package service

import (
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	"github.com/brokerdesk/brokerdesk/internal/archive"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/testutil"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type ArchiveServiceSuite struct {
	testutil.BaseServiceTestSuite
	documents DocumentService
	service   ArchiveService
}

func TestArchiveService(t *testing.T) {
	suite.Run(t, new(ArchiveServiceSuite))
}

func (s *ArchiveServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	params := NewServiceParams(
		s.GetLogger(), s.GetConfig(), s.GetDB(), s.GetFiller(), s.GetStorage(),
		stores.DocumentRepo, stores.CustomerRepo, stores.PropertyRepo, stores.TemplateRepo, stores.UserRepo,
	)
	s.documents = NewDocumentService(params)
	s.service = NewArchiveService(params, s.documents)

	for _, up := range []struct {
		name, dept string
		tags       []string
	}{
		{"tapu.pdf", "sales", []string{"tapu"}},
		{"kira.pdf", "rentals", []string{"kira", "2024"}},
		{"aidat.pdf", "rentals", []string{"2024"}},
	} {
		_, err := s.documents.UploadDocument(s.GetContext(), s.GetSession(), &dto.UploadDocumentRequest{
			FileName:   up.name,
			Department: up.dept,
			Tags:       up.tags,
			Data:       testPDF,
		})
		s.Require().NoError(err)
	}
}

func (s *ArchiveServiceSuite) TestEmptyFilterShowsEverything() {
	resp, err := s.service.Browse(s.GetContext(), s.GetSession(), archive.NewFilter(), 1, 20)
	s.Require().NoError(err)
	s.Len(resp.Items, 3)
	s.Zero(resp.ActiveFilters)
	s.False(resp.Stale)
}

func (s *ArchiveServiceSuite) TestFilterNarrowsAndCounts() {
	f := archive.NewFilter().WithDepartment("rentals").WithTags("kira", "2024")

	resp, err := s.service.Browse(s.GetContext(), s.GetSession(), f, 1, 20)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 2, "tags match any")
	s.Equal(2, resp.ActiveFilters)
	s.Equal("rentals", resp.Filter.Department)

	resp, err = s.service.Browse(s.GetContext(), s.GetSession(), f.WithSearch("KIRA"), 1, 20)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal("kira.pdf", resp.Items[0].Name)
	s.Equal(3, resp.ActiveFilters)
}

func (s *ArchiveServiceSuite) TestSequenceGrowsPerSession() {
	first, err := s.service.Browse(s.GetContext(), s.GetSession(), archive.NewFilter(), 1, 20)
	s.Require().NoError(err)
	second, err := s.service.Browse(s.GetContext(), s.GetSession(), archive.NewFilter().WithType(types.DocumentTypeOther), 1, 20)
	s.Require().NoError(err)
	s.Greater(second.Seq, first.Seq)

	// another agent has a browser of their own
	other, err := s.service.Browse(s.GetContext(), s.GetOtherSession(), archive.NewFilter(), 1, 20)
	s.Require().NoError(err)
	s.Empty(other.Items)
	s.Equal(first.Seq, other.Seq)
}

func (s *ArchiveServiceSuite) TestPaging() {
	resp, err := s.service.Browse(s.GetContext(), s.GetSession(), archive.NewFilter(), 2, 2)
	s.Require().NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(3, resp.Pagination.Total)
	s.Equal(2, resp.Pagination.Page)
	s.Equal(2, resp.Pagination.PageCount)
}

func (s *ArchiveServiceSuite) TestRequiresSession() {
	_, err := s.service.Browse(s.GetContext(), nil, archive.NewFilter(), 1, 20)
	s.True(ierr.IsUnauthenticated(err))
}
