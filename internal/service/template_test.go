package service

import (
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/testutil"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/stretchr/testify/suite"
)

type TemplateServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TemplateService
}

func TestTemplateService(t *testing.T) {
	suite.Run(t, new(TemplateServiceSuite))
}

func (s *TemplateServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
		s.GetLogger(), s.GetConfig(), s.GetDB(), s.GetFiller(), s.GetStorage(),
		stores.DocumentRepo, stores.CustomerRepo, stores.PropertyRepo, stores.TemplateRepo, stores.UserRepo,
	)
}

func (s *TemplateServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTemplateService(s.params())
}

func (s *TemplateServiceSuite) upload(kind types.DocumentType, name string) *dto.TemplateResponse {
	resp, err := s.service.UploadTemplate(s.GetContext(), s.GetSession(), &dto.UploadTemplateRequest{
		Kind:     kind,
		FileName: name,
		Data:     testPDF,
	})
	s.Require().NoError(err)
	return resp
}

func (s *TemplateServiceSuite) TestUploadStoresUnderTenant() {
	resp := s.upload(types.DocumentTypeShowingForm, "yer-gosterme.pdf")

	s.Equal("yer-gosterme.pdf", resp.Name)
	s.True(resp.Active)
	s.Equal(int64(len(testPDF)), resp.Size)
	s.Len(s.GetStorage().Keys("templates/"+testutil.TestTenantID+"/showing_form/"), 1)
}

func (s *TemplateServiceSuite) TestUploadRejectsNonPDF() {
	_, err := s.service.UploadTemplate(s.GetContext(), s.GetSession(), &dto.UploadTemplateRequest{
		Kind:     types.DocumentTypeShowingForm,
		FileName: "form.txt",
		Data:     []byte("plain text"),
	})
	s.True(ierr.IsValidation(err))

	_, err = s.service.UploadTemplate(s.GetContext(), s.GetSession(), &dto.UploadTemplateRequest{
		Kind: types.DocumentTypeOther,
		Data: testPDF,
	})
	s.True(ierr.IsValidation(err))
}

func (s *TemplateServiceSuite) TestNewestUploadIsActive() {
	first := s.upload(types.DocumentTypeRentalAgreement, "v1.pdf")
	second := s.upload(types.DocumentTypeRentalAgreement, "v2.pdf")
	eviction := s.upload(types.DocumentTypeEvictionNotice, "tahliye.pdf")

	list, err := s.service.ListTemplates(s.GetContext(), s.GetSession())
	s.Require().NoError(err)
	s.Require().Len(list.Items, 3)

	active := make(map[string]bool)
	for _, t := range list.Items {
		active[t.ID] = t.Active
	}
	s.False(active[first.ID])
	s.True(active[second.ID])
	s.True(active[eviction.ID])

	src, err := s.service.Resolve(s.GetContext(), s.GetSession(), types.DocumentTypeRentalAgreement)
	s.Require().NoError(err)
	s.Equal(second.ID, src.Key)
}

func (s *TemplateServiceSuite) TestTemplatesAreSharedWithinTenant() {
	tmpl := s.upload(types.DocumentTypeRentalAgreement, "kira.pdf")

	src, err := s.service.Resolve(s.GetContext(), s.GetOtherSession(), types.DocumentTypeRentalAgreement)
	s.Require().NoError(err)
	s.Equal(tmpl.ID, src.Key)

	foreign := types.NewSession("user_x", "tenant_other", "")
	_, err = s.service.Resolve(s.GetContext(), foreign, types.DocumentTypeRentalAgreement)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *TemplateServiceSuite) TestResolveFallsBackToConfiguredURL() {
	s.GetConfig().Templates.Fallback = map[string]string{
		string(types.DocumentTypeEvictionNotice): "https://templates.test/eviction.pdf",
	}

	src, err := s.service.Resolve(s.GetContext(), s.GetSession(), types.DocumentTypeEvictionNotice)
	s.Require().NoError(err)
	s.Equal("https://templates.test/eviction.pdf", src.URL)
	s.Equal("fallback:eviction_notice", src.Key)

	_, err = s.service.Resolve(s.GetContext(), s.GetSession(), types.DocumentTypeShowingForm)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *TemplateServiceSuite) TestUploadWithoutStorageFails() {
	params := s.params()
	params.Storage = nil

	_, err := NewTemplateService(params).UploadTemplate(s.GetContext(), s.GetSession(), &dto.UploadTemplateRequest{
		Kind: types.DocumentTypeRentalAgreement,
		Data: testPDF,
	})
	s.True(ierr.IsInvalidOperation(err))
}
