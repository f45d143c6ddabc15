package pdf_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/httpclient"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/pdf"
	"github.com/brokerdesk/brokerdesk/internal/testutil"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateURL = "https://templates.test/kira.pdf"

func onePageTemplate(t *testing.T) []byte {
	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pdf.A4Width, Ht: pdf.A4Height},
	})
	doc.AddPage()
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestFillWithoutCacheFetchesEveryTime(t *testing.T) {
	client := testutil.NewMockHTTPClient()
	client.RegisterPDFResponse(templateURL, onePageTemplate(t))

	filler := pdf.NewFiller(client, nil, config.GetDefaultConfig(), logger.NewNopLogger())
	layout, err := pdf.LayoutFor(types.DocumentTypeRentalAgreement)
	require.NoError(t, err)

	req := pdf.FillRequest{
		TemplateKey: "tmpl_kira",
		TemplateURL: templateURL,
		Layout:      layout,
		Values:      map[string]string{"customer_name": "Ayşe Demir"},
	}

	for i := 0; i < 2; i++ {
		out, err := filler.Fill(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF")))
	}

	requests := client.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, http.MethodGet, requests[0].Method)
	assert.Equal(t, templateURL, requests[0].URL)
}

func TestFillEmbedsUnicodeFont(t *testing.T) {
	client := testutil.NewMockHTTPClient()
	client.RegisterPDFResponse(templateURL, onePageTemplate(t))

	filler := pdf.NewFiller(client, nil, config.GetDefaultConfig(), logger.NewNopLogger())
	layout, err := pdf.LayoutFor(types.DocumentTypeRentalAgreement)
	require.NoError(t, err)

	out, err := filler.Fill(context.Background(), pdf.FillRequest{
		TemplateKey: "tmpl_kira",
		TemplateURL: templateURL,
		Layout:      layout,
		Values:      map[string]string{"customer_name": "İsmail Şahin Doğruöz"},
	})
	require.NoError(t, err)

	// the template carries no text, so every font in the output is ours
	assert.Contains(t, string(out.Data), "/BaseFont /utf8dejavusanscondensed")
	assert.Contains(t, string(out.Data), "/Identity-H")
	assert.NotContains(t, string(out.Data), "/WinAnsiEncoding")
}

func TestFillRemoteRejection(t *testing.T) {
	client := testutil.NewMockHTTPClient()
	client.RegisterResponse(http.MethodGet, templateURL, &httpclient.Response{StatusCode: http.StatusForbidden})

	filler := pdf.NewFiller(client, nil, config.GetDefaultConfig(), logger.NewNopLogger())
	layout, err := pdf.LayoutFor(types.DocumentTypeShowingForm)
	require.NoError(t, err)

	_, err = filler.Fill(context.Background(), pdf.FillRequest{
		TemplateURL: templateURL,
		Layout:      layout,
	})
	require.Error(t, err)
	assert.True(t, ierr.IsHTTPClient(err))
}
