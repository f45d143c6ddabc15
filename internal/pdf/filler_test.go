package pdf

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/cache"
	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/httpclient"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/signature"
	"github.com/cockroachdb/errors"
	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/suite"
)

type FillerSuite struct {
	suite.Suite
	ctx      context.Context
	template []byte
	server   *httptest.Server
	hits     atomic.Int32
	filler   Filler
}

func TestFiller(t *testing.T) {
	suite.Run(t, new(FillerSuite))
}

func (s *FillerSuite) SetupSuite() {
	s.template = blankTemplate(s.T())
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		switch r.URL.Path {
		case "/template.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(s.template)
		case "/not-a-pdf":
			_, _ = w.Write([]byte("hello"))
		default:
			http.NotFound(w, r)
		}
	}))
}

func (s *FillerSuite) TearDownSuite() {
	s.server.Close()
}

func (s *FillerSuite) SetupTest() {
	s.ctx = context.Background()
	s.hits.Store(0)

	cfg := config.GetDefaultConfig()
	log := logger.NewNopLogger()
	s.filler = NewFiller(
		httpclient.NewDefaultClient(cfg, log),
		cache.NewInMemoryCache(cfg.Cache),
		cfg,
		log,
	)
}

func blankTemplate(t *testing.T) []byte {
	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: A4Width, Ht: A4Height},
	})
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.Text(60, 80, "Kira Sozlesmesi")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("template: %v", err)
	}
	return buf.Bytes()
}

func (s *FillerSuite) layout() *Layout {
	l := testLayout()
	l.Overlays = map[Overlay]Rect{
		OverlayCustomerSignature: {X: 60, Y: 700, W: 180, H: 60},
		OverlayAgentSignature:    {X: 355, Y: 700, W: 180, H: 60},
	}
	return l
}

func (s *FillerSuite) request(values map[string]string) FillRequest {
	return FillRequest{
		TemplateKey: "tmpl_test",
		TemplateURL: s.server.URL + "/template.pdf",
		Layout:      s.layout(),
		Values:      values,
	}
}

func (s *FillerSuite) TestFillProducesLargerPDF() {
	out, err := s.filler.Fill(s.ctx, s.request(map[string]string{
		"name": "Ahmet Yılmaz",
		"date": "2024-01-01",
	}))
	s.Require().NoError(err)
	s.True(bytes.HasPrefix(out.Data, []byte("%PDF")))
	s.Greater(len(out.Data), len(s.template))
	s.Empty(out.Overlays)
}

func (s *FillerSuite) TestFillCachesTemplateByKey() {
	req := s.request(map[string]string{"name": "a"})
	_, err := s.filler.Fill(s.ctx, req)
	s.Require().NoError(err)

	// a different url under the same key is served from the cache
	req.TemplateURL = s.server.URL + "/moved.pdf"
	_, err = s.filler.Fill(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(int32(1), s.hits.Load())
}

func (s *FillerSuite) TestFillWithSignatureOverlays() {
	sig, err := signature.Render(300, 100, []signature.Stroke{
		{{X: 10, Y: 10}, {X: 120, Y: 60}, {X: 250, Y: 20}},
	})
	s.Require().NoError(err)

	plain, err := s.filler.Fill(s.ctx, s.request(map[string]string{"name": "a"}))
	s.Require().NoError(err)

	req := s.request(map[string]string{"name": "a"})
	req.Overlays = map[Overlay]string{
		OverlayCustomerSignature: sig,
		OverlayAgentSignature:    sig,
	}
	signed, err := s.filler.Fill(s.ctx, req)
	s.Require().NoError(err)
	s.Greater(len(signed.Data), len(plain.Data))
	s.ElementsMatch([]Overlay{OverlayCustomerSignature, OverlayAgentSignature}, signed.Overlays)
}

func (s *FillerSuite) TestBrokenOverlayIsSkipped() {
	req := s.request(map[string]string{"name": "a"})
	req.Overlays = map[Overlay]string{
		OverlayCustomerSignature: "data:image/png;base64,bm90IGFuIGltYWdl",
	}
	out, err := s.filler.Fill(s.ctx, req)
	s.Require().NoError(err)
	s.True(bytes.HasPrefix(out.Data, []byte("%PDF")))
	s.Empty(out.Overlays)
}

func (s *FillerSuite) TestOnlyDrawnOverlaysAreReported() {
	sig, err := signature.Render(300, 100, []signature.Stroke{
		{{X: 10, Y: 10}, {X: 250, Y: 80}},
	})
	s.Require().NoError(err)

	req := s.request(map[string]string{"name": "a"})
	req.Overlays = map[Overlay]string{
		OverlayCustomerSignature: sig,
		OverlayAgentSignature:    "data:image/png;base64,bm90IGFuIGltYWdl",
	}
	out, err := s.filler.Fill(s.ctx, req)
	s.Require().NoError(err)
	s.Equal([]Overlay{OverlayCustomerSignature}, out.Overlays)
	s.True(out.Drew(OverlayCustomerSignature))
	s.False(out.Drew(OverlayAgentSignature))
}

func (s *FillerSuite) TestOverflowAddsPage() {
	short, err := s.filler.Fill(s.ctx, s.request(map[string]string{"notes": "kisa"}))
	s.Require().NoError(err)

	long := bytes.Repeat([]byte("uzun bir not satiri "), 200)
	out, err := s.filler.Fill(s.ctx, s.request(map[string]string{"notes": string(long)}))
	s.Require().NoError(err)
	s.Greater(len(out.Data), len(short.Data))
}

func (s *FillerSuite) TestFillWrapsTextOutsideBMP() {
	notes := strings.Repeat("anahtar teslim 🔑 ", 60)
	out, err := s.filler.Fill(s.ctx, s.request(map[string]string{"name": "Şule Ağaoğlu", "notes": notes}))
	s.Require().NoError(err)
	s.True(bytes.HasPrefix(out.Data, []byte("%PDF")))
}

func (s *FillerSuite) TestBodyValuesKeepTurkishLetters() {
	got := bodyValues(map[string]string{"name": "İğneli Şık", "notes": "ok 🔑"})
	s.Equal("İğneli Şık", got["name"])
	s.Equal("ok \uFFFD", got["notes"])
}

func (s *FillerSuite) TestFetchFailure() {
	req := s.request(nil)
	req.TemplateKey = "tmpl_missing"
	req.TemplateURL = s.server.URL + "/missing.pdf"

	_, err := s.filler.Fill(s.ctx, req)
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))
	s.Contains(errors.GetAllHints(err), hintGenerationFailed)
}

func (s *FillerSuite) TestNonPDFTemplateFails() {
	req := s.request(nil)
	req.TemplateKey = "tmpl_text"
	req.TemplateURL = s.server.URL + "/not-a-pdf"

	_, err := s.filler.Fill(s.ctx, req)
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))
}

func (s *FillerSuite) TestOverlaySlotMustExist() {
	req := s.request(nil)
	req.Layout.Overlays = map[Overlay]Rect{}
	req.Overlays = map[Overlay]string{OverlayAgentSignature: "data:image/png;base64,AA=="}

	_, err := s.filler.Fill(s.ctx, req)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal(int32(0), s.hits.Load())
}
