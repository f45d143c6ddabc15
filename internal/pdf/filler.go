package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sort"

	"github.com/brokerdesk/brokerdesk/internal/cache"
	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/httpclient"
	"github.com/brokerdesk/brokerdesk/internal/logger"
	"github.com/brokerdesk/brokerdesk/internal/signature"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	"github.com/h2non/filetype"
	"github.com/sourcegraph/conc"
)

const hintGenerationFailed = "The document could not be generated"

// FillRequest is everything needed to produce one document
type FillRequest struct {
	// TemplateKey identifies the template bytes in the cache. Presigned URLs
	// change per request, the key does not.
	TemplateKey string
	TemplateURL string
	Layout      *Layout
	Values      map[string]string
	// Overlays maps a slot to an image data URL
	Overlays map[Overlay]string
}

func (r *FillRequest) Validate() error {
	if r.TemplateURL == "" {
		return ierr.NewError("template url is required").
			WithHint("No template is available for this document type").
			Mark(ierr.ErrValidation)
	}
	if err := r.Layout.Validate(); err != nil {
		return err
	}
	for slot := range r.Overlays {
		if _, ok := r.Layout.Overlays[slot]; !ok {
			return ierr.NewErrorf("layout %s has no %s slot", r.Layout.Kind, slot).
				WithHintf("This document type does not take a %s", slot).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// FillResult is a generated document.
type FillResult struct {
	Data []byte
	// Overlays lists the slots that were drawn. Overlays that failed to
	// decode or render are missing even when they were requested.
	Overlays []Overlay
}

// Drew reports whether slot was drawn
func (r *FillResult) Drew(slot Overlay) bool {
	for _, o := range r.Overlays {
		if o == slot {
			return true
		}
	}
	return false
}

// Filler composes field values and signature overlays onto a PDF template
type Filler interface {
	Fill(ctx context.Context, req FillRequest) (*FillResult, error)
}

type filler struct {
	client httpclient.Client
	cache  cache.Cache
	cfg    config.PDFConfig
	ttl    config.CacheConfig
	logger *logger.Logger
}

// NewFiller creates a Filler. cache may be nil.
func NewFiller(client httpclient.Client, c cache.Cache, cfg *config.Configuration, log *logger.Logger) Filler {
	return &filler{
		client: client,
		cache:  c,
		cfg:    cfg.PDF,
		ttl:    cfg.Cache,
		logger: log,
	}
}

type decodedOverlay struct {
	slot      Overlay
	data      []byte
	imageType string
}

func (f *filler) Fill(ctx context.Context, req FillRequest) (*FillResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		tpl      []byte
		fetchErr error
		overlays []decodedOverlay
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		tpl, fetchErr = f.template(ctx, req)
	})
	wg.Go(func() {
		overlays = f.decodeOverlays(req)
	})
	wg.Wait()

	if fetchErr != nil {
		fillsTotal.WithLabelValues(string(req.Layout.Kind), "fetch_failed").Inc()
		return nil, fetchErr
	}

	res, err := f.render(req, tpl, overlays)
	if err != nil {
		fillsTotal.WithLabelValues(string(req.Layout.Kind), "render_failed").Inc()
		return nil, err
	}

	fillsTotal.WithLabelValues(string(req.Layout.Kind), "ok").Inc()
	f.logger.Debugw("filled template",
		"type", req.Layout.Kind,
		"template_key", req.TemplateKey,
		"fields", len(req.Values),
		"overlays", len(res.Overlays),
		"size", len(res.Data))
	return res, nil
}

// template returns the template bytes, from the cache when possible
func (f *filler) template(ctx context.Context, req FillRequest) ([]byte, error) {
	key := req.TemplateKey
	if key == "" {
		key = req.TemplateURL
	}
	cacheKey := cache.GenerateKey(cache.PrefixTemplate, key)

	if f.cache != nil {
		if data, ok := f.cache.Get(ctx, cacheKey); ok {
			templateCacheTotal.WithLabelValues("hit").Inc()
			return data, nil
		}
		templateCacheTotal.WithLabelValues("miss").Inc()
	}

	resp, err := f.client.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    req.TemplateURL,
	})
	if err != nil {
		f.logger.Errorw("template fetch failed", "template_key", req.TemplateKey, "error", err)
		// a fresh error so the display hint is ours, not the transport's
		return nil, ierr.NewErrorf("fetch template: %v", err).
			WithHint(hintGenerationFailed).
			WithReportableDetails(map[string]interface{}{"template_key": req.TemplateKey}).
			Mark(ierr.ErrHTTPClient)
	}

	if !filetype.Is(resp.Body, "pdf") {
		return nil, ierr.NewError("template is not a pdf").
			WithHint(hintGenerationFailed).
			WithReportableDetails(map[string]interface{}{"template_key": req.TemplateKey}).
			Mark(ierr.ErrHTTPClient)
	}

	if f.cache != nil {
		f.cache.Set(ctx, cacheKey, resp.Body, f.ttl.TTL)
	}
	return resp.Body, nil
}

// decodeOverlays decodes every overlay it can. Broken ones are logged,
// counted and dropped.
func (f *filler) decodeOverlays(req FillRequest) []decodedOverlay {
	slots := make([]Overlay, 0, len(req.Overlays))
	for slot := range req.Overlays {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	out := make([]decodedOverlay, 0, len(slots))
	for _, slot := range slots {
		dataURL := req.Overlays[slot]
		if dataURL == "" {
			continue
		}
		data, mime, err := signature.DecodeDataURL(dataURL)
		if err == nil {
			_, _, err = image.DecodeConfig(bytes.NewReader(data))
		}
		if err != nil {
			f.overlayFailed(slot, err)
			continue
		}
		imageType := "PNG"
		if mime == signature.MimeJPEG {
			imageType = "JPG"
		}
		out = append(out, decodedOverlay{slot: slot, data: data, imageType: imageType})
	}
	return out
}

func (f *filler) overlayFailed(slot Overlay, err error) {
	overlayFailuresTotal.WithLabelValues(string(slot)).Inc()
	f.logger.Warnw("skipping signature overlay", "overlay", slot, "error", err)
}

func (f *filler) render(req FillRequest, tpl []byte, overlays []decodedOverlay) (*FillResult, error) {
	layout := req.Layout

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, layout.TopMargin, 0)
	doc.AddPage()

	if err := importBackground(doc, tpl, layout); err != nil {
		return nil, ierr.WithError(err).
			WithHint(hintGenerationFailed).
			WithReportableDetails(map[string]interface{}{"template_key": req.TemplateKey}).
			Mark(ierr.ErrHTTPClient)
	}

	size := layout.FontSize
	if f.cfg.FontSize > 0 {
		size = f.cfg.FontSize
	}
	useBodyFont(doc, size)
	doc.SetTextColor(0, 0, 0)
	if !doc.Ok() {
		return nil, ierr.WithError(doc.Error()).
			WithHint(hintGenerationFailed).
			Mark(ierr.ErrSystem)
	}

	compose(doc, layout, bodyValues(req.Values))

	drawn := make([]Overlay, 0, len(overlays))
	doc.SetPage(1)
	for _, o := range overlays {
		rect := layout.Overlays[o.slot]
		name := fmt.Sprintf("overlay-%s", o.slot)
		opts := fpdf.ImageOptions{ImageType: o.imageType}

		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(o.data))
		if doc.Ok() {
			doc.ImageOptions(name, rect.X, rect.Y, rect.W, rect.H, false, opts, 0, "")
		}
		if !doc.Ok() {
			f.overlayFailed(o.slot, doc.Error())
			doc.ClearError()
			continue
		}
		drawn = append(drawn, o.slot)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint(hintGenerationFailed).
			Mark(ierr.ErrSystem)
	}
	return &FillResult{Data: buf.Bytes(), Overlays: drawn}, nil
}

// importBackground places the first template page under page one. gofpdi
// panics on some malformed inputs, so panics come back as errors.
func importBackground(doc *fpdf.Fpdf, tpl []byte, layout *Layout) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import template: %v", r)
		}
	}()

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(tpl))
	id := importer.ImportPageFromStream(doc, &rs, 1, "/MediaBox")
	if !doc.Ok() {
		return doc.Error()
	}
	importer.UseImportedTemplate(doc, id, 0, 0, layout.PageWidth, layout.PageHeight)
	if !doc.Ok() {
		return doc.Error()
	}
	return nil
}
