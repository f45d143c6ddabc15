package pdf

import (
	"maps"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

// A4 in points
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Overlay names an image slot on the first page
type Overlay string

const (
	OverlayCustomerSignature Overlay = "customer_signature"
	OverlayAgentSignature    Overlay = "agent_signature"
)

// Field is where a value is written. Y is the text baseline. A positive
// MaxWidth makes the field wrap onto further lines.
type Field struct {
	X        float64
	Y        float64
	MaxWidth float64
}

// Rect is an image box in points from the top-left corner
type Rect struct {
	X, Y, W, H float64
}

// Layout is the static coordinate table of a template kind
type Layout struct {
	Kind         types.DocumentType
	PageWidth    float64
	PageHeight   float64
	FontSize     float64
	LineHeight   float64
	TopMargin    float64
	BottomMargin float64
	Fields       map[string]Field
	Overlays     map[Overlay]Rect
}

func (l *Layout) Validate() error {
	if l == nil {
		return ierr.NewError("layout is required").
			WithHint("This document type has no template layout").
			Mark(ierr.ErrValidation)
	}
	if l.PageWidth <= 0 || l.PageHeight <= 0 || l.LineHeight <= 0 {
		return ierr.NewErrorf("invalid layout geometry for %s", l.Kind).
			WithHint("Template layout is misconfigured").
			Mark(ierr.ErrValidation)
	}
	if l.TopMargin >= l.PageHeight-l.BottomMargin {
		return ierr.NewErrorf("margins leave no room on the page for %s", l.Kind).
			WithHint("Template layout is misconfigured").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// limit is the lowest baseline a line may use
func (l *Layout) limit() float64 {
	return l.PageHeight - l.BottomMargin
}

func baseLayout(kind types.DocumentType) Layout {
	return Layout{
		Kind:         kind,
		PageWidth:    A4Width,
		PageHeight:   A4Height,
		FontSize:     10,
		LineHeight:   14,
		TopMargin:    60,
		BottomMargin: 60,
	}
}

var signatureBlock = map[Overlay]Rect{
	OverlayCustomerSignature: {X: 60, Y: 700, W: 180, H: 60},
	OverlayAgentSignature:    {X: 355, Y: 700, W: 180, H: 60},
}

var layouts = map[types.DocumentType]func() Layout{
	types.DocumentTypeRentalAgreement: func() Layout {
		l := baseLayout(types.DocumentTypeRentalAgreement)
		l.Fields = map[string]Field{
			"landlord_name":    {X: 150, Y: 170},
			"tenant_name":      {X: 150, Y: 195},
			"property_address": {X: 150, Y: 245, MaxWidth: 380},
			"monthly_rent":     {X: 150, Y: 300},
			"deposit":          {X: 400, Y: 300},
			"start_date":       {X: 150, Y: 325},
			"end_date":         {X: 400, Y: 325},
			"notes":            {X: 60, Y: 400, MaxWidth: 475},
		}
		l.Overlays = maps.Clone(signatureBlock)
		return l
	},
	types.DocumentTypeShowingForm: func() Layout {
		l := baseLayout(types.DocumentTypeShowingForm)
		l.Fields = map[string]Field{
			"customer_name":    {X: 160, Y: 170},
			"customer_phone":   {X: 160, Y: 195},
			"property_address": {X: 160, Y: 245, MaxWidth: 370},
			"showing_date":     {X: 160, Y: 300},
			"agent_name":       {X: 400, Y: 300},
			"notes":            {X: 60, Y: 380, MaxWidth: 475},
		}
		l.Overlays = maps.Clone(signatureBlock)
		return l
	},
	types.DocumentTypeEvictionNotice: func() Layout {
		l := baseLayout(types.DocumentTypeEvictionNotice)
		l.Fields = map[string]Field{
			"landlord_name":    {X: 150, Y: 170},
			"tenant_name":      {X: 150, Y: 195},
			"property_address": {X: 150, Y: 245, MaxWidth: 380},
			"notice_date":      {X: 150, Y: 300},
			"eviction_date":    {X: 400, Y: 300},
			"reason":           {X: 60, Y: 360, MaxWidth: 475},
		}
		l.Overlays = map[Overlay]Rect{
			OverlayAgentSignature: signatureBlock[OverlayAgentSignature],
		}
		return l
	},
}

// LayoutFor returns a fresh copy of the layout of a template kind
func LayoutFor(kind types.DocumentType) (*Layout, error) {
	build, ok := layouts[kind]
	if !ok {
		return nil, ierr.NewErrorf("no layout for document type %q", kind).
			WithHintf("Documents of type %s cannot be generated", kind).
			Mark(ierr.ErrValidation)
	}
	l := build()
	return &l, nil
}
