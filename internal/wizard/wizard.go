package wizard

import (
	"maps"
	"strings"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/pdf"
	"github.com/brokerdesk/brokerdesk/internal/signature"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

// Step is one page of a wizard. Fields and Signatures are required,
// Optional fields are collected but never block.
type Step struct {
	Name       string        `json:"name"`
	Fields     []string      `json:"fields"`
	Optional   []string      `json:"optional_fields,omitempty"`
	Signatures []pdf.Overlay `json:"signatures,omitempty"`
}

// Check is the gate of a single step
func (s Step) Check(values map[string]string, signatures map[pdf.Overlay]string) error {
	var missing []string
	for _, f := range s.Fields {
		if strings.TrimSpace(values[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return ierr.NewErrorf("step %s is missing %s", s.Name, strings.Join(missing, ", ")).
			WithHintf("Please fill in %s", strings.Join(missing, ", ")).
			WithReportableDetails(map[string]interface{}{
				"step":    s.Name,
				"missing": missing,
			}).
			Mark(ierr.ErrValidation)
	}

	for _, slot := range s.Signatures {
		if _, _, err := signature.DecodeDataURL(signatures[slot]); err != nil {
			return ierr.NewErrorf("step %s signature %s: %v", s.Name, slot, err).
				WithHint("Signature not provided").
				WithReportableDetails(map[string]interface{}{
					"step":      s.Name,
					"signature": slot,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// Wizard is the ordered list of steps for one document type
type Wizard struct {
	Type  types.DocumentType `json:"type"`
	Steps []Step             `json:"steps"`
}

// Validate runs every step gate in order and stops at the first failure
func (w *Wizard) Validate(values map[string]string, signatures map[pdf.Overlay]string) error {
	for _, s := range w.Steps {
		if err := s.Check(values, signatures); err != nil {
			return err
		}
	}
	return nil
}

// Fields lists every field the wizard collects, required first
func (w *Wizard) Fields() []string {
	var out []string
	for _, s := range w.Steps {
		out = append(out, s.Fields...)
	}
	for _, s := range w.Steps {
		out = append(out, s.Optional...)
	}
	return out
}

// Signatures lists every signature slot the wizard asks for
func (w *Wizard) Signatures() []pdf.Overlay {
	var out []pdf.Overlay
	for _, s := range w.Steps {
		out = append(out, s.Signatures...)
	}
	return out
}

var wizards = map[types.DocumentType]Wizard{
	types.DocumentTypeRentalAgreement: {
		Type: types.DocumentTypeRentalAgreement,
		Steps: []Step{
			{Name: "parties", Fields: []string{"landlord_name", "tenant_name"}},
			{Name: "property", Fields: []string{"property_address", "monthly_rent", "deposit", "start_date", "end_date"}},
			{Name: "terms", Optional: []string{"notes"}},
			{Name: "signatures", Signatures: []pdf.Overlay{pdf.OverlayCustomerSignature}},
		},
	},
	types.DocumentTypeShowingForm: {
		Type: types.DocumentTypeShowingForm,
		Steps: []Step{
			{Name: "customer", Fields: []string{"customer_name", "customer_phone"}},
			{Name: "property", Fields: []string{"property_address", "showing_date"}, Optional: []string{"agent_name", "notes"}},
			{Name: "signature", Signatures: []pdf.Overlay{pdf.OverlayCustomerSignature}},
		},
	},
	types.DocumentTypeEvictionNotice: {
		Type: types.DocumentTypeEvictionNotice,
		Steps: []Step{
			{Name: "parties", Fields: []string{"landlord_name", "tenant_name"}},
			{Name: "notice", Fields: []string{"property_address", "notice_date", "eviction_date", "reason"}},
		},
	},
}

// For returns the wizard of a document type
func For(docType types.DocumentType) (*Wizard, error) {
	w, ok := wizards[docType]
	if !ok {
		return nil, ierr.NewErrorf("no wizard for document type %q", docType).
			WithHintf("Documents of type %s have no form", docType).
			Mark(ierr.ErrNotFound)
	}
	// steps are shared, hand out a copy
	w.Steps = append([]Step(nil), w.Steps...)
	return &w, nil
}

// Progress walks one user through a wizard. It is not safe for concurrent use.
type Progress struct {
	wizard     *Wizard
	current    int
	values     map[string]string
	signatures map[pdf.Overlay]string
}

func NewProgress(w *Wizard) *Progress {
	return &Progress{
		wizard:     w,
		values:     make(map[string]string),
		signatures: make(map[pdf.Overlay]string),
	}
}

// Current returns the step being filled, or false when done
func (p *Progress) Current() (Step, bool) {
	if p.Done() {
		return Step{}, false
	}
	return p.wizard.Steps[p.current], true
}

// Index is the zero based position of the current step
func (p *Progress) Index() int { return p.current }

func (p *Progress) Done() bool { return p.current >= len(p.wizard.Steps) }

// Next checks the current step against the submitted input and advances.
// A failed gate keeps nothing from the submission.
func (p *Progress) Next(values map[string]string, signatures map[pdf.Overlay]string) error {
	step, ok := p.Current()
	if !ok {
		return ierr.NewError("wizard already completed").
			WithHint("All steps are already complete").
			Mark(ierr.ErrInvalidOperation)
	}

	merged := maps.Clone(p.values)
	maps.Copy(merged, values)
	mergedSigs := maps.Clone(p.signatures)
	maps.Copy(mergedSigs, signatures)

	if err := step.Check(merged, mergedSigs); err != nil {
		return err
	}

	p.values, p.signatures = merged, mergedSigs
	p.current++
	return nil
}

// Back returns to the previous step. Collected values are kept.
func (p *Progress) Back() error {
	if p.current == 0 {
		return ierr.NewError("already at the first step").
			WithHint("There is no previous step").
			Mark(ierr.ErrInvalidOperation)
	}
	p.current--
	return nil
}

// Values returns a copy of everything collected so far
func (p *Progress) Values() map[string]string {
	return maps.Clone(p.values)
}

// Signatures returns a copy of the collected signatures
func (p *Progress) Signatures() map[pdf.Overlay]string {
	return maps.Clone(p.signatures)
}
