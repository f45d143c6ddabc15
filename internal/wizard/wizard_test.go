package wizard

import (
	"testing"

	"github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/pdf"
	"github.com/brokerdesk/brokerdesk/internal/signature"
	"github.com/brokerdesk/brokerdesk/internal/types"
	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func testSignature(t *testing.T) string {
	sig, err := signature.Render(100, 50, []signature.Stroke{{{X: 5, Y: 5}, {X: 60, Y: 30}}})
	require.NoError(t, err)
	return sig
}

func rentalValues() map[string]string {
	return map[string]string{
		"landlord_name":    "Mehmet Kaya",
		"tenant_name":      "Ahmet Yılmaz",
		"property_address": "Moda Cd. 12, Kadıköy",
		"monthly_rent":     "25000",
		"deposit":          "50000",
		"start_date":       "2024-01-01",
		"end_date":         "2024-12-31",
	}
}

func TestWizardsExistForGeneratableTypes(t *testing.T) {
	for _, dt := range types.GeneratableDocumentTypes {
		w, err := For(dt)
		require.NoError(t, err, dt)
		assert.Equal(t, dt, w.Type)
		assert.NotEmpty(t, w.Steps)

		// every collected field has a place on the template
		layout, err := pdf.LayoutFor(dt)
		require.NoError(t, err)
		for _, f := range w.Fields() {
			assert.Contains(t, layout.Fields, f, "%s.%s", dt, f)
		}
		for _, slot := range w.Signatures() {
			assert.Contains(t, layout.Overlays, slot, "%s.%s", dt, slot)
		}
	}

	_, err := For(types.DocumentTypeOther)
	assert.True(t, errors.IsNotFound(err))
}

func TestValidate(t *testing.T) {
	w, err := For(types.DocumentTypeRentalAgreement)
	require.NoError(t, err)
	sig := testSignature(t)

	tests := []struct {
		name    string
		values  func() map[string]string
		sigs    map[pdf.Overlay]string
		wantErr bool
		hint    string
	}{
		{
			name:   "complete",
			values: rentalValues,
			sigs:   map[pdf.Overlay]string{pdf.OverlayCustomerSignature: sig},
		},
		{
			name: "blank field",
			values: func() map[string]string {
				v := rentalValues()
				v["deposit"] = "   "
				return v
			},
			sigs:    map[pdf.Overlay]string{pdf.OverlayCustomerSignature: sig},
			wantErr: true,
			hint:    "Please fill in deposit",
		},
		{
			name:    "missing signature",
			values:  rentalValues,
			wantErr: true,
			hint:    "Signature not provided",
		},
		{
			name:    "undecodable signature",
			values:  rentalValues,
			sigs:    map[pdf.Overlay]string{pdf.OverlayCustomerSignature: "data:image/png;base64,AAAA"},
			wantErr: true,
			hint:    "Signature not provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.Validate(tt.values(), tt.sigs)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
			assert.Contains(t, cerrors.GetAllHints(err), tt.hint)
		})
	}
}

func TestEvictionNeedsNoSignature(t *testing.T) {
	w, err := For(types.DocumentTypeEvictionNotice)
	require.NoError(t, err)

	err = w.Validate(map[string]string{
		"landlord_name":    "a",
		"tenant_name":      "b",
		"property_address": "c",
		"notice_date":      "2024-01-01",
		"eviction_date":    "2024-02-01",
		"reason":           "unpaid rent",
	}, nil)
	assert.NoError(t, err)
}

type ProgressSuite struct {
	suite.Suite
	progress *Progress
}

func TestProgress(t *testing.T) {
	suite.Run(t, new(ProgressSuite))
}

func (s *ProgressSuite) SetupTest() {
	w, err := For(types.DocumentTypeShowingForm)
	s.Require().NoError(err)
	s.progress = NewProgress(w)
}

func (s *ProgressSuite) TestFailedGateBlocksAndSavesNothing() {
	err := s.progress.Next(map[string]string{"customer_name": "Ayşe"}, nil)
	s.Require().Error(err)
	s.True(errors.IsValidation(err))
	s.Equal(0, s.progress.Index())
	s.Empty(s.progress.Values())
}

func (s *ProgressSuite) TestWalkThrough() {
	s.Require().NoError(s.progress.Next(map[string]string{
		"customer_name":  "Ayşe",
		"customer_phone": "+90 555 000 00 00",
	}, nil))
	step, ok := s.progress.Current()
	s.Require().True(ok)
	s.Equal("property", step.Name)

	s.Require().NoError(s.progress.Back())
	s.Equal(0, s.progress.Index())
	s.Error(s.progress.Back())

	// earlier answers survive going back
	s.Require().NoError(s.progress.Next(nil, nil))
	s.Require().NoError(s.progress.Next(map[string]string{
		"property_address": "Bağdat Cd. 5",
		"showing_date":     "2024-03-10",
	}, nil))
	s.False(s.progress.Done())

	s.Error(s.progress.Next(nil, nil))
	s.Require().NoError(s.progress.Next(nil, map[pdf.Overlay]string{
		pdf.OverlayCustomerSignature: testSignature(s.T()),
	}))
	s.True(s.progress.Done())

	_, ok = s.progress.Current()
	s.False(ok)
	s.True(errors.IsInvalidOperation(s.progress.Next(nil, nil)))
	s.Len(s.progress.Values(), 4)
	s.Len(s.progress.Signatures(), 1)
}
