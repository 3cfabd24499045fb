package validation

import (
	"strings"
	"testing"
)

func TestValidateSaleDate(t *testing.T) {
	tests := []struct {
		name         string
		deliveryDate string
		sellingDate  string
		wantWarning  bool
	}{
		{"sale after delivery", "2023-04-01", "2028-10-01", false},
		{"sale on delivery", "2023-04-01", "2023-04-01", false},
		{"sale before delivery", "2023-04-01", "2022-12-01", true},
		{"missing delivery", "", "2022-12-01", false},
		{"unparseable sale", "2023-04-01", "soon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateSaleDate("scenario 'x'", tt.deliveryDate, tt.sellingDate)
			if tt.wantWarning && len(warnings) == 0 {
				t.Errorf("ValidateSaleDate() expected a warning")
			}
			if !tt.wantWarning && len(warnings) != 0 {
				t.Errorf("ValidateSaleDate() unexpected warnings: %v", warnings)
			}
		})
	}
}

func TestValidatePaymentCoversInterest(t *testing.T) {
	tests := []struct {
		name        string
		principal   float64
		rate        float64
		payment     float64
		wantWarning bool
	}{
		{"payment covers interest", 40000000, 0.5, 100000, false},
		{"payment equals interest", 40000000, 3, 100000, false},
		{"payment below interest", 40000000, 6, 100000, true},
		{"no loan", 0, 6, 0, false},
		{"no rate", 40000000, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidatePaymentCoversInterest("loan", tt.principal, tt.rate, tt.payment)
			if tt.wantWarning && !strings.Contains(warning, "balance will grow") {
				t.Errorf("ValidatePaymentCoversInterest() = %q, expected a growth warning", warning)
			}
			if !tt.wantWarning && warning != "" {
				t.Errorf("ValidatePaymentCoversInterest() unexpected warning %q", warning)
			}
		})
	}
}
