package ingest

import "testing"

func TestValidateVintage(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", "2024-03", false},
		{"valid low year", "1900-01", false},
		{"valid high year", "2100-12", false},
		{"year too low", "1899-12", true},
		{"year too high", "2101-01", true},
		{"month zero", "2024-00", true},
		{"month thirteen", "2024-13", true},
		{"missing dash", "202403", true},
		{"extra text", "2024-03-01", true},
		{"non numeric", "abcd-ef", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateVintage(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateVintage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got.Day() != 1 {
				t.Errorf("ValidateVintage(%q) = %v, want first of month", tt.in, got)
			}
		})
	}
}
