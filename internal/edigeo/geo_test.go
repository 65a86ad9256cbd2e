package edigeo

import "testing"

func TestParseProjection(t *testing.T) {
	tests := []struct {
		name    string
		geo     string
		want    string
		wantErr bool
	}{
		{"recognized LAMB93", "RELSACC:LAMB93;\n", "LAMB93", false},
		{"unknown projection", "RELSACC:UNKNOWN_PROJ;\n", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseProjection([]byte(tt.geo))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got projection %+v", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != tt.want {
				t.Errorf("ParseProjection() = %q, want %q", p.Name, tt.want)
			}
		})
	}
}
