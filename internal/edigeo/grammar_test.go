package edigeo

import "testing"

func TestParseEdigeoNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"+881824.53", 881824.53},
		{"+1895.", 1895},
		{"01", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseEdigeoNumber(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseEdigeoNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCoordPair(t *testing.T) {
	c, err := parseCoordPair("+881824.53;+6663821.17;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != [2]float64{881824.53, 6663821.17} {
		t.Errorf("parseCoordPair() = %v, want (881824.53, 6663821.17)", c)
	}
	if _, err := parseCoordPair("+881824.53"); err == nil {
		t.Error("expected error for a payload with no Y component")
	}
}

func TestSplitRecords(t *testing.T) {
	text := "preamble\n" +
		"RTYSA03:PNORID:N1;\nSCP:1;2;CLS;PTCLASS_id;\nCOR:+1.0;+2.0;\n" +
		"RTYSA03:PARRID:A1;\nCOR:+0.0;+0.0;\nCOR:+1.0;+0.0;\n"
	recs := splitRecords(text)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Type != "PNO" || recs[0].field("RID") != "N1" {
		t.Errorf("unexpected first record: %+v", recs[0])
	}
	if recs[1].Type != "PAR" || recs[1].field("RID") != "A1" {
		t.Errorf("unexpected second record: %+v", recs[1])
	}
}
