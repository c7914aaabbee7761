package extract

import "testing"

func TestNormalize_Monetary(t *testing.T) {
	n := Normalizer{}
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"23.204", 23204, true},
		{"23,204", 23.204, true},
		{"1.234.567", 1234567, true},
		{"1.234,56", 1234.56, true},
		{"12,3456", 123456, true},
		{"1 234 567", 1234567, true},
		{"-8.064", -8064, true},
		{"8.06", 806, true},
		{"0.5", 5, true},
		{"42", 42, true},
		{"10/15", 10, true},
		{"", 0, false},
		{"   ", 0, false},
		{"XXXXXXXXXX", 0, false},
		{"abc", 0, false},
		{"(+)/(-)", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := n.Normalize(tt.raw, true)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_NonMonetary(t *testing.T) {
	n := Normalizer{Scale: ScaleThousands}
	tests := []struct {
		raw  string
		want float64
	}{
		{"1.5", 1.5},
		{"8.25", 8.25},
		{"12.5", 125},
		{"1.500", 1500},
		{"12", 12},
		{"3,5", 3.5},
	}

	for _, tt := range tests {
		got, ok := n.Normalize(tt.raw, false)
		if !ok {
			t.Errorf("Normalize(%q, false) not ok", tt.raw)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q, false) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize_ThousandsScale(t *testing.T) {
	n := Normalizer{Scale: ScaleThousands}

	got, ok := n.Normalize("23.204", true)
	if !ok || got != 23204000 {
		t.Errorf("Normalize(23.204) = %v, %v, want 23204000, true", got, ok)
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		in      string
		want    Scale
		wantErr bool
	}{
		{"", ScaleUnits, false},
		{"units", ScaleUnits, false},
		{"Thousands", ScaleThousands, false},
		{"millions", ScaleUnits, true},
	}
	for _, tt := range tests {
		got, err := ParseScale(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScale(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseScale(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLeadingFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"12.5abc", 12.5, true},
		{".5", 0.5, true},
		{"-3", -3, true},
		{"1e3", 1000, true},
		{"1e", 1, true},
		{"-", 0, false},
		{".", 0, false},
	}
	for _, tt := range tests {
		got, ok := leadingFloat(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("leadingFloat(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
