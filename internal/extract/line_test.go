package extract

import (
	"reflect"
	"testing"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"quoted comma", `"a,b",c,d`, []string{"a,b", "c", "d"}},
		{"trims cells", ` a , b `, []string{"a", "b"}},
		{"empty line", ``, []string{""}},
		{"trailing delimiter", `a,`, []string{"a", ""}},
		{"unbalanced quote", `"open,x`, []string{"open,x"}},
		{"amount with separators", `Omzet,70,,"1.234,56"`, []string{"Omzet", "70", "", "1.234,56"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplitLines_DropsCarriageReturn(t *testing.T) {
	got := SplitLines("a,b\r\nc,d\n")
	want := []string{"a,b", "c,d", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines() = %q, want %q", got, want)
	}
}

func TestCurrentYearColumn(t *testing.T) {
	tests := []struct {
		name   string
		row    []string
		want   int
		wantOK bool
	}{
		{"current before prior", []string{"Omschrijving", "", "Codes", "", "Boekjaar", "Vorig boekjaar"}, 4, true},
		{"prior first", []string{"Vorig boekjaar", "Boekjaar"}, 1, true},
		{"only prior", []string{"x", "Vorig boekjaar", "y"}, -1, false},
		{"no header", []string{"Omzet", "70", "1.000"}, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CurrentYearColumn(tt.row)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CurrentYearColumn() = %d, %v, want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestColumnResolver_RemembersUntilNextHeader(t *testing.T) {
	c := newColumnResolver()
	if _, ok := c.column(); ok {
		t.Fatal("fresh resolver should not know a column")
	}

	row := []string{"Codes", "", "", "Boekjaar", "Vorig boekjaar"}
	c.observe(row, "codes,,,boekjaar,vorig boekjaar")
	if i, ok := c.column(); !ok || i != 3 {
		t.Errorf("column() = %d, %v, want 3, true", i, ok)
	}

	c.observe([]string{"Omzet", "70", "1.000"}, "omzet,70,1.000")
	if i, _ := c.column(); i != 3 {
		t.Errorf("column() after data row = %d, want 3", i)
	}
}
