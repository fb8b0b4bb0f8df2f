package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"12.5", "$12.50"},
		{"999.999", "$1,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-1234.5", "-$1,234.50"},
	}
	for _, tt := range tests {
		got := FormatMoney(decimal.RequireFromString(tt.in), "$")
		if got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(decimal.NewFromInt(5), "€"); got != "+€5.00" {
		t.Errorf("FormatSigned(5) = %q", got)
	}
	if got := FormatSigned(decimal.NewFromInt(-5), "€"); got != "-€5.00" {
		t.Errorf("FormatSigned(-5) = %q", got)
	}
}

func TestFormatDayOfMonth(t *testing.T) {
	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 31: "31st"}
	for day, want := range tests {
		if got := FormatDayOfMonth(day); got != want {
			t.Errorf("FormatDayOfMonth(%d) = %q, want %q", day, got, want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(decimal.NewFromInt(25)); got != "25.0%" {
		t.Errorf("FormatPercent(25) = %q", got)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("3f2a9c1e-0000-4000-8000-000000000000"); got != "3f2a9c1e" {
		t.Errorf("ShortID(uuid) = %q", got)
	}
	if got := ShortID("id-1"); got != "id-1" {
		t.Errorf("ShortID(id-1) = %q", got)
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Bill", "Amount"},
		Rows:    [][]string{{"Rent", "$300.00"}, {"---"}, {"Phone", "$45.99"}},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "Rent") || !strings.Contains(out, "$45.99") {
		t.Errorf("missing cells:\n%s", out)
	}
	if RenderTable(Table{}) != "" {
		t.Error("empty table rendered output")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12", "12", false},
		{" $1,250.50 ", "1250.5", false},
		{"-€3", "-3", false},
		{"0.1", "0.1", false},
		{"", "", true},
		{"$", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) = %s, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) error: %v", tt.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseDay(t *testing.T) {
	for _, in := range []string{"0", "32", "x", ""} {
		if _, err := ParseDay(in); err == nil {
			t.Errorf("ParseDay(%q) error = nil", in)
		}
	}
	if d, err := ParseDay(" 31 "); err != nil || d != 31 {
		t.Errorf("ParseDay(31) = %d, %v", d, err)
	}
}
