package render

import (
	"slices"
	"testing"

	"github.com/matzehuels/graphweave/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{"", nil, false},
		{"svg", []Format{FormatSVG}, false},
		{"SVG, png,svg", []Format{FormatSVG, FormatPNG}, false},
		{"json,dot,,pdf", []Format{FormatJSON, FormatDOT, FormatPDF}, false},
		{"gif", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Fatalf("ParseFormats(%q) err = %v, want INVALID_FORMAT", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormats(%q): %v", tt.in, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatContentType(t *testing.T) {
	for _, f := range Formats {
		if f.ContentType() == "application/octet-stream" {
			t.Errorf("%s has no content type", f)
		}
		if f.Ext() != "."+string(f) {
			t.Errorf("%s.Ext() = %s", f, f.Ext())
		}
	}
}
