package printdesk

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPageSize - Paper dimensions per format and orientation
// ---------------------------------------------------------------------------

func TestPrintConfig_PageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format      PaperFormat
		orientation Orientation
		wantW       float64
		wantH       float64
	}{
		{FormatA4, Portrait, 210, 297},
		{FormatA4, Landscape, 297, 210},
		{FormatA3, Portrait, 297, 420},
		{FormatA3, Landscape, 420, 297},
		{FormatLetter, Portrait, 215.9, 279.4},
		{FormatLetter, Landscape, 279.4, 215.9},
		{"a4", "LANDSCAPE", 297, 210},
	}

	for _, tt := range tests {
		t.Run(string(tt.format)+"/"+string(tt.orientation), func(t *testing.T) {
			t.Parallel()

			cfg := PrintConfig{Format: tt.format, Orientation: tt.orientation}
			w, h := cfg.PageSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("PageSize() = (%v, %v), want (%v, %v)", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPaperFormat_DimensionsUnknown(t *testing.T) {
	t.Parallel()

	w, h := PaperFormat("B5").Dimensions()
	if w != 0 || h != 0 {
		t.Errorf("Dimensions() = (%v, %v), want zeros", w, h)
	}
}

func TestParsePaperFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    PaperFormat
		wantErr bool
	}{
		{input: "A4", want: FormatA4},
		{input: "a3", want: FormatA3},
		{input: "LETTER", want: FormatLetter},
		{input: "legal", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePaperFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("expected ErrInvalidFormat, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParsePaperFormat(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestParseOrientation(t *testing.T) {
	t.Parallel()

	if o, err := ParseOrientation("Landscape"); err != nil || o != Landscape {
		t.Errorf("ParseOrientation(Landscape) = %q, %v", o, err)
	}
	if _, err := ParseOrientation("sideways"); !errors.Is(err, ErrInvalidOrientation) {
		t.Errorf("expected ErrInvalidOrientation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestValidate
// ---------------------------------------------------------------------------

func TestPrintConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*PrintConfig)
		wantErr error
	}{
		{name: "defaults", mutate: func(*PrintConfig) {}},
		{name: "zero margins", mutate: func(c *PrintConfig) { c.MarginsMM = 0 }},
		{name: "zero scale means default", mutate: func(c *PrintConfig) { c.Scale = 0 }},
		{name: "scale at bounds", mutate: func(c *PrintConfig) { c.Scale = MaxScale }},
		{name: "unknown format", mutate: func(c *PrintConfig) { c.Format = "Tabloid" }, wantErr: ErrInvalidFormat},
		{name: "empty orientation", mutate: func(c *PrintConfig) { c.Orientation = "" }, wantErr: ErrInvalidOrientation},
		{name: "negative margin", mutate: func(c *PrintConfig) { c.MarginsMM = -1 }, wantErr: ErrInvalidMargin},
		{name: "margin eats page", mutate: func(c *PrintConfig) { c.MarginsMM = 105 }, wantErr: ErrInvalidMargin},
		{
			name:    "margin eats landscape height",
			mutate:  func(c *PrintConfig) { c.Orientation = Landscape; c.MarginsMM = 106 },
			wantErr: ErrInvalidMargin,
		},
		{name: "scale too small", mutate: func(c *PrintConfig) { c.Scale = 0.05 }, wantErr: ErrInvalidScale},
		{name: "scale too large", mutate: func(c *PrintConfig) { c.Scale = 2.5 }, wantErr: ErrInvalidScale},
		{name: "NaN margin", mutate: func(c *PrintConfig) { c.MarginsMM = math.NaN() }, wantErr: ErrInvalidMargin},
		{name: "infinite margin", mutate: func(c *PrintConfig) { c.MarginsMM = math.Inf(1) }, wantErr: ErrInvalidMargin},
		{name: "NaN scale", mutate: func(c *PrintConfig) { c.Scale = math.NaN() }, wantErr: ErrInvalidScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultPrintConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrintRequestPages_ValidateEmpty(t *testing.T) {
	t.Parallel()

	req := PrintRequestPages{Config: DefaultPrintConfig()}
	if err := req.Validate(); !errors.Is(err, ErrNoPages) {
		t.Errorf("expected ErrNoPages, got %v", err)
	}
}

func TestEffectiveScale(t *testing.T) {
	t.Parallel()

	if got := (PrintConfig{}).EffectiveScale(); got != DefaultScale {
		t.Errorf("EffectiveScale() = %v, want %v", got, DefaultScale)
	}
	if got := (PrintConfig{Scale: 0.8}).EffectiveScale(); got != 0.8 {
		t.Errorf("EffectiveScale() = %v, want 0.8", got)
	}
}

// ---------------------------------------------------------------------------
// TestJSON - Field names shared with the UI layer
// ---------------------------------------------------------------------------

func TestPrintRequest_JSON(t *testing.T) {
	t.Parallel()

	body := `{
		"config": {"format": "Letter", "orientation": "landscape", "margins_mm": 12.5, "scale": 0.9},
		"html_content": "<p>x</p>",
		"printer_id": "Office_Laser"
	}`

	var req PrintRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := PrintRequest{
		Config:      PrintConfig{Format: FormatLetter, Orientation: Landscape, MarginsMM: 12.5, Scale: 0.9},
		HTMLContent: "<p>x</p>",
		PrinterID:   "Office_Laser",
	}
	if req != want {
		t.Errorf("decoded %+v, want %+v", req, want)
	}
}

func TestPrintResult_JSONOmitsEmptyJobID(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(PrintResult{Success: false, Message: "Failed to send to printer: offline"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "job_id") {
		t.Errorf("empty job_id should be omitted: %s", out)
	}

	out, _ = json.Marshal(PrinterInfo{ID: "HP_LaserJet", DisplayName: "HP LaserJet", IsDefault: true})
	if string(out) != `{"id":"HP_LaserJet","display_name":"HP LaserJet","is_default":true}` {
		t.Errorf("PrinterInfo JSON = %s", out)
	}
}
