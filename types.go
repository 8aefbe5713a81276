package printdesk

import (
	"fmt"
	"strings"
)

// PaperFormat names a supported paper size.
type PaperFormat string

// Paper formats.
const (
	FormatA4     PaperFormat = "A4"
	FormatA3     PaperFormat = "A3"
	FormatLetter PaperFormat = "Letter"
)

// paperDimensions holds portrait (width, height) in millimetres.
var paperDimensions = map[PaperFormat][2]float64{
	FormatA4:     {210, 297},
	FormatA3:     {297, 420},
	FormatLetter: {215.9, 279.4},
}

// ParsePaperFormat resolves s case-insensitively.
func ParsePaperFormat(s string) (PaperFormat, error) {
	for f := range paperDimensions {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be A4, A3, or Letter)", ErrInvalidFormat, s)
}

// Dimensions returns the portrait width and height in millimetres.
// Unknown formats return zeros.
func (f PaperFormat) Dimensions() (widthMM, heightMM float64) {
	canonical, err := ParsePaperFormat(string(f))
	if err != nil {
		return 0, 0
	}
	d := paperDimensions[canonical]
	return d[0], d[1]
}

// Orientation is the page orientation.
type Orientation string

// Orientations.
const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// ParseOrientation resolves s case-insensitively.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case string(Portrait):
		return Portrait, nil
	case string(Landscape):
		return Landscape, nil
	}
	return "", fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, s)
}

// IsLandscape reports whether o is landscape, ignoring case.
func (o Orientation) IsLandscape() bool {
	return strings.EqualFold(string(o), string(Landscape))
}

// Scale bounds accepted by Chrome's printToPDF.
const (
	MinScale     = 0.1
	MaxScale     = 2.0
	DefaultScale = 1.0
)

// DefaultMarginsMM is the padding applied by DefaultPrintConfig.
const DefaultMarginsMM = 10.0

// PrintConfig describes page geometry.
type PrintConfig struct {
	Format      PaperFormat `json:"format"`
	Orientation Orientation `json:"orientation"`
	MarginsMM   float64     `json:"margins_mm"` // CSS padding on every side
	Scale       float64     `json:"scale"`      // 0 means 1.0
}

// DefaultPrintConfig returns A4 portrait, 10mm margins, scale 1.
func DefaultPrintConfig() PrintConfig {
	return PrintConfig{
		Format:      FormatA4,
		Orientation: Portrait,
		MarginsMM:   DefaultMarginsMM,
		Scale:       DefaultScale,
	}
}

// PageSize returns the page width and height in millimetres,
// swapped when the orientation is landscape.
func (c PrintConfig) PageSize() (widthMM, heightMM float64) {
	w, h := c.Format.Dimensions()
	if c.Orientation.IsLandscape() {
		return h, w
	}
	return w, h
}

// EffectiveScale returns Scale, or DefaultScale when unset.
func (c PrintConfig) EffectiveScale() float64 {
	if c.Scale == 0 {
		return DefaultScale
	}
	return c.Scale
}

// Validate checks format, orientation, margins and scale.
// Does not mutate: names are compared case-insensitively.
func (c PrintConfig) Validate() error {
	if _, err := ParsePaperFormat(string(c.Format)); err != nil {
		return err
	}
	if _, err := ParseOrientation(string(c.Orientation)); err != nil {
		return err
	}
	// Negated comparisons also reject NaN.
	if !(c.MarginsMM >= 0) {
		return fmt.Errorf("%w: %.2fmm (must be >= 0)", ErrInvalidMargin, c.MarginsMM)
	}
	w, h := c.PageSize()
	if 2*c.MarginsMM >= w || 2*c.MarginsMM >= h {
		return fmt.Errorf("%w: %.2fmm leaves no printable area on a %.1fx%.1fmm page",
			ErrInvalidMargin, c.MarginsMM, w, h)
	}
	if c.Scale != 0 && !(c.Scale >= MinScale && c.Scale <= MaxScale) {
		return fmt.Errorf("%w: %.2f (must be between %.1f and %.1f)", ErrInvalidScale, c.Scale, MinScale, MaxScale)
	}
	return nil
}

// PrintRequest renders one HTML document.
type PrintRequest struct {
	Config      PrintConfig `json:"config"`
	HTMLContent string      `json:"html_content"`
	PrinterID   string      `json:"printer_id,omitempty"` // empty: system default
}

// Validate checks the page configuration.
func (r PrintRequest) Validate() error {
	return r.Config.Validate()
}

// PrintRequestPages renders pre-paginated HTML, one sheet per page.
type PrintRequestPages struct {
	Config    PrintConfig `json:"config"`
	Pages     []string    `json:"pages"`
	PrinterID string      `json:"printer_id,omitempty"` // empty: system default
}

// Validate checks the page configuration and that pages is non-empty.
func (r PrintRequestPages) Validate() error {
	if err := r.Config.Validate(); err != nil {
		return err
	}
	if len(r.Pages) == 0 {
		return ErrNoPages
	}
	return nil
}

// PrinterInfo describes an installed printer.
type PrinterInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsDefault   bool   `json:"is_default"`
}

// PrintResult is the outcome of a print command that ran.
// Success is false when the command exited non-zero; Message says why.
type PrintResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
}
