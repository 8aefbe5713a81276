package yamlutil_test

// Notes:
// - Marshal error branch: yaml.Marshal only fails on unencodable types
//   (channels, funcs) which never reach it in practice.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-printdesk/internal/yamlutil"
)

type pageSection struct {
	Format    string  `yaml:"format"`
	MarginsMM float64 `yaml:"marginsMm"`
}

type testConfig struct {
	Printer string      `yaml:"printer"`
	Page    pageSection `yaml:"page"`
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        []byte
		dest        any
		wantErr     error
		wantContain string
	}{
		{
			name: "valid YAML",
			data: []byte("printer: Office_Laser\npage:\n  format: A4\n  marginsMm: 12.5\n"),
			dest: &testConfig{},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("printer: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:        "unknown field rejected",
			data:        []byte("page:\n  marginMm: 10\n"),
			dest:        &testConfig{},
			wantContain: "yamlutil:",
		},
		{
			name:        "invalid syntax",
			data:        []byte("page: [unclosed"),
			dest:        &testConfig{},
			wantContain: "yamlutil:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantContain != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantContain) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantContain)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				cfg := tt.dest.(*testConfig)
				if cfg.Printer != "Office_Laser" || cfg.Page.Format != "A4" || cfg.Page.MarginsMM != 12.5 {
					t.Errorf("decoded %+v", cfg)
				}
			}
		})
	}
}

func TestUnmarshalStrict_TooLarge(t *testing.T) {
	// Mutates package state; not parallel.
	old := yamlutil.MaxInputSize
	yamlutil.MaxInputSize = 8
	defer func() { yamlutil.MaxInputSize = old }()

	err := yamlutil.UnmarshalStrict([]byte("printer: Office_Laser"), &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("expected ErrInputTooLarge, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(testConfig{Printer: "HP", Page: pageSection{Format: "Letter"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	for _, want := range []string{"printer: HP", "format: Letter"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}
