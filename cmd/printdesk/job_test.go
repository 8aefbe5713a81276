package main

// Notes:
// - runPrint/runSave are driven end to end through fakePool; request routing
//   (single vs pages), flag merging and output are checked on the recorded
//   requests. Rendering itself is covered by the library tests.

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	printdesk "github.com/alnah/go-printdesk"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestRunPrint - Request routing and output
// ---------------------------------------------------------------------------

func TestRunPrint_SingleDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "doc.html", "<p>Hello</p>")

	backend := &fakeBackend{
		result: &printdesk.PrintResult{Success: true, Message: "Document sent to printer", JobID: "Office-7"},
	}
	pool := &fakePool{backend: backend}
	env, stdout, _ := testEnv(pool, "")

	err := runPrint(context.Background(), []string{"--printer", "Office", "--format", "letter", "--orientation", "landscape", "--margin", "0", in}, env)
	if err != nil {
		t.Fatalf("runPrint() error: %v", err)
	}

	if len(backend.docs) != 1 || len(backend.pages) != 0 {
		t.Fatalf("got %d document and %d page requests, want 1 and 0", len(backend.docs), len(backend.pages))
	}
	req := backend.docs[0]
	if req.PrinterID != "Office" {
		t.Errorf("PrinterID = %q, want Office", req.PrinterID)
	}
	want := printdesk.PrintConfig{Format: printdesk.FormatLetter, Orientation: printdesk.Landscape, MarginsMM: 0, Scale: 1}
	if req.Config != want {
		t.Errorf("Config = %+v, want %+v", req.Config, want)
	}
	if req.HTMLContent != "<p>Hello</p>" {
		t.Errorf("HTMLContent = %q", req.HTMLContent)
	}
	assertContains(t, "stdout", stdout.String(), "Document sent to printer (job Office-7)")
	if pool.released != 1 || !pool.closed {
		t.Errorf("pool released=%d closed=%v, want 1 and true", pool.released, pool.closed)
	}
}

func TestRunPrint_SeveralFilesArePages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.html", "<p>A</p>")
	b := writeFile(t, dir, "b.md", "# B")

	backend := &fakeBackend{}
	env, _, _ := testEnv(&fakePool{backend: backend}, "")

	if err := runPrint(context.Background(), []string{a, b}, env); err != nil {
		t.Fatalf("runPrint() error: %v", err)
	}

	if len(backend.pages) != 1 {
		t.Fatalf("got %d page requests, want 1", len(backend.pages))
	}
	pages := backend.pages[0].Pages
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if pages[0] != "<p>A</p>" {
		t.Errorf("page 0 = %q", pages[0])
	}
	if !strings.Contains(pages[1], "<h1") || !strings.Contains(pages[1], "B</h1>") {
		t.Errorf("markdown page not converted: %q", pages[1])
	}
}

func TestRunPrint_PagesFlagForcesPageRequest(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	env, _, _ := testEnv(&fakePool{backend: backend}, "<p>only</p>")

	if err := runPrint(context.Background(), []string{"--pages", "-"}, env); err != nil {
		t.Fatalf("runPrint() error: %v", err)
	}
	if len(backend.pages) != 1 || len(backend.pages[0].Pages) != 1 {
		t.Errorf("expected one page request with one page, got %+v", backend.pages)
	}
}

func TestRunPrint_SoftFailure(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		result: &printdesk.PrintResult{Success: false, Message: "Failed to send to printer: lp: Error - no such printer"},
	}
	env, stdout, _ := testEnv(&fakePool{backend: backend}, "<p>x</p>")

	err := runPrint(context.Background(), []string{"--json", "-"}, env)
	if !errors.Is(err, ErrPrintFailed) {
		t.Fatalf("expected ErrPrintFailed, got %v", err)
	}
	if exitCodeFor(err) != ExitPrint {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitPrint)
	}

	var res printdesk.PrintResult
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	if res.Success || !strings.Contains(res.Message, "no such printer") {
		t.Errorf("decoded result = %+v", res)
	}
}

func TestRunPrint_HardError(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{err: printdesk.ErrNoDefaultPrinter}
	env, _, _ := testEnv(&fakePool{backend: backend}, "<p>x</p>")

	err := runPrint(context.Background(), []string{"-"}, env)
	if !errors.Is(err, printdesk.ErrNoDefaultPrinter) {
		t.Fatalf("expected ErrNoDefaultPrinter, got %v", err)
	}
	if !strings.Contains(withHint(err), "--printer") {
		t.Errorf("hint missing from %q", withHint(err))
	}
}

func TestRunPrint_QuietSuppressesOutput(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(&fakePool{backend: &fakeBackend{}}, "<p>x</p>")

	if err := runPrint(context.Background(), []string{"-q", "-"}, env); err != nil {
		t.Fatalf("runPrint() error: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet run wrote %q", stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunSave - Destination handling
// ---------------------------------------------------------------------------

func TestRunSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "doc.html", "<p>Save me</p>")
	dest := filepath.Join(dir, "out.pdf")

	backend := &fakeBackend{}
	env, stdout, _ := testEnv(&fakePool{backend: backend}, "")

	if err := runSave(context.Background(), []string{"-o", dest, "--scale", "0.8", in}, env); err != nil {
		t.Fatalf("runSave() error: %v", err)
	}

	if len(backend.dests) != 1 || backend.dests[0] != dest {
		t.Errorf("destinations = %v, want [%s]", backend.dests, dest)
	}
	if got := backend.docs[0].Config.Scale; got != 0.8 {
		t.Errorf("Scale = %v, want 0.8", got)
	}
	assertContains(t, "stdout", stdout.String(), "Saved "+dest)
}

func TestRunSave_Pages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.html", "<p>A</p>")
	b := writeFile(t, dir, "b.html", "<p>B</p>")

	backend := &fakeBackend{}
	env, _, _ := testEnv(&fakePool{backend: backend}, "")

	if err := runSave(context.Background(), []string{"--output", filepath.Join(dir, "merged.pdf"), a, b}, env); err != nil {
		t.Fatalf("runSave() error: %v", err)
	}
	if len(backend.pages) != 1 || len(backend.pages[0].Pages) != 2 {
		t.Errorf("expected one page request with two pages, got %+v", backend.pages)
	}
}

func TestRunSave_CopyErrorHasHint(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{err: printdesk.ErrCopyPDF}
	env, _, _ := testEnv(&fakePool{backend: backend}, "<p>x</p>")

	err := runSave(context.Background(), []string{"-o", "/nowhere/out.pdf", "-"}, env)
	if exitCodeFor(err) != ExitIO {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitIO)
	}
	assertContains(t, "message", withHint(err), "hint: check parent directory")
}

// ---------------------------------------------------------------------------
// TestInputReader - File, stdin and markdown inputs
// ---------------------------------------------------------------------------

func TestInputReader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	html := writeFile(t, dir, "page.html", `<p><img src="logo.png"></p>`)
	writeFile(t, dir, "logo.png", "\x89PNG\r\n\x1a\n")
	empty := writeFile(t, dir, "empty.html", "  \n")

	tests := []struct {
		name     string
		args     []string
		stdin    string
		markdown bool
		wantErr  error
		want     []string
	}{
		{name: "no args", wantErr: ErrNoInput},
		{name: "stdin html", args: []string{"-"}, stdin: "<p>hi</p>", want: []string{"<p>hi</p>"}},
		{name: "stdin markdown sniffed", args: []string{"-"}, stdin: "**bold**", want: []string{"<strong>bold</strong>"}},
		{name: "stdin markdown forced", args: []string{"-"}, stdin: "<b>x</b> and *y*", markdown: true, want: []string{"<em>y</em>"}},
		{name: "stdin twice", args: []string{"-", "-"}, stdin: "<p>x</p>", wantErr: ErrStdinReused},
		{name: "empty stdin", args: []string{"-"}, stdin: "   ", wantErr: ErrEmptyInput},
		{name: "empty file", args: []string{empty}, wantErr: ErrEmptyInput},
		{name: "relative image inlined", args: []string{html}, want: []string{"data:image/png;base64,"}},
		{name: "missing file", args: []string{filepath.Join(dir, "nope.html")}, wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newInputReader(strings.NewReader(tt.stdin), tt.markdown)
			docs, err := r.ReadAll(context.Background(), tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(docs) != len(tt.want) {
				t.Fatalf("got %d docs, want %d", len(docs), len(tt.want))
			}
			for i, want := range tt.want {
				if !strings.Contains(docs[i], want) {
					t.Errorf("doc %d = %q, want it to contain %q", i, docs[i], want)
				}
			}
		})
	}
}
