package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-printdesk/internal/pipeline"
)

// Sentinel errors for input handling.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadInput    = errors.New("failed to read input")
	ErrStdinReused  = errors.New("stdin (-) can only be used once")
	ErrEmptyInput   = errors.New("input is empty")
	ErrMissingValue = errors.New("missing required flag")
)

// stdinArg names standard input on the command line.
const stdinArg = "-"

// inputReader turns command-line inputs into HTML documents.
type inputReader struct {
	stdin     io.Reader
	markdown  bool // treat stdin as markdown
	converter pipeline.HTMLConverter
}

func newInputReader(stdin io.Reader, markdown bool) *inputReader {
	return &inputReader{
		stdin:     stdin,
		markdown:  markdown,
		converter: pipeline.NewGoldmarkConverter(),
	}
}

// ReadAll returns one HTML document per argument, in order.
func (r *inputReader) ReadAll(ctx context.Context, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	seenStdin := false
	docs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == stdinArg {
			if seenStdin {
				return nil, ErrStdinReused
			}
			seenStdin = true
		}
		doc, err := r.read(ctx, arg)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *inputReader) read(ctx context.Context, arg string) (string, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(r.stdin)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		content := string(data)
		if strings.TrimSpace(content) == "" {
			return "", fmt.Errorf("%w: stdin", ErrEmptyInput)
		}
		if r.markdown || !looksLikeHTML(content) {
			return r.converter.ToHTML(ctx, content)
		}
		return content, nil
	}

	data, err := os.ReadFile(arg) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyInput, arg)
	}

	if pipeline.IsMarkdownFile(arg) {
		content, err = r.converter.ToHTML(ctx, content)
		if err != nil {
			return "", err
		}
	}

	// Pages load from a data: URL, so relative images must be embedded.
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return pipeline.InlineLocalImages(content, filepath.Dir(abs))
}

// looksLikeHTML reports whether content starts with a tag or doctype.
func looksLikeHTML(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "<")
}
