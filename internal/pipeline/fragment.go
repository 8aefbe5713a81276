package pipeline

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrHTMLParse indicates page content could not be parsed as HTML.
var ErrHTMLParse = errors.New("HTML parse failed")

// MaxInlineImageSize caps a single image embedded as a data: URI (10 MiB).
var MaxInlineImageSize int64 = 10 << 20

// IsFullDocument reports whether content starts like a complete HTML document.
func IsFullDocument(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

// ExtractFragment reduces a complete HTML document to the children of its
// <body>, preceded by any <style> elements from <head>. Fragments are
// returned unchanged.
func ExtractFragment(content string) (string, error) {
	if !IsFullDocument(content) {
		return content, nil
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}

	var head, body *html.Node
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.DataAtom {
		case atom.Head:
			if head == nil {
				head = n
			}
		case atom.Body:
			if body == nil {
				body = n
			}
		}
		return head == nil || body == nil
	})

	var buf strings.Builder
	if head != nil {
		for c := head.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Style {
				if err := html.Render(&buf, c); err != nil {
					return "", fmt.Errorf("%w: %v", ErrHTMLParse, err)
				}
			}
		}
	}
	if body != nil {
		for c := body.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", fmt.Errorf("%w: %v", ErrHTMLParse, err)
			}
		}
	}
	return buf.String(), nil
}

// InlineLocalImages replaces relative img[src] paths with base64 data: URIs
// read from baseDir. If baseDir is empty, returns the HTML unchanged.
//
// Left as-is:
//   - URLs (http, https, file, data, protocol-relative) and anchors
//   - absolute paths
//   - paths escaping baseDir
//   - missing, unreadable or oversized files
func InlineLocalImages(content, baseDir string) (string, error) {
	if baseDir == "" || !strings.Contains(strings.ToLower(content), "<img") {
		return content, nil
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	root, isFragment, err := parseHTML(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}

	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			inlineSrc(n, absBase)
		}
		return true
	})

	return renderHTML(root, isFragment)
}

func inlineSrc(n *html.Node, baseDir string) {
	for i, attr := range n.Attr {
		if attr.Key != "src" || !isRelativePath(attr.Val) {
			continue
		}
		path := filepath.Join(baseDir, attr.Val)
		if !isPathUnderDir(path, baseDir) {
			continue
		}
		if uri, ok := dataURI(path); ok {
			n.Attr[i].Val = uri
		}
	}
}

// dataURI reads path and encodes it as a data: URI.
func dataURI(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() > MaxInlineImageSize {
		return "", false
	}
	data, err := os.ReadFile(path) // #nosec G304 -- confined to baseDir by isPathUnderDir
	if err != nil {
		return "", false
	}
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

// HasClass reports whether any element in content carries class as one of
// its class tokens. Text and attribute values that merely mention the name
// do not count.
func HasClass(content, class string) (bool, error) {
	root, _, err := parseHTML(content)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}

	found := false
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		for _, attr := range n.Attr {
			if attr.Namespace != "" || attr.Key != "class" {
				continue
			}
			for _, token := range strings.Fields(attr.Val) {
				if token == class {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found, nil
}

// walk visits n and its descendants depth-first while visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// parseHTML parses full documents as-is and fragments in a <body> context.
func parseHTML(content string) (*html.Node, bool, error) {
	if IsFullDocument(content) {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	bodyCtx := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), bodyCtx)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders a parsed tree. Fragments render their children only.
func renderHTML(root *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, root); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") || strings.HasPrefix(strings.ToLower(path), "data:") {
		return false
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir checks that path stays inside dir after cleaning.
func isPathUnderDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
