package printdesk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alnah/go-printdesk/internal/pipeline"
)

// pageClass marks one printed sheet.
const pageClass = "print-page"

// typography is shared by single documents and page blocks.
const typography = `font-family: 'Times New Roman', serif;
            font-size: 12pt;
            line-height: 1.5;`

// baseCSS resets browser defaults and spaces block text.
const baseCSS = `* {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        h1, h2, h3, h4, h5, h6 {
            margin-bottom: 0.5em;
        }
        p {
            margin-bottom: 0.5em;
        }`

// buildDocumentHTML wraps content in a complete document sized for cfg.
// Content without its own .print-page blocks is placed in one, so the
// margin padding always applies. Complete documents are reduced to their
// body first.
func buildDocumentHTML(content string, cfg PrintConfig) (string, error) {
	body, err := pipeline.ExtractFragment(content)
	if err != nil {
		return "", err
	}
	paged, err := pipeline.HasClass(body, pageClass)
	if err != nil {
		return "", err
	}
	if !paged {
		body = `<div class="` + pageClass + `">` + body + `</div>`
	}

	w, h := cfg.PageSize()
	css := fmt.Sprintf(`%s
        @page {
            size: %smm %smm;
            margin: 0;
        }
        body {
            width: %smm;
            margin: 0;
            padding: 0;
            background: white;
        }
        .%s {
            width: %smm;
            min-height: %smm;
            padding: %smm;
            background: white;
            page-break-after: always;
            %s
        }
        .%s:last-child {
            page-break-after: avoid;
        }`,
		baseCSS,
		mm(w), mm(h),
		mm(w),
		pageClass, mm(w), mm(h), mm(cfg.MarginsMM), typography,
		pageClass)

	return wrapDocument(css, body), nil
}

// buildPagesHTML lays out one fixed-size block per page. Blocks are clipped
// to the sheet, and every block but the last forces a page break.
func buildPagesHTML(pages []string, cfg PrintConfig) (string, error) {
	w, h := cfg.PageSize()

	var b strings.Builder
	for i, page := range pages {
		content, err := pipeline.ExtractFragment(page)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		pageBreak := ""
		if i < len(pages)-1 {
			pageBreak = "page-break-after: always;"
		}
		fmt.Fprintf(&b, `<div class="%s" style="
            width: %smm;
            height: %smm;
            padding: %smm;
            background: white;
            %s
            box-sizing: border-box;
            overflow: hidden;
            %s
        ">%s</div>`,
			pageClass, mm(w), mm(h), mm(cfg.MarginsMM), typography, pageBreak, content)
	}

	css := fmt.Sprintf(`%s
        @page {
            size: %smm %smm;
            margin: 0;
        }
        body {
            margin: 0;
            padding: 0;
            background: white;
        }
        .%s {
            page-break-inside: avoid;
        }`,
		baseCSS, mm(w), mm(h), pageClass)

	return wrapDocument(css, b.String()), nil
}

func wrapDocument(css, body string) string {
	return `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        ` + css + `
    </style>
</head>
<body>
` + body + `
</body>
</html>`
}

// mm formats a millimetre value without trailing zeros ("215.9", "10").
func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
