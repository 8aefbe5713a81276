// Package pipeline prepares page content before it reaches the PDF renderer.
//
// Stages:
//   - Markdown to HTML fragments via Goldmark (GFM, footnotes, chroma highlighting)
//   - Reduction of complete HTML documents to a body fragment plus head styles,
//     so a document can be embedded as one page of a multi-page layout
//   - Inlining of local images as data: URIs, since rendered pages are loaded
//     from a data: URL and cannot reach the file system
//
// Page geometry and PDF capture are handled by the root printdesk package.
package pipeline
