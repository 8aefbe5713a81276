// Package printdesk renders HTML to PDF with headless Chrome and sends the
// result to a system printer or to a file.
//
// # Quick Start
//
//	svc, err := printdesk.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	res, err := svc.PrintDocument(ctx, printdesk.PrintRequest{
//	    Config:      printdesk.DefaultPrintConfig(),
//	    HTMLContent: "<h1>Invoice</h1>",
//	})
//	if err != nil {
//	    log.Fatal(err) // hard error: nothing was printed
//	}
//	if !res.Success {
//	    fmt.Println(res.Message) // soft failure: the print command refused the job
//	}
//
// # Operations
//
//   - ListPrinters enumerates installed printers; exactly one is marked default
//     whenever the list is non-empty.
//   - PrintDocument and PrintDocumentPages render, pick a printer (explicit ID
//     or the default) and submit the staged PDF.
//   - SavePDFToPath and SavePDFPagesToPath render and copy the PDF to a path.
//
// Every operation stages the PDF as a uniquely named temporary file and
// removes it afterwards, whatever the outcome.
//
// # Layout
//
// Page geometry lives in CSS: an @page rule sized from the paper format and
// orientation, and margins applied as padding on each .print-page block.
// Chrome is asked for zero margins and preferCSSPageSize so the CSS wins.
// In multi-page requests each page is clipped to one sheet.
//
// # Parallel Processing
//
// A Service owns one browser. Servers handling concurrent requests should use
// ServicePool, which hands out one Service per in-flight request.
package printdesk
