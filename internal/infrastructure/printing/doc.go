// Package printing renders HTML documents to PDF using a headless Chrome
// instance driven over the DevTools Protocol.
//
// The ChromedpRenderer implements both the package-level PDFRenderer
// interface and the trade application's DocumentRenderer port, so quotation
// and order documents can be downloaded as PDFs.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{
//	    NoSandbox: true, // required when running as root in a container
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	pdf, err := renderer.RenderPDF(ctx, "<html>...</html>")
package printing
