// Package printing renders sale receipts.
//
// TemplateEngine turns ReceiptData into HTML using html/template with
// locale-aware number formatting. PDFRenderer implementations convert that
// HTML into a PDF; ChromedpRenderer drives headless Chrome and prints on
// receipt paper of a configurable width.
//
//	engine := NewTemplateEngine()
//	html, err := engine.RenderReceipt(ctx, data)
//	if err != nil {
//	    return err
//	}
//	result, err := renderer.Render(ctx, &RenderRequest{HTML: html, PaperWidthMM: 80})
package printing
