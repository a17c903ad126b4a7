// Package printing renders order invoices. Invoices are HTML documents built
// with html/template and converted to PDF by headless Chrome over the
// DevTools protocol (chromedp).
//
// Example usage:
//
//	pdf := NewChromedpRenderer(ChromedpConfigFrom(cfg.Printing, logger))
//	defer pdf.Close()
//
//	invoices := NewInvoiceRenderer(NewTemplateEngine(), pdf, cfg.App.Name, logger)
//	data, err := invoices.RenderInvoice(ctx, order)
package printing
