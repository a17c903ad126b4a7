package printing

import (
	"context"
	_ "embed"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

//go:embed templates/invoice.html
var invoiceTemplate string

const invoiceFooter = `<div style="font-size:8px;width:100%;text-align:center;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

type invoiceData struct {
	Seller string
	Order  *order.Order
}

// InvoiceRenderer produces order invoices as PDF documents
type InvoiceRenderer struct {
	engine *TemplateEngine
	pdf    PDFRenderer
	seller string
	logger *zap.Logger
}

// NewInvoiceRenderer creates an invoice renderer. seller is printed in the header.
func NewInvoiceRenderer(engine *TemplateEngine, pdf PDFRenderer, seller string, logger *zap.Logger) *InvoiceRenderer {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	return &InvoiceRenderer{
		engine: engine,
		pdf:    pdf,
		seller: seller,
		logger: logger,
	}
}

// InvoiceHTML renders the invoice document without converting it
func (r *InvoiceRenderer) InvoiceHTML(ctx context.Context, o *order.Order) (string, error) {
	if o == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "order is nil", nil)
	}
	return r.engine.RenderString(ctx, "invoice", invoiceTemplate, invoiceData{
		Seller: r.seller,
		Order:  o,
	})
}

// RenderInvoice renders the invoice and converts it to PDF
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, o *order.Order) (_ []byte, err error) {
	ctx, span := telemetry.StartSpan(ctx, "printing.RenderInvoice",
		telemetry.AttrOrderNumber.String(o.Number))
	defer func() { telemetry.EndSpan(span, err) }()

	html, err := r.InvoiceHTML(ctx, o)
	if err != nil {
		return nil, err
	}

	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:       html,
		PaperSize:  PaperSizeA4,
		Margins:    DefaultMargins(),
		Title:      "Invoice " + o.Number,
		FooterHTML: invoiceFooter,
	})
	if err != nil {
		r.logger.Error("Failed to render invoice",
			zap.String("order_number", o.Number),
			zap.Error(err))
		return nil, err
	}

	r.logger.Debug("Invoice rendered",
		zap.String("order_number", o.Number),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result.PDFData, nil
}
