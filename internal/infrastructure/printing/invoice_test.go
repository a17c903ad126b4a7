package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPDFRenderer struct {
	mock.Mock
}

func (m *mockPDFRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RenderResult), args.Error(1)
}

func (m *mockPDFRenderer) Close() error {
	return m.Called().Error(0)
}

func sampleOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(uuid.New(), "EUR",
		order.Contact{Name: "Aigerim <Admin>", Email: "a@example.com"},
		order.ShippingAddress{Country: "kz", City: "Almaty", Address: "Abay 1", PostalCode: "050000"},
		"leave at the door")
	require.NoError(t, err)
	require.NoError(t, o.AddLine(order.Line{
		ItemID:      uuid.New(),
		WarehouseID: uuid.New(),
		Article:     "AB-1",
		Name:        "Brake pad",
		UnitPrice:   decimal.RequireFromString("1234.5"),
		Quantity:    2,
	}))
	return o
}

func TestInvoiceHTML(t *testing.T) {
	r := NewInvoiceRenderer(nil, nil, "Storefront", zap.NewNop())
	o := sampleOrder(t)

	html, err := r.InvoiceHTML(context.Background(), o)
	require.NoError(t, err)

	assert.Contains(t, html, "Invoice "+o.Number)
	assert.Contains(t, html, "Storefront")
	assert.Contains(t, html, "AB-1")
	assert.Contains(t, html, "Brake pad")
	assert.Contains(t, html, "1,234.50")
	assert.Contains(t, html, "2,469.00 EUR")
	assert.Contains(t, html, "Awaiting payment")
	assert.Contains(t, html, "KZ")
	// user-provided text stays escaped
	assert.Contains(t, html, "Aigerim &lt;Admin&gt;")
	assert.NotContains(t, html, "<Admin>")
}

func TestInvoiceHTML_NilOrder(t *testing.T) {
	r := NewInvoiceRenderer(nil, nil, "Storefront", zap.NewNop())

	_, err := r.InvoiceHTML(context.Background(), nil)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidHTML, re.Code)
}

func TestRenderInvoice(t *testing.T) {
	pdf := new(mockPDFRenderer)
	r := NewInvoiceRenderer(NewTemplateEngine(), pdf, "Storefront", zap.NewNop())
	o := sampleOrder(t)

	pdf.On("Render", mock.Anything, mock.MatchedBy(func(req *RenderRequest) bool {
		return req.PaperSize == PaperSizeA4 && req.Title == "Invoice "+o.Number && req.FooterHTML != ""
	})).Return(&RenderResult{PDFData: []byte("%PDF-1.4"), PageCount: 1}, nil)

	data, err := r.RenderInvoice(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	pdf.AssertExpectations(t)
}

func TestRenderInvoice_RendererFailure(t *testing.T) {
	pdf := new(mockPDFRenderer)
	r := NewInvoiceRenderer(nil, pdf, "Storefront", zap.NewNop())

	pdf.On("Render", mock.Anything, mock.Anything).
		Return(nil, NewRenderError(ErrCodeRenderTimeout, "timed out", errors.New("deadline")))

	_, err := r.RenderInvoice(context.Background(), sampleOrder(t))
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeRenderTimeout, re.Code)
}
