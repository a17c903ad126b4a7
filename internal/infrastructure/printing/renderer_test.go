package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperSize(t *testing.T) {
	tests := []struct {
		size   PaperSize
		valid  bool
		width  int
		height int
	}{
		{PaperSizeA4, true, 210, 297},
		{PaperSizeA5, true, 148, 210},
		{PaperSizeLetter, true, 216, 279},
		{PaperSize("INVALID"), false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.size.IsValid())
			w, h := tt.size.Dimensions()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}

func TestRenderError(t *testing.T) {
	cause := errors.New("chrome crashed")
	err := NewRenderError(ErrCodeRenderFailed, "render failed", cause)

	assert.Equal(t, "render failed: chrome crashed", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bare", NewRenderError(ErrCodeInvalidHTML, "bare", nil).Error())
}

func TestChromedpRender_RejectsInvalidRequests(t *testing.T) {
	r := NewChromedpRenderer(nil)
	t.Cleanup(func() { _ = r.Close() })

	tests := []struct {
		name string
		req  *RenderRequest
		code string
	}{
		{"nil request", nil, ErrCodeInvalidHTML},
		{"empty HTML", &RenderRequest{HTML: "  \n\t", PaperSize: PaperSizeA4}, ErrCodeInvalidHTML},
		{"invalid paper size", &RenderRequest{HTML: "<p>x</p>", PaperSize: "B7"}, ErrCodeInvalidPaperSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(context.Background(), tt.req)
			var re *RenderError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.code, re.Code)
		})
	}
}

func TestPrintOptions(t *testing.T) {
	params := printOptions(&RenderRequest{
		HTML:      "<html>test</html>",
		PaperSize: PaperSizeA4,
		Margins:   DefaultMargins(),
	})
	assert.InDelta(t, 210/25.4, params.PaperWidth, 0.01)
	assert.InDelta(t, 297/25.4, params.PaperHeight, 0.01)
	assert.InDelta(t, 12/25.4, params.MarginTop, 0.01)
	assert.False(t, params.Landscape)
	assert.True(t, params.PrintBackground)
	assert.False(t, params.DisplayHeaderFooter)

	params = printOptions(&RenderRequest{
		HTML:       "<html>test</html>",
		PaperSize:  PaperSizeLetter,
		Landscape:  true,
		FooterHTML: `<span class="pageNumber"></span>`,
	})
	assert.True(t, params.Landscape)
	assert.True(t, params.DisplayHeaderFooter)
	assert.Equal(t, "<span></span>", params.HeaderTemplate)
	assert.InDelta(t, 10/25.4, params.MarginBottom, 0.01, "footer needs a minimum margin")
}

func TestWrapDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, wrapDocument(&RenderRequest{HTML: full}))

	wrapped := wrapDocument(&RenderRequest{HTML: "<p>x</p>", Title: "Invoice <1>"})
	assert.Contains(t, wrapped, "<!DOCTYPE html>")
	assert.Contains(t, wrapped, "<title>Invoice &lt;1&gt;</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("%PDF-1.4 /Type /Pages /Type /Page /Type /Page %%EOF")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("garbage")))
}
