package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/procurement/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRenderer struct {
	req    *RenderRequest
	err    error
	closed bool
}

func (s *stubRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.7")}, nil
}

func (s *stubRenderer) Close() error {
	s.closed = true
	return nil
}

func TestDocumentPrinter_Print(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	t.Run("renders template then PDF", func(t *testing.T) {
		renderer := &stubRenderer{}
		printer := NewDocumentPrinter(engine, renderer, "")

		pdf, err := printer.Print(context.Background(), TemplatePurchaseOrder, "PO-2026-00042", sampleOrder())
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.7"), pdf)

		require.NotNil(t, renderer.req)
		assert.Equal(t, PaperSizeA4, renderer.req.PaperSize)
		assert.Equal(t, "PO-2026-00042", renderer.req.Title)
		assert.Contains(t, renderer.req.HTML, "Acme &lt;Components&gt;")
		assert.Contains(t, renderer.req.FooterHTML, "pageNumber")

		require.NoError(t, printer.Close())
		assert.True(t, renderer.closed)
	})

	t.Run("template errors skip rendering", func(t *testing.T) {
		renderer := &stubRenderer{}
		printer := NewDocumentPrinter(engine, renderer, PaperSizeLetter)

		_, err := printer.Print(context.Background(), "missing.html", "x", nil)
		require.Error(t, err)
		assert.Nil(t, renderer.req)
	})

	t.Run("renderer errors are returned", func(t *testing.T) {
		renderer := &stubRenderer{err: NewRenderError(ErrCodeRenderTimeout, "timed out", nil)}
		printer := NewDocumentPrinter(engine, renderer, PaperSizeA5)

		_, err := printer.Print(context.Background(), TemplatePurchaseOrder, "x", sampleOrder())
		var renderErr *RenderError
		require.True(t, errors.As(err, &renderErr))
		assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
		assert.Equal(t, PaperSizeA5, renderer.req.PaperSize)
	})
}

func TestNewPrinter(t *testing.T) {
	printer, err := NewPrinter(&config.PrintingConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, printer)

	_, err = NewPrinter(&config.PrintingConfig{Enabled: true, PaperSize: "tabloid"}, zap.NewNop())
	require.Error(t, err)

	printer, err = NewPrinter(&config.PrintingConfig{Enabled: true, PaperSize: "a5", RemoteURL: "ws://127.0.0.1:9222"}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, printer)
	assert.Equal(t, PaperSizeA5, printer.paperSize)
	require.NoError(t, printer.Close())
}
