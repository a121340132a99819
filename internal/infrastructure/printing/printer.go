package printing

import (
	"context"

	"github.com/erp/procurement/internal/infrastructure/config"
	"go.uber.org/zap"
)

// DocumentPrinter renders a template to PDF
type DocumentPrinter struct {
	engine    *TemplateEngine
	renderer  PDFRenderer
	paperSize PaperSize
	margins   Margins
}

// NewDocumentPrinter combines a template engine with a PDF renderer
func NewDocumentPrinter(engine *TemplateEngine, renderer PDFRenderer, paperSize PaperSize) *DocumentPrinter {
	if paperSize == "" {
		paperSize = PaperSizeA4
	}
	return &DocumentPrinter{
		engine:    engine,
		renderer:  renderer,
		paperSize: paperSize,
		margins:   DefaultMargins(),
	}
}

// NewPrinter builds the chromedp-backed printer, or returns nil when printing is disabled
func NewPrinter(cfg *config.PrintingConfig, log *zap.Logger) (*DocumentPrinter, error) {
	if !cfg.Enabled {
		log.Info("PDF printing disabled")
		return nil, nil
	}
	paperSize, err := ParsePaperSize(cfg.PaperSize)
	if err != nil {
		return nil, err
	}
	engine, err := NewTemplateEngine()
	if err != nil {
		return nil, err
	}
	renderer := NewChromedpRenderer(ChromedpConfig{
		DefaultTimeout: cfg.Timeout,
		RemoteURL:      cfg.RemoteURL,
		NoSandbox:      cfg.NoSandbox,
		Logger:         log.Named("chromedp"),
	})
	log.Info("PDF printing enabled",
		zap.String("paper_size", string(paperSize)),
		zap.Bool("remote", cfg.RemoteURL != ""),
	)
	return NewDocumentPrinter(engine, renderer, paperSize), nil
}

// Print renders the named template with data and converts it to PDF
func (p *DocumentPrinter) Print(ctx context.Context, templateName, title string, data any) ([]byte, error) {
	html, err := p.engine.Render(ctx, templateName, data)
	if err != nil {
		return nil, err
	}
	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		PaperSize:  p.paperSize,
		Margins:    p.margins,
		Title:      title,
		FooterHTML: pageFooter,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// Close releases the renderer
func (p *DocumentPrinter) Close() error {
	return p.renderer.Close()
}

const pageFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#666;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`
