package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AswanthAllu/agentic/internal/core/domain"
	"github.com/AswanthAllu/agentic/internal/core/ports"
)

// Dispatcher routes extraction to a format-specific extractor by file
// extension, falling back to the mime type when the extension says
// nothing.
type Dispatcher struct {
	plaintext   ports.TextExtractor
	pdf         ports.TextExtractor
	spreadsheet ports.TextExtractor
}

func NewDispatcher(plaintext, pdf, spreadsheet ports.TextExtractor) *Dispatcher {
	return &Dispatcher{
		plaintext:   plaintext,
		pdf:         pdf,
		spreadsheet: spreadsheet,
	}
}

func (d *Dispatcher) Extract(ctx context.Context, path, mimeType string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return d.pdf.Extract(ctx, path, mimeType)
	case ".xlsx", ".xlsm", ".xls":
		return d.spreadsheet.Extract(ctx, path, mimeType)
	case ".txt", ".md", ".markdown", ".go", ".py", ".js", ".ts", ".java", ".c", ".cpp", ".json", ".yaml", ".yml", ".csv", ".html":
		return d.plaintext.Extract(ctx, path, mimeType)
	}

	switch {
	case mimeType == "application/pdf":
		return d.pdf.Extract(ctx, path, mimeType)
	case strings.HasPrefix(mimeType, "text/"):
		return d.plaintext.Extract(ctx, path, mimeType)
	}

	return "", domain.WrapError(domain.ErrExtraction, "dispatch extractor",
		fmt.Errorf("unsupported file type %q (%s)", filepath.Ext(path), mimeType))
}
