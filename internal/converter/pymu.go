// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package converter

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdfbatch/pkg/types"
)

// Pymu extracts plain text in-process. It is the only variant that honors
// a page limit, and it emits no structural markup.
type Pymu struct{}

// NewPymu creates the fast-text converter.
func NewPymu() *Pymu { return &Pymu{} }

// Variant implements Converter.
func (*Pymu) Variant() types.Variant { return types.VariantPymu }

// Convert extracts text from the first min(pages, total) pages, or all
// pages when pages is negative. Each page becomes a "Page N:" block; pages
// without extractable content keep their block so numbering stays aligned
// with the source document.
func (*Pymu) Convert(ctx context.Context, pdfPath string, pages int) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", &EngineError{Engine: "pymu", Path: pdfPath, Err: err}
	}
	defer f.Close()

	total := r.NumPage()
	n := pageCount(total, pages)

	blocks := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		var text string
		if p := r.Page(i); !p.V.IsNull() {
			text, err = p.GetPlainText(nil)
			if err != nil {
				return "", &EngineError{Engine: "pymu", Path: pdfPath, Err: fmt.Errorf("page %d: %w", i, err)}
			}
		}
		blocks = append(blocks, fmt.Sprintf("Page %d:\n%s\n", i, text))
	}

	return strings.Join(blocks, "\n"), nil
}

// pageCount resolves a page limit against the document's page total.
func pageCount(total, limit int) int {
	if limit < 0 || limit > total {
		return total
	}
	return limit
}
