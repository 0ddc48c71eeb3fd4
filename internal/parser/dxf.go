package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/cadboq/internal/drawing"
	"github.com/dgallion1/cadboq/internal/dxf"
)

// DXFParser handles ASCII DXF files.
type DXFParser struct {
	Logger *slog.Logger
}

func (p *DXFParser) Parse(ctx context.Context, r io.Reader, filename string) (*drawing.Drawing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, doc, err := dxf.DecodeDrawing(drawingName(filename), r)
	if err != nil {
		return nil, fmt.Errorf("decode dxf: %w", err)
	}
	if p.Logger != nil && (len(doc.Unsupported) > 0 || doc.PaperSpace > 0) {
		p.Logger.Debug("skipped entities",
			"file", filename,
			"types", doc.Unsupported,
			"paper_space", doc.PaperSpace,
		)
	}
	return d, nil
}
