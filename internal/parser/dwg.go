package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/cadboq/internal/drawing"
)

// DWGParser converts DWG files to DXF with the ODA File Converter, then
// decodes the result. Each conversion runs in its own temp directories.
type DWGParser struct {
	ConverterPath string
	OutputVersion string // e.g. ACAD2018
	Timeout       time.Duration
	DXF           *DXFParser
	Logger        *slog.Logger
}

func (p *DWGParser) Parse(ctx context.Context, r io.Reader, filename string) (*drawing.Drawing, error) {
	inDir, err := os.MkdirTemp("", "cadboq-dwg-in-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(inDir)
	outDir, err := os.MkdirTemp("", "cadboq-dwg-out-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	name := drawingName(filename)
	inPath := filepath.Join(inDir, "drawing.dwg")
	f, err := os.Create(inPath)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	start := time.Now()
	if err := p.convert(ctx, inDir, outDir); err != nil {
		return nil, err
	}
	if p.Logger != nil {
		p.Logger.Info("converted dwg", "file", filename, "duration_ms", time.Since(start).Milliseconds())
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "*.[dD][xX][fF]"))
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("dwg conversion produced no dxf output")
	}
	out, err := os.Open(matches[0])
	if err != nil {
		return nil, fmt.Errorf("open converted dxf: %w", err)
	}
	defer out.Close()

	dxfParser := p.DXF
	if dxfParser == nil {
		dxfParser = &DXFParser{Logger: p.Logger}
	}
	return dxfParser.Parse(ctx, out, name+".dxf")
}

func (p *DWGParser) convert(ctx context.Context, inDir, outDir string) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	version := p.OutputVersion
	if version == "" {
		version = "ACAD2018"
	}

	// ODAFileConverter <in> <out> <version> <type> <recurse> <audit> <filter>
	cmd := exec.CommandContext(ctx, p.ConverterPath, inDir, outDir, version, "DXF", "0", "1", "*.dwg")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("dwg conversion: %w", ctx.Err())
		}
		msg := strings.TrimSpace(string(output))
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return fmt.Errorf("dwg conversion failed: %w: %s", err, msg)
	}
	return nil
}
