package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/cadboq/internal/drawing"
)

// ErrUnsupportedFormat is returned for files no parser can decode.
var ErrUnsupportedFormat = errors.New("unsupported drawing format")

// Parser decodes an uploaded drawing into its entity stream.
type Parser interface {
	Parse(ctx context.Context, r io.Reader, filename string) (*drawing.Drawing, error)
}

// Options configures the parsers returned by ForFile.
type Options struct {
	// ConverterPath is the ODA File Converter executable. Empty disables .dwg.
	ConverterPath  string
	OutputVersion  string
	ConvertTimeout time.Duration
	Logger         *slog.Logger
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".dxf": true,
	".dwg": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".dxf":
		return &DXFParser{Logger: logger}, nil
	case ".dwg":
		if opts.ConverterPath == "" {
			return nil, fmt.Errorf("%w: .dwg needs a DWG to DXF converter (set ODA_CONVERTER_PATH)", ErrUnsupportedFormat)
		}
		return &DWGParser{
			ConverterPath: opts.ConverterPath,
			OutputVersion: opts.OutputVersion,
			Timeout:       opts.ConvertTimeout,
			DXF:           &DXFParser{Logger: logger},
			Logger:        logger,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// drawingName strips directory and extension from an upload name.
func drawingName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
