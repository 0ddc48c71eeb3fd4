// Package dxf decodes the ENTITIES section of ASCII DXF drawings into
// drawing entities.
package dxf

import (
	"fmt"
	"io"

	"github.com/dgallion1/cadboq/internal/drawing"
)

// Document is the decoded model space of a DXF file.
type Document struct {
	Entities []drawing.Entity
	// Unsupported counts entity records of types that were skipped, by type name.
	Unsupported map[string]int
	// PaperSpace counts entities skipped because they live in paper space
	// (group 67 = 1), such as title blocks and viewport frames.
	PaperSpace int
}

type record struct {
	typ  string
	line int
	tags []Tag
}

type decoder struct {
	doc     *Document
	pending *drawing.Polyline // open POLYLINE awaiting VERTEX/SEQEND
	// skipping is set while the VERTEX/SEQEND records of a paper-space
	// POLYLINE are consumed.
	skipping bool
}

// Decode reads an ASCII DXF stream. Only the ENTITIES section contributes;
// a file without one decodes to an empty Document.
func Decode(r io.Reader) (*Document, error) {
	s := NewScanner(r)
	d := &decoder{doc: &Document{Unsupported: make(map[string]int)}}

	var (
		section     string
		wantSection bool
		cur         *record
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		rec := cur
		cur = nil
		if err := d.emit(rec); err != nil {
			return fmt.Errorf("%s entity near line %d: %w", rec.typ, rec.line, err)
		}
		return nil
	}

	for s.Next() {
		t := s.Tag()
		if wantSection {
			wantSection = false
			if t.Code == 2 {
				section = t.Value
				continue
			}
		}
		if t.Code == 0 {
			switch t.Value {
			case "SECTION":
				wantSection = true
				continue
			case "ENDSEC", "EOF":
				if section == "ENTITIES" {
					if err := flush(); err != nil {
						return nil, err
					}
					d.closePolyline()
				}
				section = ""
				if t.Value == "EOF" {
					return d.doc, nil
				}
				continue
			}
			if section == "ENTITIES" {
				if err := flush(); err != nil {
					return nil, err
				}
				cur = &record{typ: t.Value, line: s.line}
			}
			continue
		}
		if cur != nil {
			cur.tags = append(cur.tags, t)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	d.closePolyline()
	return d.doc, nil
}

func (d *decoder) emit(rec *record) error {
	switch {
	case rec.typ == "VERTEX" || rec.typ == "SEQEND":
		if d.skipping {
			d.skipping = rec.typ == "VERTEX"
			return nil
		}
	case inPaperSpace(rec.tags):
		d.closePolyline()
		d.doc.PaperSpace++
		d.skipping = rec.typ == "POLYLINE"
		return nil
	default:
		d.skipping = false
	}

	switch rec.typ {
	case "POLYLINE":
		d.closePolyline()
		f, err := flags(rec.tags)
		if err != nil {
			return err
		}
		d.pending = &drawing.Polyline{Closed: f&1 != 0}
		return nil
	case "VERTEX":
		if d.pending == nil {
			d.doc.Unsupported[rec.typ]++
			return nil
		}
		f, err := flags(rec.tags)
		if err != nil {
			return err
		}
		// Spline frame control points are not on the curve.
		if f&vertexSplineFrame != 0 {
			return nil
		}
		p, err := vertex(rec.tags)
		if err != nil {
			return err
		}
		d.pending.Vertices = append(d.pending.Vertices, p)
		return nil
	case "SEQEND":
		d.closePolyline()
		return nil
	}

	d.closePolyline()
	b, ok := builders[rec.typ]
	if !ok {
		d.doc.Unsupported[rec.typ]++
		return nil
	}
	e, err := b(rec.tags)
	if err != nil {
		return err
	}
	d.doc.Entities = append(d.doc.Entities, e)
	return nil
}

func (d *decoder) closePolyline() {
	if d.pending == nil {
		return
	}
	d.doc.Entities = append(d.doc.Entities, *d.pending)
	d.pending = nil
}

// DecodeDrawing decodes r into a named Drawing.
func DecodeDrawing(name string, r io.Reader) (*drawing.Drawing, *Document, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, nil, err
	}
	return &drawing.Drawing{Name: name, Entities: doc.Entities}, doc, nil
}
