package dxf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrBinary is returned for binary DXF input; only the ASCII encoding is decoded.
var ErrBinary = errors.New("binary DXF is not supported, save the drawing as ASCII DXF")

const binarySentinel = "AutoCAD Binary DXF"

// Tag is one group-code/value pair.
type Tag struct {
	Code  int
	Value string
}

// Float parses the value as a float64.
func (t Tag) Float() (float64, error) {
	f, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("group %d: invalid number %q", t.Code, t.Value)
	}
	return f, nil
}

// Int parses the value as an int.
func (t Tag) Int() (int, error) {
	n, err := strconv.Atoi(t.Value)
	if err != nil {
		return 0, fmt.Errorf("group %d: invalid integer %q", t.Code, t.Value)
	}
	return n, nil
}

// Scanner reads tags from an ASCII DXF stream, two lines at a time.
type Scanner struct {
	sc   *bufio.Scanner
	line int
	tag  Tag
	err  error
}

func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Scanner{sc: sc}
}

// Next advances to the next tag. It returns false at end of input or on error.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	if !s.sc.Scan() {
		s.err = s.sc.Err()
		return false
	}
	s.line++
	codeLine := strings.TrimSpace(s.sc.Text())
	if s.line == 1 {
		codeLine = strings.TrimPrefix(codeLine, "\ufeff")
		if strings.HasPrefix(codeLine, binarySentinel) {
			s.err = ErrBinary
			return false
		}
	}
	if codeLine == "" {
		s.drainBlank()
		return false
	}
	code, err := strconv.Atoi(codeLine)
	if err != nil {
		s.err = fmt.Errorf("line %d: invalid group code %q", s.line, codeLine)
		return false
	}
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			s.err = err
		} else {
			s.err = fmt.Errorf("line %d: group %d has no value: %w", s.line, code, io.ErrUnexpectedEOF)
		}
		return false
	}
	s.line++
	s.tag = Tag{Code: code, Value: strings.TrimSpace(s.sc.Text())}
	return true
}

// drainBlank accepts trailing blank lines and fails on anything after them.
func (s *Scanner) drainBlank() {
	blankAt := s.line
	for s.sc.Scan() {
		s.line++
		if strings.TrimSpace(s.sc.Text()) != "" {
			s.err = fmt.Errorf("line %d: missing group code", blankAt)
			return
		}
	}
	s.err = s.sc.Err()
}

// Tag returns the current tag.
func (s *Scanner) Tag() Tag { return s.tag }

// Err returns the first error encountered, or nil at a clean end of input.
func (s *Scanner) Err() error { return s.err }
