package rates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// File is the on-disk shape of a rate table:
//
//	currency: INR
//	rates:
//	  - key: doors
//	    component: Doors
//	    unit: nos
//	    rate: 8500
type File struct {
	Currency string  `json:"currency,omitempty" yaml:"currency,omitempty"`
	Rates    []Entry `json:"rates" yaml:"rates"`
}

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) rate table.
func LoadFile(path string) (*StaticTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate table: %w", err)
	}
	t, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("rate table %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Parse decodes a rate table; ext selects the format and defaults to YAML.
func Parse(data []byte, ext string) (*StaticTable, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}
	if len(f.Rates) == 0 {
		return nil, fmt.Errorf("no rate entries")
	}
	return New(f.Rates)
}

// ParseOverrides decodes a JSON object of key -> rate, as sent with a request.
// An empty string yields no overrides.
func ParseOverrides(s string) (map[string]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out map[string]float64
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("invalid rate overrides: %w", err)
	}
	return out, nil
}
