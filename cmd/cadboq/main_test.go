package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/cadboq/internal/report"
)

var sampleDXF = strings.Join([]string{
	"0", "SECTION", "2", "ENTITIES",
	"0", "LINE", "10", "0", "20", "0", "11", "20", "21", "0",
	"0", "CIRCLE", "10", "0", "20", "0", "40", "1",
	"0", "INSERT", "2", "DOOR_900", "10", "5", "20", "5",
	"0", "ENDSEC", "0", "EOF",
}, "\n") + "\n"

func writeDrawing(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.dxf")
	if err := os.WriteFile(path, []byte(sampleDXF), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEstimate_Table(t *testing.T) {
	out, _, err := execute(t, "estimate", writeDrawing(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{report.Title, "Source: plan.dxf", "₹15,000.00", "3 line items extracted"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEstimate_JSONWithOverride(t *testing.T) {
	out, _, err := execute(t, "estimate", writeDrawing(t), "--format", "json", "--override", `{"doors": 10000}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		GrandTotal float64 `json:"grand_total"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if got.GrandTotal != 16500 {
		t.Errorf("expected 16500, got %v", got.GrandTotal)
	}
}

func TestEstimate_BinaryToFile(t *testing.T) {
	drawing := writeDrawing(t)

	if _, _, err := execute(t, "estimate", drawing, "--format", "xlsx"); err == nil || !strings.Contains(err.Error(), "-o") {
		t.Errorf("expected -o error for binary output, got %v", err)
	}

	dest := filepath.Join(t.TempDir(), "out.xlsx")
	_, stderr, err := execute(t, "estimate", drawing, "--format", "xlsx", "-o", dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("PK")) {
		t.Error("expected an xlsx (zip) file")
	}
	if !strings.Contains(stderr, "wrote "+dest) {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestEstimate_RateFile(t *testing.T) {
	dir := t.TempDir()
	ratesPath := filepath.Join(dir, "rates.yaml")
	table := "rates:\n  - key: doors\n    component: Doors\n    unit: nos\n    rate: 7000\n"
	if err := os.WriteFile(ratesPath, []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, "estimate", writeDrawing(t), "--rates", ratesPath, "-f", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		Items      []json.RawMessage `json:"boq"`
		GrandTotal float64           `json:"grand_total"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 || got.GrandTotal != 7000 {
		t.Errorf("expected only doors priced, got %d items total %v", len(got.Items), got.GrandTotal)
	}
}

func TestEstimate_Errors(t *testing.T) {
	drawing := writeDrawing(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no file", []string{"estimate"}},
		{"missing file", []string{"estimate", filepath.Join(t.TempDir(), "nope.dxf")}},
		{"unknown format", []string{"estimate", drawing, "--format", "csv"}},
		{"bad override", []string{"estimate", drawing, "--override", "{"}},
		{"negative override", []string{"estimate", drawing, "--override", `{"doors": -1}`}},
		{"dwg without converter", []string{"estimate", strings.TrimSuffix(drawing, ".dxf") + ".dwg", "--converter", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEstimate_Verbose(t *testing.T) {
	_, stderr, err := execute(t, "estimate", writeDrawing(t), "--verbose")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "parsed drawing") {
		t.Errorf("expected debug logs on stderr, got %q", stderr)
	}
}

func TestRates(t *testing.T) {
	out, _, err := execute(t, "rates")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected header plus 11 rates, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "KEY") || !strings.HasPrefix(lines[1], "wall_conduits") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if !strings.Contains(out, "₹8,500.00") {
		t.Errorf("expected door rate in output:\n%s", out)
	}
}
