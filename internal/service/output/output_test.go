package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mekedron/geopoint/internal/domain"
	"github.com/mekedron/geopoint/internal/service/output"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]output.Format{
		"":       output.FormatTable,
		"table":  output.FormatTable,
		" JSON ": output.FormatJSON,
		"yaml":   output.FormatYAML,
	}
	for input, want := range cases {
		got, err := output.ParseFormat(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("expected %q for %q, got %q", want, input, got)
		}
	}
	if _, err := output.ParseFormat("xml"); err == nil || !strings.Contains(err.Error(), "table, json, yaml") {
		t.Fatalf("expected xml format to be rejected with the known formats, got %v", err)
	}
	if got := output.Formats(); len(got) != 3 || got[0] != output.FormatTable {
		t.Fatalf("unexpected formats %v", got)
	}
}

func TestWriterEnvelope(t *testing.T) {
	w := output.Writer{Format: output.FormatJSON, Command: "new", UnitsPerDegree: 3600000}
	env := w.Envelope(map[string]any{"ok": true}, nil, nil)
	if env.Meta.Command != "new" || env.Meta.Format != output.FormatJSON || env.Meta.UnitsPerDegree != 3600000 {
		t.Fatalf("unexpected meta %+v", env.Meta)
	}
	if !strings.HasPrefix(env.Meta.RequestID, "req_") {
		t.Fatalf("expected request_id prefix req_, got %q", env.Meta.RequestID)
	}
	if !strings.HasSuffix(env.Meta.GeneratedAt, "Z") {
		t.Fatalf("expected generated_at to end with Z, got %q", env.Meta.GeneratedAt)
	}
	if env.Warnings == nil || len(env.Warnings) != 0 {
		t.Fatalf("expected empty warnings, got %v", env.Warnings)
	}
	if env.Error != nil {
		t.Fatalf("expected no error block, got %+v", env.Error)
	}
}

func TestRenderPayload(t *testing.T) {
	w := output.Writer{Format: output.FormatYAML, Command: "new", UnitsPerDegree: 1}
	env := w.Envelope(map[string]any{"point": domain.NewTokyoGeoPoint(35, 135)}, []string{"warn"}, nil)

	jsonPayload, err := output.RenderPayload(env, output.FormatJSON)
	if err != nil {
		t.Fatalf("render json failed: %v", err)
	}
	if !strings.Contains(jsonPayload, "\"datum\": \"tokyo\"") || strings.Contains(jsonPayload, "\"error\"") {
		t.Fatalf("unexpected json payload %s", jsonPayload)
	}

	yamlPayload, err := output.RenderPayload(env, output.FormatYAML)
	if err != nil {
		t.Fatalf("render yaml failed: %v", err)
	}
	for _, want := range []string{"command: new", "format: yaml", "units_per_degree: 1", "latitude: 35"} {
		if !strings.Contains(yamlPayload, want) {
			t.Fatalf("expected %q in yaml payload, got %s", want, yamlPayload)
		}
	}
	if strings.HasSuffix(yamlPayload, "\n") {
		t.Fatalf("expected trailing newline to be trimmed, got %q", yamlPayload)
	}

	if _, err := output.RenderPayload(env, output.FormatTable); err == nil {
		t.Fatal("expected table format to be rejected by RenderPayload")
	}
}

func TestWriterResultTableAppendsWarnings(t *testing.T) {
	buf := &bytes.Buffer{}
	w := output.Writer{Out: buf, Format: output.FormatTable, Command: "geocode"}
	err := w.Result(nil, []string{"rounded"}, func() string { return "35x135" })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "35x135\nwarning: rounded\n" {
		t.Fatalf("unexpected table output %q", buf.String())
	}
}

func TestWriterResultSkipsTableForMachineFormats(t *testing.T) {
	buf := &bytes.Buffer{}
	w := output.Writer{Out: buf, Format: output.FormatJSON, Command: "datums"}
	err := w.Result([]string{"tokyo"}, nil, func() string {
		t.Fatal("table renderer must not run for json")
		return ""
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"data": [`) {
		t.Fatalf("unexpected json output %s", buf.String())
	}
}

func TestWriterFail(t *testing.T) {
	buf := &bytes.Buffer{}
	w := output.Writer{Out: buf, Format: output.FormatJSON, Command: "parse"}
	if err := w.Fail("GEOPOINT_INVALID_ARGUMENT", "bad point"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"code": "GEOPOINT_INVALID_ARGUMENT"`, `"message": "bad point"`, `"data": null`} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in %s", want, buf.String())
		}
	}

	buf.Reset()
	w.Format = output.FormatTable
	if err := w.Fail("GEOPOINT_INVALID_ARGUMENT", "bad point"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "bad point\n" {
		t.Fatalf("unexpected table failure %q", buf.String())
	}
}

func TestWriteOutputMirrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	buf := &bytes.Buffer{}
	if err := output.WriteOutput(buf, "35x135", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "35x135\n" {
		t.Fatalf("unexpected stdout payload %q", buf.String())
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	if string(payload) != "35x135\n" {
		t.Fatalf("unexpected file payload %q", payload)
	}
}

func TestRenderTable(t *testing.T) {
	got := output.RenderTable("Points", []string{"DATUM", "POINT"}, [][]string{{"tokyo", "35x135"}})
	want := "Points\nDATUM\tPOINT\ntokyo\t35x135"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := (output.Table{Rows: [][]string{{"a", "b"}}}).String(); got != "a\tb" {
		t.Fatalf("expected bare row, got %q", got)
	}
}
