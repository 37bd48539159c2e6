package output

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format represents command output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var formats = []Format{FormatTable, FormatJSON, FormatYAML}

// Formats lists the accepted formats, table first.
func Formats() []Format {
	return slices.Clone(formats)
}

// ParseFormat normalizes a format name. Empty means table.
func ParseFormat(v string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(v)))
	if format == "" {
		return FormatTable, nil
	}
	if !slices.Contains(formats, format) {
		names := make([]string, 0, len(formats))
		for _, known := range formats {
			names = append(names, string(known))
		}
		return "", fmt.Errorf("unsupported format %q (expected %s)", v, strings.Join(names, ", "))
	}
	return format, nil
}

// Meta describes the invocation that produced an envelope.
type Meta struct {
	RequestID      string `json:"request_id" yaml:"request_id"`
	GeneratedAt    string `json:"generated_at" yaml:"generated_at"`
	Command        string `json:"command" yaml:"command"`
	Format         Format `json:"format" yaml:"format"`
	UnitsPerDegree int    `json:"units_per_degree" yaml:"units_per_degree"`
}

// Failure is the error block of a failed command.
type Failure struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Envelope is the json/yaml form of every command result.
type Envelope struct {
	Meta     Meta     `json:"meta" yaml:"meta"`
	Data     any      `json:"data" yaml:"data"`
	Warnings []string `json:"warnings" yaml:"warnings"`
	Error    *Failure `json:"error,omitempty" yaml:"error,omitempty"`
}

func newRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "req_" + strings.Repeat("0", 16)
	}
	return "req_" + hex.EncodeToString(buf)
}

// Writer sends one command's result to Out and, when Path is set, to a file.
type Writer struct {
	Out            io.Writer
	Path           string
	Format         Format
	Command        string
	UnitsPerDegree int
}

// Envelope stamps data with this writer's metadata.
func (w Writer) Envelope(data any, warnings []string, failure *Failure) Envelope {
	if warnings == nil {
		warnings = []string{}
	}
	return Envelope{
		Meta: Meta{
			RequestID:      newRequestID(),
			GeneratedAt:    time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
			Command:        w.Command,
			Format:         w.Format,
			UnitsPerDegree: w.UnitsPerDegree,
		},
		Data:     data,
		Warnings: warnings,
		Error:    failure,
	}
}

// Result writes a successful result. table is only called for table output.
func (w Writer) Result(data any, warnings []string, table func() string) error {
	if w.Format != FormatTable {
		return w.writeEnvelope(w.Envelope(data, warnings, nil))
	}
	lines := append([]string{table()}, prefixed("warning: ", warnings)...)
	return WriteOutput(w.Out, strings.Join(lines, "\n"), w.Path)
}

// Fail writes a failure. Table output gets the bare message.
func (w Writer) Fail(code, message string) error {
	if w.Format == FormatTable {
		return WriteOutput(w.Out, message, w.Path)
	}
	return w.writeEnvelope(w.Envelope(nil, nil, &Failure{Code: code, Message: message}))
}

func (w Writer) writeEnvelope(env Envelope) error {
	rendered, err := RenderPayload(env, w.Format)
	if err != nil {
		return err
	}
	return WriteOutput(w.Out, rendered, w.Path)
}

func prefixed(prefix string, values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, prefix+value)
	}
	return out
}

// RenderPayload encodes env as json or yaml without a trailing newline.
func RenderPayload(env Envelope, format Format) (string, error) {
	var (
		payload []byte
		err     error
	)
	switch format {
	case FormatJSON:
		payload, err = json.MarshalIndent(env, "", "  ")
	case FormatYAML:
		payload, err = yaml.Marshal(env)
	default:
		return "", fmt.Errorf("format %q has no envelope encoding", format)
	}
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", format, err)
	}
	return strings.TrimRight(string(payload), "\n"), nil
}

// WriteOutput prints text plus a newline to w, mirroring it into mirrorPath.
func WriteOutput(w io.Writer, text string, mirrorPath string) (err error) {
	dst := w
	if mirrorPath != "" {
		file, openErr := os.Create(mirrorPath)
		if openErr != nil {
			return fmt.Errorf("write output file: %w", openErr)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("write output file: %w", closeErr)
			}
		}()
		dst = io.MultiWriter(w, file)
	}
	if _, err := fmt.Fprintln(dst, text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// Table is tab-separated text under an optional title line and header row.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (t Table) String() string {
	lines := make([]string, 0, len(t.Rows)+2)
	if t.Title != "" {
		lines = append(lines, t.Title)
	}
	if len(t.Headers) > 0 {
		lines = append(lines, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		lines = append(lines, strings.Join(row, "\t"))
	}
	return strings.Join(lines, "\n")
}

// RenderTable is shorthand for Table{...}.String().
func RenderTable(title string, headers []string, rows [][]string) string {
	return Table{Title: title, Headers: headers, Rows: rows}.String()
}
