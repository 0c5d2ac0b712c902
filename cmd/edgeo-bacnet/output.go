package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edgeo-scada/bacnet/bacnet"
)

// OutputFormat represents output format types
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatRaw   OutputFormat = "raw"
)

// Formatter handles output formatting
type Formatter struct {
	format OutputFormat
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(format string) *Formatter {
	return &Formatter{
		format: OutputFormat(strings.ToLower(format)),
		writer: os.Stdout,
	}
}

// SetWriter sets the output writer
func (f *Formatter) SetWriter(w io.Writer) {
	f.writer = w
}

// Structured reports whether output goes through an encoder rather than
// plain text
func (f *Formatter) Structured() bool {
	return f.format == FormatJSON || f.format == FormatYAML
}

// Printf formats and prints output
func (f *Formatter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(f.writer, format, args...)
}

// Println prints a line
func (f *Formatter) Println(args ...interface{}) {
	fmt.Fprintln(f.writer, args...)
}

// PrintData encodes v as JSON or YAML
func (f *Formatter) PrintData(v interface{}) error {
	switch f.format {
	case FormatYAML:
		enc := yaml.NewEncoder(f.writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// PrintTable prints data in table format
func (f *Formatter) PrintTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		fmt.Fprintf(f.writer, "%-*s ", widths[i], h)
	}
	fmt.Fprintln(f.writer)

	for i := range headers {
		fmt.Fprint(f.writer, strings.Repeat("-", widths[i]), " ")
	}
	fmt.Fprintln(f.writer)

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(f.writer, "%-*s ", widths[i], cell)
			}
		}
		fmt.Fprintln(f.writer)
	}
}

// PrintKeyValue prints key-value pairs
func (f *Formatter) PrintKeyValue(pairs map[string]interface{}, order []string) {
	maxKeyLen := 0
	for _, key := range order {
		if len(key) > maxKeyLen {
			maxKeyLen = len(key)
		}
	}

	for _, key := range order {
		if val, ok := pairs[key]; ok {
			fmt.Fprintf(f.writer, "%-*s: %v\n", maxKeyLen, key, val)
		}
	}
}

// valueRecord is the structured form of a decoded value
type valueRecord struct {
	Kind    string        `json:"kind" yaml:"kind"`
	Context *uint8        `json:"context,omitempty" yaml:"context,omitempty"`
	Value   string        `json:"value" yaml:"value"`
	Values  []valueRecord `json:"values,omitempty" yaml:"values,omitempty"`
}

func newValueRecord(v bacnet.Value) valueRecord {
	rec := valueRecord{Kind: v.Tag().String()}
	if v.ContextSpecific {
		tag := v.ContextTag
		rec.Context = &tag
	}
	if c, ok := v.Data.(bacnet.Constructed); ok {
		for _, child := range c.Values {
			rec.Values = append(rec.Values, newValueRecord(child))
		}
		return rec
	}
	plain := v
	plain.ContextSpecific = false
	rec.Value = plain.String()
	return rec
}

// PrintValues prints decoded values in the selected format
func (f *Formatter) PrintValues(values []bacnet.Value) error {
	switch f.format {
	case FormatJSON, FormatYAML:
		records := make([]valueRecord, len(values))
		for i, v := range values {
			records[i] = newValueRecord(v)
		}
		return f.PrintData(records)
	case FormatRaw:
		for _, v := range values {
			f.Println(v.String())
		}
		return nil
	default:
		var rows [][]string
		for _, v := range values {
			rows = appendValueRows(rows, v, 0)
		}
		f.PrintTable([]string{"TAG", "KIND", "VALUE"}, rows)
		return nil
	}
}

func appendValueRows(rows [][]string, v bacnet.Value, depth int) [][]string {
	indent := strings.Repeat("  ", depth)
	tag := indent + "app"
	if v.ContextSpecific {
		tag = fmt.Sprintf("%s[%d]", indent, v.ContextTag)
	}
	c, ok := v.Data.(bacnet.Constructed)
	if !ok {
		plain := v
		plain.ContextSpecific = false
		return append(rows, []string{tag, v.Tag().String(), plain.String()})
	}
	rows = append(rows, []string{tag, v.Tag().String(), fmt.Sprintf("%d values", len(c.Values))})
	for _, child := range c.Values {
		rows = appendValueRows(rows, child, depth+1)
	}
	return rows
}
