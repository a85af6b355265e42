// Package output renders the reconciled practices for stdout.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/practicemap/pkg/constants"
	"github.com/agentstation/practicemap/pkg/errors"
	"github.com/agentstation/practicemap/pkg/practice"
)

// Format types for output.
type Format string

const (
	// FormatJSON is the default: an indented JSON array.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatTable represents a human-readable table.
	FormatTable Format = "table"
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable:
		return &TableFormatter{}
	default:
		return &JSONFormatter{Indent: constants.JSONIndent}
	}
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatTable:
		return format, nil
	default:
		return "", errors.NewConfigError("output", fmt.Sprintf("invalid format %q: must be one of: json, yaml, table", s), nil)
	}
}

// Render formats data into memory first, so a failure never leaves a
// partial document on w.
func Render(w io.Writer, f Formatter, data any) error {
	var buf bytes.Buffer
	if err := f.Format(&buf, data); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// Data represents data formatted for table output.
type Data struct {
	Headers []string
	Rows    [][]string
}

// TableFormatter outputs table format.
type TableFormatter struct{}

// Format outputs data in table format. Anything that is neither Data nor a
// slice of practices falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.formatTable(w, v)
	case []practice.OutputRecord:
		return f.formatTable(w, PracticesTable(v))
	default:
		jsonFormatter := &JSONFormatter{Indent: constants.JSONIndent}
		return jsonFormatter.Format(w, data)
	}
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	table := tablewriter.NewTable(w)

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}

	return table.Render()
}

// PracticesTable lays records out one per row. Location columns are
// included only when the records carry a location.
func PracticesTable(records []practice.OutputRecord) Data {
	joined := len(records) > 0 && records[0].Location != nil

	keys := []string{"organisation_code", "name", "address", "contact_telephone_number"}
	if joined {
		keys = []string{"organisation_code", "name", "address", "latitude", "longitude", "contact_telephone_number"}
	}

	caser := cases.Title(language.English)
	headers := make([]string, len(keys))
	for i, k := range keys {
		headers[i] = caser.String(strings.ReplaceAll(k, "_", " "))
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		if joined {
			loc := r.Location
			if loc == nil {
				loc = &practice.Location{}
			}
			rows = append(rows, []string{r.OrganisationCode, r.Name, loc.Address, loc.Latitude, loc.Longitude, r.ContactTelephoneNumber})
			continue
		}
		address := ""
		if r.Address != nil {
			address = *r.Address
		}
		rows = append(rows, []string{r.OrganisationCode, r.Name, address, r.ContactTelephoneNumber})
	}

	return Data{Headers: headers, Rows: rows}
}
