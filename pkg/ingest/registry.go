// Package ingest reads the registry extract and the directory export into
// in-memory mappings keyed by organisation code.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/agentstation/practicemap/pkg/errors"
	"github.com/agentstation/practicemap/pkg/logging"
	"github.com/agentstation/practicemap/pkg/records"
)

// ParseRegistry reads a registry extract from path. The file has no header
// row; every row must have exactly records.RegistryColumnCount columns.
// When a code repeats, the later row wins.
func ParseRegistry(ctx context.Context, path string) (map[string]records.RegistryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadRegistry(ctx, f, path)
}

// ReadRegistry reads a registry extract from r. name is used in errors and
// logs only.
func ReadRegistry(ctx context.Context, r io.Reader, name string) (map[string]records.RegistryRecord, error) {
	logger := logging.FromContext(ctx)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	out := make(map[string]records.RegistryRecord)
	rows, duplicates := 0, 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(name, err)
		}

		line, _ := cr.FieldPos(0)
		if len(row) != records.RegistryColumnCount {
			return nil, errors.NewSchemaError(name, line, records.RegistryColumnCount, len(row))
		}

		rec, err := records.NewRegistryRecord(row)
		if err != nil {
			return nil, err
		}
		code := rec.OrganisationCode()
		if _, seen := out[code]; seen {
			duplicates++
		}
		out[code] = rec
		rows++
	}

	logger.Debug().
		Str("file", name).
		Int("rows", rows).
		Int("duplicates", duplicates).
		Msg("Read registry file")

	return out, nil
}

// csvError converts an encoding/csv failure into the package taxonomy.
func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		parseErr := errors.NewParseError("csv", name, pe.Err.Error(), err)
		parseErr.Line = pe.Line
		parseErr.Column = pe.Column
		return parseErr
	}
	return errors.WrapIO("read", name, err)
}
