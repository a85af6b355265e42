package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/agentstation/practicemap/pkg/constants"
	"github.com/agentstation/practicemap/pkg/errors"
	"github.com/agentstation/practicemap/pkg/logging"
	"github.com/agentstation/practicemap/pkg/records"
)

// DirectoryOption configures how a directory export is read.
type DirectoryOption func(*directoryOptions)

type directoryOptions struct {
	delimiter string
	encoding  string
}

func defaultDirectoryOptions() *directoryOptions {
	return &directoryOptions{
		delimiter: constants.DirectoryDelimiter,
		encoding:  constants.DirectoryEncoding,
	}
}

// WithDelimiter sets the field separator. Empty values keep the default.
func WithDelimiter(delimiter string) DirectoryOption {
	return func(o *directoryOptions) {
		if delimiter != "" {
			o.delimiter = delimiter
		}
	}
}

// WithEncoding sets the IANA name of the file's byte encoding, for example
// "ISO-8859-1" or "windows-1252". Empty values keep the default.
func WithEncoding(name string) DirectoryOption {
	return func(o *directoryOptions) {
		if name != "" {
			o.encoding = name
		}
	}
}

// ResolveEncoding looks up a byte encoding by IANA name.
func ResolveEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.NewConfigError("directory", fmt.Sprintf("unknown encoding %q", name), err)
	}
	if enc == nil {
		return nil, errors.NewConfigError("directory", fmt.Sprintf("unsupported encoding %q", name), nil)
	}
	return enc, nil
}

// ParseDirectory reads a directory export from path. The first line is the
// header; fields are split on the delimiter with no quoting, after decoding
// the file from its legacy byte encoding. When a code repeats, the later
// row wins.
func ParseDirectory(ctx context.Context, path string, opts ...DirectoryOption) (map[string]records.DirectoryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadDirectory(ctx, f, path, opts...)
}

// ReadDirectory reads a directory export from r. name is used in errors and
// logs only.
func ReadDirectory(ctx context.Context, r io.Reader, name string, opts ...DirectoryOption) (map[string]records.DirectoryRecord, error) {
	o := defaultDirectoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	enc, err := ResolveEncoding(o.encoding)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(transform.NewReader(r, enc.NewDecoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), constants.MaxLineLength)

	var header []string
	out := make(map[string]records.DirectoryRecord)
	line, rows, duplicates, truncated := 0, 0, 0, 0

	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, o.delimiter)

		if header == nil {
			header = fields
			if !slices.Contains(header, constants.DirectoryKeyField) {
				return nil, &errors.MissingFieldError{Record: "directory", Field: constants.DirectoryKeyField, File: name}
			}
			continue
		}

		if len(fields) > len(header) {
			return nil, errors.NewSchemaError(name, line, len(header), len(fields))
		}

		values := make(map[string]string, len(fields))
		for i, v := range fields {
			values[header[i]] = v
		}
		// A row cut off before the key column is keyed as "" and later
		// dropped as incomplete.
		if _, ok := values[constants.DirectoryKeyField]; !ok {
			values[constants.DirectoryKeyField] = ""
			truncated++
		}
		rec, err := records.NewDirectoryRecord(values)
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
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	logging.FromContext(ctx).Debug().
		Str("file", name).
		Str("encoding", o.encoding).
		Int("columns", len(header)).
		Int("rows", rows).
		Int("duplicates", duplicates).
		Int("truncated", truncated).
		Msg("Read directory file")

	return out, nil
}
