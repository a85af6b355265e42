package records

import (
	"github.com/agentstation/practicemap/pkg/constants"
	"github.com/agentstation/practicemap/pkg/errors"
)

// DirectoryRecord is one row of the directory export, keyed by the
// export's own header names. Every record carries OrganisationCode.
type DirectoryRecord struct {
	fields map[string]string
}

// NewDirectoryRecord builds a record from a header-to-value mapping. The
// mapping is copied. It fails with a MissingFieldError when the mapping
// has no OrganisationCode.
func NewDirectoryRecord(fields map[string]string) (DirectoryRecord, error) {
	if _, ok := fields[constants.DirectoryKeyField]; !ok {
		return DirectoryRecord{}, errors.NewMissingFieldError("directory", constants.DirectoryKeyField)
	}
	r := DirectoryRecord{fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		r.fields[k] = v
	}
	return r, nil
}

// Field returns the value of the named column.
func (r DirectoryRecord) Field(name string) (string, error) {
	v, ok := r.fields[name]
	if !ok {
		return "", errors.NewMissingFieldError("directory", name)
	}
	return v, nil
}

// Lookup returns the named column and whether the record has it.
func (r DirectoryRecord) Lookup(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// OrganisationCode returns the join key.
func (r DirectoryRecord) OrganisationCode() string {
	return r.fields[constants.DirectoryKeyField]
}

// Latitude returns the Latitude column when present and non-empty.
func (r DirectoryRecord) Latitude() (string, bool) {
	return r.nonEmpty(constants.LatitudeField)
}

// Longitude returns the Longitude column when present and non-empty.
func (r DirectoryRecord) Longitude() (string, bool) {
	return r.nonEmpty(constants.LongitudeField)
}

// Len returns the number of fields the record carries.
func (r DirectoryRecord) Len() int {
	return len(r.fields)
}

func (r DirectoryRecord) nonEmpty(name string) (string, bool) {
	v, ok := r.fields[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
