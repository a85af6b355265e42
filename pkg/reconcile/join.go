package reconcile

import (
	"github.com/agentstation/practicemap/pkg/records"
)

// Organisation is one outer-join result. A nil side means the code did not
// appear in that source.
type Organisation struct {
	Code      string
	Registry  *records.RegistryRecord
	Directory *records.DirectoryRecord
}

// Complete reports whether the registry knows the organisation. The
// registry is the authoritative identity source.
func (o Organisation) Complete() bool {
	return o.Registry != nil
}

// HasDirectory reports whether the directory export knows the organisation.
func (o Organisation) HasDirectory() bool {
	return o.Directory != nil
}

// Join returns one Organisation per code found in either mapping. No code is
// dropped; the order of the result is unspecified.
func Join(registry map[string]records.RegistryRecord, directory map[string]records.DirectoryRecord) []Organisation {
	out := make([]Organisation, 0, len(registry)+len(directory))

	for code, rec := range registry {
		org := Organisation{Code: code, Registry: &rec}
		if dir, ok := directory[code]; ok {
			org.Directory = &dir
		}
		out = append(out, org)
	}

	for code, dir := range directory {
		if _, ok := registry[code]; ok {
			continue
		}
		out = append(out, Organisation{Code: code, Directory: &dir})
	}

	return out
}
