// Package constants provides shared constants used throughout the practicemap
// codebase. This includes input format defaults, filter codes, exit statuses
// and file permissions that must stay consistent across packages.
package constants

// Directory export format defaults
const (
	// DirectoryDelimiter separates fields in the directory export (U+00AC NOT SIGN)
	DirectoryDelimiter = "¬"

	// DirectoryEncoding is the IANA name of the directory export's byte encoding
	DirectoryEncoding = "ISO-8859-1"

	// DirectoryKeyField is the header naming the organisation code column
	DirectoryKeyField = "OrganisationCode"

	// LatitudeField and LongitudeField name the optional coordinate columns
	LatitudeField  = "Latitude"
	LongitudeField = "Longitude"

	// MaxLineLength bounds a single directory line in bytes
	MaxLineLength = 1 << 20
)

// Registry filter defaults
const (
	// ActiveStatusCode marks an organisation that is open
	ActiveStatusCode = "A"

	// GPPrescribingSetting identifies a general practice among facility types
	GPPrescribingSetting = "4"
)

// Output defaults
const (
	// JSONIndent is the indentation of the JSON document
	JSONIndent = "    "
)

// Exit statuses returned by the CLI
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
