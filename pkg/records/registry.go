// Package records defines the two record shapes the pipeline reconciles:
// the positional registry extract and the header-driven directory export.
package records

import (
	"github.com/agentstation/practicemap/pkg/errors"
)

// Registry column positions. The extract has no header row, so a field's
// identity is its index.
const (
	ColOrganisationCode = iota
	ColName
	ColNationalGrouping
	ColHighLevelHealthGeography
	ColAddressLine1
	ColAddressLine2
	ColAddressLine3
	ColAddressLine4
	ColAddressLine5
	ColPostcode
	ColOpenDate
	ColCloseDate
	ColStatusCode
	ColOrganisationSubTypeCode
	ColCommissioner
	ColJoinProviderPurchaserDate
	ColLeftProviderPurchaserDate
	ColContactTelephoneNumber
	ColNull1
	ColNull2
	ColNull3
	ColAmendedRecordIndicator
	ColNull4
	ColProviderPurchaser
	ColNull5
	ColPrescribingSetting
	ColNull6

	// RegistryColumnCount is the number of columns in every registry row.
	RegistryColumnCount
)

// RegistryHeader names the registry columns in file order.
var RegistryHeader = [RegistryColumnCount]string{
	"organisation_code",
	"name",
	"national_grouping",
	"high_level_health_geography",
	"address_line_1",
	"address_line_2",
	"address_line_3",
	"address_line_4",
	"address_line_5",
	"postcode",
	"open_date",
	"close_date",
	"status_code",
	"organisation_sub_type_code",
	"commissioner",
	"join_provider_purchaser_date",
	"left_provider_purchaser_date",
	"contact_telephone_number",
	"null_1",
	"null_2",
	"null_3",
	"amended_record_indicator",
	"null_4",
	"provider_purchaser",
	"null_5",
	"prescribing_setting",
	"null_6",
}

var registryIndex = func() map[string]int {
	idx := make(map[string]int, RegistryColumnCount)
	for i, name := range RegistryHeader {
		idx[name] = i
	}
	return idx
}()

// RegistryRecord is one row of the registry extract. It is immutable once
// built; the zero value is not a valid record.
type RegistryRecord struct {
	values [RegistryColumnCount]string
}

// NewRegistryRecord builds a record from one row's positional values.
// It fails with a SchemaError when the row is not exactly
// RegistryColumnCount wide.
func NewRegistryRecord(values []string) (RegistryRecord, error) {
	var r RegistryRecord
	if len(values) != RegistryColumnCount {
		return r, errors.NewSchemaError("", 0, RegistryColumnCount, len(values))
	}
	copy(r.values[:], values)
	return r, nil
}

// Field returns the value of the named column.
func (r RegistryRecord) Field(name string) (string, error) {
	i, ok := registryIndex[name]
	if !ok {
		return "", errors.NewMissingFieldError("registry", name)
	}
	return r.values[i], nil
}

// Values returns a copy of the row in column order.
func (r RegistryRecord) Values() []string {
	out := make([]string, RegistryColumnCount)
	copy(out, r.values[:])
	return out
}

// OrganisationCode returns the organisation_code column.
func (r RegistryRecord) OrganisationCode() string { return r.values[ColOrganisationCode] }

// Name returns the raw, unformatted name column.
func (r RegistryRecord) Name() string { return r.values[ColName] }

// AddressLines returns address_line_1 through address_line_5.
func (r RegistryRecord) AddressLines() [5]string {
	var lines [5]string
	copy(lines[:], r.values[ColAddressLine1:ColAddressLine5+1])
	return lines
}

// Postcode returns the postcode column.
func (r RegistryRecord) Postcode() string { return r.values[ColPostcode] }

// StatusCode returns the status_code column.
func (r RegistryRecord) StatusCode() string { return r.values[ColStatusCode] }

// PrescribingSetting returns the prescribing_setting column.
func (r RegistryRecord) PrescribingSetting() string { return r.values[ColPrescribingSetting] }

// ContactTelephoneNumber returns the contact_telephone_number column.
func (r RegistryRecord) ContactTelephoneNumber() string { return r.values[ColContactTelephoneNumber] }
