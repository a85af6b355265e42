// Package practice decides which joined organisations are active GP
// practices and turns them into the normalized output shape.
package practice

import (
	"github.com/agentstation/practicemap/pkg/constants"
	"github.com/agentstation/practicemap/pkg/reconcile"
)

// Reason names the first filter an organisation failed.
type Reason string

// Filter outcomes, checked in this order.
const (
	Kept          Reason = ""
	Incomplete    Reason = "incomplete"
	Inactive      Reason = "inactive"
	NotGPPractice Reason = "not_gp_practice"
)

// Reasons lists every drop reason in filter order.
var Reasons = []Reason{Incomplete, Inactive, NotGPPractice}

// Option configures the filter codes.
type Option func(*Practice)

// WithStatusCode sets the status_code value treated as active.
// Empty values keep the default.
func WithStatusCode(code string) Option {
	return func(p *Practice) {
		if code != "" {
			p.activeStatus = code
		}
	}
}

// WithPrescribingSetting sets the prescribing_setting value identifying a
// GP practice. Empty values keep the default.
func WithPrescribingSetting(setting string) Option {
	return func(p *Practice) {
		if setting != "" {
			p.gpSetting = setting
		}
	}
}

// Practice wraps one joined organisation.
type Practice struct {
	org          reconcile.Organisation
	activeStatus string
	gpSetting    string
}

// New wraps org.
func New(org reconcile.Organisation, opts ...Option) *Practice {
	p := &Practice{
		org:          org,
		activeStatus: constants.ActiveStatusCode,
		gpSetting:    constants.GPPrescribingSetting,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OrganisationCode returns the join key.
func (p *Practice) OrganisationCode() string {
	return p.org.Code
}

// IsComplete reports whether the registry side is present.
func (p *Practice) IsComplete() bool {
	return p.org.Complete()
}

// IsActive reports whether the registry status is the active code.
func (p *Practice) IsActive() bool {
	return p.IsComplete() && p.org.Registry.StatusCode() == p.activeStatus
}

// IsGPPractice reports whether the prescribing setting is the GP code.
func (p *Practice) IsGPPractice() bool {
	return p.IsComplete() && p.org.Registry.PrescribingSetting() == p.gpSetting
}

// Reason returns the first failed filter, or Kept.
func (p *Practice) Reason() Reason {
	switch {
	case !p.IsComplete():
		return Incomplete
	case !p.IsActive():
		return Inactive
	case !p.IsGPPractice():
		return NotGPPractice
	default:
		return Kept
	}
}

// Keep reports whether every filter passed.
func (p *Practice) Keep() bool {
	return p.Reason() == Kept
}

// Output builds the serialized shape. With joined set, the address moves
// under location together with any coordinates from the directory side.
// Output must only be called on complete practices.
func (p *Practice) Output(joined bool) OutputRecord {
	reg := p.org.Registry
	address := FormatAddress(reg.AddressLines(), reg.Postcode())

	out := OutputRecord{
		OrganisationCode:       p.org.Code,
		Name:                   FormatName(reg.Name()),
		ContactTelephoneNumber: reg.ContactTelephoneNumber(),
	}

	if !joined {
		out.Address = &address
		return out
	}

	loc := &Location{Address: address}
	if dir := p.org.Directory; dir != nil {
		loc.Latitude, _ = dir.Latitude()
		loc.Longitude, _ = dir.Longitude()
	}
	out.Location = loc
	return out
}

// OutputRecord is one organisation in the output document. Field order is
// the document's key order.
type OutputRecord struct {
	OrganisationCode       string    `json:"organisation_code" yaml:"organisation_code"`
	Name                   string    `json:"name" yaml:"name"`
	Address                *string   `json:"address,omitempty" yaml:"address,omitempty"`
	Location               *Location `json:"location,omitempty" yaml:"location,omitempty"`
	ContactTelephoneNumber string    `json:"contact_telephone_number" yaml:"contact_telephone_number"`
}

// Location groups the address with optional coordinates. Coordinates are
// passed through as they appear in the directory export.
type Location struct {
	Address   string `json:"address" yaml:"address"`
	Latitude  string `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}
