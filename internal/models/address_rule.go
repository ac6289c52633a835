package models

import (
	"time"
)

// RuleKind selects which address fields of a rule are meaningful.
type RuleKind string

const (
	// RuleKindSingle matches exactly one IP address.
	RuleKindSingle RuleKind = "single"
	// RuleKindRange matches an inclusive start–end address range.
	RuleKindRange RuleKind = "range"
	// RuleKindSubnet matches every address inside a network prefix.
	RuleKindSubnet RuleKind = "subnet"
)

// AddressRule decides which client network addresses belong to a precinct.
// Exactly one group of fields is populated depending on Kind. Deactivated
// rules stay in the table so an administrator can re-enable them; deletion
// is permanent.
type AddressRule struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	UUID       string   `json:"uuid" gorm:"uniqueIndex"`
	PrecinctID uint     `json:"precinct_id" gorm:"index"`
	Kind       RuleKind `json:"kind"`

	// Kind == single
	IPAddress string `json:"ip_address,omitempty"`

	// Kind == range, bounds are inclusive
	RangeStart string `json:"range_start,omitempty"`
	RangeEnd   string `json:"range_end,omitempty"`

	// Kind == subnet, Network must be the base address (host bits zero)
	Network      string `json:"network,omitempty"`
	PrefixLength int    `json:"prefix_length,omitempty"`

	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RuleSpec is the administrator-supplied input for creating or fully
// replacing an address rule. Validation against the kind-specific
// invariants happens before anything is written.
type RuleSpec struct {
	Kind         RuleKind `json:"kind"`
	IPAddress    string   `json:"ip_address,omitempty"`
	RangeStart   string   `json:"range_start,omitempty"`
	RangeEnd     string   `json:"range_end,omitempty"`
	Network      string   `json:"network,omitempty"`
	PrefixLength int      `json:"prefix_length,omitempty"`
	Active       *bool    `json:"active,omitempty"`
}
