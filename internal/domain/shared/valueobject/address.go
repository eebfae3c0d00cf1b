package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	stateCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
	zipCodePattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Address is a value object representing a US postal address.
// Rural addresses are common, so only the state is required; a parcel
// without a street line can still be recorded by county.
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	County string `json:"county,omitempty"`
	State  string `json:"state"`
	Zip    string `json:"zip,omitempty"`
}

// NewAddress creates a validated address
func NewAddress(street, city, county, state, zip string) (Address, error) {
	addr := Address{
		Street: strings.TrimSpace(street),
		City:   strings.TrimSpace(city),
		County: strings.TrimSpace(county),
		State:  strings.ToUpper(strings.TrimSpace(state)),
		Zip:    strings.TrimSpace(zip),
	}
	if err := addr.Validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// Validate checks the state code and zip format
func (a Address) Validate() error {
	if a.IsEmpty() {
		return nil
	}
	if !stateCodePattern.MatchString(a.State) {
		return fmt.Errorf("state must be a two-letter code, got %q", a.State)
	}
	if a.Zip != "" && !zipCodePattern.MatchString(a.Zip) {
		return fmt.Errorf("invalid zip code %q", a.Zip)
	}
	if len(a.Street) > 200 {
		return fmt.Errorf("street cannot exceed 200 characters")
	}
	return nil
}

// IsEmpty returns true if no part of the address is set
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.County == "" && a.State == "" && a.Zip == ""
}

// String formats the address on one line
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 4)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	} else if a.County != "" {
		parts = append(parts, a.County+" County")
	}
	stateZip := strings.TrimSpace(a.State + " " + a.Zip)
	if stateZip != "" {
		parts = append(parts, stateZip)
	}
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer for JSON column storage
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSON column storage
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	return json.Unmarshal(raw, a)
}
