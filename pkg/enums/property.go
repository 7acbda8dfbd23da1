package enums

import "fmt"

// PropertyStatus maps to the property_status enum in Postgres.
type PropertyStatus string

const (
	PropertyStatusDraft  PropertyStatus = "draft"
	PropertyStatusActive PropertyStatus = "active"
	PropertyStatusFunded PropertyStatus = "funded"
	PropertyStatusClosed PropertyStatus = "closed"
)

var validPropertyStatuses = []PropertyStatus{
	PropertyStatusDraft,
	PropertyStatusActive,
	PropertyStatusFunded,
	PropertyStatusClosed,
}

// String implements fmt.Stringer.
func (s PropertyStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PropertyStatus.
func (s PropertyStatus) IsValid() bool {
	for _, candidate := range validPropertyStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePropertyStatus converts raw input into a PropertyStatus.
func ParsePropertyStatus(value string) (PropertyStatus, error) {
	for _, candidate := range validPropertyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid property status %q", value)
}

// PropertyType categorizes a listing.
type PropertyType string

const (
	PropertyTypeResidential PropertyType = "residential"
	PropertyTypeCommercial  PropertyType = "commercial"
	PropertyTypeWarehouse   PropertyType = "warehouse"
	PropertyTypeLand        PropertyType = "land"
)

var validPropertyTypes = []PropertyType{
	PropertyTypeResidential,
	PropertyTypeCommercial,
	PropertyTypeWarehouse,
	PropertyTypeLand,
}

// String implements fmt.Stringer.
func (t PropertyType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known PropertyType.
func (t PropertyType) IsValid() bool {
	for _, candidate := range validPropertyTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePropertyType converts raw input into a PropertyType.
func ParsePropertyType(value string) (PropertyType, error) {
	for _, candidate := range validPropertyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid property type %q", value)
}
