// Package entity extracts structured customer details out of free text via
// the external generation service.
package entity

const (
	// KindStructured marks a record parsed from well-formed model output.
	KindStructured = "structured"
	// KindRaw marks the fallback record carrying unparseable model output.
	KindRaw = "raw"
)

// Record is a tagged variant: either structured fields or the raw model
// reply when parsing failed. Field types are not validated.
type Record struct {
	Kind        string `json:"kind"`
	Name        string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
	Raw         string `json:"raw,omitempty"`
}

// IsStructured reports whether the record carries parsed fields.
func (r Record) IsStructured() bool {
	return r.Kind == KindStructured
}
