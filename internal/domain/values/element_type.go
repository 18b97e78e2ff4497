package values

import (
	"fmt"
	"strings"
)

// SequenceType is the type tag reported for grouping frames.
const SequenceType = "SEQUENCE"

// ElementType is the type tag of a physical element ("DRIFT", "QUADRUPOLE", ...).
// Tags are trimmed and upper-cased so that "quadrupole" and "QUADRUPOLE"
// compare equal.
type ElementType struct {
	value string
}

// Sequence is the reserved tag used for grouping frames.
var Sequence = ElementType{value: SequenceType}

// NewElementType creates a new ElementType with validation
func NewElementType(tag string) (ElementType, error) {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" {
		return ElementType{}, fmt.Errorf("element type cannot be empty")
	}
	if strings.ContainsAny(tag, " \t\n") {
		return ElementType{}, fmt.Errorf("element type %q cannot contain whitespace", tag)
	}
	return ElementType{value: tag}, nil
}

// MustNewElementType creates an ElementType or panics (for tests/constants)
func MustNewElementType(tag string) ElementType {
	et, err := NewElementType(tag)
	if err != nil {
		panic(err)
	}
	return et
}

// String returns the string representation
func (e ElementType) String() string {
	return e.value
}

// IsZero returns true if this is the zero value
func (e ElementType) IsZero() bool {
	return e.value == ""
}

// IsSequence reports whether the tag is the reserved grouping tag.
func (e ElementType) IsSequence() bool {
	return e.value == SequenceType
}

// Equals checks if two ElementTypes are equal
func (e ElementType) Equals(other ElementType) bool {
	return e.value == other.value
}

// MarshalJSON implements json.Marshaler
func (e ElementType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (e *ElementType) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return fmt.Errorf("invalid element type JSON")
	}
	s = s[1 : len(s)-1]

	et, err := NewElementType(s)
	if err != nil {
		return err
	}
	*e = et
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (e ElementType) MarshalYAML() (interface{}, error) {
	return e.value, nil
}
