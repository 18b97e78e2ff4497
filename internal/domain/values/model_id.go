// Package values contains domain value objects that encapsulate
// primitive types with validation and such.
package values

import (
	"fmt"

	"github.com/google/uuid"
)

// ModelID uniquely identifies a built accelerator model.
type ModelID struct {
	value uuid.UUID
}

// NewModelID creates a new random model ID
func NewModelID() ModelID {
	return ModelID{value: uuid.New()}
}

// ParseModelID parses a string into a ModelID
func ParseModelID(s string) (ModelID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ModelID{}, fmt.Errorf("invalid model ID: %w", err)
	}
	return ModelID{value: id}, nil
}

// MustParseModelID parses a string or panics (for tests only)
func MustParseModelID(s string) ModelID {
	id, err := ParseModelID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the string representation
func (m ModelID) String() string {
	return m.value.String()
}

// UUID returns the underlying uuid.UUID
func (m ModelID) UUID() uuid.UUID {
	return m.value
}

// IsZero returns true if this is the zero value
func (m ModelID) IsZero() bool {
	return m.value == uuid.Nil
}

// Equals checks if two ModelIDs are equal
func (m ModelID) Equals(other ModelID) bool {
	return m.value == other.value
}

// MarshalJSON implements json.Marshaler
func (m ModelID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.value.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (m *ModelID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return fmt.Errorf("invalid model ID JSON")
	}
	s = s[1 : len(s)-1]

	id, err := ParseModelID(s)
	if err != nil {
		return err
	}
	*m = id
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (m ModelID) MarshalYAML() (interface{}, error) {
	return m.value.String(), nil
}
