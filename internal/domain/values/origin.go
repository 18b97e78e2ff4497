package values

import (
	"fmt"
	"strings"
)

// Origin is the coordinate origin convention of a grouping frame.
type Origin struct {
	value OriginKind
}

// OriginKind is the internal representation
type OriginKind int

const (
	OriginKindEntrance OriginKind = 0
	OriginKindCentre   OriginKind = 1
)

// Predefined origin values
var (
	OriginAtEntrance = Origin{OriginKindEntrance}
	OriginAtCentre   = Origin{OriginKindCentre}
)

// NewOrigin creates an Origin from string. An empty string means entrance.
func NewOrigin(s string) (Origin, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "", "entrance", "entry":
		return OriginAtEntrance, nil
	case "centre", "center":
		return OriginAtCentre, nil
	default:
		return Origin{}, fmt.Errorf("invalid origin: %s", s)
	}
}

// MustNewOrigin creates an Origin or panics
func MustNewOrigin(s string) Origin {
	o, err := NewOrigin(s)
	if err != nil {
		panic(err)
	}
	return o
}

// String returns the string representation
func (o Origin) String() string {
	if o.value == OriginKindCentre {
		return "centre"
	}
	return "entrance"
}

// Offset returns the local coordinate of the grouping entrance for a
// grouping of the given length.
func (o Origin) Offset(length float64) float64 {
	if o.value == OriginKindCentre {
		return -length / 2
	}
	return 0
}

// Equals checks if two origins are equal
func (o Origin) Equals(other Origin) bool {
	return o.value == other.value
}

// MarshalJSON implements json.Marshaler
func (o Origin) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (o *Origin) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) < 2 {
		return fmt.Errorf("invalid origin JSON")
	}
	str = str[1 : len(str)-1]

	origin, err := NewOrigin(str)
	if err != nil {
		return err
	}
	*o = origin
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (o Origin) MarshalYAML() (interface{}, error) {
	return o.String(), nil
}
