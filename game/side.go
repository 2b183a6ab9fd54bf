package game

import (
	"bytes"
	"encoding/json"
)

// Side identifies one of the two teams.
type Side int

// The two sides. Side values index Teams directly.
const (
	Home Side = iota
	Away
)

var sideNames = enumNames{what: "side", names: []string{"home", "away"}}

// Negate returns the other side.
func (s Side) Negate() Side {
	return 1 - s
}

func (s Side) String() string {
	return sideNames.String(int(s))
}

// MarshalText encodes the side as "home" or "away".
func (s Side) MarshalText() ([]byte, error) {
	return sideNames.marshal(int(s))
}

// UnmarshalText decodes "home" or "away".
func (s *Side) UnmarshalText(text []byte) error {
	v, err := sideNames.unmarshal(text)
	if err != nil {
		return err
	}

	*s = Side(v)

	return nil
}

// OptionalSide is a side that may be absent. The zero value is absent.
type OptionalSide struct {
	side  Side
	valid bool
}

// NoSide is the absent side.
var NoSide = OptionalSide{}

// SomeSide returns a present side.
func SomeSide(s Side) OptionalSide {
	return OptionalSide{side: s, valid: true}
}

// Get returns the side and whether it is present.
func (o OptionalSide) Get() (Side, bool) {
	return o.side, o.valid
}

// IsSome tells if the side is present.
func (o OptionalSide) IsSome() bool {
	return o.valid
}

// Is tells if the side is present and equal to s.
func (o OptionalSide) Is(s Side) bool {
	return o.valid && o.side == s
}

// Negate returns the other side, or NoSide if the side is absent.
func (o OptionalSide) Negate() OptionalSide {
	if !o.valid {
		return o
	}

	return SomeSide(o.side.Negate())
}

func (o OptionalSide) String() string {
	if !o.valid {
		return "none"
	}

	return o.side.String()
}

// MarshalJSON encodes an absent side as null.
func (o OptionalSide) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}

	return json.Marshal(o.side)
}

// UnmarshalJSON decodes null or a side name.
func (o *OptionalSide) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*o = NoSide
		return nil
	}

	var s Side

	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}

	*o = SomeSide(s)

	return nil
}

// UnmarshalYAML decodes null or a side name.
func (o *OptionalSide) UnmarshalYAML(unmarshal func(any) error) error {
	var text *string

	err := unmarshal(&text)
	if err != nil {
		return err
	}

	if text == nil || *text == "" || *text == "none" {
		*o = NoSide
		return nil
	}

	var s Side

	err = s.UnmarshalText([]byte(*text))
	if err != nil {
		return err
	}

	*o = SomeSide(s)

	return nil
}

// SideMapping tells which goal the home team defends.
type SideMapping int

// The two orientations of the field.
const (
	HomeDefendsLeftGoal SideMapping = iota
	HomeDefendsRightGoal
)

var sideMappingNames = enumNames{
	what:  "side mapping",
	names: []string{"homeDefendsLeftGoal", "homeDefendsRightGoal"},
}

// Negate returns the swapped orientation.
func (m SideMapping) Negate() SideMapping {
	return 1 - m
}

func (m SideMapping) String() string {
	return sideMappingNames.String(int(m))
}

// MarshalText encodes the mapping by name.
func (m SideMapping) MarshalText() ([]byte, error) {
	return sideMappingNames.marshal(int(m))
}

// UnmarshalText decodes the mapping from its name.
func (m *SideMapping) UnmarshalText(text []byte) error {
	v, err := sideMappingNames.unmarshal(text)
	if err != nil {
		return err
	}

	*m = SideMapping(v)

	return nil
}
