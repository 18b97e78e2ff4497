// Package config provides infrastructure for loading beamline descriptions.
// This package handles YAML parsing, schema validation and turning a
// description into calls on the model constructor.
package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedVersions is the range of description format versions this
// loader understands.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Description is a parsed beamline description file.
type Description struct {
	Elements   map[string]ElementDef `yaml:"elements,omitempty" json:"elements,omitempty"`
	Lines      map[string]LineDef    `yaml:"lines,omitempty" json:"lines,omitempty"`
	Version    string                `yaml:"version" json:"version"`
	Name       string                `yaml:"name" json:"name"`
	Beamline   []Item                `yaml:"beamline" json:"beamline"`
	Standalone []string              `yaml:"standalone,omitempty" json:"standalone,omitempty"`
}

// ElementDef defines a named element. Every reference to it places the same
// element instance.
type ElementDef struct {
	Params map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
	Type   string             `yaml:"type" json:"type"`
	Length float64            `yaml:"length,omitempty" json:"length,omitempty"`
}

// LineDef is a reusable grouping.
type LineDef struct {
	Origin string `yaml:"origin,omitempty" json:"origin,omitempty"`
	Items  []Item `yaml:"items" json:"items"`
}

// Item is one entry of a beamline or line. Exactly one of Element, Type,
// Drift, Line or Section is set.
type Item struct {
	Params  map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
	Drift   *float64           `yaml:"drift,omitempty" json:"drift,omitempty"`
	Element string             `yaml:"element,omitempty" json:"element,omitempty"`
	Name    string             `yaml:"name,omitempty" json:"name,omitempty"`
	Type    string             `yaml:"type,omitempty" json:"type,omitempty"`
	Line    string             `yaml:"line,omitempty" json:"line,omitempty"`
	Section string             `yaml:"section,omitempty" json:"section,omitempty"`
	Origin  string             `yaml:"origin,omitempty" json:"origin,omitempty"`
	Items   []Item             `yaml:"items,omitempty" json:"items,omitempty"`
	Length  float64            `yaml:"length,omitempty" json:"length,omitempty"`
	DX      float64            `yaml:"dx,omitempty" json:"dx,omitempty"`
	DY      float64            `yaml:"dy,omitempty" json:"dy,omitempty"`
	Tilt    float64            `yaml:"tilt,omitempty" json:"tilt,omitempty"`
	Repeat  int                `yaml:"repeat,omitempty" json:"repeat,omitempty"`
}

// Times returns how often the item is repeated.
func (i Item) Times() int {
	if i.Repeat < 1 {
		return 1
	}
	return i.Repeat
}

// Validate checks the references and the version of the description.
func (d *Description) Validate() error {
	if err := checkVersion(d.Version); err != nil {
		return err
	}

	for name, def := range d.Lines {
		if err := d.validateItems(def.Items, "line "+name); err != nil {
			return err
		}
	}
	if err := d.validateItems(d.Beamline, "beamline"); err != nil {
		return err
	}
	for _, name := range d.Standalone {
		if _, ok := d.Elements[name]; !ok {
			return fmt.Errorf("standalone: unknown element %q", name)
		}
	}
	return nil
}

func (d *Description) validateItems(items []Item, where string) error {
	for i, it := range items {
		switch {
		case it.Element != "":
			if _, ok := d.Elements[it.Element]; !ok {
				return fmt.Errorf("%s item %d: unknown element %q", where, i, it.Element)
			}
		case it.Line != "":
			if _, ok := d.Lines[it.Line]; !ok {
				return fmt.Errorf("%s item %d: unknown line %q", where, i, it.Line)
			}
		case it.Section != "":
			if err := d.validateItems(it.Items, where+"/"+it.Section); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid description version %q: %w", v, err)
	}

	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("invalid version constraint: %w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("description version %s is not supported (want %s)", version, SupportedVersions)
	}
	return nil
}
