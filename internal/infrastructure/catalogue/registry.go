// Package catalogue maps element type tags to the factories that turn a
// description row into concrete elements.
package catalogue

import (
	"fmt"
	"maps"
	"math"
	"sort"
	"strings"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/values"
)

// SpeedOfLight in m/s.
const SpeedOfLight = 299792458.0

// Multipole is the type tag of a thin multipole row. It never reaches the
// model; Build replaces it with the type of its dominant order.
const Multipole = "MULTIPOLE"

// Row is one element definition of a beamline description.
type Row struct {
	Params map[string]float64
	Name   string
	Type   string
	Length float64
}

// Param returns a row parameter, zero when absent.
func (r Row) Param(key string) float64 {
	return r.Params[key]
}

// Built is the outcome of a factory call.
type Built struct {
	// Elements holds one element, or more when a row is split.
	Elements []entities.Element
	// Missing lists required parameters absent from the row. They were
	// treated as zero.
	Missing []string
}

// Factory builds the elements of a row.
type Factory func(row Row, opts Options) ([]entities.Element, error)

// Options tune how rows are turned into elements.
type Options struct {
	// SingleCellRF shortens RF cavities to half a wavelength followed by a
	// drift of the remaining length.
	SingleCellRF bool
}

type entry struct {
	factory  Factory
	required []string
}

// Registry maps type tags to factories.
type Registry struct {
	entries map[string]entry
	opts    Options
}

// NewRegistry creates a registry holding the standard element types.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		entries: make(map[string]entry),
		opts:    opts,
	}

	r.Register("DRIFT", component, nil)
	r.Register("SBEND", component, []string{"angle"})
	r.Register("RBEND", component, []string{"angle"})
	r.Register("QUADRUPOLE", component, []string{"k1"})
	r.Register("SKEWQUAD", component, []string{"k1s"})
	r.Register("SEXTUPOLE", component, []string{"k2"})
	r.Register("SKEWSEXT", component, []string{"k2s"})
	r.Register("OCTUPOLE", component, []string{"k3"})
	r.Register("HKICKER", component, []string{"hkick"})
	r.Register("VKICKER", component, []string{"vkick"})
	r.Register("XCOR", component, []string{"hkick"})
	r.Register("YCOR", component, []string{"vkick"})
	r.Register("SOLENOID", component, []string{"ks"})
	r.Register("RFCAVITY", rfCavity, []string{"volt", "freq", "lag"})
	r.Register("COLLIMATOR", component, []string{"xsize", "ysize"})
	r.Register("MONITOR", component, nil)
	r.Register("MARKER", thin, nil)
	r.Register("CRABMARKER", thin, nil)
	r.Register("CRABRF", component, []string{"volt", "freq"})
	r.Register("HEL", component, []string{"current"})

	return r
}

// Register adds or replaces the factory of a type tag. required lists the
// parameters a row of that type is expected to carry.
func (r *Registry) Register(kind string, f Factory, required []string) {
	r.entries[strings.ToUpper(kind)] = entry{factory: f, required: required}
}

// Has reports whether kind has a factory.
func (r *Registry) Has(kind string) bool {
	_, ok := r.entries[strings.ToUpper(kind)]
	return ok || strings.EqualFold(kind, Multipole)
}

// Types returns the registered type tags in alphabetical order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build turns row into elements. Missing required parameters are set to
// zero and listed in the result.
func (r *Registry) Build(row Row) (Built, error) {
	row.Type = strings.ToUpper(strings.TrimSpace(row.Type))
	row.Params = lowerKeys(row.Params)
	if row.Type == Multipole {
		row = ResolveMultipole(row)
	}

	e, ok := r.entries[row.Type]
	if !ok {
		return Built{}, fmt.Errorf("element %q: unknown element type %q", row.Name, row.Type)
	}

	params := make(map[string]float64, len(row.Params)+len(e.required))
	maps.Copy(params, row.Params)
	var missing []string
	for _, p := range e.required {
		if _, ok := params[p]; !ok {
			params[p] = 0
			missing = append(missing, p)
		}
	}
	row.Params = params

	elements, err := e.factory(row, r.opts)
	if err != nil {
		return Built{}, fmt.Errorf("element %q: %w", row.Name, err)
	}
	return Built{Elements: elements, Missing: missing}, nil
}

// ResolveMultipole replaces a MULTIPOLE row by the type of its strongest
// normal or skew order (kNl / kNsl, N = 0..3). A multipole without any
// strength becomes a MARKER.
func ResolveMultipole(row Row) Row {
	type order struct {
		param string
		kind  string
		thick string
	}
	orders := []order{
		{"k0l", "HKICKER", "hkick"},
		{"k1l", "QUADRUPOLE", "k1"},
		{"k1sl", "SKEWQUAD", "k1s"},
		{"k2l", "SEXTUPOLE", "k2"},
		{"k2sl", "SKEWSEXT", "k2s"},
		{"k3l", "OCTUPOLE", "k3"},
	}

	row.Params = lowerKeys(row.Params)

	best := -1
	var bestAbs float64
	for i, o := range orders {
		if v := math.Abs(row.Param(o.param)); v > bestAbs {
			best, bestAbs = i, v
		}
	}

	out := Row{Name: row.Name, Length: row.Length, Params: make(map[string]float64, len(row.Params)+1)}
	for k, v := range row.Params {
		out.Params[k] = v
	}
	if best < 0 {
		out.Type = "MARKER"
		return out
	}
	out.Type = orders[best].kind
	out.Params[orders[best].thick] = row.Param(orders[best].param)
	return out
}

// lowerKeys returns params with lower-case names. MAD decks spell them
// either way.
func lowerKeys(params map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(params))
	for k, v := range params {
		out[strings.ToLower(k)] = v
	}
	return out
}

func component(row Row, _ Options) ([]entities.Element, error) {
	c, err := entities.NewComponent(row.Name, values.MustNewElementType(row.Type), row.Length, row.Params)
	if err != nil {
		return nil, err
	}
	return []entities.Element{c}, nil
}

func thin(row Row, opts Options) ([]entities.Element, error) {
	if row.Length != 0 {
		return nil, fmt.Errorf("%s must have zero length, got %g", row.Type, row.Length)
	}
	return component(row, opts)
}

// rfCavity builds a cavity. With SingleCellRF and a frequency (MHz) set, a
// cavity longer than half a wavelength is cut to λ/2 and followed by a
// drift named <name>_DRIFT covering the rest.
func rfCavity(row Row, opts Options) ([]entities.Element, error) {
	freq := row.Param("freq")
	if !opts.SingleCellRF || freq <= 0 {
		return component(row, opts)
	}

	cell := SpeedOfLight / (freq * 1e6) / 2
	if row.Length <= cell {
		return component(row, opts)
	}

	cavity, err := entities.NewComponent(row.Name, values.MustNewElementType(row.Type), cell, row.Params)
	if err != nil {
		return nil, err
	}
	rest, err := entities.NewDrift(row.Name+"_DRIFT", row.Length-cell)
	if err != nil {
		return nil, err
	}
	return []entities.Element{cavity, rest}, nil
}
