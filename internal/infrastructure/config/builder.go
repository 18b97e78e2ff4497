package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/services"
	"github.com/reglet-dev/lattice/internal/domain/values"
	"github.com/reglet-dev/lattice/internal/infrastructure/catalogue"
)

// structurePrefixes mark the sections kept as groupings when the
// description structure is not honoured.
var structurePrefixes = []string{"M_", "S_", "G_"}

// BuildOptions tune how a description is turned into a model.
type BuildOptions struct {
	// IgnoreZeroLengthTypes lists types whose zero-length instances are dropped.
	IgnoreZeroLengthTypes []string
	// TreatAsDrift lists types replaced by drifts of the same length.
	TreatAsDrift []string
	// FlatLattice drops every grouping; all placements land in the root.
	FlatLattice bool
	// HonourStructure keeps every line and section as a grouping. When false
	// only those named M_*, S_* or G_* are kept.
	HonourStructure bool
	// SingleCellRF cuts RF cavities to half a wavelength plus a drift.
	SingleCellRF bool
}

// DefaultBuildOptions returns options that keep the description structure.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{HonourStructure: true}
}

// Builder replays descriptions onto a model constructor.
type Builder struct {
	logger    *slog.Logger
	registry  *catalogue.Registry
	zeroTypes map[string]bool
	drifts    map[string]bool
	opts      BuildOptions
}

// NewBuilder creates a builder. A nil registry means the standard catalogue.
func NewBuilder(opts BuildOptions, registry *catalogue.Registry, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = catalogue.NewRegistry(catalogue.Options{SingleCellRF: opts.SingleCellRF})
	}
	return &Builder{
		logger:    logger,
		registry:  registry,
		opts:      opts,
		zeroTypes: upperSet(opts.IgnoreZeroLengthTypes),
		drifts:    upperSet(opts.TreatAsDrift),
	}
}

// Append adds everything d describes to the model in progress of c. Several
// descriptions can be appended to the same model before it is finished.
func (b *Builder) Append(c *services.ModelConstructor, d *Description) error {
	if err := b.checkOptions(); err != nil {
		return err
	}

	run := &buildRun{
		Builder: b,
		c:       c,
		desc:    d,
		shared:  make(map[string][]entities.Element),
	}

	if err := run.items(d.Beamline); err != nil {
		return fmt.Errorf("description %s: %w", d.Name, err)
	}
	for _, name := range d.Standalone {
		elements, err := run.named(name)
		if err != nil {
			return fmt.Errorf("description %s: standalone %s: %w", d.Name, name, err)
		}
		for _, e := range elements {
			c.AddStandaloneElement(e)
		}
	}

	b.logger.Debug("description appended",
		"description", d.Name,
		"version", d.Version,
		"depth", c.Depth())
	return nil
}

// checkOptions rejects type overrides naming types the catalogue does not
// know.
func (b *Builder) checkOptions() error {
	for _, o := range []struct {
		name  string
		types []string
	}{
		{"ignore-zero-length", b.opts.IgnoreZeroLengthTypes},
		{"treat-as-drift", b.opts.TreatAsDrift},
	} {
		for _, t := range o.types {
			if !b.registry.Has(strings.TrimSpace(t)) {
				return fmt.Errorf("%s: unknown element type %q", o.name, t)
			}
		}
	}
	return nil
}

// buildRun holds the state of one Append call.
type buildRun struct {
	*Builder
	c      *services.ModelConstructor
	desc   *Description
	shared map[string][]entities.Element
	lines  []string
}

func (r *buildRun) keepGrouping(name string) bool {
	if r.opts.FlatLattice {
		return false
	}
	if r.opts.HonourStructure {
		return true
	}
	for _, p := range structurePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func (r *buildRun) items(items []Item) error {
	for i, it := range items {
		if err := r.item(it); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func (r *buildRun) item(it Item) error {
	switch {
	case it.Drift != nil:
		_, err := r.c.AppendDrift(*it.Drift)
		return err

	case it.Element != "":
		elements, err := r.named(it.Element)
		if err != nil {
			return err
		}
		for range it.Times() {
			r.place(elements, placementOf(it))
		}
		return nil

	case it.Type != "":
		elements, err := r.build(catalogue.Row{Name: it.Name, Type: it.Type, Length: it.Length, Params: it.Params})
		if err != nil {
			return err
		}
		r.place(elements, placementOf(it))
		return nil

	case it.Section != "":
		return r.section(it.Section, it.Origin, it.Items)

	case it.Line != "":
		for range it.Times() {
			if err := r.line(it.Line); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("empty item")
}

// section builds an inline grouping through the open/close protocol.
func (r *buildRun) section(name, origin string, items []Item) error {
	if !r.keepGrouping(name) {
		return r.items(items)
	}
	o, err := values.NewOrigin(origin)
	if err != nil {
		return fmt.Errorf("section %s: %w", name, err)
	}
	return r.c.Grouping(name, o, func() error {
		return r.items(items)
	})
}

// line builds a reusable line detached from the model and splices it in
// with AppendGrouping.
func (r *buildRun) line(name string) error {
	def, err := r.enterLine(name)
	if err != nil {
		return err
	}
	defer r.leaveLine()

	if !r.keepGrouping(name) {
		return r.items(def.Items)
	}

	seq, err := r.detached(name, def)
	if err != nil {
		return err
	}
	r.c.AppendGrouping(seq)
	return nil
}

func (r *buildRun) enterLine(name string) (LineDef, error) {
	if slices.Contains(r.lines, name) {
		return LineDef{}, fmt.Errorf("line %s includes itself (%s)", name, strings.Join(append(slices.Clip(r.lines), name), " > "))
	}
	def, ok := r.desc.Lines[name]
	if !ok {
		return LineDef{}, fmt.Errorf("unknown line %q", name)
	}
	r.lines = append(r.lines, name)
	return def, nil
}

func (r *buildRun) leaveLine() {
	r.lines = r.lines[:len(r.lines)-1]
}

func (r *buildRun) detached(name string, def LineDef) (*entities.SequenceFrame, error) {
	o, err := values.NewOrigin(def.Origin)
	if err != nil {
		return nil, fmt.Errorf("line %s: %w", name, err)
	}
	seq := entities.NewSequenceFrame(name, o)
	if err := r.fill(seq, def.Items); err != nil {
		return nil, fmt.Errorf("line %s: %w", name, err)
	}
	return seq, nil
}

// fill appends the frames of items to a detached grouping.
func (r *buildRun) fill(seq *entities.SequenceFrame, items []Item) error {
	for i, it := range items {
		if err := r.fillItem(seq, it); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func (r *buildRun) fillItem(seq *entities.SequenceFrame, it Item) error {
	switch {
	case it.Drift != nil:
		d, err := entities.NewDrift(entities.UnnamedDrift, *it.Drift)
		if err != nil {
			return err
		}
		seq.AppendFrame(entities.NewComponentFrame(d, entities.Placement{}))
		return nil

	case it.Element != "" || it.Type != "":
		var elements []entities.Element
		var err error
		if it.Element != "" {
			elements, err = r.named(it.Element)
		} else {
			elements, err = r.build(catalogue.Row{Name: it.Name, Type: it.Type, Length: it.Length, Params: it.Params})
		}
		if err != nil {
			return err
		}
		for range it.Times() {
			for i, e := range elements {
				p := entities.Placement{}
				if i == 0 {
					p = placementOf(it)
				}
				seq.AppendFrame(entities.NewComponentFrame(e, p))
			}
		}
		return nil

	case it.Section != "":
		if !r.keepGrouping(it.Section) {
			return r.fill(seq, it.Items)
		}
		o, err := values.NewOrigin(it.Origin)
		if err != nil {
			return fmt.Errorf("section %s: %w", it.Section, err)
		}
		nested := entities.NewSequenceFrame(it.Section, o)
		if err := r.fill(nested, it.Items); err != nil {
			return fmt.Errorf("section %s: %w", it.Section, err)
		}
		seq.AppendFrame(nested)
		return nil

	case it.Line != "":
		for range it.Times() {
			if err := r.fillLine(seq, it.Line); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("empty item")
}

func (r *buildRun) fillLine(seq *entities.SequenceFrame, name string) error {
	def, err := r.enterLine(name)
	if err != nil {
		return err
	}
	defer r.leaveLine()

	if !r.keepGrouping(name) {
		return r.fill(seq, def.Items)
	}
	nested, err := r.detached(name, def)
	if err != nil {
		return err
	}
	seq.AppendFrame(nested)
	return nil
}

// named returns the shared elements of a library definition, building them
// on first use.
func (r *buildRun) named(name string) ([]entities.Element, error) {
	if elements, ok := r.shared[name]; ok {
		return elements, nil
	}
	def, ok := r.desc.Elements[name]
	if !ok {
		return nil, fmt.Errorf("unknown element %q", name)
	}
	elements, err := r.build(catalogue.Row{Name: name, Type: def.Type, Length: def.Length, Params: def.Params})
	if err != nil {
		return nil, err
	}
	r.shared[name] = elements
	return elements, nil
}

// build applies the type overrides and asks the catalogue for elements.
// An ignored row yields no elements.
func (r *buildRun) build(row catalogue.Row) ([]entities.Element, error) {
	kind := strings.ToUpper(strings.TrimSpace(row.Type))

	if row.Length == 0 && r.zeroTypes[kind] {
		r.logger.Debug("zero-length element ignored", "element", row.Name, "type", kind)
		return nil, nil
	}
	if r.drifts[kind] {
		d, err := entities.NewDrift(row.Name, row.Length)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", row.Name, err)
		}
		return []entities.Element{d}, nil
	}

	built, err := r.registry.Build(row)
	if err != nil {
		return nil, err
	}
	for _, p := range built.Missing {
		r.logger.Warn("element parameter missing, set to zero",
			"element", row.Name,
			"type", kind,
			"parameter", p)
	}
	return built.Elements, nil
}

// place appends the elements of one row; the placement offsets apply to the
// first of them.
func (r *buildRun) place(elements []entities.Element, p entities.Placement) {
	for i, e := range elements {
		if i == 0 {
			r.c.AppendPlacement(e, p)
			continue
		}
		r.c.AppendPlacement(e, entities.Placement{})
	}
}

func placementOf(it Item) entities.Placement {
	return entities.Placement{DX: it.DX, DY: it.DY, Tilt: it.Tilt}
}

func upperSet(types []string) map[string]bool {
	s := make(map[string]bool, len(types))
	for _, t := range types {
		s[strings.ToUpper(strings.TrimSpace(t))] = true
	}
	return s
}
