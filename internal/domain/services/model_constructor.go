package services

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/values"
)

// ConstructorState is the lifecycle state of a ModelConstructor.
type ConstructorState int

const (
	// StateEmpty means no model has been started.
	StateEmpty ConstructorState = iota
	// StateBuilding means a model is in progress.
	StateBuilding
	// StateFinished means the last model was handed over by Finish.
	StateFinished
)

func (s ConstructorState) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateFinished:
		return "finished"
	default:
		return "empty"
	}
}

// ConstructorOptions configures a ModelConstructor.
type ConstructorOptions struct {
	// Logger receives construction events and anomalies. Defaults to slog.Default().
	Logger *slog.Logger
	// OnDiagnostic, if set, is called for every recoverable anomaly.
	OnDiagnostic func(entities.Diagnostic)
	// ModelName names the models built by NewModel.
	ModelName string
}

// ModelConstructor assembles a Model through a scoped protocol: groupings
// are opened and closed like brackets while placements are appended to the
// innermost open grouping.
//
// The constructor is not safe for concurrent use. Protocol misuse (closing
// the root, finishing with open groupings, building without a model)
// panics with *entities.ContractViolation.
type ModelConstructor struct {
	logger *slog.Logger
	model  *entities.Model
	opts   ConstructorOptions
	stack  []*entities.SequenceFrame
	state  ConstructorState
}

// NewModelConstructor creates a constructor with a fresh model in progress.
func NewModelConstructor(opts ConstructorOptions) *ModelConstructor {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &ModelConstructor{
		opts:   opts,
		logger: opts.Logger,
	}
	c.NewModel()
	return c
}

// NewModel discards any model in progress and starts a new one whose GLOBAL
// root is the only open grouping.
func (c *ModelConstructor) NewModel() {
	if c.model != nil {
		c.logger.Debug("discarding model in progress",
			"model", c.model.Name(),
			"open_groupings", len(c.stack),
			"placements", c.model.LatticeSize())
	}

	c.model = entities.NewModel(c.opts.ModelName)
	c.stack = []*entities.SequenceFrame{c.model.Root()}
	c.state = StateBuilding
}

// State returns the lifecycle state.
func (c *ModelConstructor) State() ConstructorState {
	return c.state
}

// Depth returns the number of open groupings, root included.
func (c *ModelConstructor) Depth() int {
	return len(c.stack)
}

// Current returns the innermost open grouping.
func (c *ModelConstructor) Current() *entities.SequenceFrame {
	c.requireBuilding("Current")
	return c.top()
}

// OpenGrouping starts a nested grouping. Everything appended until the
// matching CloseGrouping goes into it.
func (c *ModelConstructor) OpenGrouping(name string, origin values.Origin) *entities.SequenceFrame {
	c.requireBuilding("OpenGrouping")

	seq := entities.NewSequenceFrame(name, origin)
	c.model.Register(seq)
	c.stack = append(c.stack, seq)

	c.logger.Debug("grouping opened", "name", name, "depth", len(c.stack))
	return seq
}

// CloseGrouping ends the innermost grouping and appends it to its parent
// exactly like AppendGrouping. Closing the root panics.
func (c *ModelConstructor) CloseGrouping() {
	c.requireBuilding("CloseGrouping")
	if len(c.stack) <= 1 {
		panic(entities.NewContractViolation("CloseGrouping", "no open grouping to close"))
	}

	seq := c.top()
	c.stack = c.stack[:len(c.stack)-1]
	c.AppendGrouping(seq)
}

// Grouping opens a grouping, runs fn and closes the grouping again, so the
// nesting stays balanced whatever fn returns.
func (c *ModelConstructor) Grouping(name string, origin values.Origin, fn func() error) error {
	c.OpenGrouping(name, origin)
	err := fn()
	c.CloseGrouping()
	if err != nil {
		return fmt.Errorf("grouping %s: %w", name, err)
	}
	return nil
}

// AppendPlacement places element in the innermost open grouping and at the
// end of the lattice.
func (c *ModelConstructor) AppendPlacement(element entities.Element, placement entities.Placement) *entities.ComponentFrame {
	c.requireBuilding("AppendPlacement")
	if element == nil {
		panic(entities.NewContractViolation("AppendPlacement", "element cannot be nil"))
	}

	c.model.Register(element)
	f := entities.NewComponentFrame(element, placement)
	c.top().AppendFrame(f)
	c.model.Place(f)
	return f
}

// AppendDrift places an unnamed drift of the given length.
func (c *ModelConstructor) AppendDrift(length float64) (*entities.ComponentFrame, error) {
	c.requireBuilding("AppendDrift")

	d, err := entities.NewDrift(entities.UnnamedDrift, length)
	if err != nil {
		return nil, err
	}
	return c.AppendPlacement(d, entities.Placement{}), nil
}

// AppendGrouping splices a complete grouping into the innermost open one.
// Every grouping and element reachable from seq is registered and every
// placement not yet in the lattice is appended, depth-first and left to
// right. Frames without a component are reported and skipped.
//
// A grouping can be appended once: appending a grouping that is still open
// or already linked somewhere panics.
func (c *ModelConstructor) AppendGrouping(seq *entities.SequenceFrame) {
	c.requireBuilding("AppendGrouping")
	if seq == nil {
		panic(entities.NewContractViolation("AppendGrouping", "grouping cannot be nil"))
	}
	if p := seq.Parent(); p != nil {
		panic(entities.NewContractViolation("AppendGrouping", "grouping %q already belongs to %q", seq.Name(), p.Name()))
	}
	for _, open := range c.stack {
		if open == seq {
			panic(entities.NewContractViolation("AppendGrouping", "grouping %q is still open", seq.Name()))
		}
	}

	c.model.Register(seq)

	x := NewExtractor(c.model, c.stackPath())
	for _, d := range Traverse(seq, x) {
		c.report(d)
	}

	c.top().AppendFrame(seq)

	c.logger.Debug("grouping appended",
		"name", seq.Name(),
		"placed", x.Placed(),
		"registered", x.Registered(),
		"lattice_size", c.model.LatticeSize())
}

// AddStandaloneElement registers element without placing it.
func (c *ModelConstructor) AddStandaloneElement(element entities.Element) {
	c.requireBuilding("AddStandaloneElement")
	if element == nil {
		panic(entities.NewContractViolation("AddStandaloneElement", "element cannot be nil"))
	}
	c.model.Register(element)
}

// Finish consolidates the root geometry and hands the model over. The
// constructor keeps no reference to it; NewModel must be called before
// building again. Finishing with open groupings panics. A consolidation
// failure leaves the model in progress and is returned.
func (c *ModelConstructor) Finish() (*entities.Model, error) {
	c.requireBuilding("Finish")
	if len(c.stack) != 1 {
		panic(entities.NewContractViolation("Finish", "grouping %q is not closed", c.top().Name()))
	}

	if err := c.model.Validate(); err != nil {
		return nil, fmt.Errorf("model %q is inconsistent: %w", c.model.Name(), err)
	}

	c.stack = c.stack[:0]
	m := c.model
	c.model = nil
	c.state = StateFinished

	c.logger.Info("model constructed",
		"model", m.Name(),
		"id", m.ID().String(),
		"arc_length", m.ArcLength(),
		"components", m.LatticeSize(),
		"elements", m.Repository().Size(),
		"diagnostics", len(m.Diagnostics()))
	return m, nil
}

// Statistics summarises the model in progress.
func (c *ModelConstructor) Statistics() Statistics {
	c.requireBuilding("Statistics")
	return StatisticsOf(c.model)
}

// ReportStatistics writes the statistics of the model in progress.
func (c *ModelConstructor) ReportStatistics(w io.Writer) error {
	return WriteStatistics(w, c.Statistics())
}

func (c *ModelConstructor) requireBuilding(op string) {
	if c.state != StateBuilding || c.model == nil {
		panic(entities.NewContractViolation(op, "no model in progress (state %s)", c.state))
	}
}

func (c *ModelConstructor) top() *entities.SequenceFrame {
	return c.stack[len(c.stack)-1]
}

func (c *ModelConstructor) stackPath() []string {
	path := make([]string, len(c.stack))
	for i, s := range c.stack {
		path[i] = s.Name()
	}
	return path
}

func (c *ModelConstructor) report(d entities.Diagnostic) {
	c.model.Report(d)
	c.logger.Warn("construction anomaly",
		"code", string(d.Code),
		"frame", d.Frame,
		"path", d.Path,
		"message", d.Message)
	if c.opts.OnDiagnostic != nil {
		c.opts.OnDiagnostic(d)
	}
}
