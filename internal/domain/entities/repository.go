package entities

import (
	"reflect"

	"github.com/reglet-dev/lattice/internal/domain/values"
)

// Item is anything a Repository can own: an Element or a *SequenceFrame.
// Items must be pointers; identity is the pointer.
type Item interface {
	Name() string
	Type() values.ElementType
}

// Slot is the stable, zero-based handle of an item in a Repository.
type Slot int

// Repository is the arena owning every distinct element and grouping of a
// model. Registration is idempotent by identity and iteration follows the
// order of first registration.
type Repository struct {
	slots map[Item]Slot
	items []Item
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		slots: make(map[Item]Slot),
	}
}

// Add registers item and returns its slot. The boolean is false when the
// item was already present, in which case nothing changes.
func (r *Repository) Add(item Item) (Slot, bool) {
	if item == nil {
		panic(NewContractViolation("Repository.Add", "cannot register a nil item"))
	}
	if reflect.ValueOf(item).Kind() != reflect.Pointer {
		panic(NewContractViolation("Repository.Add", "item %q of type %T is not a pointer", item.Name(), item))
	}

	if slot, ok := r.slots[item]; ok {
		return slot, false
	}
	slot := Slot(len(r.items))
	r.slots[item] = slot
	r.items = append(r.items, item)
	return slot, true
}

// SlotOf returns the slot of a registered item.
func (r *Repository) SlotOf(item Item) (Slot, bool) {
	slot, ok := r.slots[item]
	return slot, ok
}

// Size returns the number of distinct items.
func (r *Repository) Size() int {
	return len(r.items)
}

// Items returns all items in first-registration order.
func (r *Repository) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Elements returns the registered elements, skipping groupings.
func (r *Repository) Elements() []Element {
	var out []Element
	for _, item := range r.items {
		if e, ok := item.(Element); ok {
			out = append(out, e)
		}
	}
	return out
}

// Sequences returns the registered groupings.
func (r *Repository) Sequences() []*SequenceFrame {
	var out []*SequenceFrame
	for _, item := range r.items {
		if s, ok := item.(*SequenceFrame); ok {
			out = append(out, s)
		}
	}
	return out
}

// CountByType groups the items by their declared type tag.
func (r *Repository) CountByType() map[string]int {
	counts := make(map[string]int)
	for _, item := range r.items {
		counts[item.Type().String()]++
	}
	return counts
}
