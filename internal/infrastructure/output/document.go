// Package output provides formatters for built models and placement
// selections.
package output

import (
	"github.com/reglet-dev/lattice/internal/application/dto"
	"github.com/reglet-dev/lattice/internal/domain/entities"
	"github.com/reglet-dev/lattice/internal/domain/services"
)

// ModelDocument is the serialisable view of a build result.
type ModelDocument struct {
	ID          string                `json:"id" yaml:"id"`
	Name        string                `json:"name" yaml:"name"`
	Lattice     []PlacementRow        `json:"lattice,omitempty" yaml:"lattice,omitempty"`
	Repository  []RepositoryRow       `json:"repository,omitempty" yaml:"repository,omitempty"`
	Diagnostics []entities.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Statistics  services.Statistics   `json:"statistics" yaml:"statistics"`
}

// SelectionDocument is the serialisable view of a placement selection.
type SelectionDocument struct {
	ModelID    string         `json:"model_id" yaml:"model_id"`
	Model      string         `json:"model" yaml:"model"`
	Placements []PlacementRow `json:"placements" yaml:"placements"`
	Count      int            `json:"count" yaml:"count"`
}

// PlacementRow describes one lattice placement. Element is the repository
// slot of the placed element, so placements sharing an element share it.
type PlacementRow struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Parent  string   `json:"parent" yaml:"parent"`
	Path    []string `json:"path,omitempty" yaml:"path,omitempty"`
	Index   int      `json:"index" yaml:"index"`
	Element int      `json:"element" yaml:"element"`
	S       float64  `json:"s" yaml:"s"`
	Length  float64  `json:"length" yaml:"length"`
	DX      float64  `json:"dx,omitempty" yaml:"dx,omitempty"`
	DY      float64  `json:"dy,omitempty" yaml:"dy,omitempty"`
	Tilt    float64  `json:"tilt,omitempty" yaml:"tilt,omitempty"`
}

// RepositoryRow describes one repository item.
type RepositoryRow struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Slot int    `json:"slot" yaml:"slot"`
}

// NewModelDocument converts a build result. The lattice and the repository
// are listed only when withLattice is set.
func NewModelDocument(resp *dto.BuildModelResponse, withLattice bool) ModelDocument {
	doc := ModelDocument{
		ID:          resp.Model.ID().String(),
		Name:        resp.Model.Name(),
		Statistics:  resp.Statistics,
		Diagnostics: resp.Diagnostics,
	}
	if withLattice {
		doc.Lattice = latticeRows(resp.Model)
		doc.Repository = repositoryRows(resp.Model.Repository())
	}
	return doc
}

// NewSelectionDocument converts a selection result.
func NewSelectionDocument(resp *dto.SelectPlacementsResponse) SelectionDocument {
	rows := make([]PlacementRow, len(resp.Selections))
	for i, s := range resp.Selections {
		rows[i] = rowFromEnv(s.Env)
		rows[i].Element = elementSlot(resp.Model.Repository(), s.Frame)
	}
	return SelectionDocument{
		ModelID:    resp.Model.ID().String(),
		Model:      resp.Model.Name(),
		Placements: rows,
		Count:      len(rows),
	}
}

func latticeRows(m *entities.Model) []PlacementRow {
	positions := m.Positions()
	lattice := m.Lattice()
	rows := make([]PlacementRow, len(lattice))
	for i, f := range lattice {
		rows[i] = rowFromEnv(services.NewPlacementEnv(f, positions[i]))
		rows[i].Element = elementSlot(m.Repository(), f)
	}
	return rows
}

func repositoryRows(repo *entities.Repository) []RepositoryRow {
	items := repo.Items()
	rows := make([]RepositoryRow, len(items))
	for i, item := range items {
		rows[i] = RepositoryRow{Slot: i, Name: item.Name(), Type: item.Type().String()}
	}
	return rows
}

// elementSlot returns -1 for frames without a registered component.
func elementSlot(repo *entities.Repository, f *entities.ComponentFrame) int {
	if f == nil {
		return -1
	}
	el, ok := f.Component()
	if !ok {
		return -1
	}
	slot, ok := repo.SlotOf(el)
	if !ok {
		return -1
	}
	return int(slot)
}

func rowFromEnv(env services.PlacementEnv) PlacementRow {
	return PlacementRow{
		Index:  env.Index,
		Name:   env.Name,
		Type:   env.Type,
		Parent: env.Parent,
		Path:   env.Path,
		S:      env.S,
		Length: env.Length,
		DX:     env.DX,
		DY:     env.DY,
		Tilt:   env.Tilt,
	}
}
