package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/reglet-dev/lattice/internal/domain/entities"
)

// Statistics summarises a model: its length, its size and how many
// repository items exist per type tag. Elements counts every repository
// item; Distinct and Groupings split it into physical elements and
// groupings.
type Statistics struct {
	TypeCounts map[string]int `json:"type_counts" yaml:"type_counts"`
	ModelName  string         `json:"model" yaml:"model"`
	ModelID    string         `json:"model_id" yaml:"model_id"`
	ArcLength  float64        `json:"arc_length" yaml:"arc_length"`
	Components int            `json:"components" yaml:"components"`
	Elements   int            `json:"elements" yaml:"elements"`
	Distinct   int            `json:"distinct_elements" yaml:"distinct_elements"`
	Groupings  int            `json:"groupings" yaml:"groupings"`
}

// TypeCount is one row of the per-type table.
type TypeCount struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// StatisticsOf computes the statistics of m. It does not modify m.
func StatisticsOf(m *entities.Model) Statistics {
	return Statistics{
		ModelName:  m.Name(),
		ModelID:    m.ID().String(),
		ArcLength:  m.ArcLength(),
		Components: m.LatticeSize(),
		Elements:   m.Repository().Size(),
		TypeCounts: m.Repository().CountByType(),
		Distinct:   len(m.Repository().Elements()),
		Groupings:  len(m.Repository().Sequences()),
	}
}

// SortedTypes returns the per-type counts ordered by type tag.
func (s Statistics) SortedTypes() []TypeCount {
	out := make([]TypeCount, 0, len(s.TypeCounts))
	for t, n := range s.TypeCounts {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Type < out[j].Type
	})
	return out
}

// WriteStatistics prints s as a plain text report.
//
//nolint:errcheck // only the last write error is reported
func WriteStatistics(w io.Writer, s Statistics) error {
	fmt.Fprintf(w, "Arc length of beamline:     %g meter\n", s.ArcLength)
	fmt.Fprintf(w, "Total number of components: %d\n", s.Components)
	fmt.Fprintf(w, "Total number of elements:   %d\n", s.Elements)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Model Element statistics")
	fmt.Fprintln(w, "------------------------")
	fmt.Fprintln(w)

	for _, tc := range s.SortedTypes() {
		fmt.Fprintf(w, "%-20s%-4d\n", tc.Type, tc.Count)
	}
	_, err := fmt.Fprintln(w)
	return err
}
