package pathway

import (
	"testing"

	apperrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/eligibility/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hops(r model.Route) []string {
	nodes := []string{r.Edges[0].From}
	for _, e := range r.Edges {
		nodes = append(nodes, e.To)
	}
	return nodes
}

// ==========================
// Route Tests
// ==========================

func TestRoutes_E7ToF5(t *testing.T) {
	g := MustEmbedded()

	routes, err := g.Routes("E-7", "F-5", MaxHops)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, []string{"E-7", "F-5"}, hops(routes[0]))
	assert.Equal(t, 5.0, routes[0].TotalYears)
	assert.Equal(t, model.DifficultyHard, routes[0].Difficulty)

	assert.Equal(t, []string{"E-7", "F-2-7", "F-5"}, hops(routes[1]))
	assert.Equal(t, 6.0, routes[1].TotalYears)
	assert.Equal(t, model.DifficultyModerate, routes[1].Difficulty)
}

func TestRoutes_SubVariantInheritsParentEdges(t *testing.T) {
	g := MustEmbedded()

	routes, err := g.Routes("E-9", "F-5", MaxHops)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, []string{"E-9", "E-7-4", "F-5"}, hops(routes[0]))
	assert.Equal(t, 9.0, routes[0].TotalYears)
	assert.Equal(t, []string{"E-9", "E-7-4", "F-2-7", "F-5"}, hops(routes[1]))
	assert.Equal(t, 10.0, routes[1].TotalYears)
}

func TestRoutes_OrderedByYearsThenHops(t *testing.T) {
	g := MustEmbedded()

	routes, err := g.Routes("d-2", "F-5", MaxHops)
	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, []string{"D-2", "E-7", "F-5"}, hops(routes[0]))
	assert.Equal(t, []string{"D-2", "D-10", "E-7", "F-5"}, hops(routes[1]))
	assert.Equal(t, routes[0].TotalYears, routes[1].TotalYears)
	assert.Equal(t, []string{"D-2", "E-7", "F-2-7", "F-5"}, hops(routes[2]))
}

func TestRoutes_HopLimit(t *testing.T) {
	g := MustEmbedded()

	routes, err := g.Routes("D-2", "F-5", 1)
	require.NoError(t, err)
	assert.Empty(t, routes)

	routes, err = g.Routes("D-2", "F-5", 2)
	require.NoError(t, err)
	assert.Len(t, routes, 1)
}

func TestRoutes_EdgeCases(t *testing.T) {
	g := MustEmbedded()

	routes, err := g.Routes("F-5", "F-5", MaxHops)
	require.NoError(t, err)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)

	routes, err = g.Routes("F-5", "E-7", MaxHops)
	require.NoError(t, err)
	assert.Empty(t, routes)

	_, err = g.Routes("H-2", "F-5", MaxHops)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownScheme))

	_, err = g.Routes("E-7", "Z-9", MaxHops)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownScheme))
}

// ==========================
// Direct Edge Tests
// ==========================

func TestFrom(t *testing.T) {
	g := MustEmbedded()

	edges := g.From("D-2")
	require.Len(t, edges, 2)
	assert.Equal(t, "D-10", edges[0].To)
	assert.Equal(t, "E-7", edges[1].To)

	inherited := g.From("E-7-4")
	require.Len(t, inherited, 2)
	for _, e := range inherited {
		assert.Equal(t, "E-7-4", e.From)
	}

	assert.Empty(t, g.From("F-5"))
	assert.NotNil(t, g.From("F-5"))
}

func TestFrom_ReturnsCopies(t *testing.T) {
	g := MustEmbedded()

	edges := g.From("F-6")
	require.Len(t, edges, 1)
	edges[0].Requirements[0] = "changed"

	assert.NotEqual(t, "changed", g.From("F-6")[0].Requirements[0])
}

func TestNewGraph_Validation(t *testing.T) {
	_, err := NewGraph([]model.PathwayEdge{{From: "A", To: "A", EstimatedYears: 1, Difficulty: model.DifficultyEasy}})
	assert.ErrorContains(t, err, "loops")

	_, err = NewGraph([]model.PathwayEdge{{From: "A", To: "B", EstimatedYears: 1, Difficulty: "brutal"}})
	assert.ErrorContains(t, err, "unknown difficulty")

	_, err = ParseGraphYAML([]byte(" "))
	assert.Error(t, err)
}
