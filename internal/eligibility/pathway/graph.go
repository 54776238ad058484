// Package pathway answers transition-route queries over a curated graph of
// classifications.
package pathway

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	apperrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/eligibility/model"

	"gopkg.in/yaml.v3"
)

// MaxHops bounds the length of enumerated routes.
const MaxHops = 3

//go:embed data/pathways.yaml
var graphYAML []byte

var (
	loadOnce      sync.Once
	embeddedGraph *Graph
	loadErr       error
)

// Graph is an immutable directed graph of transitions.
type Graph struct {
	out   map[string][]model.PathwayEdge
	nodes map[string]bool
}

type graphFile struct {
	Edges []model.PathwayEdge `yaml:"edges"`
}

// ParseGraphYAML decodes and validates an edge list.
func ParseGraphYAML(data []byte) (*Graph, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("pathway: graph payload is empty")
	}
	var file graphFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("pathway: decode graph: %w", err)
	}
	return NewGraph(file.Edges)
}

// NewGraph indexes edges by origin.
func NewGraph(edges []model.PathwayEdge) (*Graph, error) {
	g := &Graph{
		out:   make(map[string][]model.PathwayEdge),
		nodes: make(map[string]bool),
	}
	for _, id := range model.SupportedSchemes() {
		g.nodes[string(id)] = true
	}
	for i, e := range edges {
		switch {
		case e.From == "" || e.To == "":
			return nil, fmt.Errorf("pathway: edge %d has no endpoints", i)
		case e.From == e.To:
			return nil, fmt.Errorf("pathway: edge %d loops on %s", i, e.From)
		case e.EstimatedYears <= 0:
			return nil, fmt.Errorf("pathway: edge %s->%s has no duration", e.From, e.To)
		case e.Difficulty.Rank() == 0:
			return nil, fmt.Errorf("pathway: edge %s->%s has unknown difficulty %q", e.From, e.To, e.Difficulty)
		}
		g.out[e.From] = append(g.out[e.From], e)
		g.nodes[e.From] = true
		g.nodes[e.To] = true
	}
	return g, nil
}

// Embedded returns the graph compiled into the binary.
func Embedded() (*Graph, error) {
	loadOnce.Do(func() {
		embeddedGraph, loadErr = ParseGraphYAML(graphYAML)
	})
	return embeddedGraph, loadErr
}

// MustEmbedded is Embedded for process start-up and tests.
func MustEmbedded() *Graph {
	g, err := Embedded()
	if err != nil {
		panic(err)
	}
	return g
}

// Known reports whether node is a classification the graph can answer for.
func (g *Graph) Known(node string) bool {
	return g.nodes[normalize(node)]
}

// From returns the transitions available from node, including those a
// sub-variant inherits from its parent. Inherited edges start at node.
func (g *Graph) From(node string) []model.PathwayEdge {
	node = normalize(node)
	edges := []model.PathwayEdge{}
	seen := make(map[string]bool)
	for _, origin := range []string{node, parent(node)} {
		if origin == "" {
			continue
		}
		for _, e := range g.out[origin] {
			if seen[e.To] || e.To == node {
				continue
			}
			seen[e.To] = true
			e.From = node
			edges = append(edges, clone(e))
		}
	}
	return edges
}

// Routes enumerates simple paths of at most maxHops edges from current to
// target, ordered by total years, then hop count.
func (g *Graph) Routes(current, target string, maxHops int) ([]model.Route, error) {
	current, target = normalize(current), normalize(target)
	if !g.nodes[current] {
		return nil, apperrors.NewUnknownSchemeError(current)
	}
	if !g.nodes[target] {
		return nil, apperrors.NewUnknownSchemeError(target)
	}
	routes := []model.Route{}
	if current == target {
		return routes, nil
	}

	visited := map[string]bool{current: true}
	var path []model.PathwayEdge
	var walk func(node string)
	walk = func(node string) {
		if len(path) == maxHops {
			return
		}
		for _, e := range g.From(node) {
			if visited[e.To] {
				continue
			}
			path = append(path, e)
			if e.To == target {
				routes = append(routes, newRoute(path))
			} else {
				visited[e.To] = true
				walk(e.To)
				visited[e.To] = false
			}
			path = path[:len(path)-1]
		}
	}
	walk(current)

	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].TotalYears != routes[j].TotalYears {
			return routes[i].TotalYears < routes[j].TotalYears
		}
		return len(routes[i].Edges) < len(routes[j].Edges)
	})
	return routes, nil
}

func newRoute(path []model.PathwayEdge) model.Route {
	r := model.Route{Edges: make([]model.PathwayEdge, len(path))}
	for i, e := range path {
		r.Edges[i] = clone(e)
		r.TotalYears += e.EstimatedYears
		if e.Difficulty.Rank() > r.Difficulty.Rank() {
			r.Difficulty = e.Difficulty
		}
	}
	return r
}

func clone(e model.PathwayEdge) model.PathwayEdge {
	e.Requirements = append([]string(nil), e.Requirements...)
	return e
}

func normalize(node string) string {
	return strings.ToUpper(strings.TrimSpace(node))
}

// parent strips the last segment of a sub-variant ("E-7-4" -> "E-7"). Only
// supported schemes count as parents, so "F-2-7" has none.
func parent(node string) string {
	i := strings.LastIndex(node, "-")
	if i <= 0 {
		return ""
	}
	p := node[:i]
	if _, err := model.ParseSchemeID(p); err != nil {
		return ""
	}
	return p
}
