// internal/workers/eligibility/find-visa-pathways/models.go
package findvisapathways

import "visa-eligibility-workers/internal/eligibility/model"

type Input struct {
	CurrentScheme string `json:"currentScheme"`
	TargetScheme  string `json:"targetScheme"`
}

type Output struct {
	Routes       []model.Route `json:"routes"`
	RouteCount   int           `json:"routeCount"`
	HasPathway   bool          `json:"hasPathway"`
	FastestYears float64       `json:"fastestYears,omitempty"`
}
