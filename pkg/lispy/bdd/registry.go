// Package bdd implements the hierarchical feature/scenario/step registry
// of spec.md §3.5/§4.9: a stack of active features and scenarios plus a
// global ordered list of feature results. There is no direct Parsley
// analogue (Basil has no embedded BDD DSL); the shape is grounded on the
// describe/it/step vocabulary of github.com/onsi/ginkgo/v2, the BDD
// testing library already present in the grounding corpus
// (holomush-holomush's test/integration suites), adapted from "a Go
// testing library" to "a registry driven by evaluated LisPy forms".
package bdd

import "fmt"

// StepStatus is a step's outcome.
type StepStatus string

const (
	Passed StepStatus = "passed"
	Failed StepStatus = "failed"
)

// Step records one Given/When/Then/Action step (spec.md §3.5).
type Step struct {
	Keyword     string // "Given", "When", "Then", "Action"
	Description string
	Status      StepStatus
	Detail      string // failure message, empty when Status == Passed
}

// Scenario is one `it` block: a description plus its ordered steps.
type Scenario struct {
	Description string
	Steps       []Step
}

// Failed reports whether any step in the scenario failed.
func (s *Scenario) Failed() bool {
	for _, step := range s.Steps {
		if step.Status == Failed {
			return true
		}
	}
	return false
}

// Feature is one `describe` block: a description plus its ordered
// scenarios.
type Feature struct {
	Description string
	Scenarios   []*Scenario
}

// Registry is the BDD context of spec.md §3.5. Per spec.md §5, BDD
// registry access is not expected to be concurrent; it is not guarded by a
// mutex here, matching that guidance (a future caller that does drive BDD
// forms concurrently would need to add one, same tradeoff Parsley
// documents for its own non-concurrent registries).
type Registry struct {
	featureStack  []*Feature
	scenarioStack []*Scenario
	Results       []*Feature
}

// New creates an empty Registry. One Registry is instantiated per
// interpreter instance and carried in the evaluator's Context (spec.md §9's
// "named singletons... rather than true global state").
func New() *Registry {
	return &Registry{}
}

// StartFeature begins a new top-level feature. Per spec.md §4.9, nested
// `describe` forms are NOT supported as nested features — every call to
// StartFeature, even while another feature is active, starts a new
// top-level entry in Results. This is a deliberate, documented limitation
// preserved from the reference design.
func (r *Registry) StartFeature(description string) *Feature {
	f := &Feature{Description: description}
	r.Results = append(r.Results, f)
	r.featureStack = append(r.featureStack, f)
	return f
}

// EndFeature pops the most recently started feature.
func (r *Registry) EndFeature() {
	if len(r.featureStack) == 0 {
		return
	}
	r.featureStack = r.featureStack[:len(r.featureStack)-1]
}

// CurrentFeature returns the innermost active feature, if any.
func (r *Registry) CurrentFeature() (*Feature, bool) {
	if len(r.featureStack) == 0 {
		return nil, false
	}
	return r.featureStack[len(r.featureStack)-1], true
}

// StartScenario begins a new scenario under the current feature. It is an
// error to call this with no active feature.
func (r *Registry) StartScenario(description string) (*Scenario, error) {
	feature, ok := r.CurrentFeature()
	if !ok {
		return nil, fmt.Errorf("'it' used outside of a 'describe' block")
	}
	s := &Scenario{Description: description}
	feature.Scenarios = append(feature.Scenarios, s)
	r.scenarioStack = append(r.scenarioStack, s)
	return s, nil
}

// EndScenario pops the most recently started scenario.
func (r *Registry) EndScenario() {
	if len(r.scenarioStack) == 0 {
		return
	}
	r.scenarioStack = r.scenarioStack[:len(r.scenarioStack)-1]
}

// CurrentScenario returns the innermost active scenario, if any.
func (r *Registry) CurrentScenario() (*Scenario, bool) {
	if len(r.scenarioStack) == 0 {
		return nil, false
	}
	return r.scenarioStack[len(r.scenarioStack)-1], true
}

// InScenario reports whether a scenario is currently active — used to
// disambiguate the BDD `when` step form from control-flow `when` (spec.md
// §4.5, §9).
func (r *Registry) InScenario() bool {
	_, ok := r.CurrentScenario()
	return ok
}

// RecordStep appends a step with the given keyword/description to the
// current scenario, deriving its status from err (nil => Passed). It is
// an error to call this with no active scenario.
func (r *Registry) RecordStep(keyword, description string, err error) error {
	scenario, ok := r.CurrentScenario()
	if !ok {
		return fmt.Errorf("'%s' used outside of an 'it' block", keyword)
	}
	step := Step{Keyword: keyword, Description: description, Status: Passed}
	if err != nil {
		step.Status = Failed
		step.Detail = err.Error()
	}
	scenario.Steps = append(scenario.Steps, step)
	return nil
}

// Report summarizes the registry's results for non-interactive reporting
// (spec.md §7: "A test runner aggregates BDD failures into a structured
// report").
type Report struct {
	Features        int
	Scenarios       int
	PassedScenarios int
	FailedScenarios int
	Steps           int
	FailedSteps     int
}

// Report computes a Report over the current Results.
func (r *Registry) Report() Report {
	var rep Report
	rep.Features = len(r.Results)
	for _, f := range r.Results {
		for _, s := range f.Scenarios {
			rep.Scenarios++
			if s.Failed() {
				rep.FailedScenarios++
			} else {
				rep.PassedScenarios++
			}
			for _, step := range s.Steps {
				rep.Steps++
				if step.Status == Failed {
					rep.FailedSteps++
				}
			}
		}
	}
	return rep
}
