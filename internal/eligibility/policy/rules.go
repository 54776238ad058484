package policy

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"visa-eligibility-workers/internal/eligibility/model"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

var (
	loadOnce          sync.Once
	embeddedRules     *Rules
	embeddedConstants *ConstantsCatalog
	embeddedLoadErr   error
)

// Rules is the immutable rule set shared by every evaluation.
type Rules struct {
	Scores     map[model.SchemeID]*ScoreSchedule
	Thresholds Thresholds
	Processing map[model.SchemeID]ProcessingPolicy
	Bands      Bands
}

// Schedule returns the score schedule of a points scheme.
func (r *Rules) Schedule(id model.SchemeID) (*ScoreSchedule, error) {
	s, ok := r.Scores[id]
	if !ok {
		return nil, fmt.Errorf("policy: no score schedule for %s", id)
	}
	return s, nil
}

// ProcessingFor returns the processing policy of a scheme; unknown schemes get zero days.
func (r *Rules) ProcessingFor(id model.SchemeID) ProcessingPolicy {
	return r.Processing[id]
}

type processingFile struct {
	Bands   Bands                               `yaml:"bands"`
	Schemes map[model.SchemeID]ProcessingPolicy `yaml:"schemes"`
}

// ParseRulesYAML decodes the three rule payloads and validates the result.
func ParseRulesYAML(scores, thresholds, processing []byte) (*Rules, error) {
	for name, payload := range map[string][]byte{"scores": scores, "thresholds": thresholds, "processing": processing} {
		if len(bytes.TrimSpace(payload)) == 0 {
			return nil, fmt.Errorf("policy: %s payload is empty", name)
		}
	}

	rules := &Rules{}
	if err := yaml.Unmarshal(scores, &rules.Scores); err != nil {
		return nil, fmt.Errorf("policy: decode scores: %w", err)
	}
	if err := yaml.Unmarshal(thresholds, &rules.Thresholds); err != nil {
		return nil, fmt.Errorf("policy: decode thresholds: %w", err)
	}
	var proc processingFile
	if err := yaml.Unmarshal(processing, &proc); err != nil {
		return nil, fmt.Errorf("policy: decode processing: %w", err)
	}
	rules.Processing = proc.Schemes
	rules.Bands = proc.Bands

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Validate checks that every scheme has the policy data its evaluator reads.
func (r *Rules) Validate() error {
	for id, s := range r.Scores {
		s.Scheme = id
		if err := s.Validate(); err != nil {
			return fmt.Errorf("policy: %w", err)
		}
	}
	for _, id := range model.SupportedSchemes() {
		if id.Kind() == model.KindScore {
			if _, ok := r.Scores[id]; !ok {
				return fmt.Errorf("policy: missing score schedule for %s", id)
			}
		}
		if r.Processing[id].StandardDays <= 0 {
			return fmt.Errorf("policy: missing processing policy for %s", id)
		}
	}
	if err := r.Thresholds.validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if r.Bands.ComfortableMargin <= 0 || r.Bands.StrongPercent <= 0 {
		return fmt.Errorf("policy: bands must be positive")
	}
	return nil
}

// Embedded returns the rule set and constant catalog compiled into the binary.
// Both are decoded once; callers must not mutate them.
func Embedded() (*Rules, *ConstantsCatalog, error) {
	loadOnce.Do(func() {
		embeddedRules, embeddedConstants, embeddedLoadErr = loadEmbedded()
	})
	return embeddedRules, embeddedConstants, embeddedLoadErr
}

// MustEmbedded is Embedded for process start-up and tests.
func MustEmbedded() (*Rules, *ConstantsCatalog) {
	rules, constants, err := Embedded()
	if err != nil {
		panic(err)
	}
	return rules, constants
}

func loadEmbedded() (*Rules, *ConstantsCatalog, error) {
	read := func(name string) ([]byte, error) {
		data, err := dataFS.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("policy: read %s: %w", name, err)
		}
		return data, nil
	}

	files := make(map[string][]byte, 4)
	for _, name := range []string{"scores.yaml", "thresholds.yaml", "processing.yaml", "constants.yaml"} {
		data, err := read(name)
		if err != nil {
			return nil, nil, err
		}
		files[name] = data
	}

	rules, err := ParseRulesYAML(files["scores.yaml"], files["thresholds.yaml"], files["processing.yaml"])
	if err != nil {
		return nil, nil, err
	}
	constants, err := ParseConstantsYAML(files["constants.yaml"])
	if err != nil {
		return nil, nil, err
	}
	return rules, constants, nil
}
