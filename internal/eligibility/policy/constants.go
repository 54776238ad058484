// Package policy holds the data side of the eligibility engine: versioned
// reference constants, bracket tables, requirement thresholds and processing
// policy. Everything is decoded from YAML once and shared read-only.
package policy

import (
	"bytes"
	"fmt"
	"sort"

	apperrors "visa-eligibility-workers/internal/common/errors"

	"gopkg.in/yaml.v3"
)

const (
	// statutory monthly working hours used to annualise the hourly minimum wage
	monthlyWorkingHours = 209
	monthsPerYear       = 12
)

// ReferenceConstants is one policy-year schedule of economic benchmarks. All
// amounts are annual KRW.
type ReferenceConstants struct {
	Version               string        `json:"version" yaml:"version"`
	Year                  int           `json:"year" yaml:"year"`
	GNIPerCapita          int64         `json:"gniPerCapita" yaml:"gniPerCapita"`
	MinimumHourlyWage     int64         `json:"minimumHourlyWage" yaml:"minimumHourlyWage"`
	MinimumAnnualWage     int64         `json:"minimumAnnualWage" yaml:"minimumAnnualWage"`
	MedianHouseholdIncome map[int]int64 `json:"medianHouseholdIncome" yaml:"medianHouseholdIncome"`
}

// MedianIncomeFor returns the annual median income for a household of size.
// Sizes beyond the published table extend by the last published step.
func (c ReferenceConstants) MedianIncomeFor(size int) int64 {
	if size < 1 {
		size = 1
	}
	if v, ok := c.MedianHouseholdIncome[size]; ok {
		return v
	}

	largest := 0
	for s := range c.MedianHouseholdIncome {
		if s > largest {
			largest = s
		}
	}
	if largest == 0 {
		return 0
	}
	if size < largest {
		// gap inside the table; fall back to the nearest smaller size
		for s := size - 1; s >= 1; s-- {
			if v, ok := c.MedianHouseholdIncome[s]; ok {
				return v
			}
		}
		return 0
	}
	step := c.MedianHouseholdIncome[largest] - c.MedianHouseholdIncome[largest-1]
	return c.MedianHouseholdIncome[largest] + step*int64(size-largest)
}

// Validate reports a ConfigurationError if the schedule cannot drive an evaluation.
func (c ReferenceConstants) Validate() error {
	switch {
	case c.Version == "":
		return apperrors.NewConfigurationError(c.Year, "reference constants have no version")
	case c.GNIPerCapita <= 0:
		return apperrors.NewConfigurationError(c.Year, "gniPerCapita must be positive")
	case c.MinimumAnnualWage <= 0:
		return apperrors.NewConfigurationError(c.Year, "minimumAnnualWage must be positive")
	case c.MedianHouseholdIncome[1] <= 0 || c.MedianHouseholdIncome[2] <= 0:
		return apperrors.NewConfigurationError(c.Year, "median household income needs at least sizes 1 and 2")
	}
	return nil
}

// ConstantsCatalog indexes schedules by policy year.
type ConstantsCatalog struct {
	byYear map[int]ReferenceConstants
	years  []int
}

type constantsFile struct {
	Schedules []struct {
		Version             string        `yaml:"version"`
		Year                int           `yaml:"year"`
		GNIPerCapita        int64         `yaml:"gniPerCapita"`
		MinimumHourlyWage   int64         `yaml:"minimumHourlyWage"`
		MinimumAnnualWage   int64         `yaml:"minimumAnnualWage"`
		MonthlyMedianIncome map[int]int64 `yaml:"monthlyMedianIncome"`
	} `yaml:"schedules"`
}

// ParseConstantsYAML decodes and validates a constants catalog.
func ParseConstantsYAML(data []byte) (*ConstantsCatalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("policy: constants payload is empty")
	}
	var file constantsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("policy: decode constants: %w", err)
	}

	catalog := &ConstantsCatalog{byYear: make(map[int]ReferenceConstants, len(file.Schedules))}
	for _, s := range file.Schedules {
		rc := ReferenceConstants{
			Version:               s.Version,
			Year:                  s.Year,
			GNIPerCapita:          s.GNIPerCapita,
			MinimumHourlyWage:     s.MinimumHourlyWage,
			MinimumAnnualWage:     s.MinimumAnnualWage,
			MedianHouseholdIncome: make(map[int]int64, len(s.MonthlyMedianIncome)),
		}
		if rc.MinimumAnnualWage == 0 {
			rc.MinimumAnnualWage = rc.MinimumHourlyWage * monthlyWorkingHours * monthsPerYear
		}
		for size, monthly := range s.MonthlyMedianIncome {
			rc.MedianHouseholdIncome[size] = monthly * monthsPerYear
		}
		if err := catalog.Add(rc); err != nil {
			return nil, fmt.Errorf("policy: schedule %d: %w", s.Year, err)
		}
	}
	if len(catalog.years) == 0 {
		return nil, fmt.Errorf("policy: constants payload has no schedules")
	}
	return catalog, nil
}

// Add validates rc and indexes it by year, replacing any previous schedule.
func (c *ConstantsCatalog) Add(rc ReferenceConstants) error {
	if err := rc.Validate(); err != nil {
		return err
	}
	if _, exists := c.byYear[rc.Year]; !exists {
		c.years = append(c.years, rc.Year)
		sort.Ints(c.years)
	}
	c.byYear[rc.Year] = rc
	return nil
}

// ForYear returns the schedule for year, or a ConfigurationError.
func (c *ConstantsCatalog) ForYear(year int) (ReferenceConstants, error) {
	if rc, ok := c.byYear[year]; ok {
		return rc, nil
	}
	return ReferenceConstants{}, apperrors.NewConfigurationError(year, fmt.Sprintf("no schedule for policy year %d (available %v)", year, c.years))
}

// Latest returns the newest schedule.
func (c *ConstantsCatalog) Latest() ReferenceConstants {
	return c.byYear[c.years[len(c.years)-1]]
}

// Years lists the available policy years in ascending order.
func (c *ConstantsCatalog) Years() []int {
	out := make([]int, len(c.years))
	copy(out, c.years)
	return out
}
