// internal/workers/eligibility/evaluate-visa-eligibility/config.go
package evaluatevisaeligibility

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
