// internal/workers/eligibility/find-visa-pathways/config.go
package findvisapathways

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
