// internal/agents/assemble-result/config.go
package assembleresult

import "time"

type Config struct {
	Timeout time.Duration

	// DefaultYear stamps records when the query named no year.
	DefaultYear int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     15 * time.Second,
		DefaultYear: 2023,
	}
}
