// internal/agents/parse-query/config.go
package parsequery

import "time"

// No tunables beyond the timeout, struct provided for consistency
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
