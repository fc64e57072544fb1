package resilience

import "time"

// CircuitBreakerConfig tunes the breaker each provider client wraps around
// its outbound HTTP calls. One breaker guards one booking system, so a
// provider that keeps timing out stops costing every club a full request.
type CircuitBreakerConfig struct {
	Enabled bool
	// FailureThreshold is the number of consecutive failed provider calls
	// that opens the breaker.
	FailureThreshold int
	// OpenTimeout is how long calls fail fast with ErrCircuitOpen before a
	// half-open trial is allowed.
	OpenTimeout time.Duration
	// HalfOpenMaxReq caps concurrent trial calls while half-open.
	HalfOpenMaxReq int
}

// DefaultCircuitBreakerConfig is applied when PROVIDER_CIRCUIT_* is unset.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// NormalizeCircuitBreakerConfig replaces non-positive values with defaults
// so a partially filled provider config never yields a breaker that opens
// on the first failure or stays open forever.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}
