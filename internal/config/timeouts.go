package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds transport-level timing that is tuned by operators rather
// than per job. These values can be customized via environment variables.
type Timeouts struct {
	APIRequest         time.Duration // Timeout for a single provider API call
	CreateMaxAttempts  int           // Retries of a failed create call
	CreateInitialDelay time.Duration // Initial delay between create retries
	SSHDial            time.Duration // Timeout for establishing the TCP connection
	SSHMaxRetries      int           // SSH dial retries once the endpoint is known
	SSHRetryDelay      time.Duration // Initial delay between SSH dial retries
	Teardown           time.Duration // Timeout for the stop request
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - PODTRAIN_TIMEOUT_API (default: 30s)
//   - PODTRAIN_RETRY_CREATE_ATTEMPTS (default: 3)
//   - PODTRAIN_RETRY_CREATE_DELAY (default: 5s)
//   - PODTRAIN_TIMEOUT_SSH_DIAL (default: 10s)
//   - PODTRAIN_RETRY_SSH_ATTEMPTS (default: 30)
//   - PODTRAIN_RETRY_SSH_DELAY (default: 2s)
//   - PODTRAIN_TIMEOUT_TEARDOWN (default: 1m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		APIRequest:         parseDuration("PODTRAIN_TIMEOUT_API", 30*time.Second),
		CreateMaxAttempts:  parseInt("PODTRAIN_RETRY_CREATE_ATTEMPTS", 3),
		CreateInitialDelay: parseDuration("PODTRAIN_RETRY_CREATE_DELAY", 5*time.Second),
		SSHDial:            parseDuration("PODTRAIN_TIMEOUT_SSH_DIAL", 10*time.Second),
		SSHMaxRetries:      parseInt("PODTRAIN_RETRY_SSH_ATTEMPTS", 30),
		SSHRetryDelay:      parseDuration("PODTRAIN_RETRY_SSH_DELAY", 2*time.Second),
		Teardown:           parseDuration("PODTRAIN_TIMEOUT_TEARDOWN", time.Minute),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
