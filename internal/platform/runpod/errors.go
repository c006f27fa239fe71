package runpod

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/podtrain/internal/compute"
)

var (
	// ErrPodNotFound is returned by Status when the provider has no such pod.
	ErrPodNotFound = errors.New("pod not found")

	// ErrNoPodReturned is returned when a create call succeeds without a pod id.
	ErrNoPodReturned = errors.New("provider returned no pod")
)

// The GraphQL API reports failures as free-form messages, so classification
// matches on message fragments.
var (
	capacityFragments = []string{
		"no longer any instances available",
		"not enough free gpus",
		"no instances currently available",
	}
	unauthorizedFragments = []string{
		"unauthorized",
		"status code: 401",
		"status code: 403",
	}
)

// isCapacityShortage checks if an error means no machine currently matches
// the request. These errors are retryable.
func isCapacityShortage(err error) bool {
	return messageContains(err, capacityFragments...)
}

// isUnauthorized checks if an error indicates a rejected API key.
func isUnauthorized(err error) bool {
	return messageContains(err, unauthorizedFragments...)
}

// classify marks rejected-key errors with compute.ErrUnauthorized so callers
// outside this package can tell them apart.
func classify(err error) error {
	if isUnauthorized(err) {
		return fmt.Errorf("%w: %w", compute.ErrUnauthorized, err)
	}
	return err
}

func messageContains(err error, fragments ...string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, f := range fragments {
		if strings.Contains(msg, f) {
			return true
		}
	}
	return false
}
