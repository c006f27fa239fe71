// Package retry repeats flaky calls with a growing wait in between.
//
// Both remote edges of a job go through it: pod creation retries while
// the provider reports no capacity, and the SSH dialer retries while a
// fresh instance is still booting. A caller stops the loop early by
// returning an error wrapped with [Fatal].
package retry
