// Package config defines the job configuration and its layered loading.
//
// A [Config] is produced once per process by [Load], which merges built-in
// defaults, an optional JSON file, PODTRAIN_* environment variables and
// command-line flags (highest wins). The result is passed by pointer to
// every component and is never mutated afterwards.
package config
