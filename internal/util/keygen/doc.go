// Package keygen produces the SSH key pair a job authenticates with.
//
// Without a configured key the job generates an ephemeral Ed25519 pair;
// the public half is injected into the instance environment and the
// private half never leaves memory.
package keygen
