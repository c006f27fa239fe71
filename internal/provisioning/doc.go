// Package provisioning drives the lifecycle of one GPU instance:
// Requested → Ready → Stopped.
//
// Provision issues a single create call for the chosen offer and acquisition
// mode. AwaitReady polls the control plane on a fixed interval until the
// instance reports a reachable endpoint; status errors are transient and
// never end the loop on their own. The loop is unbounded unless the poll
// policy sets a timeout or an attempt limit, and it always stops when the
// context is cancelled. Teardown is best effort: a failed stop request is
// returned for logging but never changes the job outcome.
package provisioning
