// Package runpod is the GPU marketplace client: the offer catalog and the
// instance control plane, both spoken over the provider's GraphQL API.
//
// # Operations
//
//   - ListOffers: gpuTypes with their lowest bid/on-demand price and stock counts
//   - CreateOnDemand: podFindAndDeployOnDemand
//   - CreateInterruptible: podRentInterruptable at a bid price per GPU
//   - Status: pod runtime with its port mappings
//   - Stop: podStop
//
// # Retries
//
// Create calls are retried with exponential backoff only when the provider
// reports a transient capacity shortage. Any other create error is returned
// immediately, since retrying an ambiguous failure could rent two instances.
// Status and Stop are never retried here; the provisioning controller owns
// the readiness poll loop.
//
// # Authentication
//
// The API key is sent as a bearer token through an oauth2 static token source.
package runpod
