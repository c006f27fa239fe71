// Package testing provides test utilities, builders, fixtures and shared
// mocks for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for job configurations
//   - Offer fixtures: catalog snapshots for selection scenarios
//   - Mock*: testify mocks for the catalog, control plane, provisioner,
//     remote session, dialer and archiver
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithMinMemory(24).
//	    WithBidRange(0.1, 0.2).
//	    Build()
//
//	catalog := &testing.MockCatalog{}
//	catalog.On("ListOffers", mock.Anything, mock.Anything).Return(testing.SampleOffers(), nil)
//
// Packages imported by this one (compute, config, pipeline) cannot use it
// in their own tests.
package testing
