// Package orchestration runs one training job end to end.
//
// # Workflow
//
// A Job moves through these stages in order:
//  1. Select - list the catalog and pick the cheapest eligible offer
//  2. Provision - create the instance (on-demand or bid)
//  3. AwaitReady - poll until the instance has a reachable endpoint
//  4. Connect - open the remote session
//  5. RunPipeline - run the fixed remote workflow
//  6. Archive - optionally upload the results to object storage
//  7. Teardown - stop the instance
//
// Every fatal failure is returned as a *JobError whose Kind tells the
// caller what went wrong. Readiness query errors and teardown errors are
// logged and never fail the job.
//
// # Teardown policy
//
// By default a failure after Provision leaves the instance running so it
// can be inspected, and the pod id is logged as a warning. With
// TeardownOnFailure set, the instance is stopped on every exit path once it
// exists, including cancellation.
package orchestration
