// Package pipeline runs the fixed remote training workflow against a ready
// instance.
//
// The workflow is six steps executed strictly in order: upload the dataset,
// fetch the base model, clone the training repository, install its
// dependencies, train, and download the results. Each step blocks until it
// completes. The first failing step ends the run and no later step starts.
//
// Commands are built from argument lists and shell-quoted before they reach
// the remote shell, so configuration values are never interpreted by it.
package pipeline
