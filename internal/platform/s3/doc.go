// Package s3 archives job results to an S3-compatible bucket.
//
// After the remote pipeline has downloaded the output directory, the
// Archiver mirrors it to s3://<bucket>/<prefix>/<pod-id>/. The bucket is
// created when it does not exist. A custom endpoint switches the client to
// path-style addressing for MinIO, R2 and similar stores.
package s3
