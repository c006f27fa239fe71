// Package naming provides consistent names for the resources a job creates.
//
// Instances are named {prefix}-{8hex}; the random suffix keeps concurrent
// jobs from colliding. Archived objects live under {prefix}/{podID}/ so the
// results of every run stay separate.
package naming
