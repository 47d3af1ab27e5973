// Package cli implements the vdash command tree with cobra.
//
// Every command loads the same configuration (flags, then .vdash.yaml, then
// VDASH_* environment overrides) and builds its session through
// openSession, so watch, tail and doctor always dial the same endpoint the
// same way.
package cli
