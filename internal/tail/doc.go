// Package tail is the line-oriented host for a vdash session. It prints
// each status change and each new snapshot as it is published, either as
// short text summaries or as newline-delimited JSON, and turns SIGCONT
// into a liveness hint.
package tail
