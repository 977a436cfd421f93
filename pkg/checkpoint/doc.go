// Package checkpoint persists harvest progress so an interrupted run can
// resume.
//
// A checkpoint is a single JSON document holding every record collected so
// far and, per work unit, the index of the next page to fetch. The seen-id
// set is rebuilt from the records on load rather than stored.
//
// Loading never fails: a missing file starts a fresh run and a corrupt one
// is logged and ignored. Saves go through a temporary file and a rename so
// a crash mid-write leaves the previous checkpoint intact.
package checkpoint
