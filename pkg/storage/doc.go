// Package storage writes output files atomically.
//
// Every file the harvester produces (checkpoint, export, run summary) is
// written to a temporary sibling first and renamed over the destination
// only once it is complete, so a crash never leaves a truncated file.
//
// Usage:
//
//	err := storage.WriteFile("apps.csv", func(w io.Writer) error {
//	    return writeRows(w, rows)
//	})
//
// Writers that need a file path instead of an io.Writer use Stage:
//
//	staged, err := storage.Stage("apps.db")
//	// ... write to staged.Path() ...
//	err = staged.Commit()
package storage
