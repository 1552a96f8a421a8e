// Package generator provides utilities for template-based code generation
// with conflict resolution and rollback support.
//
// # Features
//
//   - Template rendering with case-conversion helpers
//   - Conflict resolution (interactive, --force, --skip, --diff)
//   - Myers diff for file comparison
//   - All-or-nothing execution of write and in-place update operations
//
// # Operations
//
// Generators return a list of operations; callers hand them to Execute:
//
//	ops := []generator.Operation{
//	    &generator.WriteFileOp{Path: "src/title.js", Content: content, Mode: 0644},
//	    &generator.UpdateFileOp{Path: "src/scenes-index.js", Transform: register},
//	}
//	err := generator.Execute(ctx, ops, generator.ExecuteOptions{})
//
// Every operation is validated before anything is written. If a write fails,
// files created by earlier operations are removed and updated files get
// their previous content back.
//
// # Transactions
//
// Transaction is the lower-level journal Execute is built on:
//
//	tx := generator.NewTransaction()
//	tx.AddFile("hatch.yml", cfg, 0644)
//	tx.AddFile("src/scenes-index.js", index, 0644)
//
//	if err := tx.Commit(); err != nil {
//	    // All files restored automatically on error
//	    return err
//	}
package generator
