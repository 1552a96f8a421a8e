package generator

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun bool
	Force  bool
	Writer io.Writer // Where to write output (defaults to os.Stdout)
}

// Execute validates every operation, then runs them in order.
//
// Execution is all-or-nothing: the target of each Targeter operation is
// journaled before it runs, and if any operation fails (or ctx is
// cancelled between operations) every journaled file is restored. The
// targets' path locks are held for the whole run.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	// Phase 1: Validate all operations
	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	if opts.DryRun {
		for _, op := range ops {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
		}
		return nil
	}

	// Phase 2: Execute with a journal. Targets stay locked until the
	// journal is either discarded or restored.
	var targets []string
	for _, op := range ops {
		if t, ok := op.(Targeter); ok {
			targets = append(targets, t.Target())
		}
	}
	ctx, unlock := lockPaths(ctx, targets)
	defer unlock()

	tx := NewTransaction()
	done := make([]Operation, 0, len(ops))

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			tx.Restore()
			return fmt.Errorf("execution cancelled: %w", err)
		}

		if t, ok := op.(Targeter); ok {
			if err := tx.Snapshot(t.Target()); err != nil {
				tx.Restore()
				return fmt.Errorf("execution failed: %w", err)
			}
		}

		if err := op.Execute(ctx); err != nil {
			tx.Restore()
			return fmt.Errorf("execution failed: %w", err)
		}
		done = append(done, op)
	}

	for _, op := range done {
		fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
	}

	return nil
}
