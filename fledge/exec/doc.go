// Package exec runs external tools over generated files.
//
// Generators use it for post-generation hooks such as a code formatter:
//
//	executor := exec.NewExecutor(&exec.Options{Dir: projectDir})
//	name, args, err := exec.Split("npx prettier --write")
//	if err != nil {
//	    return err
//	}
//	err = executor.RunWithSpinner(ctx, "Formatting", name, append(args, files...)...)
//
// RunWithSpinner shows a bubbles spinner when stderr is a terminal and
// streams prefixed output otherwise, so CI logs stay readable.
package exec
