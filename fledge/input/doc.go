// Package input provides interactive terminal input utilities.
//
// # Usage
//
//	p := input.NewPrompter(os.Stdin, os.Stdout)
//
//	// Ask for text input with a default
//	name := p.Prompt("Scene name", "Title")
//
//	// Ask yes/no question
//	if p.Confirm("Overwrite?", false) {
//	    // User said yes
//	}
//
//	// Pick any number of options from a checkbox list
//	picked, err := input.MultiSelect("Methods", options, []string{"create", "update"})
//
// # Non-Interactive Mode
//
// Commands take flags for every prompt so they can run in CI:
//
//	if descFlag != "" {
//	    description = descFlag
//	} else {
//	    description = p.Prompt("Description", "")
//	}
package input
