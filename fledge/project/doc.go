// Package project finds the root of a JavaScript game project and reads
// the parts of package.json generators care about.
//
// # Usage
//
//	root, ok := project.FindRoot(".", "hatch.yml")
//	if !ok {
//	    root = "."
//	}
//
//	found, pkg, err := project.DetectPackage(root)
//	if found && pkg.IsModule() {
//	    // default to ES modules
//	}
package project
