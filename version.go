// Package hatch holds build metadata for the hatch CLI.
package hatch

// Version is the hatch release, overridable at link time with
// -ldflags "-X github.com/simonhull/hatch.Version=...".
var Version = "0.1.0"
