// Package output provides styled terminal output for hatch.
//
// # Usage
//
//	output.Success("Created scene: Title")
//	output.Info("Next steps:")
//	output.Step("npm start")
//	output.Error("Something went wrong")
//
// # Verbose Mode
//
// SetVerbose(true) turns on Verbose lines and drops the structured logger
// to debug level:
//
//	output.SetVerbose(true)
//	output.Verbose("Rendering src/title.js")
//	output.Debug("resolved methods", "style", "esnext", "count", 2)
//
// # Styling
//
// User-facing lines are styled with lipgloss and go to stdout:
//
//   - Success: 🔥 green bold
//   - Error: ❌ red bold
//   - Info: ℹ️ cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
//
// Key/value diagnostics go through charmbracelet/log on stderr.
package output
