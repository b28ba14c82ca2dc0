// Package patch rebinds registered package-level function variables at
// runtime.
//
// Prefer passing functions explicitly (for example console.Options or
// agent options). This package is the last resort for call sites that look a
// function up through a package variable and cannot be configured: a package
// registers the addresses of its replaceable variables under a module path,
// and Patch swaps the value after a shallow compatibility check.
//
// The effect of Patch is global to the process and unscoped. There is no
// automatic rollback; patch again with the original value to undo it.
//
//	var Console ConsoleFunc = plainConsole
//
//	func init() {
//		patch.MustRegister("example.com/app/ui", map[string]any{"Console": &Console})
//	}
//
//	// elsewhere
//	err := patch.Patch("example.com/app/ui", "Console", rich.Run)
package patch
