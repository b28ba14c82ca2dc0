// Package ui holds the stock plain-text stream console.
//
// Console is a package variable registered with patch.Default under
// ModulePath, so programs that cannot inject a renderer can redirect every
// caller of ui.Console to a richer implementation at startup:
//
//	c := console.New(func(o *console.Options) { o.EmitStatistics = true })
//	if err := patch.Patch(ui.ModulePath, "Console", c.Run); err != nil {
//		...
//	}
//
// Patching is process-wide and must happen before streams are rendered.
package ui
