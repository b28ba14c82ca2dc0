// Package console renders an agent task stream to a terminal.
//
// A Console consumes a core.Stream item by item, in order, and prints each
// item as it arrives:
//
//   - streaming chunks are printed inline under a one-line header, and the
//     run is closed with a line break as soon as any other item arrives
//   - chat messages and agent events are printed as titled panels
//   - core.UserInputRequested items are forwarded to an input bridge and never
//     printed
//   - terminal items (core.TaskResult, core.Response) are recorded and,
//     when statistics are enabled, followed by a summary panel
//
// Run returns the last terminal item or ErrEmptyResult when the stream ended
// without one.
//
// # Usage
//
//	s := assistant.RunStream(ctx, "Say hello!")
//	result, err := console.Run(ctx, s, func(o *console.Options) {
//		o.EmitStatistics = true
//	})
package console
