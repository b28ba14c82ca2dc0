// Package runner drives an agent and a stream consumer together.
//
// A Runner starts the agent's stream for a task, passes it through any
// configured stream wrappers (for example a transcript recorder) and hands
// it to a Renderer such as console.Console. Each run gets an ID that can be
// used to cancel it while it is active. The number of concurrent runs is
// bounded.
package runner
