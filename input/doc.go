// Package input bridges "user input requested" signals from a stream consumer
// to the goroutines that prompt the user.
//
// A Bridge owns a table of latches keyed by request id. The console calls
// Notify when it sees a core.UserInputRequested item; an input prompt calls
// Wait with the same id before reading from the terminal. Whichever side
// arrives first creates the latch, so a notification that races ahead of its
// waiter is never lost.
package input
