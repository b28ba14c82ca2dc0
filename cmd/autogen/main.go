// Command autogen renders agent item streams in the terminal.
//
//	autogen replay session.yaml --stats
//	autogen run "Summarize the plot of Hamlet" --provider openai --markdown
package main

func main() {
	Execute()
}
