// Package agent contains agents that produce item streams for a console.
//
// Every agent exposes RunStream, which starts the work in a goroutine and
// returns a core.Stream immediately. The stream yields messages and control
// items as they happen and ends with exactly one terminal item
// (core.TaskResult or core.Response). The package focuses on three concerns:
//
//  1. Model-backed conversation with token streaming (AssistantAgent)
//  2. Human input gated on an input.Bridge (UserProxyAgent)
//  3. Ordered coordination of several agents (SequentialAgent)
//
// Agents keep model specifics in the model package and rendering in the
// console package; an agent never writes to a terminal itself.
package agent
