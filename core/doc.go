// Package core defines the item types that flow through an agent task stream
// and the small set of helpers shared by producers (agents, transcripts) and
// consumers (consoles). It covers:
//
//   - Items: a closed union of terminal results, input requests, streaming
//     chunks and chat messages
//   - Messages: the open Message interface with concrete chat/event kinds
//   - Parts: text and image segments of multi-modal content
//   - Usage: per-message token counts (RequestUsage)
//   - Stream: the channel pair a producer hands to a consumer
//
// Persistence, transport and rendering are intentionally kept out of this
// package so producers and consumers only share plain values.
package core
