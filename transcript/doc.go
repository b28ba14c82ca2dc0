// Package transcript records and replays agent item streams as YAML.
//
// A transcript file holds an ordered list of items, each tagged with its
// type:
//
//	items:
//	  - type: TextMessage
//	    source: user
//	    content: What is the weather in Paris?
//	  - type: StreamingChunk
//	    source: assistant
//	    content: "Sunny, "
//	    delay: 150ms
//	  - type: TaskResult
//	    stop_reason: completed
//
// Load and Decode turn a file into core items, Stream replays them as a
// core.Stream with optional pacing, and Recorder captures a live stream so it
// can be written back with Encode.
package transcript
