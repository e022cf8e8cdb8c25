// Package transcript reads and writes speech engine transcript
// documents.
//
// A transcript is a JSON object whose shape is owned by the engine:
// besides the "text" field this toolset cares about, records carry
// segments, word timings, confidence scores, and whatever else the
// engine version emitted. Record keeps every field it does not
// understand as raw JSON so annotations never disturb them.
//
// Saved documents are pretty-printed with two-space indentation and
// literal multibyte characters, and always land on disk atomically.
package transcript
