// Package channel implements the two out-of-process records the assistant
// coordinates through:
//
//   - [Text], the shared input channel. The speech-capture collaborator writes
//     recognized utterances (or the stop sentinel) into it; the input watcher
//     and the orchestrator read it.
//   - [Trigger], the image request record ("prompt, pending, size") that
//     starts the image pipeline and is reset to an inert value afterwards.
//
// Both come in a plain-file flavor, compatible with tools that simply write
// the file, and a kv-backed flavor for a badger store.
package channel
