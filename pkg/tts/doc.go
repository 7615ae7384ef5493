// Package tts is the assistant's speech playback queue.
//
// Callers Enqueue text and return immediately. A single worker (Queue.Run)
// takes jobs in strict FIFO order, synthesizes each one into an audio
// artifact, plays it through a Player and deletes the artifact afterwards.
//
// The worker checks the shared stop signal before synthesis, between
// synthesis and playback, and on every poll tick during playback. A positive
// check abandons only the current job. The queue is drained when a sentinel
// interrupt arrives or StopAll is called.
//
// Long answers are shortened before they are queued (see Shorten): the first
// two sentences are spoken, followed by a line pointing at the chat screen.
package tts
