// Package imagegen produces a set of images for a prompt and shows them.
//
// Generation runs in two stages. Stage A walks an ordered list of
// (provider, model) stages for every image index; the first index uses the
// prompt as is, later ones ask for "<prompt>, variation i". Indexes Stage A
// could not fill are requested from a keyless fallback service (Stage B).
//
// The shared stop signal is checked before each model attempt, after each
// remote call, between download chunks and before an artifact is committed.
// A stop ends the whole run; finished images are kept, the partial one is
// discarded.
package imagegen
