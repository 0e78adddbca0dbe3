// Package scene defines the LUSID scene graph: an ordered timeline of frames,
// each holding typed nodes addressed by a group.level id.
//
// This package has no internal imports. The parser and converter packages
// build scenes; renderers, the store and the CLI only read them.
//
// Key constraints:
//   - Frame times are seconds; the declared TimeUnit only affects encoding
//   - Frames are sorted ascending by time (stable)
//   - Node ids are unique within a frame, later nodes replace earlier ones
//   - Node is a closed set of five variants (sealed interface)
//   - A Scene is not mutated after construction and is safe to share
package scene
