// Package gallery builds the file-system tree the static gallery front
// end consumes.
//
// Build walks a media directory depth-first in a single pass and
// returns an ordered tree of folder, image, and video nodes. Hidden
// entries (dot-prefixed) and files outside the supported extension
// sets are filtered out silently. Directories that cannot be read
// degrade to empty folders and are reported as warnings rather than
// errors; the scan never fails partway.
//
// The traversal is deliberately synchronous and single-threaded: each
// recursive call owns the node it returns, so the tree is built with
// no shared mutable state and no locking.
package gallery
