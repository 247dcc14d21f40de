// Package tree nests flat parent-pointer lists into priority-ordered trees.
//
// [Build] is generic over the item type and is used for two displays:
//
//   - [BuildNodes]: the active billet hierarchy (reservists excluded)
//   - [BuildElements]: elements with their billets attached as inline [Row]s
//
// The algorithm groups items by parent id in a single pass, sorts each group
// once (ascending priority, nil last, stable), and descends from the root
// group. Runtime is O(n log n).
//
// Bad input never loses items silently: orphans become roots, repeated ids
// and unreachable cycles are reported through *errors.IntegrityError while
// the returned forest stays complete.
package tree
