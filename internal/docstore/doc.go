// Package docstore defines the hierarchical document store the community
// client is built on, and an in-process implementation of it.
//
// A store holds one JSON-shaped tree addressed by slash separated paths
// ("appData/users/alice"). It supports point reads, replacing writes, atomic
// multi-path updates, deletes, and watches. A watch delivers the full current
// value of its path immediately and again after every mutation that touches
// the path, one of its descendants, or one of its ancestors.
//
// Values are normalized to the shapes encoding/json produces when decoding
// into an interface: map[string]any, []any, string, float64, bool and nil.
// Writing nil to a path deletes it.
package docstore
