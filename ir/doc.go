// Package ir provides the intermediate representation (IR) for grove trees.
//
// # Overview
//
// The ir package is a schema-driven engine for tree-structured intermediate
// representations such as abstract syntax trees. A schema, expressed as a set
// of Kind descriptors, declares the node kinds of a tree family: which
// properties each kind carries, which of those are child references (single or
// array valued), which are nullable, and which named indices a kind maintains
// over a child collection.
//
// Given those descriptors the package provides three things:
//
//   - an immutable tree of Node values connected through Edge slots, with
//     parent back-references and ordered child iteration,
//   - a structural-editing mechanism, Transform, that produces a new immutable
//     tree from a callback while sharing every untouched subtree with the
//     input tree,
//   - ancestor-maintained secondary indices (key -> Node lookups derived from
//     a descendant collection) that stay correct during an edit pass without a
//     full tree rescan.
//
// # Nodes and Edges
//
// A Node never mutates after construction. Its scalar properties are fixed and
// its children hang off Edge values, one Edge per child-reference property, in
// schema property order. An Edge is either single-slot (Value) or an ordered
// collection (Count/At). Constructing a node points every child's parent edge
// at the new node's edges, so Parent, ParentOfKind and Root navigation work
// from any position.
//
// # Transformations
//
// Transform runs an iterative pre- and/or post-order walk over a root. Each
// visited node is presented to the callback as a Proxy: a mutable overlay that
// delegates reads to the wrapped node until a write shadows a field, edge or
// index table. Writes mark the proxy and all its ancestors modified. When the
// walk finishes, the proxy tree is reconciled bottom-up: unmodified proxies
// hand back their wrapped node unchanged, modified ones are rebuilt as fresh
// nodes around rebuilt-or-reused children. Editing a single leaf therefore
// rebuilds exactly the path from that leaf to the root and nothing else.
//
// Proxies are scoped to one transformation. Independent transformations may
// start from the same immutable root concurrently, but a single transformation
// is single-writer and must not be shared between goroutines.
//
// # Indices
//
// A kind may declare an Index over one of its array-valued edges, keyed by a
// scalar reached through a key path on each element. The owning node builds
// the lookup table once at construction. During a transformation the table is
// cloned lazily on first write and maintained incrementally as elements are
// inserted or removed, so lookups reflect edits immediately, before the tree
// is rebuilt. A lookup with an absent key fails with ErrKeyNotFound.
//
// # Serialization
//
// JSON and ToJSON produce a nested, array-copying, null-preserving snapshot of
// a tree. Snapshots are one-way; trees are reconstructed via constructors, not
// parsed back from JSON.
package ir
