package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NodeID addresses a node in a Tree's arena. IDs are stable for the life of the tree.
type NodeID int

// NoParent is the parent of the root node
const NoParent NodeID = -1

// ShapesPerChild is the default leaf size used when generating a BVH
const ShapesPerChild = 4

// Node is one level of the scene hierarchy. Bounds covers the node's own shapes
// and every descendant.
type Node struct {
	Shapes   []*geometry.Shape
	Children []NodeID
	Parent   NodeID
	Bounds   core.AABB
}

// Tree is a hierarchy of shapes stored as an arena of nodes; node 0 is the root.
// A child is always allocated after its parent.
type Tree struct {
	nodes []Node
}

// NewTree creates a tree holding only an empty root
func NewTree() *Tree {
	return &Tree{
		nodes: []Node{{Parent: NoParent, Bounds: core.EmptyAABB()}},
	}
}

// Root returns the root node ID
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns a copy of the node header. The Shapes and Children slices are shared.
func (t *Tree) Node(id NodeID) Node {
	return *t.node(id)
}

func (t *Tree) node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("scene: node %d out of range [0, %d)", id, len(t.nodes)))
	}
	return &t.nodes[id]
}

// AddShape appends a shape to the root
func (t *Tree) AddShape(shape *geometry.Shape) {
	t.AddShapeToNode(t.Root(), shape)
}

// AddShapeToNode appends a shape to a node and grows the bounds of the node and all its ancestors
func (t *Tree) AddShapeToNode(id NodeID, shape *geometry.Shape) {
	n := t.node(id)
	n.Shapes = append(n.Shapes, shape)
	t.growBounds(id, geometry.ShapeBounds(shape))
}

// AddChild creates an empty child under parent and returns its ID
func (t *Tree) AddChild(parent NodeID) NodeID {
	t.node(parent) // range check
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Parent: parent, Bounds: core.EmptyAABB()})
	p := t.node(parent)
	p.Children = append(p.Children, id)
	return id
}

func (t *Tree) growBounds(id NodeID, box core.AABB) {
	for id != NoParent {
		n := t.node(id)
		n.Bounds = n.Bounds.Union(box)
		id = n.Parent
	}
}

// CopyInChild grafts a deep copy of src under the root and returns the new subtree's ID
func (t *Tree) CopyInChild(src *Tree) NodeID {
	offset := NodeID(len(t.nodes))

	for _, n := range src.nodes {
		copied := Node{
			Shapes:   cloneShapes(n.Shapes),
			Children: make([]NodeID, len(n.Children)),
			Parent:   n.Parent + offset,
			Bounds:   n.Bounds,
		}
		for i, child := range n.Children {
			copied.Children[i] = child + offset
		}
		t.nodes = append(t.nodes, copied)
	}

	root := t.node(offset)
	root.Parent = t.Root()
	t.node(t.Root()).Children = append(t.node(t.Root()).Children, offset)
	t.growBounds(t.Root(), root.Bounds)
	return offset
}

// Clone returns a deep copy with the same node IDs
func (t *Tree) Clone() *Tree {
	clone := &Tree{nodes: make([]Node, len(t.nodes))}
	for i, n := range t.nodes {
		clone.nodes[i] = Node{
			Shapes:   cloneShapes(n.Shapes),
			Children: append([]NodeID(nil), n.Children...),
			Parent:   n.Parent,
			Bounds:   n.Bounds,
		}
	}
	return clone
}

func cloneShapes(shapes []*geometry.Shape) []*geometry.Shape {
	if shapes == nil {
		return nil
	}
	out := make([]*geometry.Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// CalculateBounds recomputes every node's bounds bottom-up. Call it after
// changing shape transforms directly.
func (t *Tree) CalculateBounds() {
	t.calculateBounds(t.Root())
}

func (t *Tree) calculateBounds(id NodeID) core.AABB {
	box := core.EmptyAABB()
	for _, child := range t.node(id).Children {
		box = box.Union(t.calculateBounds(child))
	}
	for _, s := range t.node(id).Shapes {
		box = box.Union(geometry.ShapeBounds(s))
	}
	t.node(id).Bounds = box
	return box
}

// Shapes returns every shape in the tree in node order
func (t *Tree) Shapes() []*geometry.Shape {
	var shapes []*geometry.Shape
	for _, n := range t.nodes {
		shapes = append(shapes, n.Shapes...)
	}
	return shapes
}

// Intersect appends every intersection of the ray with the tree's shapes to xs.
// Children are visited first, each pruned by its own bounds; a node's own shapes
// are pruned by the node's bounds. Hits at negative times are included.
func (t *Tree) Intersect(ray core.Ray, xs []geometry.Intersection) []geometry.Intersection {
	return t.intersectNode(t.Root(), ray, xs)
}

func (t *Tree) intersectNode(id NodeID, ray core.Ray, xs []geometry.Intersection) []geometry.Intersection {
	n := t.node(id)

	for _, child := range n.Children {
		if geometry.IsInBounds(t.node(child).Bounds, ray) {
			xs = t.intersectNode(child, ray, xs)
		}
	}

	if len(n.Shapes) == 0 || !geometry.IsInBounds(n.Bounds, ray) {
		return xs
	}
	for _, s := range n.Shapes {
		if x := geometry.Intersect(s, ray); x.Count > 0 {
			xs = append(xs, x)
		}
	}
	return xs
}

// PropagateTransform composes m onto every shape in the tree and refreshes the bounds.
// Singular results are rectified per shape and reported together.
func (t *Tree) PropagateTransform(m core.Matrix4) error {
	var errs []error
	for _, n := range t.nodes {
		for _, s := range n.Shapes {
			if err := s.ApplyTransform(m); err != nil {
				errs = append(errs, err)
			}
		}
	}
	t.CalculateBounds()
	return errors.Join(errs...)
}

// PropagateMaterial gives every shape in the tree a copy of mat
func (t *Tree) PropagateMaterial(mat material.Material) {
	for _, n := range t.nodes {
		for _, s := range n.Shapes {
			s.Material = mat
		}
	}
}

type bvhEntry struct {
	shape    *geometry.Shape
	centroid core.Vec3
}

// GenerateBVH builds a new tree over src's shapes. Unbounded shapes stay on the root;
// the rest are split at the median along the longest axis of their centroids until
// at most leafSize remain in a node. The split is deterministic for a given input
// order. Shapes are shared with src, not copied.
func GenerateBVH(src *Tree, leafSize int) *Tree {
	if leafSize < 1 {
		leafSize = ShapesPerChild
	}

	dst := NewTree()
	var entries []bvhEntry
	for _, s := range src.Shapes() {
		box := geometry.ShapeBounds(s)
		if box.IsInfinite() {
			dst.AddShape(s)
			continue
		}
		entries = append(entries, bvhEntry{shape: s, centroid: geometry.Centroid(box)})
	}

	if len(entries) > 0 {
		dst.buildBVH(dst.Root(), entries, leafSize)
	}
	dst.CalculateBounds()
	return dst
}

func (t *Tree) buildBVH(parent NodeID, entries []bvhEntry, leafSize int) {
	id := t.AddChild(parent)

	if len(entries) <= leafSize {
		for _, e := range entries {
			t.AddShapeToNode(id, e.shape)
		}
		return
	}

	centroids := core.EmptyAABB()
	for _, e := range entries {
		centroids.Min = core.MinVec(centroids.Min, e.centroid)
		centroids.Max = core.MaxVec(centroids.Max, e.centroid)
	}
	axis := centroids.LongestAxis()

	// Stable so that equal centroids keep insertion order
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].centroid.Component(axis) < entries[j].centroid.Component(axis)
	})

	mid := len(entries) / 2
	t.buildBVH(id, entries[:mid], leafSize)
	t.buildBVH(id, entries[mid:], leafSize)
}

// TreeStats describes the shape of a tree
type TreeStats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
	AvgDepth float64 // Average depth of leaves
	Shapes   int
}

// Stats walks the tree and collects structural statistics
func (t *Tree) Stats() TreeStats {
	stats := TreeStats{}
	t.collectStats(t.Root(), 0, &stats)

	if stats.Leaves > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.Leaves)
	}
	return stats
}

func (t *Tree) collectStats(id NodeID, depth int, stats *TreeStats) {
	n := t.node(id)
	stats.Nodes++
	stats.Shapes += len(n.Shapes)

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if len(n.Children) == 0 {
		stats.Leaves++
		stats.AvgDepth += float64(depth) // averaged in Stats
		return
	}
	for _, child := range n.Children {
		t.collectStats(child, depth+1, stats)
	}
}
