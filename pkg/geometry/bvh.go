package geometry

import (
	"math/rand"
	"sort"

	"github.com/df07/go-halide/pkg/core"
)

// BVHNode is an internal node of a Bounding Volume Hierarchy. Its children are
// either further nodes or primitives; a node built over a single object holds
// that object as both children.
type BVHNode struct {
	left  Hittable
	right Hittable
	bbox  core.AABB
}

// NewBVH builds a BVH over objects and returns its root.
// The caller's slice is never reordered. random picks the split axis at each
// node; pass a seeded generator for a reproducible tree, or nil for a fixed default seed.
// An empty object set yields an empty list that is never hit.
func NewBVH(objects []Hittable, random *rand.Rand) Hittable {
	if len(objects) == 0 {
		return FromList(NewList())
	}
	if random == nil {
		random = rand.New(rand.NewSource(1))
	}

	// Work on a copy so the caller's ordering survives the sorts below
	working := make([]Hittable, len(objects))
	copy(working, objects)

	return FromBVH(buildBVH(working, random))
}

// buildBVH recursively partitions objects at the median along a random axis
func buildBVH(objects []Hittable, random *rand.Rand) *BVHNode {
	axis := random.Intn(3)

	var left, right Hittable
	switch span := len(objects); span {
	case 1:
		left, right = objects[0], objects[0]
	case 2:
		if boxLess(objects[0], objects[1], axis) {
			left, right = objects[0], objects[1]
		} else {
			left, right = objects[1], objects[0]
		}
	default:
		sortByAxis(objects, axis)

		mid := span / 2
		left = FromBVH(buildBVH(objects[:mid], random))
		right = FromBVH(buildBVH(objects[mid:], random))
	}

	return &BVHNode{
		left:  left,
		right: right,
		bbox:  core.NewAABBFromBoxes(left.BoundingBox(), right.BoundingBox()),
	}
}

// boxLess orders two objects by the minimum of their bounding boxes along axis
func boxLess(a, b Hittable, axis int) bool {
	return a.BoundingBox().Axis(axis).Min < b.BoundingBox().Axis(axis).Min
}

// sortByAxis sorts objects by their bounding box minimum along the specified axis
func sortByAxis(objects []Hittable, axis int) {
	sort.SliceStable(objects, func(i, j int) bool {
		return boxLess(objects[i], objects[j], axis)
	})
}

// Left returns the left child
func (n *BVHNode) Left() Hittable {
	return n.left
}

// Right returns the right child
func (n *BVHNode) Right() Hittable {
	return n.right
}

// Hit returns the closest intersection in this subtree.
// The node's box only gates the traversal; children are tested over the
// caller's interval so hits lying exactly on a box face are not cut off.
func (n *BVHNode) Hit(ray core.Ray, rayT core.Interval) (HitRecord, bool) {
	if _, ok := n.bbox.Hit(ray, rayT); !ok {
		return HitRecord{}, false
	}

	leftHit, hitLeft := n.left.Hit(ray, rayT)

	// The right subtree can only replace the left hit with a closer one
	upper := rayT.Max
	if hitLeft {
		upper = leftHit.T
	}
	rightHit, hitRight := n.right.Hit(ray, core.NewInterval(rayT.Min, upper))

	if hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the union of the children's boxes
func (n *BVHNode) BoundingBox() core.AABB {
	return n.bbox
}

// TreeStats contains statistics about a hittable tree
type TreeStats struct {
	TotalNodes int     // BVH nodes
	LeafNodes  int     // Non-BVH children (primitives or lists)
	MaxDepth   int     // Deepest leaf
	AvgDepth   float64 // Mean leaf depth
}

// Stats returns statistics about the tree rooted at h
func Stats(h Hittable) TreeStats {
	stats := TreeStats{}
	collectStats(h, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}

	return stats
}

// collectStats recursively collects statistics about the tree
func collectStats(h Hittable, depth int, stats *TreeStats) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if h.Kind() != KindBVH {
		stats.LeafNodes++
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}

	stats.TotalNodes++
	node := h.BVH()
	collectStats(node.left, depth+1, stats)

	// A single-object node aliases its child; count it once
	if node.right != node.left {
		collectStats(node.right, depth+1, stats)
	}
}
