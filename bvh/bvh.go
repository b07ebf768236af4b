// Package bvh implements a binary bounding volume hierarchy built with the
// surface area heuristic. Trees are immutable: moving objects require a rebuild.
package bvh

import (
	"math"
	"sort"

	"github.com/akmonengine/springmass/actor"
)

// DefaultMaxDepth bounds the SAH recursion. Deeper nodes are split at the middle of their input.
const DefaultMaxDepth = 64

// Bounded is anything that can be stored in the tree
type Bounded interface {
	GetAABB() actor.AABB
}

// Node is a tree node. A node is a leaf iff it carries an object,
// internal nodes always have two children.
type Node[T Bounded] struct {
	Bounds actor.AABB
	Object T
	Left   *Node[T]
	Right  *Node[T]

	leaf bool
}

func (n *Node[T]) IsLeaf() bool {
	return n != nil && n.leaf
}

type item[T Bounded] struct {
	object T
	bounds actor.AABB
}

// Build constructs a tree over objects, ignoring nil entries.
// It returns nil for an empty input and a single leaf for a single object.
func Build[T Bounded](objects []T) *Node[T] {
	return BuildWithDepth(objects, DefaultMaxDepth)
}

// BuildWithDepth is Build with an explicit recursion bound
func BuildWithDepth[T Bounded](objects []T, maxDepth int) *Node[T] {
	items := make([]item[T], 0, len(objects))
	for _, object := range objects {
		if actor.IsNil(object) {
			continue
		}
		items = append(items, item[T]{object: object, bounds: object.GetAABB()})
	}

	if len(items) == 0 {
		return nil
	}

	return build(items, 0, max(0, maxDepth))
}

func build[T Bounded](items []item[T], depth, maxDepth int) *Node[T] {
	if len(items) == 1 {
		return &Node[T]{Bounds: items[0].bounds, Object: items[0].object, leaf: true}
	}

	bounds := items[0].bounds
	for _, it := range items[1:] {
		bounds = bounds.Union(it.bounds)
	}

	index := len(items) / 2
	if depth < maxDepth {
		var axis int
		axis, index = sahSplit(items)
		sortByAxis(items, axis)
	}

	return &Node[T]{
		Bounds: bounds,
		Left:   build(items[:index], depth+1, maxDepth),
		Right:  build(items[index:], depth+1, maxDepth),
	}
}

// sahSplit returns the axis and split index of minimal cost
// cost(i) = area(left[0..i-1])*i + area(right[i..n-1])*(n-i)
func sahSplit[T Bounded](items []item[T]) (int, int) {
	n := len(items)
	bestCost := math.Inf(1)
	bestAxis, bestIndex := 0, n/2

	scratch := make([]item[T], n)
	leftArea := make([]float64, n)
	rightArea := make([]float64, n)

	for axis := 0; axis < 3; axis++ {
		copy(scratch, items)
		sortByAxis(scratch, axis)

		acc := scratch[0].bounds
		leftArea[0] = acc.SurfaceArea()
		for i := 1; i < n; i++ {
			acc = acc.Union(scratch[i].bounds)
			leftArea[i] = acc.SurfaceArea()
		}

		acc = scratch[n-1].bounds
		rightArea[n-1] = acc.SurfaceArea()
		for i := n - 2; i >= 0; i-- {
			acc = acc.Union(scratch[i].bounds)
			rightArea[i] = acc.SurfaceArea()
		}

		for i := 1; i < n; i++ {
			cost := leftArea[i-1]*float64(i) + rightArea[i]*float64(n-i)
			if cost < bestCost {
				bestCost = cost
				bestAxis = axis
				bestIndex = i
			}
		}
	}

	return bestAxis, bestIndex
}

// sortByAxis orders items by bounds center, keeping the input order on ties
func sortByAxis[T Bounded](items []item[T], axis int) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].bounds.Center[axis] < items[j].bounds.Center[axis]
	})
}

// Query returns every object whose bounds intersect target
func Query[T Bounded](target actor.AABB, node *Node[T]) []T {
	return QueryInto(target, node, nil)
}

// QueryInto appends to dst every object whose bounds intersect target
func QueryInto[T Bounded](target actor.AABB, node *Node[T], dst []T) []T {
	if node == nil || !node.Bounds.Overlaps(target) {
		return dst
	}
	if node.leaf {
		return append(dst, node.Object)
	}

	dst = QueryInto(target, node.Left, dst)
	return QueryInto(target, node.Right, dst)
}
