package bvh

import "github.com/akmonengine/springmass/actor"

// Tree holds the hierarchy of one simulation step
type Tree[T Bounded] struct {
	MaxDepth int

	root *Node[T]
	size int
}

func NewTree[T Bounded]() *Tree[T] {
	return &Tree[T]{MaxDepth: DefaultMaxDepth}
}

// Rebuild discards the current hierarchy and builds a new one over objects
func (t *Tree[T]) Rebuild(objects []T) {
	t.root = BuildWithDepth(objects, t.MaxDepth)
	t.size = countLeaves(t.root)
}

func (t *Tree[T]) Root() *Node[T] {
	return t.root
}

// Len returns the number of objects in the tree
func (t *Tree[T]) Len() int {
	return t.size
}

// Depth returns the number of levels of the tree, 0 when empty
func (t *Tree[T]) Depth() int {
	return depth(t.root)
}

func (t *Tree[T]) Query(target actor.AABB) []T {
	return Query(target, t.root)
}

func (t *Tree[T]) QueryInto(target actor.AABB, dst []T) []T {
	return QueryInto(target, t.root, dst)
}

func (t *Tree[T]) Clear() {
	t.root = nil
	t.size = 0
}

func countLeaves[T Bounded](n *Node[T]) int {
	if n == nil {
		return 0
	}
	if n.leaf {
		return 1
	}

	return countLeaves(n.Left) + countLeaves(n.Right)
}

func depth[T Bounded](n *Node[T]) int {
	if n == nil {
		return 0
	}

	return 1 + max(depth(n.Left), depth(n.Right))
}
