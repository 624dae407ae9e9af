// This file is part of bdelisp - https://github.com/dgoffredo/bdelisp
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pset implements PersistentSet (spec section 3.4/4.7): an
// immutable, comparator-ordered AVL tree. Insert and Remove return a new
// root that shares every subtree untouched by the operation; Contains and
// ToList never mutate.
//
// The tree is generic over its element type so that it carries no
// dependency on package datum; datum holds a *Node[Datum] in an
// interface{} field (see datum.SetData), and the Comparator[Datum] used
// with it is implemented in terms of datum.Compare.
package pset

// Comparator orders two elements: negative if a < b, zero if equivalent,
// positive if a > b. Equivalence classes (neither a<b nor b<a) are
// represented by a single stored value, per spec invariant (c).
type Comparator[T any] func(a, b T) int

// Node is one AVL node. A nil *Node represents the empty set. Node is
// immutable once constructed; every mutating operation below builds new
// nodes rather than writing through existing ones.
type Node[T any] struct {
	Value       T
	Left, Right *Node[T]
	height      int8
}

func height[T any](n *Node[T]) int8 {
	if n == nil {
		return 0
	}
	return n.height
}

func max8(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}

func newNode[T any](value T, left, right *Node[T]) *Node[T] {
	return &Node[T]{Value: value, Left: left, Right: right, height: 1 + max8(height(left), height(right))}
}

func balanceFactor[T any](n *Node[T]) int8 {
	return height(n.Left) - height(n.Right)
}

// rotateRight performs the single right rotation used when the left
// subtree is too tall and its own left child is the heavier side.
func rotateRight[T any](n *Node[T]) *Node[T] {
	l := n.Left
	return newNode(l.Value, l.Left, newNode(n.Value, l.Right, n.Right))
}

// rotateLeft is the mirror of rotateRight.
func rotateLeft[T any](n *Node[T]) *Node[T] {
	r := n.Right
	return newNode(r.Value, newNode(n.Value, n.Left, r.Left), r.Right)
}

// rebalance restores the AVL height invariant at n, which is assumed to be
// out of balance by at most 2 (spec section 4.7: single rotation for a
// same-sign child, double rotation for an opposite-sign child).
func rebalance[T any](n *Node[T]) *Node[T] {
	bf := balanceFactor(n)
	switch {
	case bf > 1:
		if balanceFactor(n.Left) < 0 {
			n = newNode(n.Value, rotateLeft(n.Left), n.Right)
		}
		return rotateRight(n)
	case bf < -1:
		if balanceFactor(n.Right) > 0 {
			n = newNode(n.Value, n.Left, rotateRight(n.Right))
		}
		return rotateLeft(n)
	default:
		return n
	}
}

// Contains reports whether value (under cmp's equivalence) is present in
// the set rooted at root.
func Contains[T any](root *Node[T], cmp Comparator[T], value T) bool {
	for root != nil {
		c := cmp(value, root.Value)
		switch {
		case c < 0:
			root = root.Left
		case c > 0:
			root = root.Right
		default:
			return true
		}
	}
	return false
}

// Insert returns a new root with value inserted, or root unchanged
// (structurally; a new spine is still allocated down to the insertion
// point, per persistent-tree convention) if an equivalent value is already
// present.
func Insert[T any](root *Node[T], cmp Comparator[T], value T) *Node[T] {
	if root == nil {
		return newNode(value, nil, nil)
	}
	c := cmp(value, root.Value)
	switch {
	case c < 0:
		return rebalance(newNode(root.Value, Insert(root.Left, cmp, value), root.Right))
	case c > 0:
		return rebalance(newNode(root.Value, root.Left, Insert(root.Right, cmp, value)))
	default:
		return newNode(value, root.Left, root.Right)
	}
}

// Remove returns a new root with any value equivalent to target removed.
// Removing an absent value returns root unchanged.
func Remove[T any](root *Node[T], cmp Comparator[T], target T) *Node[T] {
	if root == nil {
		return nil
	}
	c := cmp(target, root.Value)
	switch {
	case c < 0:
		return rebalance(newNode(root.Value, Remove(root.Left, cmp, target), root.Right))
	case c > 0:
		return rebalance(newNode(root.Value, root.Left, Remove(root.Right, cmp, target)))
	default:
		if root.Left == nil {
			return root.Right
		}
		if root.Right == nil {
			return root.Left
		}
		succ := leftmost(root.Right)
		newRight := removeLeftmost(root.Right)
		return rebalance(newNode(succ, root.Left, newRight))
	}
}

func leftmost[T any](n *Node[T]) T {
	for n.Left != nil {
		n = n.Left
	}
	return n.Value
}

func removeLeftmost[T any](n *Node[T]) *Node[T] {
	if n.Left == nil {
		return n.Right
	}
	return rebalance(newNode(n.Value, removeLeftmost(n.Left), n.Right))
}

// ToList performs an in-order traversal, producing the set's elements in
// ascending order (spec section 4.7).
func ToList[T any](root *Node[T]) []T {
	var out []T
	var walk func(*Node[T])
	walk = func(n *Node[T]) {
		if n == nil {
			return
		}
		walk(n.Left)
		out = append(out, n.Value)
		walk(n.Right)
	}
	walk(root)
	return out
}

// Len returns the number of elements reachable from root. O(n); intended
// for diagnostics and tests, not the evaluator's hot path.
func Len[T any](root *Node[T]) int {
	if root == nil {
		return 0
	}
	return 1 + Len(root.Left) + Len(root.Right)
}
