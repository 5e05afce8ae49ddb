// Package spatial provides the broadphase spatial index: a dynamic
// AABB tree with surface-area-heuristic insertion, incremental
// rebalancing, and fat-AABB update amortization.
//
// The tree is single-writer: concurrent queries are only permitted
// while no insert, remove, or update is in flight. Higher layers
// provide this discipline via phase barriers.
package spatial

import (
	"fmt"

	"github.com/quartzengine/quartz/lin"
)

// NullNode is the sentinel index for "no node".
const NullNode = -1

// FatAABBMargin inflates stored leaf boxes so small movements do not
// force a reinsertion.
const FatAABBMargin float32 = 0.1

// displacementMultiplier extends the fat box along the direction of
// travel so a moving leaf's next position is likely already covered.
const displacementMultiplier float32 = 2.0

// node is one arena slot. The free list is threaded through parent.
type node[T any] struct {
	aabb     lin.Aabb
	userData T
	hasData  bool
	parent   int32
	children [2]int32
	height   int32
}

func (n *node[T]) isLeaf() bool { return n.children[0] == NullNode }

// DynamicTree is a dynamic AABB tree over leaf payloads of type T.
// Nodes live in a densely packed arena addressed by int32 indices; the
// arena grows as needed and never shrinks within a session.
type DynamicTree[T any] struct {
	root      int32
	nodes     []node[T]
	freeList  int32
	nodeCount int
}

// NewDynamicTree creates an empty tree.
func NewDynamicTree[T any]() *DynamicTree[T] {
	return &DynamicTree[T]{root: NullNode, freeList: NullNode}
}

// Len returns the number of live nodes, leaves and internals combined.
func (t *DynamicTree[T]) Len() int { return t.nodeCount }

// Insert adds a leaf with the given AABB and payload, returning the
// leaf index used by Remove and Update. The box is stored as given;
// callers that want update amortization pass an already-fattened box
// or rely on Update to fatten subsequent positions.
func (t *DynamicTree[T]) Insert(aabb lin.Aabb, userData T) int32 {
	leaf := t.allocate()
	t.nodes[leaf].aabb = aabb
	t.nodes[leaf].userData = userData
	t.nodes[leaf].hasData = true
	t.nodes[leaf].height = 0

	t.insertLeaf(leaf)
	return leaf
}

// Remove deletes a leaf from the tree.
func (t *DynamicTree[T]) Remove(leaf int32) {
	t.removeLeaf(leaf)
	t.deallocate(leaf)
}

// Update repositions a leaf. When force is false and the stored fat
// box still contains the new tight box, the tree is left untouched and
// Update returns false. Otherwise the leaf is reinserted under a new
// fat box: the tight box expanded by FatAABBMargin and stretched along
// the displacement direction by twice the displacement.
func (t *DynamicTree[T]) Update(leaf int32, aabb lin.Aabb, displacement lin.Vec3, force bool) bool {
	if !force && t.nodes[leaf].aabb.ContainsAabb(aabb) {
		return false
	}

	t.removeLeaf(leaf)

	fat := aabb.Expand(FatAABBMargin)
	d := displacement.Mul(displacementMultiplier)
	if d.X < 0 {
		fat.Min.X += d.X
	} else {
		fat.Max.X += d.X
	}
	if d.Y < 0 {
		fat.Min.Y += d.Y
	} else {
		fat.Max.Y += d.Y
	}
	if d.Z < 0 {
		fat.Min.Z += d.Z
	} else {
		fat.Max.Z += d.Z
	}

	t.nodes[leaf].aabb = fat
	t.insertLeaf(leaf)
	return true
}

// UserData returns the payload stored at a leaf.
func (t *DynamicTree[T]) UserData(leaf int32) T {
	return t.nodes[leaf].userData
}

// FatAABB returns the stored (inflated) box of a leaf.
func (t *DynamicTree[T]) FatAABB(leaf int32) lin.Aabb {
	return t.nodes[leaf].aabb
}

// QueryPairs invokes callback for every pair of distinct leaves whose
// stored boxes overlap.
func (t *DynamicTree[T]) QueryPairs(callback func(a, b T)) {
	if t.root == NullNode {
		return
	}

	stack := make([]int32, 0, 256)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[id]
		if n.height < 1 {
			continue
		}
		left, right := n.children[0], n.children[1]
		t.queryOverlap(left, right, callback)
		stack = append(stack, left, right)
	}
}

// queryOverlap descends two subtrees in lock-step, emitting every
// overlapping leaf pair.
func (t *DynamicTree[T]) queryOverlap(ia, ib int32, callback func(a, b T)) {
	na, nb := &t.nodes[ia], &t.nodes[ib]
	if !na.aabb.Intersects(nb.aabb) {
		return
	}

	switch {
	case na.isLeaf() && nb.isLeaf():
		if ia != ib {
			callback(na.userData, nb.userData)
		}
	case na.isLeaf():
		t.queryOverlap(ia, nb.children[0], callback)
		t.queryOverlap(ia, nb.children[1], callback)
	case nb.isLeaf():
		t.queryOverlap(na.children[0], ib, callback)
		t.queryOverlap(na.children[1], ib, callback)
	default:
		t.queryOverlap(na.children[0], nb.children[0], callback)
		t.queryOverlap(na.children[0], nb.children[1], callback)
		t.queryOverlap(na.children[1], nb.children[0], callback)
		t.queryOverlap(na.children[1], nb.children[1], callback)
	}
}

// Query invokes callback for every leaf whose stored box overlaps
// aabb. Returning false from the callback terminates the traversal.
func (t *DynamicTree[T]) Query(aabb lin.Aabb, callback func(T) bool) {
	if t.root == NullNode {
		return
	}

	stack := make([]int32, 0, 64)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[id]
		if !n.aabb.Intersects(aabb) {
			continue
		}
		if n.isLeaf() {
			if !callback(n.userData) {
				return
			}
		} else {
			stack = append(stack, n.children[0], n.children[1])
		}
	}
}

// Iterator walks every leaf payload in unspecified order.
type Iterator[T any] struct {
	tree  *DynamicTree[T]
	stack []int32
}

// Iterate returns an iterator over all leaf payloads.
func (t *DynamicTree[T]) Iterate() *Iterator[T] {
	it := &Iterator[T]{tree: t}
	if t.root != NullNode {
		it.stack = append(it.stack, t.root)
	}
	return it
}

// Next yields the next payload, or false when the traversal is done.
func (it *Iterator[T]) Next() (T, bool) {
	for len(it.stack) > 0 {
		id := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		n := &it.tree.nodes[id]
		if n.isLeaf() {
			return n.userData, true
		}
		it.stack = append(it.stack, n.children[0], n.children[1])
	}
	var zero T
	return zero, false
}

// --- internal leaf management ---

func (t *DynamicTree[T]) insertLeaf(leaf int32) {
	if t.root == NullNode {
		t.root = leaf
		t.nodes[leaf].parent = NullNode
		return
	}

	// SAH descent: stop where creating a new parent here is cheaper
	// than pushing the leaf into either child.
	leafAabb := t.nodes[leaf].aabb
	index := t.root
	for !t.nodes[index].isLeaf() {
		n := &t.nodes[index]
		child1, child2 := n.children[0], n.children[1]

		area := n.aabb.SurfaceArea()
		combinedArea := n.aabb.Merge(leafAabb).SurfaceArea()

		cost := 2 * combinedArea
		inheritanceCost := 2 * (combinedArea - area)

		descentCost := func(child int32) float32 {
			c := &t.nodes[child]
			newArea := c.aabb.Merge(leafAabb).SurfaceArea()
			if c.isLeaf() {
				return newArea + inheritanceCost
			}
			return (newArea - c.aabb.SurfaceArea()) + inheritanceCost
		}
		cost1 := descentCost(child1)
		cost2 := descentCost(child2)

		if cost < cost1 && cost < cost2 {
			break
		}
		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index

	// Splice a new internal parent above the chosen sibling.
	oldParent := t.nodes[sibling].parent
	newParent := t.allocate()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].hasData = false
	t.nodes[newParent].aabb = leafAabb.Merge(t.nodes[sibling].aabb)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	t.nodes[newParent].children[0] = sibling
	t.nodes[newParent].children[1] = leaf
	t.nodes[sibling].parent = newParent
	t.nodes[leaf].parent = newParent

	if oldParent != NullNode {
		if t.nodes[oldParent].children[0] == sibling {
			t.nodes[oldParent].children[0] = newParent
		} else {
			t.nodes[oldParent].children[1] = newParent
		}
	} else {
		t.root = newParent
	}

	// Walk back to the root, rebalancing and refitting.
	for index = t.nodes[leaf].parent; index != NullNode; index = t.nodes[index].parent {
		index = t.balance(index)
		t.refit(index)
	}
}

func (t *DynamicTree[T]) removeLeaf(leaf int32) {
	if leaf == t.root {
		t.root = NullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	var sibling int32
	if t.nodes[parent].children[0] == leaf {
		sibling = t.nodes[parent].children[1]
	} else {
		sibling = t.nodes[parent].children[0]
	}

	if grandParent != NullNode {
		if t.nodes[grandParent].children[0] == parent {
			t.nodes[grandParent].children[0] = sibling
		} else {
			t.nodes[grandParent].children[1] = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.deallocate(parent)

		for index := grandParent; index != NullNode; index = t.nodes[index].parent {
			index = t.balance(index)
			t.refit(index)
		}
	} else {
		t.root = sibling
		t.nodes[sibling].parent = NullNode
		t.deallocate(parent)
	}
}

func (t *DynamicTree[T]) refit(index int32) {
	child1 := t.nodes[index].children[0]
	child2 := t.nodes[index].children[1]
	t.nodes[index].aabb = t.nodes[child1].aabb.Merge(t.nodes[child2].aabb)
	t.nodes[index].height = 1 + max(t.nodes[child1].height, t.nodes[child2].height)
}

// --- node allocation ---

func (t *DynamicTree[T]) allocate() int32 {
	var zero T
	if t.freeList != NullNode {
		index := t.freeList
		t.freeList = t.nodes[index].parent
		t.nodes[index] = node[T]{
			aabb:     lin.EmptyAabb(),
			userData: zero,
			parent:   NullNode,
			children: [2]int32{NullNode, NullNode},
		}
		t.nodeCount++
		return index
	}
	index := int32(len(t.nodes))
	t.nodes = append(t.nodes, node[T]{
		aabb:     lin.EmptyAabb(),
		parent:   NullNode,
		children: [2]int32{NullNode, NullNode},
	})
	t.nodeCount++
	return index
}

func (t *DynamicTree[T]) deallocate(index int32) {
	var zero T
	t.nodes[index].parent = t.freeList
	t.nodes[index].userData = zero
	t.nodes[index].hasData = false
	t.freeList = index
	t.nodeCount--
}

// --- balancing ---

// balance performs a single rotation when the subtree at ia has a
// height skew greater than one, pulling the taller grandchild up. The
// promoted node becomes the new subtree root and is returned.
func (t *DynamicTree[T]) balance(ia int32) int32 {
	a := &t.nodes[ia]
	if a.isLeaf() || a.height < 2 {
		return ia
	}

	ib := a.children[0]
	ic := a.children[1]
	skew := t.nodes[ic].height - t.nodes[ib].height

	// Rotate C up.
	if skew > 1 {
		icf := t.nodes[ic].children[0]
		icg := t.nodes[ic].children[1]

		t.nodes[ic].children[0] = ia
		t.nodes[ic].parent = t.nodes[ia].parent
		t.nodes[ia].parent = ic
		t.relinkParent(ia, ic)

		if t.nodes[icf].height > t.nodes[icg].height {
			t.nodes[ic].children[1] = icf
			t.nodes[ia].children[1] = icg
			t.nodes[icg].parent = ia
		} else {
			t.nodes[ic].children[1] = icg
			t.nodes[ia].children[1] = icf
			t.nodes[icf].parent = ia
		}
		t.refit(ia)
		t.refit(ic)
		return ic
	}

	// Rotate B up.
	if skew < -1 {
		ibd := t.nodes[ib].children[0]
		ibe := t.nodes[ib].children[1]

		t.nodes[ib].children[0] = ia
		t.nodes[ib].parent = t.nodes[ia].parent
		t.nodes[ia].parent = ib
		t.relinkParent(ia, ib)

		if t.nodes[ibd].height > t.nodes[ibe].height {
			t.nodes[ib].children[1] = ibd
			t.nodes[ia].children[0] = ibe
			t.nodes[ibe].parent = ia
		} else {
			t.nodes[ib].children[1] = ibe
			t.nodes[ia].children[0] = ibd
			t.nodes[ibd].parent = ia
		}
		t.refit(ia)
		t.refit(ib)
		return ib
	}

	return ia
}

// relinkParent points the old parent of demoted (or the root) at
// promoted.
func (t *DynamicTree[T]) relinkParent(demoted, promoted int32) {
	p := t.nodes[promoted].parent
	if p == NullNode {
		t.root = promoted
		return
	}
	if t.nodes[p].children[0] == demoted {
		t.nodes[p].children[0] = promoted
	} else {
		t.nodes[p].children[1] = promoted
	}
}

// Validate checks the structural invariants: parent/child linkage,
// internal boxes equal to the merge of their children, and heights
// consistent with child heights. It is exported for tests and debug
// builds and returns the first violation found.
func (t *DynamicTree[T]) Validate() error {
	if t.root == NullNode {
		return nil
	}
	if t.nodes[t.root].parent != NullNode {
		return fmt.Errorf("spatial: root %d has a parent", t.root)
	}
	return t.validateNode(t.root)
}

func (t *DynamicTree[T]) validateNode(index int32) error {
	n := &t.nodes[index]
	if n.isLeaf() {
		if n.height != 0 {
			return fmt.Errorf("spatial: leaf %d has height %d", index, n.height)
		}
		if !n.hasData {
			return fmt.Errorf("spatial: leaf %d has no user data", index)
		}
		return nil
	}
	if n.hasData {
		return fmt.Errorf("spatial: internal node %d carries user data", index)
	}

	c1, c2 := n.children[0], n.children[1]
	for _, c := range []int32{c1, c2} {
		if c == NullNode {
			return fmt.Errorf("spatial: internal node %d has a null child", index)
		}
		if t.nodes[c].parent != index {
			return fmt.Errorf("spatial: child %d does not point back to %d", c, index)
		}
	}

	wantHeight := 1 + max(t.nodes[c1].height, t.nodes[c2].height)
	if n.height != wantHeight {
		return fmt.Errorf("spatial: node %d height %d, want %d", index, n.height, wantHeight)
	}
	merged := t.nodes[c1].aabb.Merge(t.nodes[c2].aabb)
	if merged != n.aabb {
		return fmt.Errorf("spatial: node %d box does not equal merge of children", index)
	}

	if err := t.validateNode(c1); err != nil {
		return err
	}
	return t.validateNode(c2)
}
