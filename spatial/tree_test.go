package spatial

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzengine/quartz/lin"
)

func boxAt(x, y, z float32) lin.Aabb {
	return lin.AabbFromCenterExtents(lin.V3(x, y, z), lin.Splat3(0.5))
}

func TestInsertSingleLeafBecomesRoot(t *testing.T) {
	tree := NewDynamicTree[int]()
	leaf := tree.Insert(boxAt(0, 0, 0), 7)
	assert.Equal(t, 7, tree.UserData(leaf))
	assert.Equal(t, 1, tree.Len())
	require.NoError(t, tree.Validate())
}

func TestInvariantsAfterManyInsertsAndRemoves(t *testing.T) {
	tree := NewDynamicTree[int]()
	r := uint64(12345)
	next := func() float32 {
		r = r*6364136223846793005 + 1442695040888963407
		return float32(int32(r>>32)) / float32(1<<31) * 50
	}

	var leaves []int32
	for i := 0; i < 200; i++ {
		leaves = append(leaves, tree.Insert(boxAt(next(), next(), next()), i))
		if i%10 == 0 {
			require.NoError(t, tree.Validate(), "after insert %d", i)
		}
	}
	require.NoError(t, tree.Validate())

	// Remove every other leaf.
	for i := 0; i < len(leaves); i += 2 {
		tree.Remove(leaves[i])
	}
	require.NoError(t, tree.Validate())
	assert.Equal(t, 100, countLeaves(tree))

	// The arena recycles slots: inserting again reuses the free list.
	for i := 0; i < 50; i++ {
		tree.Insert(boxAt(next(), next(), next()), 1000+i)
	}
	require.NoError(t, tree.Validate())
	assert.Equal(t, 150, countLeaves(tree))
}

func countLeaves[T any](tree *DynamicTree[T]) int {
	n := 0
	for it := tree.Iterate(); ; {
		if _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	return n
}

func TestQueryPairsExactness(t *testing.T) {
	tree := NewDynamicTree[int]()
	boxes := []lin.Aabb{
		boxAt(0, 0, 0),    // 0 overlaps 1
		boxAt(0.6, 0, 0),  // 1 overlaps 0 and 2
		boxAt(1.2, 0, 0),  // 2 overlaps 1
		boxAt(10, 10, 10), // 3 isolated
	}
	for i, b := range boxes {
		tree.Insert(b, i)
	}

	type pair [2]int
	got := map[pair]int{}
	tree.QueryPairs(func(a, b int) {
		p := pair{min(a, b), max(a, b)}
		got[p]++
	})

	// Every overlapping pair must appear, and no other pair.
	wantPairs := map[pair]bool{}
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Intersects(boxes[j]) {
				wantPairs[pair{i, j}] = true
			}
		}
	}
	require.Len(t, wantPairs, 2)
	assert.Len(t, got, len(wantPairs))
	for p := range wantPairs {
		assert.Contains(t, got, p)
	}
}

func TestQueryRegion(t *testing.T) {
	tree := NewDynamicTree[int]()
	for i := 0; i < 10; i++ {
		tree.Insert(boxAt(float32(i)*3, 0, 0), i)
	}

	var hits []int
	tree.Query(lin.AabbFromMinMax(lin.V3(-1, -1, -1), lin.V3(7, 1, 1)), func(v int) bool {
		hits = append(hits, v)
		return true
	})
	sort.Ints(hits)
	assert.Equal(t, []int{0, 1, 2}, hits)
}

func TestQueryEarlyTermination(t *testing.T) {
	tree := NewDynamicTree[int]()
	for i := 0; i < 10; i++ {
		tree.Insert(boxAt(float32(i), 0, 0), i)
	}

	calls := 0
	tree.Query(lin.AabbFromMinMax(lin.V3(-100, -1, -1), lin.V3(100, 1, 1)), func(int) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestUpdateWithinFatBoxIsNoOp(t *testing.T) {
	tree := NewDynamicTree[int]()
	leaf := tree.Insert(boxAt(0, 0, 0).Expand(FatAABBMargin), 1)
	fatBefore := tree.FatAABB(leaf)

	// A tight box inside the stored fat box: nothing moves.
	moved := tree.Update(leaf, boxAt(0.02, 0, 0), lin.Vec3{}, false)
	assert.False(t, moved)
	assert.Equal(t, fatBefore, tree.FatAABB(leaf))
	require.NoError(t, tree.Validate())
}

func TestUpdateForceAlwaysReinserts(t *testing.T) {
	tree := NewDynamicTree[int]()
	leaf := tree.Insert(boxAt(0, 0, 0).Expand(FatAABBMargin), 1)

	moved := tree.Update(leaf, boxAt(0.02, 0, 0), lin.Vec3{}, true)
	assert.True(t, moved)
	require.NoError(t, tree.Validate())
}

func TestUpdateEscapeRefattens(t *testing.T) {
	tree := NewDynamicTree[int]()
	leaf := tree.Insert(boxAt(0, 0, 0), 1)

	tight := boxAt(5, 0, 0)
	moved := tree.Update(leaf, tight, lin.Vec3{}, false)
	assert.True(t, moved)

	fat := tree.FatAABB(leaf)
	assert.InDelta(t, float64(tight.Min.X-FatAABBMargin), float64(fat.Min.X), 1e-5)
	assert.InDelta(t, float64(tight.Max.X+FatAABBMargin), float64(fat.Max.X), 1e-5)
	require.NoError(t, tree.Validate())
}

func TestUpdatePredictiveDisplacement(t *testing.T) {
	tree := NewDynamicTree[int]()
	leaf := tree.Insert(boxAt(0, 0, 0), 1)

	tight := boxAt(5, 0, 0)
	tree.Update(leaf, tight, lin.V3(1, -2, 0), false)

	fat := tree.FatAABB(leaf)
	// Positive X displacement stretches max by 2*d; negative Y
	// stretches min.
	assert.InDelta(t, float64(tight.Max.X+FatAABBMargin+2), float64(fat.Max.X), 1e-5)
	assert.InDelta(t, float64(tight.Min.X-FatAABBMargin), float64(fat.Min.X), 1e-5)
	assert.InDelta(t, float64(tight.Min.Y-FatAABBMargin-4), float64(fat.Min.Y), 1e-5)
	assert.InDelta(t, float64(tight.Max.Y+FatAABBMargin), float64(fat.Max.Y), 1e-5)
}

func TestRemoveChildOfRootPromotesSibling(t *testing.T) {
	tree := NewDynamicTree[int]()
	a := tree.Insert(boxAt(0, 0, 0), 0)
	b := tree.Insert(boxAt(5, 0, 0), 1)

	tree.Remove(a)
	require.NoError(t, tree.Validate())
	assert.Equal(t, 1, countLeaves(tree))
	assert.Equal(t, 1, tree.UserData(b))

	tree.Remove(b)
	require.NoError(t, tree.Validate())
	assert.Equal(t, 0, tree.Len())
}

func TestSequentialInsertStaysBalanced(t *testing.T) {
	tree := NewDynamicTree[int]()
	// Worst case for an unbalanced tree: strictly increasing positions.
	var leaves []int32
	for i := 0; i < 64; i++ {
		leaves = append(leaves, tree.Insert(boxAt(float32(i)*2, 0, 0), i))
	}
	require.NoError(t, tree.Validate())

	// With single rotations the height stays logarithmic-ish; a
	// degenerate chain would be 63 high.
	rootHeight := tree.nodes[tree.root].height
	assert.Less(t, rootHeight, int32(20))

	for _, l := range leaves {
		tree.Remove(l)
	}
	assert.Equal(t, 0, tree.Len())
}

func TestIteratorVisitsEveryLeaf(t *testing.T) {
	tree := NewDynamicTree[int]()
	want := map[int]bool{}
	for i := 0; i < 33; i++ {
		tree.Insert(boxAt(float32(i%7), float32(i/7), 0), i)
		want[i] = true
	}

	got := map[int]bool{}
	for it := tree.Iterate(); ; {
		v, ok := it.Next()
		if !ok {
			break
		}
		got[v] = true
	}
	assert.Equal(t, want, got)
}
