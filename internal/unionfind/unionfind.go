package unionfind

import (
	"fmt"
	"sort"
)

// Forest tracks equivalence classes over the fixed index set [0, n).
// Classes only merge; they never split. A Forest belongs to exactly one
// analysis run and is not safe for concurrent use.
type Forest struct {
	parent []int
	size   []int
}

// New returns a forest of n singleton classes.
func New(n int) *Forest {
	f := &Forest{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	for i := range f.parent {
		f.parent[i] = i
		f.size[i] = 1
	}
	return f
}

// Len returns the number of tracked indices.
func (f *Forest) Len() int {
	return len(f.parent)
}

// Find returns the representative of i's class, compressing the path along
// the way. Out-of-range indices are a programming error.
func (f *Forest) Find(i int) int {
	if i < 0 || i >= len(f.parent) {
		panic(fmt.Sprintf("unionfind: index %d out of range [0, %d)", i, len(f.parent)))
	}
	root := i
	for f.parent[root] != root {
		root = f.parent[root]
	}
	for f.parent[i] != root {
		f.parent[i], i = root, f.parent[i]
	}
	return root
}

// Union merges the classes containing i and j, attaching the smaller class
// under the larger one. Ties keep the lower-index root. It reports whether a
// merge happened; joining an already-merged pair is a no-op.
func (f *Forest) Union(i, j int) bool {
	ri, rj := f.Find(i), f.Find(j)
	if ri == rj {
		return false
	}
	if f.size[ri] < f.size[rj] || (f.size[ri] == f.size[rj] && rj < ri) {
		ri, rj = rj, ri
	}
	f.parent[rj] = ri
	f.size[ri] += f.size[rj]
	return true
}

// Groups returns every class as an increasing-index slice, ordered by each
// class's smallest member.
func (f *Forest) Groups() [][]int {
	members := make(map[int][]int, len(f.parent))
	for i := range f.parent {
		root := f.Find(i)
		members[root] = append(members[root], i)
	}

	groups := make([][]int, 0, len(members))
	for _, group := range members {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(a, b int) bool {
		return groups[a][0] < groups[b][0]
	})
	return groups
}
