package walk

import "github.com/RoaringBitmap/roaring/v2"

// ComponentCount returns the number of connected components of the
// transition graph, treating edges as undirected. Items with no edges count
// as singleton components. Useful as a fit diagnostic: data that never
// co-occurs across record populations splits the walk into independent
// equilibria.
func ComponentCount(m *Matrix) int {
	n := m.Dim()

	// Symmetric closure: a zero-bias row may have been emptied while its
	// reverse edges survived, so adjacency is rebuilt in both directions.
	adj := make([][]int, n)
	for i, row := range m.rows {
		for _, e := range row {
			adj[i] = append(adj[i], e.col)
			adj[e.col] = append(adj[e.col], i)
		}
	}

	visited := roaring.New()
	components := 0
	stack := make([]int, 0, 64)
	for start := 0; start < n; start++ {
		if visited.Contains(uint32(start)) {
			continue
		}
		components++
		visited.Add(uint32(start))
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, j := range adj[i] {
				if visited.CheckedAdd(uint32(j)) {
					stack = append(stack, j)
				}
			}
		}
	}
	return components
}
