// Package isochrone implements the time-budgeted reachability search and
// the derived isochrone band and pedshed computations.
package isochrone

import (
	"container/heap"

	"pedshed/internal/infra/network"
)

// SearchResult holds the outcome of a budget-pruned Dijkstra run.
type SearchResult struct {
	// Costs maps connector ID to cumulative walking cost in seconds, for
	// every node reachable within the budget.
	Costs map[string]float64

	// Explored counts nodes popped from the queue, including stale entries.
	Explored int
}

// searchNode is a node in the priority queue
type searchNode struct {
	id    string
	cost  float64
	index int // Index in the heap
}

// priorityQueue implements heap.Interface keyed on cumulative cost
type priorityQueue []*searchNode

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].cost < pq[j].cost
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := len(*pq)
	node := x.(*searchNode)
	node.index = n
	*pq = append(*pq, node)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]

	return node
}

// Search runs a single-source shortest-path search from the origin
// connector, pruned at the walk budget.
//
// Duplicate queue entries for a node are expected and discarded on second
// pop (lazy deletion). A neighbor is pushed only when its candidate cost
// is within the budget, so a node exactly at the boundary is still
// finalized and recorded.
func Search(graph *network.Graph, originID string, budgetS float64) SearchResult {
	finalized := make(map[string]bool)
	costs := make(map[string]float64)
	explored := 0

	pq := make(priorityQueue, 0)
	heap.Init(&pq)
	heap.Push(&pq, &searchNode{id: originID, cost: 0})

	for pq.Len() > 0 {
		current := pq.popMin()
		explored++

		if finalized[current.id] {
			continue
		}
		finalized[current.id] = true
		costs[current.id] = current.cost

		for _, edge := range graph.Neighbors(current.id) {
			if finalized[edge.To] {
				continue
			}

			candidate := current.cost + edge.CostS
			if candidate <= budgetS {
				heap.Push(&pq, &searchNode{id: edge.To, cost: candidate})
			}
		}
	}

	return SearchResult{Costs: costs, Explored: explored}
}

func (pq *priorityQueue) popMin() *searchNode {
	return heap.Pop(pq).(*searchNode)
}
