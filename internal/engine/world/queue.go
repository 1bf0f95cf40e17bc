package world

import (
	"sort"

	"github.com/voxelforge/voxelforge/internal/engine/mesh"
)

// Task is one pending unit of chunk work: materialize the chunk at Coord
// and produce a mesh in the given LOD mode. Lower Priority runs first.
type Task struct {
	Coord    ChunkCoord
	Mode     mesh.Mode
	Priority float64
}

// Queue is the streaming scheduler's task queue: sorted ascending by
// priority, with at most one outstanding task per chunk coordinate.
type Queue struct {
	tasks []Task
	index map[ChunkCoord]int
}

// NewQueue returns an empty task queue.
func NewQueue() *Queue {
	return &Queue{index: make(map[ChunkCoord]int)}
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int { return len(q.tasks) }

// Add inserts a task, or replaces the pending task for the same coordinate
// in place. An existing task is only replaced when the new one has
// equal-or-higher priority (numerically lower) or a different mode;
// a strictly worse duplicate is dropped.
func (q *Queue) Add(t Task) {
	if i, ok := q.index[t.Coord]; ok {
		old := q.tasks[i]
		if t.Priority > old.Priority && t.Mode == old.Mode {
			return
		}
		q.removeAt(i)
	}
	q.insert(t)
}

// Pop removes and returns the highest-priority task.
func (q *Queue) Pop() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	t := q.tasks[0]
	q.removeAt(0)
	return t, true
}

// Peek returns the highest-priority task without removing it.
func (q *Queue) Peek() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	return q.tasks[0], true
}

// Contains reports whether a task is pending for the coordinate.
func (q *Queue) Contains(coord ChunkCoord) bool {
	_, ok := q.index[coord]
	return ok
}

// Remove drops the pending task for a coordinate, if any. Used when a
// coordinate leaves the required set before being processed.
func (q *Queue) Remove(coord ChunkCoord) bool {
	i, ok := q.index[coord]
	if !ok {
		return false
	}
	q.removeAt(i)
	return true
}

// Tasks returns a copy of the pending tasks in priority order.
func (q *Queue) Tasks() []Task {
	out := make([]Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}

// Clear drops all pending tasks without processing them.
func (q *Queue) Clear() {
	q.tasks = q.tasks[:0]
	clear(q.index)
}

func (q *Queue) insert(t Task) {
	i := sort.Search(len(q.tasks), func(i int) bool {
		return q.tasks[i].Priority > t.Priority
	})
	q.tasks = append(q.tasks, Task{})
	copy(q.tasks[i+1:], q.tasks[i:])
	q.tasks[i] = t
	q.reindex(i)
}

func (q *Queue) removeAt(i int) {
	delete(q.index, q.tasks[i].Coord)
	copy(q.tasks[i:], q.tasks[i+1:])
	q.tasks = q.tasks[:len(q.tasks)-1]
	q.reindex(i)
}

// reindex refreshes map positions from i to the end after a shift.
func (q *Queue) reindex(from int) {
	for i := from; i < len(q.tasks); i++ {
		q.index[q.tasks[i].Coord] = i
	}
}
