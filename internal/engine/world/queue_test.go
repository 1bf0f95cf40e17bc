package world

import (
	"testing"

	"github.com/voxelforge/voxelforge/internal/engine/mesh"
)

func TestQueuePriorityOrder(t *testing.T) {
	q := NewQueue()
	q.Add(Task{Coord: ChunkCoord{X: 3}, Priority: 9})
	q.Add(Task{Coord: ChunkCoord{X: 1}, Priority: 1})
	q.Add(Task{Coord: ChunkCoord{X: 2}, Priority: 4})

	want := []int{1, 2, 3}
	for _, x := range want {
		task, ok := q.Pop()
		if !ok || task.Coord.X != x {
			t.Fatalf("Pop = %v %v, want coord X=%d", task, ok, x)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue must report false")
	}
}

func TestQueueDedup(t *testing.T) {
	q := NewQueue()
	c := ChunkCoord{X: 1}

	q.Add(Task{Coord: c, Priority: 5})
	q.Add(Task{Coord: c, Priority: 5})
	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after duplicate add", q.Len())
	}

	// A strictly worse duplicate with the same mode is dropped.
	q.Add(Task{Coord: c, Priority: 9})
	task, _ := q.Peek()
	if task.Priority != 5 {
		t.Errorf("worse duplicate replaced priority: got %v, want 5", task.Priority)
	}

	// A better duplicate replaces in place.
	q.Add(Task{Coord: c, Priority: 2})
	task, _ = q.Peek()
	if task.Priority != 2 || q.Len() != 1 {
		t.Errorf("better duplicate: got priority %v len %d", task.Priority, q.Len())
	}

	// A mode change replaces even at worse priority.
	q.Add(Task{Coord: c, Mode: mesh.ModeDetailed, Priority: 7})
	task, _ = q.Peek()
	if task.Mode != mesh.ModeDetailed || task.Priority != 7 || q.Len() != 1 {
		t.Errorf("mode change: got %+v len %d", task, q.Len())
	}
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	a, b := ChunkCoord{X: 1}, ChunkCoord{X: 2}
	q.Add(Task{Coord: a, Priority: 1})
	q.Add(Task{Coord: b, Priority: 2})

	if !q.Remove(a) {
		t.Error("Remove of pending coordinate must report true")
	}
	if q.Remove(a) {
		t.Error("Remove of absent coordinate must report false")
	}
	if q.Contains(a) || !q.Contains(b) {
		t.Error("Contains out of sync after Remove")
	}

	task, ok := q.Pop()
	if !ok || task.Coord != b {
		t.Errorf("Pop after Remove = %v, want %v", task.Coord, b)
	}
}

func TestQueueClear(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Add(Task{Coord: ChunkCoord{X: i}, Priority: float64(i)})
	}
	q.Clear()
	if q.Len() != 0 || q.Contains(ChunkCoord{X: 2}) {
		t.Error("Clear must drop all tasks and index entries")
	}
}

func TestQueueTasksIsCopy(t *testing.T) {
	q := NewQueue()
	q.Add(Task{Coord: ChunkCoord{X: 1}, Priority: 1})

	tasks := q.Tasks()
	tasks[0].Coord = ChunkCoord{X: 99}

	task, _ := q.Peek()
	if task.Coord.X != 1 {
		t.Error("Tasks must return a copy, not the live slice")
	}
}
