package world

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/voxelforge/voxelforge/internal/engine/block"
	"github.com/voxelforge/voxelforge/internal/engine/mesh"
)

// meshJob is a self-contained meshing request: an immutable grid snapshot
// plus a captured shell of the six neighbor boundary layers. The worker
// never touches the store.
type meshJob struct {
	coord ChunkCoord
	mode  mesh.Mode
	epoch uint64
	grid  *Grid
	shell *neighborShell
	atlas block.AtlasTable
}

// meshResult carries finished geometry back to the main tick.
type meshResult struct {
	coord   ChunkCoord
	mode    mesh.Mode
	epoch   uint64
	buffers *mesh.Buffers
	err     error
}

// MeshWorker offloads greedy meshing to background goroutines. Jobs go in
// as snapshots, pure buffers come out; results are drained once per tick
// on the main goroutine. There is no in-flight cancellation: a stale
// result is simply discarded on return.
type MeshWorker struct {
	jobs    chan meshJob
	results chan meshResult
	done    chan struct{}
	wg      sync.WaitGroup
	log     *zap.Logger
}

// NewMeshWorker starts the given number of meshing goroutines.
func NewMeshWorker(workers int, log *zap.Logger) *MeshWorker {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	w := &MeshWorker{
		jobs:    make(chan meshJob, 256),
		results: make(chan meshResult, 256),
		done:    make(chan struct{}),
		log:     log,
	}
	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer w.wg.Done()
			w.run()
		}()
	}
	return w
}

// Close stops the worker goroutines and waits for them to exit, even when
// the results channel is full and nobody drains it anymore. Pending
// results may be lost; the affected chunks stay dirty and are remeshed if
// the world keeps running.
func (w *MeshWorker) Close() {
	close(w.done)
	close(w.jobs)
	w.wg.Wait()
}

// submit enqueues a job without blocking. A full queue reports false and
// the caller leaves the chunk dirty for a later tick.
func (w *MeshWorker) submit(job meshJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		return false
	}
}

// drain applies all currently available results without blocking.
func (w *MeshWorker) drain(apply func(meshResult)) {
	for {
		select {
		case res := <-w.results:
			apply(res)
		default:
			return
		}
	}
}

func (w *MeshWorker) run() {
	for job := range w.jobs {
		select {
		case w.results <- w.build(job):
		case <-w.done:
			return
		}
	}
}

// build meshes one job, converting panics into errors so a malformed job
// can never take down the streaming loop.
func (w *MeshWorker) build(job meshJob) (res meshResult) {
	res = meshResult{coord: job.coord, mode: job.mode, epoch: job.epoch}
	defer func() {
		if r := recover(); r != nil {
			res.buffers = nil
			res.err = fmt.Errorf("mesh worker: %v", r)
		}
	}()
	origin := [3]int{}
	origin[0], origin[1], origin[2] = job.coord.Origin()
	res.buffers = mesh.Build(mesh.Input{
		Source:   job.grid,
		Size:     GridSize,
		Origin:   origin,
		Neighbor: job.shell.lookup,
		Atlas:    job.atlas,
		Mode:     job.mode,
	})
	return res
}

// neighborShell is a snapshot of the six boundary layers surrounding a
// chunk, taken on the main goroutine at submit time. The mesher only ever
// steps one cell outside the grid along the swept axis, so six face slabs
// cover every lookup it can make.
type neighborShell struct {
	origin [3]int
	faces  [6][]block.Type // axis*2 + (0:-, 1:+), each GridSize² cells
}

// captureShell reads the boundary layers through the store's world reads,
// inheriting the unloaded-neighbor-is-air policy.
func captureShell(s *Store, coord ChunkCoord) *neighborShell {
	sh := &neighborShell{}
	sh.origin[0], sh.origin[1], sh.origin[2] = coord.Origin()

	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3
		for side := 0; side < 2; side++ {
			slab := make([]block.Type, GridSize*GridSize)
			var pos [3]int
			pos[axis] = sh.origin[axis] - 1
			if side == 1 {
				pos[axis] = sh.origin[axis] + GridSize
			}
			for vv := 0; vv < GridSize; vv++ {
				for uu := 0; uu < GridSize; uu++ {
					pos[u] = sh.origin[u] + uu
					pos[v] = sh.origin[v] + vv
					slab[uu+vv*GridSize] = s.GetBlock(pos[0], pos[1], pos[2])
				}
			}
			sh.faces[axis*2+side] = slab
		}
	}
	return sh
}

// lookup answers a world-coordinate block query from the captured slabs.
// Queries outside the shell read as air.
func (sh *neighborShell) lookup(wx, wy, wz int) block.Type {
	l := [3]int{wx - sh.origin[0], wy - sh.origin[1], wz - sh.origin[2]}
	for axis := 0; axis < 3; axis++ {
		var side int
		switch l[axis] {
		case -1:
			side = 0
		case GridSize:
			side = 1
		default:
			continue
		}
		u, v := (axis+1)%3, (axis+2)%3
		if l[u] < 0 || l[u] >= GridSize || l[v] < 0 || l[v] >= GridSize {
			return block.Air
		}
		return sh.faces[axis*2+side][l[u]+l[v]*GridSize]
	}
	return block.Air
}
