package world

import (
	"math"

	"go.uber.org/zap"

	"github.com/voxelforge/voxelforge/internal/engine/block"
	"github.com/voxelforge/voxelforge/internal/engine/mesh"
)

// MeshSink receives finished chunk meshes from the store. The sink owns
// all GPU-side resources; the store never touches them beyond the opaque
// handle it hands back to the grid. Attach replaces any mesh previously
// attached for the coordinate.
type MeshSink interface {
	Attach(coord ChunkCoord, mode mesh.Mode, buf *mesh.Buffers) (MeshHandle, error)
	Remove(coord ChunkCoord)
}

// nopSink discards meshes. Used when the world runs headless.
type nopSink struct{}

type nopHandle struct{}

func (nopHandle) Release() {}

func (nopSink) Attach(ChunkCoord, mesh.Mode, *mesh.Buffers) (MeshHandle, error) {
	return nopHandle{}, nil
}
func (nopSink) Remove(ChunkCoord) {}

// Options configures a Store.
type Options struct {
	// Generator populates new chunks. Nil leaves chunks empty.
	Generator Generator
	// Atlas supplies texture rects and tiling policy to the mesher.
	Atlas block.AtlasTable
	// Sink receives meshes. Nil discards them.
	Sink MeshSink
	// MinChunkY/MaxChunkY bound the vertical chunk range streamed around
	// the anchor (inclusive).
	MinChunkY, MaxChunkY int
	// MaxTasksPerTick bounds queue processing per tick.
	MaxTasksPerTick int
	// MaxRemeshesPerTick bounds dirty-chunk remeshing per tick, keeping
	// bulk edits from spiking a single frame.
	MaxRemeshesPerTick int
	// Workers > 0 offloads meshing to that many background goroutines;
	// 0 meshes inline on the calling goroutine.
	Workers int

	Logger *zap.Logger
}

// TickStats reports the work done by the last Tick call.
type TickStats struct {
	TasksProcessed int
	Remeshes       int
	ResultsApplied int
	ResultsDropped int
}

// transitionSeconds is how long an LOD crossfade lasts.
const transitionSeconds = 0.25

// Store is the sparse chunk map and the streaming orchestrator around it.
//
// The chunk map, dirty flags and render states are owned by the single
// main/streaming goroutine: every method must be called from it. The only
// concurrency is the mesh worker, which operates on snapshots and reports
// back through Tick.
type Store struct {
	opts Options
	log  *zap.Logger

	chunks map[ChunkCoord]*Grid
	states map[ChunkCoord]RenderState
	epochs map[ChunkCoord]uint64
	wanted map[ChunkCoord]mesh.Mode

	queue    *Queue
	worker   *MeshWorker
	inflight map[ChunkCoord]struct{}

	lastTick TickStats
}

// NewStore creates a chunk store with the given options.
func NewStore(opts Options) *Store {
	if opts.Sink == nil {
		opts.Sink = nopSink{}
	}
	if opts.MaxTasksPerTick <= 0 {
		opts.MaxTasksPerTick = 8
	}
	if opts.MaxRemeshesPerTick <= 0 {
		opts.MaxRemeshesPerTick = 4
	}
	if opts.MaxChunkY < opts.MinChunkY {
		opts.MaxChunkY = opts.MinChunkY
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		opts:     opts,
		log:      log,
		chunks:   make(map[ChunkCoord]*Grid),
		states:   make(map[ChunkCoord]RenderState),
		epochs:   make(map[ChunkCoord]uint64),
		wanted:   make(map[ChunkCoord]mesh.Mode),
		queue:    NewQueue(),
		inflight: make(map[ChunkCoord]struct{}),
	}
	if opts.Workers > 0 {
		s.worker = NewMeshWorker(opts.Workers, log)
	}
	return s
}

// Close releases every chunk and stops the mesh worker.
func (s *Store) Close() {
	s.Clear()
	if s.worker != nil {
		s.worker.Close()
		s.worker = nil
	}
}

// Clear unloads all chunks and drops all pending work.
func (s *Store) Clear() {
	s.queue.Clear()
	for coord := range s.chunks {
		s.unload(coord)
	}
	clear(s.inflight)
}

// ChunkCount returns the number of loaded chunks.
func (s *Store) ChunkCount() int { return len(s.chunks) }

// PendingTasks returns the number of queued chunk tasks.
func (s *Store) PendingTasks() int { return s.queue.Len() }

// LastTick returns the work counters from the most recent Tick.
func (s *Store) LastTick() TickStats { return s.lastTick }

// Chunk returns the loaded grid at the coordinate, or nil.
func (s *Store) Chunk(coord ChunkCoord) *Grid { return s.chunks[coord] }

// State returns the render state for a coordinate. Unknown coordinates
// are Unloaded.
func (s *Store) State(coord ChunkCoord) RenderState { return s.states[coord] }

// GetOrCreateChunk materializes the chunk at the coordinate, populating it
// with the deterministic generator rule. Re-creating a coordinate after
// eviction yields identical content.
func (s *Store) GetOrCreateChunk(coord ChunkCoord) *Grid {
	if g, ok := s.chunks[coord]; ok {
		return g
	}
	g := NewGrid()
	if s.opts.Generator != nil {
		s.opts.Generator.Populate(coord, g)
	}
	g.MarkDirty()
	s.chunks[coord] = g
	return g
}

// GetBlock returns the block at a world coordinate. Unmapped chunks read
// as air: the world is lazy.
func (s *Store) GetBlock(wx, wy, wz int) block.Type {
	coord, lx, ly, lz := Split(wx, wy, wz)
	g, ok := s.chunks[coord]
	if !ok {
		return block.Air
	}
	return g.Get(lx, ly, lz)
}

// SetBlock writes a block at a world coordinate, creating the owning chunk
// if absent. Writing the current type is a no-op with no dirty churn.
// Writes on a chunk face additionally dirty the single adjacent neighbor
// on that axis, whose boundary-facing quads depend on this cell.
func (s *Store) SetBlock(wx, wy, wz int, t block.Type) {
	coord, lx, ly, lz := Split(wx, wy, wz)
	g, ok := s.chunks[coord]
	if !ok {
		if t == block.Air {
			return // unmapped reads as air already
		}
		g = s.GetOrCreateChunk(coord)
	}
	if g.Get(lx, ly, lz) == t {
		return
	}
	g.Set(lx, ly, lz, t)
	s.markDirty(coord)

	for axis, l := range [3]int{lx, ly, lz} {
		var d [3]int
		switch l {
		case 0:
			d[axis] = -1
		case GridSize - 1:
			d[axis] = 1
		default:
			continue
		}
		n := coord.Offset(d[0], d[1], d[2])
		if _, loaded := s.chunks[n]; loaded {
			s.markDirty(n)
		}
	}
}

// markDirty flags a loaded chunk's mesh as stale and bumps its epoch so
// in-flight worker results for the old content are recognized as stale.
func (s *Store) markDirty(coord ChunkCoord) {
	g, ok := s.chunks[coord]
	if !ok {
		return
	}
	g.MarkDirty()
	s.epochs[coord]++
}

// LoadAroundAnchor recomputes the required chunk set around the anchor
// position and reconciles the store against it: missing or LOD-mismatched
// chunks are enqueued with distance priority (closer first, detailed
// within detailRadius), queued tasks that left the set are dropped, and
// loaded chunks outside the set are unloaded. Call once per world tick.
func (s *Store) LoadAroundAnchor(px, py, pz float64, viewRadius, detailRadius int) {
	cx := floorDiv(int(math.Floor(px)), GridSize)
	cz := floorDiv(int(math.Floor(pz)), GridSize)
	_ = py // vertical range is configured, not anchored

	required := make(map[ChunkCoord]mesh.Mode)
	for dz := -viewRadius; dz <= viewRadius; dz++ {
		for dx := -viewRadius; dx <= viewRadius; dx++ {
			distSq := dx*dx + dz*dz
			if distSq > viewRadius*viewRadius {
				continue
			}
			mode := mesh.ModeGreedy
			if distSq <= detailRadius*detailRadius {
				mode = mesh.ModeDetailed
			}
			for cy := s.opts.MinChunkY; cy <= s.opts.MaxChunkY; cy++ {
				coord := ChunkCoord{X: cx + dx, Y: cy, Z: cz + dz}
				required[coord] = mode

				cur := s.states[coord]
				switch {
				case cur.Kind == StateUnloaded:
					s.enqueue(coord, mode, float64(distSq))
					s.states[coord] = RenderState{Kind: StateQueued}
				case cur.Kind == StateQueued:
					// Re-anchoring while the task is still pending: let the
					// queue's replace-in-place rule refresh its priority and
					// LOD mode so the chunk never first meshes stale.
					s.enqueue(coord, mode, float64(distSq))
				case cur.Kind == StateReady && cur.Mode != mode:
					s.enqueue(coord, mode, float64(distSq))
				}
			}
		}
	}

	// Queued coordinates that left the required set are never processed.
	for _, t := range s.queue.Tasks() {
		if _, ok := required[t.Coord]; !ok {
			s.queue.Remove(t.Coord)
			if _, loaded := s.chunks[t.Coord]; !loaded {
				delete(s.states, t.Coord)
			}
		}
	}

	// Unload loaded chunks that fell out of range.
	for coord := range s.chunks {
		if _, ok := required[coord]; !ok {
			s.unload(coord)
		}
	}
}

// enqueue records the wanted mode and adds/replaces the chunk task.
func (s *Store) enqueue(coord ChunkCoord, mode mesh.Mode, priority float64) {
	s.wanted[coord] = mode
	s.queue.Add(Task{Coord: coord, Mode: mode, Priority: priority})
}

// unload evicts one chunk: its grid-owned mesh handle is released exactly
// once and the rendering side is told to drop its mesh.
func (s *Store) unload(coord ChunkCoord) {
	g, ok := s.chunks[coord]
	if !ok {
		return
	}
	g.Dispose()
	s.opts.Sink.Remove(coord)
	s.queue.Remove(coord)
	delete(s.chunks, coord)
	delete(s.states, coord)
	delete(s.epochs, coord)
	delete(s.wanted, coord)
	delete(s.inflight, coord)
}

// Tick runs one bounded scheduling pass: drain worker results, process up
// to MaxTasksPerTick queued tasks, remesh up to MaxRemeshesPerTick dirty
// chunks, and advance LOD transitions. dt is the elapsed frame time.
func (s *Store) Tick(dt float64) {
	s.lastTick = TickStats{}

	if s.worker != nil {
		s.worker.drain(s.applyResult)
	}

	for i := 0; i < s.opts.MaxTasksPerTick; i++ {
		t, ok := s.queue.Pop()
		if !ok {
			break
		}
		s.processTask(t)
		s.lastTick.TasksProcessed++
	}

	remeshed := 0
	for coord, g := range s.chunks {
		if remeshed >= s.opts.MaxRemeshesPerTick {
			break
		}
		if !g.IsDirty() {
			continue
		}
		if _, busy := s.inflight[coord]; busy {
			continue
		}
		st := s.states[coord]
		if st.Kind == StateUnloaded || s.queue.Contains(coord) {
			continue
		}
		s.submitMesh(coord, s.wantedMode(coord))
		remeshed++
	}
	s.lastTick.Remeshes = remeshed

	s.advanceTransitions(dt)
}

// wantedMode returns the last requested LOD mode for a chunk, defaulting
// to greedy.
func (s *Store) wantedMode(coord ChunkCoord) mesh.Mode {
	if m, ok := s.wanted[coord]; ok {
		return m
	}
	return mesh.ModeGreedy
}

// processTask materializes a chunk and kicks off its meshing.
func (s *Store) processTask(t Task) {
	s.GetOrCreateChunk(t.Coord)
	s.wanted[t.Coord] = t.Mode
	s.submitMesh(t.Coord, t.Mode)
}

// submitMesh regenerates a chunk's mesh, inline or via the worker. Empty
// chunks produce no geometry and go straight to Ready.
func (s *Store) submitMesh(coord ChunkCoord, mode mesh.Mode) {
	g := s.chunks[coord]
	if g == nil {
		return
	}
	if g.IsEmpty() {
		s.opts.Sink.Remove(coord)
		g.SetMesh(nil)
		g.ClearDirty()
		s.setReady(coord, mode)
		return
	}

	epoch := s.epochs[coord]
	if s.worker != nil {
		job := meshJob{
			coord: coord,
			mode:  mode,
			epoch: epoch,
			grid:  g.Clone(),
			shell: captureShell(s, coord),
			atlas: s.opts.Atlas,
		}
		if s.worker.submit(job) {
			s.inflight[coord] = struct{}{}
		}
		// Full worker queue: the chunk stays dirty and is retried later.
		return
	}

	origin := [3]int{}
	origin[0], origin[1], origin[2] = coord.Origin()
	buf := mesh.Build(mesh.Input{
		Source:   g,
		Size:     GridSize,
		Origin:   origin,
		Neighbor: s.GetBlock,
		Atlas:    s.opts.Atlas,
		Mode:     mode,
	})
	s.attach(coord, mode, buf, epoch)
}

// applyResult installs a finished worker result, discarding it when the
// chunk was evicted or its content changed after the snapshot was taken.
func (s *Store) applyResult(res meshResult) {
	delete(s.inflight, res.coord)
	if res.err != nil {
		s.log.Warn("background meshing failed",
			zap.Int("cx", res.coord.X), zap.Int("cy", res.coord.Y), zap.Int("cz", res.coord.Z),
			zap.Error(res.err))
		s.lastTick.ResultsDropped++
		return
	}
	if _, ok := s.chunks[res.coord]; !ok {
		s.lastTick.ResultsDropped++
		return
	}
	if s.epochs[res.coord] != res.epoch {
		// Chunk changed while meshing; it is still dirty and will be
		// remeshed on a later tick.
		s.lastTick.ResultsDropped++
		return
	}
	s.attach(res.coord, res.mode, res.buffers, res.epoch)
	s.lastTick.ResultsApplied++
}

// attach hands buffers to the sink. The dirty flag is cleared only after
// a successful attach; on failure the chunk keeps its previous visual
// state and stays eligible for retry.
func (s *Store) attach(coord ChunkCoord, mode mesh.Mode, buf *mesh.Buffers, epoch uint64) {
	handle, err := s.opts.Sink.Attach(coord, mode, buf)
	if err != nil {
		s.log.Warn("mesh attach failed",
			zap.Int("cx", coord.X), zap.Int("cy", coord.Y), zap.Int("cz", coord.Z),
			zap.Error(err))
		return
	}
	g := s.chunks[coord]
	g.SetMesh(handle)
	if s.epochs[coord] == epoch {
		g.ClearDirty()
	}
	s.setReady(coord, mode)
}

// setReady moves a chunk to Ready, passing through Transitioning when an
// already-visible chunk changes LOD mode so the renderer can crossfade.
func (s *Store) setReady(coord ChunkCoord, mode mesh.Mode) {
	prev := s.states[coord]
	if prev.Kind == StateReady && prev.Mode != mode {
		s.states[coord] = transitioning(prev.Mode, mode)
		return
	}
	s.states[coord] = ready(mode)
}

// advanceTransitions steps every Transitioning chunk toward Ready.
func (s *Store) advanceTransitions(dt float64) {
	for coord, st := range s.states {
		if st.Kind != StateTransitioning {
			continue
		}
		st.Progress += float32(dt / transitionSeconds)
		if st.Progress >= 1 {
			s.states[coord] = ready(st.To)
		} else {
			s.states[coord] = st
		}
	}
}
