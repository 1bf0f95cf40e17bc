package mesh

import "github.com/voxelforge/voxelforge/internal/engine/block"

// Source provides in-bounds block reads for the grid being meshed.
type Source interface {
	Get(x, y, z int) block.Type
}

// NeighborFunc answers block lookups at absolute world coordinates. The
// mesher calls it only for cells outside the grid, at the six boundary
// layers. Returning Air for an unloaded neighbor is the expected policy:
// boundary faces are generated conservatively and regenerated once the
// neighbor loads and marks this chunk dirty.
type NeighborFunc func(wx, wy, wz int) block.Type

// Input bundles everything Build needs. Build reads it and touches nothing
// else, so the same Input always produces byte-identical Buffers.
type Input struct {
	Source   Source
	Size     int    // cells per grid edge
	Origin   [3]int // world coordinate of the grid's (0,0,0) cell
	Neighbor NeighborFunc // nil is treated as all-air surroundings
	Atlas    block.AtlasTable
	Mode     Mode
}

// Build greedy-meshes the grid into triangle buffers.
//
// One pass runs per principal axis d, with u,v the two in-plane axes. For
// each of the size+1 planes along d a signed mask is built: +blockType
// where the cell below the plane is solid and the cell above is empty
// (face pointing +d), -blockType for the opposite, 0 where no face exists.
// Faces whose solid cell lies in a neighbor chunk are that chunk's to
// emit, so the two boundary planes each contribute a single sign. Masks
// are merged into maximal rectangles row-major and each rectangle becomes
// one quad (two triangles), grouped per (blockType, face) material.
//
// Complexity is O(size³) per call, independent of the merged quad count.
func Build(in Input) *Buffers {
	b := newBuilder()
	size := in.Size
	mask := make([]int16, size*size)

	for d := 0; d < 3; d++ {
		u := (d + 1) % 3
		v := (d + 2) % 3

		for p := 0; p <= size; p++ {
			buildMask(in, mask, d, u, v, p)
			mergeMask(in, b, mask, d, u, v, p)
		}
	}
	return b.finish()
}

// buildMask fills the signed face mask for one plane.
func buildMask(in Input, mask []int16, d, u, v, p int) {
	size := in.Size
	var pos [3]int
	n := 0
	for vv := 0; vv < size; vv++ {
		for uu := 0; uu < size; uu++ {
			pos[u], pos[v] = uu, vv

			pos[d] = p - 1
			below := cellAt(in, pos)
			pos[d] = p
			above := cellAt(in, pos)

			var m int16
			switch {
			case below.IsSolid() && !above.IsSolid() && p > 0:
				m = int16(below) // face points toward +d
			case above.IsSolid() && !below.IsSolid() && p < size:
				m = -int16(above) // face points toward -d
			}
			mask[n] = m
			n++
		}
	}
}

// cellAt resolves a grid-local position, falling through to the neighbor
// lookup outside the grid. Only the swept axis can be out of range.
func cellAt(in Input, pos [3]int) block.Type {
	for i := 0; i < 3; i++ {
		if pos[i] < 0 || pos[i] >= in.Size {
			if in.Neighbor == nil {
				return block.Air
			}
			return in.Neighbor(in.Origin[0]+pos[0], in.Origin[1]+pos[1], in.Origin[2]+pos[2])
		}
	}
	return in.Source.Get(pos[0], pos[1], pos[2])
}

// mergeMask greedily merges one plane's mask into quads and emits them.
func mergeMask(in Input, b *builder, mask []int16, d, u, v, p int) {
	size := in.Size
	for idx := 0; idx < len(mask); {
		m := mask[idx]
		if m == 0 {
			idx++
			continue
		}
		u0 := idx % size
		v0 := idx / size

		// Grow width along u while the mask value matches exactly.
		w := 1
		for u0+w < size && mask[idx+w] == m {
			w++
		}
		// Grow height along v while every cell of the w-wide row matches.
		h := 1
	growHeight:
		for v0+h < size {
			row := (v0 + h) * size
			for k := 0; k < w; k++ {
				if mask[row+u0+k] != m {
					break growHeight
				}
			}
			h++
		}

		bt, sign := block.Type(m), 1
		if m < 0 {
			bt, sign = block.Type(-m), -1
		}
		face := faceCategory(d, sign)

		// Tileable faces must not stretch a repeating texture across the
		// merged width; detailed mode subdivides into width-1 columns.
		if in.Mode == ModeDetailed && in.Atlas != nil && in.Atlas.Tileable(bt, face) {
			for c := 0; c < w; c++ {
				b.emitQuad(in.Atlas, d, u, v, p, u0+c, v0, 1, h, sign, bt, face)
			}
		} else {
			b.emitQuad(in.Atlas, d, u, v, p, u0, v0, w, h, sign, bt, face)
		}

		// Zero out the consumed region and continue from the next
		// unconsumed cell.
		for row := v0; row < v0+h; row++ {
			for col := u0; col < u0+w; col++ {
				mask[row*size+col] = 0
			}
		}
		idx += w
	}
}

// faceCategory maps a swept axis and face sign to a texture face category.
func faceCategory(d, sign int) block.Face {
	if d != 1 {
		return block.FaceSide
	}
	if sign > 0 {
		return block.FaceTop
	}
	return block.FaceBottom
}

// builder accumulates vertices globally and indices per material key, so
// the final index buffer is laid out as contiguous material ranges.
type builder struct {
	positions []float32
	normals   []float32
	uvs       []float32

	groupIdx map[block.MaterialKey][]uint32
	keyOrder []block.MaterialKey
}

func newBuilder() *builder {
	return &builder{
		groupIdx: make(map[block.MaterialKey][]uint32),
	}
}

// emitQuad appends one quad spanning w×h cells at plane p.
func (b *builder) emitQuad(atlas block.AtlasTable, d, u, v, p, u0, v0, w, h, sign int, bt block.Type, face block.Face) {
	var base, du, dv [3]int
	base[d], base[u], base[v] = p, u0, v0
	du[u] = w
	dv[v] = h

	// Corner order c0,c1,c2,c3 is counter-clockwise seen from +d because
	// u,v are the cyclic successors of d. Negative faces reverse it.
	corners := [4][3]int{
		base,
		{base[0] + du[0], base[1] + du[1], base[2] + du[2]},
		{base[0] + du[0] + dv[0], base[1] + du[1] + dv[1], base[2] + du[2] + dv[2]},
		{base[0] + dv[0], base[1] + dv[1], base[2] + dv[2]},
	}
	// Quad-space UV corner, stretched proportionally over one atlas tile.
	quadUV := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	order := [4]int{0, 1, 2, 3}
	if sign < 0 {
		order = [4]int{0, 3, 2, 1}
	}

	rect := block.AtlasRect{Width: 1, Height: 1}
	if atlas != nil {
		rect = atlas.Rect(bt, face)
	}

	var normal [3]float32
	normal[d] = float32(sign)

	start := uint32(len(b.positions) / 3)
	for _, ci := range order {
		c := corners[ci]
		b.positions = append(b.positions, float32(c[0]), float32(c[1]), float32(c[2]))
		b.normals = append(b.normals, normal[0], normal[1], normal[2])
		q := quadUV[ci]
		b.uvs = append(b.uvs, rect.U+q[0]*rect.Width, rect.V+q[1]*rect.Height)
	}

	key := block.MaterialKey{Block: bt, Face: face}
	if _, seen := b.groupIdx[key]; !seen {
		b.keyOrder = append(b.keyOrder, key)
	}
	b.groupIdx[key] = append(b.groupIdx[key],
		start, start+1, start+2,
		start, start+2, start+3,
	)
}

// finish concatenates per-material index lists into the final buffers.
// Keys are emitted in first-seen order, which is itself deterministic.
func (b *builder) finish() *Buffers {
	out := &Buffers{
		Positions: b.positions,
		Normals:   b.normals,
		UVs:       b.uvs,
	}
	for _, key := range b.keyOrder {
		idx := b.groupIdx[key]
		out.Groups = append(out.Groups, Group{
			Start: uint32(len(out.Indices)),
			Count: uint32(len(idx)),
			Key:   key,
		})
		out.Indices = append(out.Indices, idx...)
	}
	return out
}
