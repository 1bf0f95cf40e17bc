// Package renderer draws chunk meshes with OpenGL. It implements the
// world.MeshSink contract: the chunk store hands it vertex buffers, the
// renderer uploads them and returns handles whose Release is safe to call
// from mesh bookkeeping while the GPU objects outlive the handle until the
// crossfade finishes.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/voxelforge/voxelforge/internal/engine/block"
	"github.com/voxelforge/voxelforge/internal/engine/mesh"
	"github.com/voxelforge/voxelforge/internal/engine/shader"
	"github.com/voxelforge/voxelforge/internal/engine/world"
)

const fadeSeconds = 0.25

// chunkMesh holds the GPU objects for one chunk's mesh.
//
// GPU deletion is owned by the renderer's fading list: Attach and Remove
// schedule a mesh there before the store releases its handle, and destroy
// runs on the render thread once any crossfade still sampling the mesh
// has finished.
type chunkMesh struct {
	vao        uint32
	vbos       [3]uint32 // positions, normals, uvs
	ebo        uint32
	indexCount int32
	groups     []mesh.Group
	origin     mgl32.Vec3

	destroyed bool
}

// Release implements world.MeshHandle. By the time the store releases a
// handle the renderer has already taken ownership of the GPU objects via
// the fading list, so there is nothing to free here.
func (m *chunkMesh) Release() {}

func (m *chunkMesh) destroy() {
	if m.destroyed {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(3, &m.vbos[0])
	gl.DeleteBuffers(1, &m.ebo)
	m.destroyed = true
}

// fadingMesh is a replaced or removed mesh drawn at decreasing opacity
// while its successor fades in.
type fadingMesh struct {
	mesh    *chunkMesh
	opacity float32
}

// Renderer owns the chunk shader, the procedural atlas texture and the
// set of uploaded chunk meshes. All methods must run on the GL thread.
type Renderer struct {
	program     uint32
	locViewProj int32
	locOrigin   int32
	locLightDir int32
	locAtlas    int32
	locOpacity  int32

	atlasTex uint32

	meshes  map[world.ChunkCoord]*chunkMesh
	ages    map[world.ChunkCoord]float32 // seconds since attach, for fade-in
	fading  []fadingMesh
	skyR    float32
	skyG    float32
	skyB    float32
}

// New compiles the chunk shader and uploads the atlas texture. The GL
// context must be current.
func New(atlas *block.GridAtlas) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	program, err := shader.CompileProgram(chunkVertexShader, chunkFragmentShader)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		program:     program,
		locViewProj: shader.GetUniform(program, "uViewProj"),
		locOrigin:   shader.GetUniform(program, "uOrigin"),
		locLightDir: shader.GetUniform(program, "uLightDir"),
		locAtlas:    shader.GetUniform(program, "uAtlas"),
		locOpacity:  shader.GetUniform(program, "uOpacity"),
		meshes:      make(map[world.ChunkCoord]*chunkMesh),
		ages:        make(map[world.ChunkCoord]float32),
		skyR:        0.53,
		skyG:        0.77,
		skyB:        0.92,
	}
	r.atlasTex = uploadAtlas(atlas.Columns)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	return r, nil
}

func uploadAtlas(columns int) uint32 {
	pix := buildAtlasPixels(columns)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(columns*atlasTilePixels), int32(atlasTilePixels),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// Attach implements world.MeshSink. It uploads the buffers and returns a
// handle. An existing mesh at the same coordinate keeps drawing at fading
// opacity while the new one fades in.
func (r *Renderer) Attach(coord world.ChunkCoord, mode mesh.Mode, buf *mesh.Buffers) (world.MeshHandle, error) {
	if old, ok := r.meshes[coord]; ok {
		r.fading = append(r.fading, fadingMesh{mesh: old, opacity: 1})
		delete(r.meshes, coord)
		delete(r.ages, coord)
	}
	if buf == nil || buf.Empty() {
		// Nothing to draw; hand back an inert handle so the store's
		// bookkeeping stays uniform.
		return &chunkMesh{destroyed: true}, nil
	}

	m := upload(coord, buf)
	r.meshes[coord] = m
	r.ages[coord] = 0
	return m, nil
}

// Remove implements world.MeshSink. The mesh fades out before its GPU
// objects are deleted.
func (r *Renderer) Remove(coord world.ChunkCoord) {
	if m, ok := r.meshes[coord]; ok {
		r.fading = append(r.fading, fadingMesh{mesh: m, opacity: 1})
		delete(r.meshes, coord)
		delete(r.ages, coord)
	}
}

// chunkOrigin converts a chunk coordinate to its world-space translation.
func chunkOrigin(coord world.ChunkCoord) mgl32.Vec3 {
	ox, oy, oz := coord.Origin()
	return mgl32.Vec3{float32(ox), float32(oy), float32(oz)}
}

func upload(coord world.ChunkCoord, buf *mesh.Buffers) *chunkMesh {
	m := &chunkMesh{
		indexCount: int32(len(buf.Indices)),
		groups:     buf.Groups,
		origin:     chunkOrigin(coord),
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)
	gl.GenBuffers(3, &m.vbos[0])
	gl.GenBuffers(1, &m.ebo)

	attribs := []struct {
		data []float32
		size int32
	}{
		{buf.Positions, 3},
		{buf.Normals, 3},
		{buf.UVs, 2},
	}
	for i, a := range attribs {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(a.data)*4, gl.Ptr(a.data), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), a.size, gl.FLOAT, false, 0, 0)
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(buf.Indices)*4, gl.Ptr(buf.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m
}

// BeginFrame clears the framebuffer with the sky color.
func (r *Renderer) BeginFrame(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(r.skyR, r.skyG, r.skyB, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders all chunk meshes, advancing crossfades by dt seconds.
func (r *Renderer) Draw(viewProj mgl32.Mat4, dt float32) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, &viewProj[0])

	light := mgl32.Vec3{-0.5, -1, -0.3}.Normalize()
	gl.Uniform3f(r.locLightDir, light.X(), light.Y(), light.Z())

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.atlasTex)
	gl.Uniform1i(r.locAtlas, 0)

	// Current meshes, fading in from the moment they were attached.
	for coord, m := range r.meshes {
		age := r.ages[coord] + dt
		r.ages[coord] = age
		opacity := age / fadeSeconds
		if opacity > 1 {
			opacity = 1
		}
		r.drawMesh(m, opacity)
	}

	// Replaced and removed meshes, fading out. Deletion is deferred to
	// here so a handle Release never destroys buffers mid-fade.
	if len(r.fading) > 0 {
		keep := r.fading[:0]
		for _, f := range r.fading {
			f.opacity -= dt / fadeSeconds
			if f.opacity <= 0 {
				f.mesh.destroy()
				continue
			}
			r.drawMesh(f.mesh, f.opacity)
			keep = append(keep, f)
		}
		r.fading = keep
	}
}

func (r *Renderer) drawMesh(m *chunkMesh, opacity float32) {
	if m.destroyed || m.indexCount == 0 {
		return
	}

	gl.Uniform3f(r.locOrigin, m.origin.X(), m.origin.Y(), m.origin.Z())
	gl.BindVertexArray(m.vao)

	blending := opacity < 1
	if blending {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}

	// One draw range per material group. Translucent materials blend even
	// at full mesh opacity.
	for _, g := range m.groups {
		groupBlend := g.Key.Block == block.Water
		if groupBlend && !blending {
			gl.Enable(gl.BLEND)
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		}
		gl.Uniform1f(r.locOpacity, opacity)
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(g.Count), gl.UNSIGNED_INT, uintptr(g.Start)*4)
		if groupBlend && !blending {
			gl.Disable(gl.BLEND)
		}
	}

	if blending {
		gl.Disable(gl.BLEND)
	}
	gl.BindVertexArray(0)
}

// CapturePixels reads back the current framebuffer as RGBA bytes.
func (r *Renderer) CapturePixels(width, height int) []uint8 {
	pixels := make([]uint8, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// MeshCount returns the number of chunk meshes currently resident.
func (r *Renderer) MeshCount() int {
	return len(r.meshes)
}

// Close deletes all GPU resources.
func (r *Renderer) Close() {
	for _, m := range r.meshes {
		m.destroy()
	}
	r.meshes = map[world.ChunkCoord]*chunkMesh{}
	for _, f := range r.fading {
		f.mesh.destroy()
	}
	r.fading = nil
	gl.DeleteTextures(1, &r.atlasTex)
	gl.DeleteProgram(r.program)
}
