// Package block defines the block-type codes used by the voxel world and
// the texture-atlas policy table that maps a block face to an atlas tile.
package block

// Type is a small integer block-type code stored per voxel cell.
type Type uint8

// Block type codes. Air is always zero so a freshly allocated grid is empty.
const (
	Air Type = iota
	Grass
	Dirt
	Stone
	Sand
	Wood
	Leaves
	Water
	Brick

	typeCount
)

// Count returns the number of defined block types, including Air.
func Count() int { return int(typeCount) }

var names = [typeCount]string{
	Air:    "air",
	Grass:  "grass",
	Dirt:   "dirt",
	Stone:  "stone",
	Sand:   "sand",
	Wood:   "wood",
	Leaves: "leaves",
	Water:  "water",
	Brick:  "brick",
}

// Name returns a human-readable name for the block type.
func (t Type) Name() string {
	if int(t) >= len(names) {
		return "unknown"
	}
	return names[t]
}

// IsAir reports whether the type is the empty cell value.
func (t Type) IsAir() bool { return t == Air }

// IsSolid reports whether the type occludes neighboring faces.
// Air is the only non-solid type; translucent blocks such as water still
// occlude for meshing purposes to keep face visibility a pure two-state test.
func (t Type) IsSolid() bool { return t != Air }
