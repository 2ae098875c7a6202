package world

import "strconv"

// BlockType is the numeric id of a block kind. Zero is air.
type BlockType uint16

const (
	BlockTypeAir BlockType = iota
	BlockTypeGrass
	BlockTypeDirt
	BlockTypeStone
	BlockTypeBedrock
)

var blockTypeNames = [...]string{"air", "grass", "dirt", "stone", "bedrock"}

func (t BlockType) String() string {
	if int(t) < len(blockTypeNames) {
		return blockTypeNames[t]
	}
	return "block#" + strconv.Itoa(int(t))
}

// Rotation is the 2-bit facing stored in a block's state.
type Rotation uint8

const (
	RotationNorth Rotation = iota
	RotationEast
	RotationSouth
	RotationWest
)

// State bit layout: bit 0 solid, bits 1-2 rotation.
const (
	stateSolidShift    = 0
	stateSolidMask     = (1 << 1) - 1
	stateRotationShift = 1
	stateRotationMask  = (1 << 2) - 1
)

// Block is a single voxel: a type id plus bit-packed state flags.
// It is a plain value and safe to copy.
type Block struct {
	Type  BlockType
	State uint32
}

// NewBlock creates a block of the given type with its state flags packed.
func NewBlock(t BlockType, solid bool, rot Rotation) Block {
	return Block{Type: t}.WithSolid(solid).WithRotation(rot)
}

// SolidBlock is shorthand for a solid, north-facing block of type t.
func SolidBlock(t BlockType) Block {
	return NewBlock(t, true, RotationNorth)
}

// IsAir reports whether the block carries no geometry.
func (b Block) IsAir() bool {
	return b.Type == BlockTypeAir
}

// IsSolid returns the solid flag.
func (b Block) IsSolid() bool {
	return (b.State>>stateSolidShift)&stateSolidMask != 0
}

// Rotation returns the packed facing.
func (b Block) Rotation() Rotation {
	return Rotation((b.State >> stateRotationShift) & stateRotationMask)
}

// WithSolid returns a copy with the solid flag set or cleared.
func (b Block) WithSolid(solid bool) Block {
	b.State &^= stateSolidMask << stateSolidShift
	if solid {
		b.State |= 1 << stateSolidShift
	}
	return b
}

// WithRotation returns a copy with the rotation bits replaced.
func (b Block) WithRotation(r Rotation) Block {
	b.State &^= stateRotationMask << stateRotationShift
	b.State |= (uint32(r) & stateRotationMask) << stateRotationShift
	return b
}
