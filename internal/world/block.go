package world

// BlockType enumerates known world block categories.
type BlockType string

const (
	BlockAir     BlockType = "air"
	BlockSolid   BlockType = "solid"
	BlockFoliage BlockType = "foliage"
	BlockLiquid  BlockType = "liquid"
	BlockDoor    BlockType = "door"
)

const (
	MaterialGrass = "grass"
	MaterialDirt  = "dirt"
	MaterialStone = "stone"
	MaterialWood  = "wood"
	MaterialWater = "water"
)

type Block struct {
	Type     BlockType
	Material string
	// Open only applies to doors.
	Open bool
}

var (
	Air   = Block{Type: BlockAir}
	Stone = Block{Type: BlockSolid, Material: MaterialStone}
)

// Door returns a wooden door block in the given state.
func Door(open bool) Block {
	return Block{Type: BlockDoor, Material: MaterialWood, Open: open}
}

func blockIsAir(block Block) bool {
	return block.Type == "" || block.Type == BlockAir
}

// Solid reports whether an entity can stand on top of the block.
func (b Block) Solid() bool {
	return b.Type == BlockSolid
}

// Transparent reports whether movement and sight pass through the block.
// Closed doors are opaque, open doors are not.
func (b Block) Transparent() bool {
	switch b.Type {
	case "", BlockAir, BlockFoliage, BlockLiquid:
		return true
	case BlockDoor:
		return b.Open
	default:
		return false
	}
}

// IsDoor reports whether the block is an opening that can change state.
func (b Block) IsDoor() bool {
	return b.Type == BlockDoor
}
