// Package spatial implements a linear quadtree over the XZ plane. Cells are
// addressed by Morton order and materialized on first use. Every cell spans
// the full vertical range, so only X and Z decide placement.
package spatial

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/physics"
)

const (
	// MaxDepth caps the subdivision depth.
	MaxDepth = 8

	// NoCell marks an item that is not stored in any cell.
	NoCell int32 = -1

	outOfRange = ^uint32(0)
)

// Cell is one node of the tree.
type Cell[T comparable] struct {
	Bounds   physics.AABB
	Items    []T
	Parent   int32
	Children [4]int32
}

type ref struct {
	cell int32
	slot int
}

// Quadtree stores items by the smallest cell that fully contains their XZ
// footprint. Items that do not fit the root are dropped.
type Quadtree[T comparable] struct {
	depth      uint32
	levelCount [MaxDepth + 2]uint32
	slotCount  uint32
	bounds     physics.AABB
	unitW      float32
	unitD      float32
	grid       uint32

	// slots maps a Morton slot number to an index in cells, or NoCell.
	slots []int32
	cells []Cell[T]
	refs  map[T]ref
}

// New creates a tree covering bounds with the given depth, clamped to
// [0, MaxDepth]. The vertical extent of bounds is ignored.
func New[T comparable](depth uint32, bounds physics.AABB) *Quadtree[T] {
	depth = min(depth, MaxDepth)

	q := &Quadtree[T]{
		depth: depth,
		refs:  make(map[T]ref),
	}

	q.levelCount[0] = 1
	for i := 1; i < len(q.levelCount); i++ {
		q.levelCount[i] = q.levelCount[i-1] * 4
	}
	q.slotCount = (q.levelCount[depth+1] - 1) / 3

	q.bounds = bounds
	q.bounds.Min.Y = -math32.Inf(1)
	q.bounds.Max.Y = math32.Inf(1)

	q.grid = 1 << depth
	size := bounds.Size()
	q.unitW = size.X / float32(q.grid)
	q.unitD = size.Z / float32(q.grid)

	q.slots = make([]int32, q.slotCount)
	for i := range q.slots {
		q.slots[i] = NoCell
	}
	return q
}

func (q *Quadtree[T]) Depth() uint32 {
	return q.depth
}

func (q *Quadtree[T]) Bounds() physics.AABB {
	return q.bounds
}

// SlotCount is the number of addressable cells, (4^(depth+1)-1)/3.
func (q *Quadtree[T]) SlotCount() uint32 {
	return q.slotCount
}

// Len returns the number of stored items.
func (q *Quadtree[T]) Len() int {
	return len(q.refs)
}

// SpreadBits interleaves the low 16 bits of n with zeros.
func SpreadBits(n uint32) uint32 {
	n &= 0x0000ffff
	n = (n | (n << 8)) & 0x00ff00ff
	n = (n | (n << 4)) & 0x0f0f0f0f
	n = (n | (n << 2)) & 0x33333333
	n = (n | (n << 1)) & 0x55555555
	return n
}

// Morton2D returns the Morton code of grid coordinates x and z. x occupies
// the even bits.
func Morton2D(x, z uint32) uint32 {
	return SpreadBits(x) | SpreadBits(z)<<1
}

// gridCoord maps a world coordinate onto the finest grid. ok is false when
// the coordinate falls outside the tree.
func (q *Quadtree[T]) gridCoord(v, lo, unit float32) (uint32, bool) {
	if unit <= 0 {
		return 0, false
	}
	g := (v - lo) / unit
	if g != g || g < 0 || g > float32(q.grid) {
		return 0, false
	}
	// The far edge belongs to the last column.
	return min(uint32(g), q.grid-1), true
}

func (q *Quadtree[T]) pointCode(p rl.Vector3) (uint32, bool) {
	x, ok := q.gridCoord(p.X, q.bounds.Min.X, q.unitW)
	if !ok {
		return 0, false
	}
	z, ok := q.gridCoord(p.Z, q.bounds.Min.Z, q.unitD)
	if !ok {
		return 0, false
	}
	return Morton2D(x, z), true
}

// SlotFor returns the Morton slot of the smallest cell that fully contains
// the XZ footprint of b. ok is false when b does not fit in the tree.
func (q *Quadtree[T]) SlotFor(b physics.AABB) (uint32, bool) {
	slot := q.slotFor(b)
	return slot, slot != outOfRange
}

func (q *Quadtree[T]) slotFor(b physics.AABB) uint32 {
	lt, ok := q.pointCode(b.Min)
	if !ok {
		return outOfRange
	}
	rb, ok := q.pointCode(b.Max)
	if !ok {
		return outOfRange
	}

	// The highest differing bit pair gives how many levels up the shared
	// ancestor sits.
	def := rb ^ lt
	var hiLevel uint32
	for i := uint32(0); i < q.depth; i++ {
		if (def>>(i*2))&0x3 != 0 {
			hiLevel = i + 1
		}
	}

	level := q.depth - hiLevel
	slot := (rb >> (hiLevel * 2)) + (q.levelCount[level]-1)/3
	if slot >= q.slotCount {
		return outOfRange
	}
	return slot
}

// materialize creates the cell for slot and all of its ancestors.
func (q *Quadtree[T]) materialize(slot uint32) int32 {
	if idx := q.slots[slot]; idx != NoCell {
		return idx
	}

	cell := Cell[T]{
		Parent:   NoCell,
		Children: [4]int32{NoCell, NoCell, NoCell, NoCell},
	}

	if slot == 0 {
		cell.Bounds = q.bounds
	} else {
		parentSlot := (slot - 1) >> 2
		quadrant := (slot - 1) & 0x3
		parent := q.materialize(parentSlot)

		pb := q.cells[parent].Bounds
		half := rl.Vector3{
			X: (pb.Max.X - pb.Min.X) / 4,
			Z: (pb.Max.Z - pb.Min.Z) / 4,
		}
		center := rl.Vector3{
			X: (pb.Min.X + pb.Max.X) / 2,
			Z: (pb.Min.Z + pb.Max.Z) / 2,
		}
		if quadrant&0x1 == 0 {
			center.X -= half.X
		} else {
			center.X += half.X
		}
		if quadrant&0x2 == 0 {
			center.Z -= half.Z
		} else {
			center.Z += half.Z
		}

		cell.Bounds = physics.AABB{
			Min: rl.Vector3{X: center.X - half.X, Y: -math32.Inf(1), Z: center.Z - half.Z},
			Max: rl.Vector3{X: center.X + half.X, Y: math32.Inf(1), Z: center.Z + half.Z},
		}
		cell.Parent = parent
	}

	idx := int32(len(q.cells))
	q.cells = append(q.cells, cell)
	q.slots[slot] = idx
	if cell.Parent != NoCell {
		q.cells[cell.Parent].Children[(slot-1)&0x3] = idx
	}
	return idx
}

// Insert stores item in the cell for b, replacing any previous placement.
// It returns the cell index, or NoCell when the item was dropped.
func (q *Quadtree[T]) Insert(item T, b physics.AABB) int32 {
	q.Remove(item)

	slot := q.slotFor(b)
	if slot == outOfRange {
		return NoCell
	}

	idx := q.materialize(slot)
	cell := &q.cells[idx]
	q.refs[item] = ref{cell: idx, slot: len(cell.Items)}
	cell.Items = append(cell.Items, item)
	return idx
}

// Remove takes item out of its cell in constant time by swapping the last
// item of the cell into its place.
func (q *Quadtree[T]) Remove(item T) bool {
	r, ok := q.refs[item]
	if !ok {
		return false
	}
	delete(q.refs, item)

	cell := &q.cells[r.cell]
	last := len(cell.Items) - 1
	if r.slot != last {
		moved := cell.Items[last]
		cell.Items[r.slot] = moved
		q.refs[moved] = ref{cell: r.cell, slot: r.slot}
	}
	var zero T
	cell.Items[last] = zero
	cell.Items = cell.Items[:last]
	return true
}

// Update moves item to the cell for its new bounds.
func (q *Quadtree[T]) Update(item T, b physics.AABB) int32 {
	return q.Insert(item, b)
}

// CellOf returns the cell index holding item, or NoCell.
func (q *Quadtree[T]) CellOf(item T) int32 {
	if r, ok := q.refs[item]; ok {
		return r.cell
	}
	return NoCell
}

// Cell returns the cell at index idx.
func (q *Quadtree[T]) Cell(idx int32) *Cell[T] {
	return &q.cells[idx]
}

// Query appends to dst every item stored in a cell whose bounds intersect b,
// walking down from the root. Items in the root cell are always included.
// The result is a candidate superset; callers run exact tests.
func (q *Quadtree[T]) Query(b physics.AABB, dst []T) []T {
	if len(q.cells) == 0 || q.slots[0] == NoCell {
		return dst
	}
	return q.query(q.slots[0], b, dst)
}

func (q *Quadtree[T]) query(idx int32, b physics.AABB, dst []T) []T {
	cell := &q.cells[idx]
	dst = append(dst, cell.Items...)
	for _, child := range cell.Children {
		if child == NoCell {
			continue
		}
		if q.cells[child].Bounds.IntersectsXZ(b) {
			dst = q.query(child, b, dst)
		}
	}
	return dst
}

// ForEachCell calls fn for every materialized cell in creation order.
func (q *Quadtree[T]) ForEachCell(fn func(idx int32, c *Cell[T])) {
	for i := range q.cells {
		fn(int32(i), &q.cells[i])
	}
}

// Clear drops every item and cell.
func (q *Quadtree[T]) Clear() {
	q.cells = q.cells[:0]
	for i := range q.slots {
		q.slots[i] = NoCell
	}
	clear(q.refs)
}
