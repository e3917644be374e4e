package wfc

// Grid is a fixed-size, row-major 2D array. Index = y*Width + x.
type Grid[T any] struct {
	Width, Height int
	Data          []T
}

// NewGrid allocates a Width x Height grid with every cell set to init.
func NewGrid[T any](width, height int, init T) Grid[T] {
	data := make([]T, width*height)
	for i := range data {
		data[i] = init
	}
	return Grid[T]{Width: width, Height: height, Data: data}
}

// InBounds reports whether pos lies within the grid.
func (g *Grid[T]) InBounds(pos Vector2) bool {
	return pos.X >= 0 && pos.X < g.Width && pos.Y >= 0 && pos.Y < g.Height
}

// Idx converts a coordinate to its row-major index. ok is false if pos is
// out of bounds.
func (g *Grid[T]) Idx(pos Vector2) (idx int, ok bool) {
	if !g.InBounds(pos) {
		return 0, false
	}
	return pos.Y*g.Width + pos.X, true
}

// ToCoord converts a row-major index back to a coordinate. ok is false if
// idx does not address a cell in the grid.
func (g *Grid[T]) ToCoord(idx int) (pos Vector2, ok bool) {
	if idx < 0 || idx >= len(g.Data) {
		return Vector2{}, false
	}
	return Vector2{X: idx % g.Width, Y: idx / g.Width}, true
}

// Get returns the element at pos and whether pos was in bounds.
func (g *Grid[T]) Get(pos Vector2) (T, bool) {
	idx, ok := g.Idx(pos)
	if !ok {
		var zero T
		return zero, false
	}
	return g.Data[idx], true
}

// At returns a pointer to the element at pos, or nil if out of bounds.
func (g *Grid[T]) At(pos Vector2) *T {
	idx, ok := g.Idx(pos)
	if !ok {
		return nil
	}
	return &g.Data[idx]
}

// Set overwrites the element at pos. It is a no-op if pos is out of bounds.
func (g *Grid[T]) Set(pos Vector2, item T) {
	if idx, ok := g.Idx(pos); ok {
		g.Data[idx] = item
	}
}

// Size returns the total number of cells.
func (g *Grid[T]) Size() int {
	return g.Width * g.Height
}

// deepCloner is implemented by element types that own slice-typed fields
// whose backing arrays CloneRange must duplicate rather than alias.
type deepCloner[T any] interface {
	cloneDeep() T
}

// CloneRange extracts an independent width x height subrectangle starting
// at origin, in row-major order relative to the new grid. If T implements
// deepCloner, each element is deep-copied through it; otherwise a plain
// struct copy (via Get) is independent on its own, since T has no
// slice-typed fields to alias.
func (g *Grid[T]) CloneRange(origin Vector2, width, height int) Grid[T] {
	out := make([]T, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v, _ := g.Get(Vector2{X: origin.X + x, Y: origin.Y + y})
			if dc, ok := any(v).(deepCloner[T]); ok {
				v = dc.cloneDeep()
			}
			out = append(out, v)
		}
	}
	return Grid[T]{Width: width, Height: height, Data: out}
}

// Enumerate calls fn for every cell with its coordinate, in row-major order.
func (g *Grid[T]) Enumerate(fn func(pos Vector2, item *T)) {
	for idx := range g.Data {
		pos, _ := g.ToCoord(idx)
		fn(pos, &g.Data[idx])
	}
}
