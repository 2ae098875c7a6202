package world

// BlockPositionRange iterates every position of the box spanned by Start and
// End (both inclusive). X varies fastest, then Y, then Z, matching the chunk
// linear index order. Either corner may be the larger one on any axis.
type BlockPositionRange struct {
	Start, End BlockPosition

	current BlockPosition
	step    BlockPosition
	done    bool
	started bool
}

// NewBlockPositionRange creates a range over the box between two corners.
func NewBlockPositionRange(start, end BlockPosition) *BlockPositionRange {
	return &BlockPositionRange{
		Start:   start,
		End:     end,
		current: start,
		step:    BlockPosition{X: sign(end.X - start.X), Y: sign(end.Y - start.Y), Z: sign(end.Z - start.Z)},
	}
}

// Len returns the number of positions in the box.
func (r *BlockPositionRange) Len() int {
	return int(abs32(r.End.X-r.Start.X)+1) * int(abs32(r.End.Y-r.Start.Y)+1) * int(abs32(r.End.Z-r.Start.Z)+1)
}

// Next returns the next position, or false once the box is exhausted.
func (r *BlockPositionRange) Next() (BlockPosition, bool) {
	if r.done {
		return BlockPosition{}, false
	}
	if !r.started {
		r.started = true
		return r.current, true
	}

	switch {
	case r.current.X != r.End.X:
		r.current.X += r.step.X
	case r.current.Y != r.End.Y:
		r.current.X = r.Start.X
		r.current.Y += r.step.Y
	case r.current.Z != r.End.Z:
		r.current.X = r.Start.X
		r.current.Y = r.Start.Y
		r.current.Z += r.step.Z
	default:
		r.done = true
		return BlockPosition{}, false
	}
	return r.current, true
}

// All collects the remaining positions.
func (r *BlockPositionRange) All() []BlockPosition {
	out := make([]BlockPosition, 0, r.Len())
	for p, ok := r.Next(); ok; p, ok = r.Next() {
		out = append(out, p)
	}
	return out
}

func sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
