package domain

// NextInRotation picks the element at cursor and returns it together with
// the advanced cursor. ok is false when seq is empty; the cursor is then
// returned unchanged. A cursor outside the sequence is clamped first.
func NextInRotation(seq []int64, cursor int) (selected int64, next int, ok bool) {
	if len(seq) == 0 {
		return 0, cursor, false
	}
	cursor = ClampIndex(cursor, len(seq))
	return seq[cursor], (cursor + 1) % len(seq), true
}
