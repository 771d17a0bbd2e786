package internal

// Abs returns the absolute value of n.
func Abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Index maps (x, y) to a row-major offset in a grid of the given width.
func Index(x, y, width int) int {
	return y*width + x
}
