package outline

// colorCursor is the running palette position while parsing. It is a value:
// advance returns the next cursor instead of mutating shared state.
type colorCursor struct {
	palette  []string
	branches int
}

func newColorCursor(palette []string) colorCursor {
	return colorCursor{palette: palette}
}

// advance moves to the color of the next top-level branch.
func (c colorCursor) advance() colorCursor {
	c.branches++
	return c
}

// current returns palette[(branches-1) mod len(palette)], with the root
// (branches == 0) using the first entry.
func (c colorCursor) current() string {
	if len(c.palette) == 0 {
		return ""
	}
	i := c.branches - 1
	if i < 0 {
		i = 0
	}
	return c.palette[i%len(c.palette)]
}

// BranchColor returns the color assigned to the i-th top-level branch,
// counting from 1.
func BranchColor(palette []string, i int) string {
	c := newColorCursor(palette)
	for ; i > 0; i-- {
		c = c.advance()
	}
	return c.current()
}
