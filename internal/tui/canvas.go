package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type cell struct {
	r     rune // 0 marks the second column of a wide rune
	style tcell.Style
}

// canvas is an off-screen grid of cells. A frame is composed here and then
// flushed to the terminal in one pass.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{}
	c.resize(w, h)
	return c
}

func (c *canvas) resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w == c.w && h == c.h {
		return
	}
	c.w, c.h = w, h
	c.cells = make([]cell, w*h)
	c.clear()
}

func (c *canvas) clear() {
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', style: tcell.StyleDefault}
	}
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

func (c *canvas) set(x, y int, r rune, style tcell.Style) {
	if !c.inside(x, y) {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, style: style}
}

func (c *canvas) at(x, y int) cell {
	if !c.inside(x, y) {
		return cell{}
	}
	return c.cells[y*c.w+x]
}

// text writes s starting at (x, y), stopping at the right edge. A wide rune
// that would not fit is dropped. It returns the column after the last rune
// written.
func (c *canvas) text(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > c.w {
			break
		}
		c.set(x, y, r, style)
		if rw == 2 {
			c.set(x+1, y, 0, style)
		}
		x += rw
	}
	return x
}

func (c *canvas) flush(scr tcell.Screen) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.r == 0 {
				continue
			}
			scr.SetContent(x, y, cl.r, nil, cl.style)
		}
	}
}
