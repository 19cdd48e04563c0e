package tui

import (
	"math"
	"scene3d/internal/engine"
	"scene3d/internal/terrain"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	minScale = 0.25
	maxScale = 4
)

// Height ramp from lowest to highest ground.
var shades = []rune(" .:-=+*#%@")

// Heading glyphs for the eight compass sectors, starting at screen-up (-Z)
// and turning clockwise.
var headings = []rune("↑↗→↘↓↙←↖")

var (
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleHint   = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLight  = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
)

// mapView is a top-down projection of the XZ plane onto the canvas, centred
// on the camera. One column covers scale world units, one row covers twice
// that since terminal cells are about twice as tall as wide. Screen-up is -Z.
type mapView struct {
	center mgl32.Vec3
	scale  float32
	w, h   int
}

func (v mapView) toCell(p mgl32.Vec3) (int, int) {
	x := (p.X()-v.center.X())/v.scale + float32(v.w/2)
	y := (p.Z()-v.center.Z())/(2*v.scale) + float32(v.h/2)
	return int(math.Floor(float64(x))), int(math.Floor(float64(y)))
}

func (v mapView) toWorld(x, y int) (float32, float32) {
	wx := v.center.X() + (float32(x-v.w/2)+0.5)*v.scale
	wz := v.center.Z() + (float32(y-v.h/2)+0.5)*2*v.scale
	return wx, wz
}

// heading picks the arrow for a viewing direction projected onto XZ.
func heading(forward mgl32.Vec3) rune {
	// Angle clockwise from -Z as seen from above.
	a := math.Atan2(float64(forward.X()), float64(-forward.Z()))
	sector := int(math.Round(a/(math.Pi/4))) % 8
	if sector < 0 {
		sector += 8
	}
	return headings[sector]
}

// terrainShade maps a height within [lo, hi] to a glyph and a colour going
// from green lowland through brown to white peaks.
func terrainShade(h, lo, hi float32) (rune, tcell.Style) {
	t := float32(0)
	if hi > lo {
		t = mgl32.Clamp((h-lo)/(hi-lo), 0, 1)
	}
	r := shades[int(t*float32(len(shades)-1)+0.5)]

	var red, green, blue float32
	switch {
	case t < 0.5:
		k := t / 0.5
		red, green, blue = 40+k*100, 120-k*20, 40
	default:
		k := (t - 0.5) / 0.5
		red, green, blue = 140+k*100, 100+k*140, 40+k*200
	}
	style := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(red), int32(green), int32(blue))).
		Background(tcell.ColorBlack)
	return r, style
}

func itemStyle(c mgl32.Vec3) tcell.Style {
	ch := func(v float32) int32 {
		return int32(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(ch(c.X()), ch(c.Y()), ch(c.Z()))).Bold(true)
}

// drawMap composes the terrain, the scene objects, the light and the player
// marker for one frame.
func drawMap(cv *canvas, frame engine.RenderFrame, hf *terrain.Heightfield, lo, hi, scale float32) {
	v := mapView{center: frame.Camera.Position, scale: scale, w: cv.w, h: cv.h}

	if hf != nil {
		maxX, maxZ := float32(hf.Width-1), float32(hf.Height-1)
		for y := 0; y < cv.h; y++ {
			for x := 0; x < cv.w; x++ {
				wx, wz := v.toWorld(x, y)
				if wx < 0 || wz < 0 || wx >= maxX || wz >= maxZ {
					continue
				}
				r, st := terrainShade(hf.HeightAt(wx, wz), lo, hi)
				cv.set(x, y, r, st)
			}
		}
	}

	for _, item := range frame.Items {
		if hf != nil && item.Mesh.Mesh() == hf.Mesh {
			continue
		}
		x, y := v.toCell(engine.TranslationOf(item.World))
		cv.set(x, y, '■', itemStyle(item.Color))
	}

	lx, ly := v.toCell(frame.Light.Position)
	cv.set(lx, ly, '☼', styleLight)

	px, py := v.toCell(frame.Camera.Position)
	cv.set(px, py, heading(frame.Camera.Forward()), stylePlayer)
}
