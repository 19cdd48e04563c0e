package render

import (
	"fmt"
	"scene3d/internal/camera"
	"scene3d/internal/engine"
	"scene3d/internal/terrain"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorPanel      = rl.NewColor(24, 24, 32, 220)
	colorText       = rl.NewColor(230, 230, 240, 255)
	colorTextMuted  = rl.NewColor(150, 150, 170, 255)
	colorBgElement  = rl.NewColor(40, 40, 55, 255)
	colorAccent     = rl.NewColor(99, 102, 241, 255)
	colorBorderNorm = rl.NewColor(50, 50, 65, 255)
)

// Overlay is the F1 debug panel: frame stats, player pose and a few live
// tweaks for the renderer and the controller.
type Overlay struct {
	Visible bool
}

func applyOverlayStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(colorBorderNorm))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorText))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

// Draw renders the panel in screen space. ctrl and hf may be nil.
func (o *Overlay) Draw(frame engine.RenderFrame, r *Renderer, ctrl *camera.FPSController, hf *terrain.Heightfield) {
	rl.DrawFPS(10, 10)
	if !o.Visible {
		return
	}

	const x, w = 10, 260
	y := int32(36)
	rl.DrawRectangle(x, y, w, 220, colorPanel)
	y += 8

	line := func(text string, c rl.Color) {
		rl.DrawText(text, x+10, y, 15, c)
		y += 20
	}

	cam := frame.Camera
	line(fmt.Sprintf("frame %d  entities %d  draws %d", frame.Frame, frame.Entities, len(frame.Items)), colorText)
	line(fmt.Sprintf("pos %.1f %.1f %.1f", cam.Position.X(), cam.Position.Y(), cam.Position.Z()), colorText)
	if ctrl != nil {
		line(fmt.Sprintf("yaw %.1f  pitch %.1f", ctrl.Yaw, ctrl.Pitch), colorTextMuted)
	}
	if hf != nil {
		line(fmt.Sprintf("ground %.2f", hf.HeightAt(cam.Position.X(), cam.Position.Z())), colorTextMuted)
	}
	rl.DrawRectangle(x+w-26, y+2, 12, 12, toColor(frame.Light.Color))
	line(fmt.Sprintf("light %.1f %.1f %.1f", frame.Light.Position.X(), frame.Light.Position.Y(), frame.Light.Position.Z()), colorTextMuted)

	y += 4
	r.Wireframe = gui.CheckBox(rl.Rectangle{X: x + 10, Y: float32(y), Width: 16, Height: 16}, "Wireframe", r.Wireframe)
	y += 28

	if ctrl == nil {
		return
	}
	rl.DrawText("Speed", x+10, y+2, 15, colorTextMuted)
	ctrl.MoveSpeed = gui.Slider(rl.Rectangle{X: x + 90, Y: float32(y), Width: 120, Height: 18}, "", fmt.Sprintf("%.1f", ctrl.MoveSpeed), ctrl.MoveSpeed, 1, 40)
	y += 26
	rl.DrawText("Look", x+10, y+2, 15, colorTextMuted)
	ctrl.LookSpeed = gui.Slider(rl.Rectangle{X: x + 90, Y: float32(y), Width: 120, Height: 18}, "", fmt.Sprintf("%.2f", ctrl.LookSpeed), ctrl.LookSpeed, 0.01, 0.5)
}
