// Package debugviz renders a top-down PNG of a scene, its source and mic
// positions, for use while developing or debugging a configuration — not
// part of the render pipeline itself. Grounded on the teacher's
// room.View.PlotArrivals3D (room/view.go): a fogleman/gg canvas, a
// scale/translate computed from the scene's bounding box, wireframe edges
// drawn with DrawLine/Stroke, source and mic drawn as circles.
package debugviz

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/mbund/rir/internal/scene"
	"github.com/mbund/rir/internal/vec"
)

const (
	margin        = 20.0
	pointRadius   = 4.0
	edgeLineWidth = 1.5
)

// Render draws a top-down (XY-plane) wireframe of sc's triangles plus
// filled circles for source and mic, scaled to fit a width x height canvas.
func Render(sc *scene.Scene, source, mic vec.Vec3, width, height int) image.Image {
	return build(sc, source, mic, width, height).Image()
}

// WritePNG renders and saves the scene view to path.
func WritePNG(path string, sc *scene.Scene, source, mic vec.Vec3, width, height int) error {
	return build(sc, source, mic, width, height).SavePNG(path)
}

func build(sc *scene.Scene, source, mic vec.Vec3, width, height int) *gg.Context {
	minX, minY, maxX, maxY := bounds(sc, source, mic)
	scaleX, scaleY := 1.0, 1.0
	if dx := maxX - minX; dx > 0 {
		scaleX = (float64(width) - 2*margin) / dx
	}
	if dy := maxY - minY; dy > 0 {
		scaleY = (float64(height) - 2*margin) / dy
	}
	s := scaleX
	if scaleY < s {
		s = scaleY
	}

	project := func(v vec.Vec3) (float64, float64) {
		return margin + (v.X-minX)*s, margin + (v.Y-minY)*s
	}

	c := gg.NewContext(width, height)
	c.SetRGB(1, 1, 1)
	c.Clear()
	c.SetRGB(0, 0, 0)
	c.SetLineWidth(edgeLineWidth)

	for i := range sc.Triangles {
		tri := sc.Geometry(i)
		x0, y0 := project(tri.V0)
		x1, y1 := project(tri.V1)
		x2, y2 := project(tri.V2)
		c.DrawLine(x0, y0, x1, y1)
		c.DrawLine(x1, y1, x2, y2)
		c.DrawLine(x2, y2, x0, y0)
	}
	c.Stroke()

	c.SetRGB(0, 0.6, 0)
	sx, sy := project(source)
	c.DrawCircle(sx, sy, pointRadius)
	c.Fill()

	c.SetRGB(0.8, 0, 0)
	mx, my := project(mic)
	c.DrawCircle(mx, my, pointRadius)
	c.Fill()

	return c
}

func bounds(sc *scene.Scene, source, mic vec.Vec3) (minX, minY, maxX, maxY float64) {
	minX, minY = source.X, source.Y
	maxX, maxY = source.X, source.Y
	extend := func(v vec.Vec3) {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	extend(mic)
	for _, v := range sc.Vertices {
		extend(v)
	}
	return minX, minY, maxX, maxY
}
