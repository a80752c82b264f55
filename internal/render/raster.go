// Package render turns paints into canvas pixels and drives a full redraw of
// the annotated canvas.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/shotmark/internal/geom"
)

// path is a set of closed polygons filled together. Polygons added with add
// are unioned, polygons added with hole are cut out of them.
type path struct {
	polys [][]geom.Point
}

func (p *path) add(pts ...geom.Point) {
	if len(pts) < 3 {
		return
	}
	if signedArea(pts) < 0 {
		pts = reversed(pts)
	}
	p.polys = append(p.polys, pts)
}

func (p *path) hole(pts ...geom.Point) {
	if len(pts) < 3 {
		return
	}
	if signedArea(pts) > 0 {
		pts = reversed(pts)
	}
	p.polys = append(p.polys, pts)
}

func (p *path) bounds() image.Rectangle {
	if len(p.polys) == 0 {
		return image.Rectangle{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range p.polys {
		for _, q := range poly {
			minX = math.Min(minX, q.X)
			minY = math.Min(minY, q.Y)
			maxX = math.Max(maxX, q.X)
			maxY = math.Max(maxY, q.Y)
		}
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// fill rasterizes p over dst with col. Only the part of dst covered by the
// path's bounding box is touched.
func (p *path) fill(dst *image.RGBA, col color.Color) {
	r := p.bounds().Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Over
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	for _, poly := range p.polys {
		z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, q := range poly[1:] {
			z.LineTo(float32(q.X-ox), float32(q.Y-oy))
		}
		z.ClosePath()
	}
	z.Draw(dst, r, image.NewUniform(col), image.Point{})
}

func signedArea(pts []geom.Point) float64 {
	var a float64
	for i, q := range pts {
		n := pts[(i+1)%len(pts)]
		a += q.X*n.Y - n.X*q.Y
	}
	return a / 2
}

func reversed(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, q := range pts {
		out[len(pts)-1-i] = q
	}
	return out
}

// normal returns the unit vector perpendicular to b-a, or false when the
// points coincide.
func normal(a, b geom.Point) (geom.Point, bool) {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return geom.Point{}, false
	}
	return geom.Pt(-d.Y/l, d.X/l), true
}

// segment adds a butt-capped stroke of width w from a to b.
func (p *path) segment(a, b geom.Point, w float64) {
	n, ok := normal(a, b)
	if !ok {
		return
	}
	h := n.Mul(w / 2)
	p.add(a.Add(h), b.Add(h), b.Sub(h), a.Sub(h))
}

// polyline strokes pts with width w and bevel joins.
func (p *path) polyline(pts []geom.Point, w float64) {
	pts = dedupe(pts)
	for i := 0; i+1 < len(pts); i++ {
		p.segment(pts[i], pts[i+1], w)
	}
	for i := 1; i+1 < len(pts); i++ {
		n1, ok1 := normal(pts[i-1], pts[i])
		n2, ok2 := normal(pts[i], pts[i+1])
		if !ok1 || !ok2 {
			continue
		}
		v := pts[i]
		p.add(v, v.Add(n1.Mul(w/2)), v.Add(n2.Mul(w/2)))
		p.add(v, v.Sub(n1.Mul(w/2)), v.Sub(n2.Mul(w/2)))
	}
}

func dedupe(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for i, q := range pts {
		if i > 0 && q == out[len(out)-1] {
			continue
		}
		out = append(out, q)
	}
	return out
}

// ellipse returns a polygon approximating the ellipse centred at c with the
// given radii.
func ellipse(c geom.Point, rx, ry float64) []geom.Point {
	n := ellipseSteps(rx, ry)
	pts := make([]geom.Point, n)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Pt(c.X+rx*math.Cos(t), c.Y+ry*math.Sin(t))
	}
	return pts
}

// ellipseOffset returns the curve at distance d from the ellipse along its
// normals. Negative d offsets inwards.
func ellipseOffset(c geom.Point, rx, ry, d float64) []geom.Point {
	n := ellipseSteps(rx+math.Abs(d), ry+math.Abs(d))
	pts := make([]geom.Point, n)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / float64(n)
		cos, sin := math.Cos(t), math.Sin(t)
		nx, ny := ry*cos, rx*sin
		l := math.Hypot(nx, ny)
		if l > 0 {
			nx, ny = nx/l, ny/l
		}
		pts[i] = geom.Pt(c.X+rx*cos+nx*d, c.Y+ry*sin+ny*d)
	}
	return pts
}

func ellipseSteps(rx, ry float64) int {
	// Ramanujan's perimeter approximation, one vertex per two pixels.
	h := math.Pow(rx-ry, 2) / math.Max(math.Pow(rx+ry, 2), 1e-9)
	per := math.Pi * (rx + ry) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
	return min(max(int(per/2), 24), 1440)
}
