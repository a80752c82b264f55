package render

import (
	"image"
	"math"

	"github.com/example/shotmark/internal/geom"
	"github.com/example/shotmark/internal/paint"
)

// Arrow head geometry: the base vertices sit at arrowAngleA and arrowAngleB
// on a circle of arrowRadius around the tip, scaled by width/4.
const (
	arrowRadius = 20
	arrowAngleA = 5 * math.Pi / 6
	arrowAngleB = 7 * math.Pi / 6
	arrowEps    = 1e-9
)

// ArrowGeometry returns the end of the shaft and the head triangle (tip
// first) of an arrow from from to to. ok is false when the points coincide.
func ArrowGeometry(from, to geom.Point, width float64) (shaftEnd geom.Point, head [3]geom.Point, ok bool) {
	d := to.Sub(from)
	ftn := d.Len()
	if ftn < arrowEps {
		return geom.Point{}, head, false
	}
	theta := math.Atan2(d.Y, d.X)
	sf := width / 4
	xa, ya := arrowRadius*math.Cos(arrowAngleA), arrowRadius*math.Sin(arrowAngleA)
	xb, yb := arrowRadius*math.Cos(arrowAngleB), arrowRadius*math.Sin(arrowAngleB)

	xc := math.Max(ftn-math.Abs(xa)*sf, 0)
	cos, sin := math.Cos(theta), math.Sin(theta)
	shaftEnd = from.Add(geom.Pt(cos*xc, sin*xc))

	rot := func(x, y float64) geom.Point {
		return to.Add(geom.Pt(x*cos-y*sin, x*sin+y*cos))
	}
	head = [3]geom.Point{to, rot(xa*sf, ya*sf), rot(xb*sf, yb*sf)}
	return shaftEnd, head, true
}

// shapeBox returns the corners of s, expanded around From when the shape is
// drawn from its centre.
func shapeBox(s *paint.Shape) (geom.Point, geom.Point) {
	if !s.FromCenter {
		return s.From, s.To
	}
	d := s.To.Sub(s.From)
	h := geom.Pt(math.Abs(d.X), math.Abs(d.Y))
	return s.From.Sub(h), s.From.Add(h)
}

// DrawShape renders a rectangle, ellipse, arrow or line.
func DrawShape(dst *image.RGBA, s *paint.Shape) {
	var p path
	switch s.Type {
	case paint.KindRectangle:
		rectanglePath(&p, s)
	case paint.KindEllipse:
		ellipsePath(&p, s)
	case paint.KindArrow:
		end, head, ok := ArrowGeometry(s.From, s.To, s.Width)
		if !ok {
			return
		}
		p.segment(s.From, end, s.Width)
		p.add(head[:]...)
	case paint.KindLine:
		p.segment(s.From, s.To, s.Width)
	default:
		return
	}
	p.fill(dst, s.Color)
}

func rectanglePath(p *path, s *paint.Shape) {
	a, b := shapeBox(s)
	x0, y0 := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	x1, y1 := math.Max(a.X, b.X), math.Max(a.Y, b.Y)
	if s.Fill {
		p.add(geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1))
		return
	}
	h := s.Width / 2
	p.add(geom.Pt(x0-h, y0-h), geom.Pt(x1+h, y0-h), geom.Pt(x1+h, y1+h), geom.Pt(x0-h, y1+h))
	if x1-x0 > s.Width && y1-y0 > s.Width {
		p.hole(geom.Pt(x0+h, y0+h), geom.Pt(x1-h, y0+h), geom.Pt(x1-h, y1-h), geom.Pt(x0+h, y1-h))
	}
}

// ellipsePath draws the circle of radius n/2, n being the diagonal, in a
// space scaled by (dx/n, dy/n). That is the ellipse inscribed in the box.
func ellipsePath(p *path, s *paint.Shape) {
	a, b := shapeBox(s)
	d := b.Sub(a)
	n := d.Len()
	if n == 0 {
		return
	}
	c := a.Add(d.Mul(0.5))
	rx := math.Abs(n / 2 * d.X / n)
	ry := math.Abs(n / 2 * d.Y / n)
	if s.Fill {
		p.add(ellipse(c, rx, ry)...)
		return
	}
	h := s.Width / 2
	p.add(ellipseOffset(c, rx, ry, h)...)
	lo, hi := math.Min(rx, ry), math.Max(rx, ry)
	switch {
	case lo <= h:
	case h < lo*lo/hi:
		// The inner offset curve only stays simple while the stroke is
		// thinner than the tightest radius of curvature.
		p.hole(ellipseOffset(c, rx, ry, -h)...)
	default:
		p.hole(ellipse(c, rx-h, ry-h)...)
	}
}

// DrawBrush renders a freehand stroke. A single point is drawn as a
// width-sized square with the point at its top-left corner.
func DrawBrush(dst *image.RGBA, b *paint.Brush) {
	var p path
	pts := dedupe(b.Points)
	switch len(pts) {
	case 0:
		return
	case 1:
		q := pts[0]
		p.add(q, geom.Pt(q.X+b.Width, q.Y), geom.Pt(q.X+b.Width, q.Y+b.Width), geom.Pt(q.X, q.Y+b.Width))
	default:
		p.polyline(pts, b.Width)
	}
	p.fill(dst, b.Color)
}
