package geo

import (
	"math"

	"github.com/shenikar/safety_coordination_system/internal/models"
)

// edgeToleranceDegrees - точка ближе этого к ребру считается лежащей на границе (~1 см)
const edgeToleranceDegrees = 1e-7

type vertex struct{ x, y float64 }

// normalizePolygon сдвигает отрицательные долготы на +360, если полигон пересекает антимеридиан
func normalizePolygon(poly []models.Point, p models.Point) ([]vertex, vertex) {
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	for _, v := range poly {
		minLon = math.Min(minLon, v.Longitude)
		maxLon = math.Max(maxLon, v.Longitude)
	}
	shift := maxLon-minLon > 180

	norm := func(lon float64) float64 {
		if shift && lon < 0 {
			return lon + 360
		}
		return lon
	}

	out := make([]vertex, len(poly))
	for i, v := range poly {
		out[i] = vertex{x: norm(v.Longitude), y: v.Latitude}
	}
	return out, vertex{x: norm(p.Longitude), y: p.Latitude}
}

// PointInPolygon - ray casting с явной проверкой границы. Точка на ребре или в вершине внутри.
func PointInPolygon(p models.Point, poly []models.Point) bool {
	if len(poly) < 3 {
		return false
	}
	vs, q := normalizePolygon(poly, p)

	inside := false
	for i, j := 0, len(vs)-1; i < len(vs); j, i = i, i+1 {
		a, b := vs[j], vs[i]
		if onSegment(q, a, b) {
			return true
		}
		if (b.y > q.y) != (a.y > q.y) {
			x := (a.x-b.x)*(q.y-b.y)/(a.y-b.y) + b.x
			if q.x < x {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(q, a, b vertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((q.x-a.x)*dx + (q.y-a.y)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	px, py := a.x+t*dx-q.x, a.y+t*dy-q.y
	return px*px+py*py <= edgeToleranceDegrees*edgeToleranceDegrees
}
