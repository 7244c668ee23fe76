// Package geo содержит чистые геометрические функции: попадание точки в геозону,
// расстояния и отклонение от маршрута. Все расстояния в метрах на сферической Земле.
package geo

import (
	"math"

	"github.com/shenikar/safety_coordination_system/internal/models"
)

// EarthRadiusMeters - средний радиус Земли
const EarthRadiusMeters = 6371008.8

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine возвращает расстояние по большому кругу между точками
func Haversine(a, b models.Point) float64 {
	lat1 := toRad(a.Latitude)
	lat2 := toRad(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRad(wrapLongitude(b.Longitude - a.Longitude))

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	h = math.Min(1, h)
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// wrapLongitude приводит разницу долгот к [-180, 180]
func wrapLongitude(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

func validPoint(p models.Point) bool {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}
