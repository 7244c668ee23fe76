package geo

import (
	"fmt"
	"math"

	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// ValidateRoute проверяет, что маршрут непуст и все вершины в допустимых координатах
func ValidateRoute(route []models.Point) error {
	if len(route) == 0 {
		return apperror.Configuration("route", "", "route has no vertices")
	}
	for i, v := range route {
		if !validPoint(v) {
			return apperror.Configuration("route", "", fmt.Sprintf("vertex %d is out of range", i))
		}
	}
	return nil
}

// RouteDeviation возвращает минимальное расстояние от точки до ломаной маршрута.
// Сегменты проецируются в локальную равнопромежуточную плоскость с центром в точке.
func RouteDeviation(p models.Point, route []models.Point) (float64, error) {
	if err := ValidateRoute(route); err != nil {
		return 0, err
	}
	if !validPoint(p) {
		return 0, apperror.Configuration("route", "", "location is out of range")
	}
	if len(route) == 1 {
		return Haversine(p, route[0]), nil
	}

	cosLat := math.Cos(toRad(p.Latitude))
	project := func(v models.Point) (float64, float64) {
		x := toRad(wrapLongitude(v.Longitude-p.Longitude)) * cosLat * EarthRadiusMeters
		y := toRad(v.Latitude-p.Latitude) * EarthRadiusMeters
		return x, y
	}

	best := math.Inf(1)
	for i := 1; i < len(route); i++ {
		ax, ay := project(route[i-1])
		bx, by := project(route[i])
		best = math.Min(best, distanceToOrigin(ax, ay, bx, by))
	}
	return best, nil
}

// distanceToOrigin - расстояние от (0,0) до отрезка AB
func distanceToOrigin(ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = -(ax*dx + ay*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	return math.Hypot(ax+t*dx, ay+t*dy)
}
