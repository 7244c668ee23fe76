package geo

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/models"
)

// boundaryToleranceMeters - точка на окружности (с учетом погрешности float) считается внутри
const boundaryToleranceMeters = 1e-3

// ConfigWarning - вырожденная геозона, которая никогда не срабатывает
type ConfigWarning struct {
	GeofenceID uuid.UUID
	Message    string
}

func (w ConfigWarning) String() string {
	return fmt.Sprintf("geofence %s: %s", w.GeofenceID, w.Message)
}

// Classification - результат Classify
type Classification struct {
	Entered  []*models.Geofence
	Dwelling []*models.Geofence
	Exited   []uuid.UUID
	Warnings []ConfigWarning
}

// Contains проверяет попадание точки в геометрию зоны без учета расписания
func Contains(g *models.Geofence, p models.Point) (bool, *ConfigWarning) {
	if !validPoint(p) {
		return false, &ConfigWarning{GeofenceID: g.ID, Message: "location is out of range"}
	}
	switch g.Shape {
	case models.ShapeCircle:
		if !(g.RadiusMeters > 0) || math.IsInf(g.RadiusMeters, 0) {
			return false, &ConfigWarning{GeofenceID: g.ID, Message: "circle radius must be positive"}
		}
		center := models.Point{Latitude: g.Latitude, Longitude: g.Longitude}
		if !validPoint(center) {
			return false, &ConfigWarning{GeofenceID: g.ID, Message: "circle center is out of range"}
		}
		return Haversine(center, p) <= g.RadiusMeters+boundaryToleranceMeters, nil
	case models.ShapePolygon:
		if len(g.Polygon) < 3 {
			return false, &ConfigWarning{GeofenceID: g.ID, Message: "polygon needs at least 3 vertices"}
		}
		for _, v := range g.Polygon {
			if !validPoint(v) {
				return false, &ConfigWarning{GeofenceID: g.ID, Message: "polygon vertex is out of range"}
			}
		}
		return PointInPolygon(p, g.Polygon), nil
	default:
		return false, &ConfigWarning{GeofenceID: g.ID, Message: fmt.Sprintf("unknown shape %q", g.Shape)}
	}
}

// Classify сравнивает текущее положение с множеством зон, в которых пользователь был раньше.
// Зона, не действующая в момент at по расписанию или сроку, считается не содержащей точку.
// Зоны из previouslyInside, которых нет в fences, попадают в Exited.
func Classify(p models.Point, at time.Time, fences []*models.Geofence,
	previouslyInside map[uuid.UUID]bool, loc *time.Location) Classification {
	var c Classification
	seen := make(map[uuid.UUID]bool, len(fences))

	for _, g := range fences {
		seen[g.ID] = true
		inside := false
		if g.ActiveAt(at, loc) {
			var warn *ConfigWarning
			inside, warn = Contains(g, p)
			if warn != nil {
				c.Warnings = append(c.Warnings, *warn)
			}
		}

		switch was := previouslyInside[g.ID]; {
		case inside && !was:
			c.Entered = append(c.Entered, g)
		case inside && was:
			c.Dwelling = append(c.Dwelling, g)
		case !inside && was:
			c.Exited = append(c.Exited, g.ID)
		}
	}

	var gone []uuid.UUID
	for id, was := range previouslyInside {
		if was && !seen[id] {
			gone = append(gone, id)
		}
	}
	sort.Slice(gone, func(i, j int) bool { return gone[i].String() < gone[j].String() })
	c.Exited = append(c.Exited, gone...)

	return c
}
