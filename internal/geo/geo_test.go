package geo

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safety_coordination_system/internal/apperror"
	"github.com/shenikar/safety_coordination_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func circle(lat, lon, radius float64) *models.Geofence {
	return &models.Geofence{
		ID:           uuid.New(),
		Shape:        models.ShapeCircle,
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: radius,
		RiskLevel:    models.RiskRisk,
		Status:       models.GeofenceStatusActive,
	}
}

func polygon(points ...models.Point) *models.Geofence {
	return &models.Geofence{
		ID:        uuid.New(),
		Shape:     models.ShapePolygon,
		Polygon:   points,
		RiskLevel: models.RiskCaution,
		Status:    models.GeofenceStatusActive,
	}
}

// metersToLatDegrees переводит метры по меридиану в градусы широты
func metersToLatDegrees(m float64) float64 {
	return m / EarthRadiusMeters * 180 / 3.141592653589793
}

func TestHaversine(t *testing.T) {
	d := Haversine(models.Point{Latitude: 0, Longitude: 0}, models.Point{Latitude: 1, Longitude: 0})
	assert.InDelta(t, 111195.08, d, 0.01)

	// через антимеридиан короткий путь
	d = Haversine(models.Point{Latitude: 0, Longitude: 179.5}, models.Point{Latitude: 0, Longitude: -179.5})
	assert.InDelta(t, 111195.08, d, 0.01)
}

func TestContainsCircleBoundaryInclusive(t *testing.T) {
	fence := circle(40.0, -73.0, 100)
	onBoundary := models.Point{Latitude: 40.0 + metersToLatDegrees(100), Longitude: -73.0}

	inside, warn := Contains(fence, onBoundary)
	assert.Nil(t, warn)
	assert.True(t, inside)

	outside := models.Point{Latitude: 40.0 + metersToLatDegrees(100.01), Longitude: -73.0}
	inside, _ = Contains(fence, outside)
	assert.False(t, inside)
}

func TestClassifyInvariantUnderJitter(t *testing.T) {
	fence := circle(40.0, -73.0, 100)
	base := models.Point{Latitude: 40.0 + metersToLatDegrees(100), Longitude: -73.0}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, jitter := range []float64{-1e-9, -5e-10, 0, 5e-10, 1e-9} {
		p := models.Point{Latitude: base.Latitude + jitter, Longitude: base.Longitude - jitter}
		c := Classify(p, now, []*models.Geofence{fence}, nil, time.UTC)
		require.Len(t, c.Entered, 1, "jitter %g", jitter)
	}
}

func TestContainsDegenerateFence(t *testing.T) {
	tests := []struct {
		name  string
		fence *models.Geofence
	}{
		{name: "zero radius", fence: circle(10, 10, 0)},
		{name: "negative radius", fence: circle(10, 10, -5)},
		{name: "two vertex polygon", fence: polygon(models.Point{Latitude: 0, Longitude: 0}, models.Point{Latitude: 1, Longitude: 1})},
		{name: "unknown shape", fence: &models.Geofence{ID: uuid.New(), Shape: "hexagon", Status: models.GeofenceStatusActive}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inside, warn := Contains(tt.fence, models.Point{Latitude: 10, Longitude: 10})
			assert.False(t, inside)
			require.NotNil(t, warn)
			assert.Equal(t, tt.fence.ID, warn.GeofenceID)
		})
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []models.Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 1, Longitude: 1},
		{Latitude: 1, Longitude: 0},
	}

	assert.True(t, PointInPolygon(models.Point{Latitude: 0.5, Longitude: 0.5}, square))
	assert.True(t, PointInPolygon(models.Point{Latitude: 0, Longitude: 0.5}, square), "edge is inside")
	assert.True(t, PointInPolygon(models.Point{Latitude: 1, Longitude: 1}, square), "vertex is inside")
	assert.False(t, PointInPolygon(models.Point{Latitude: 1.5, Longitude: 0.5}, square))
	assert.False(t, PointInPolygon(models.Point{Latitude: 0.5, Longitude: -0.0001}, square))
}

func TestPointInPolygonAntimeridian(t *testing.T) {
	poly := []models.Point{
		{Latitude: -1, Longitude: 179},
		{Latitude: -1, Longitude: -179},
		{Latitude: 1, Longitude: -179},
		{Latitude: 1, Longitude: 179},
	}

	assert.True(t, PointInPolygon(models.Point{Latitude: 0, Longitude: 179.5}, poly))
	assert.True(t, PointInPolygon(models.Point{Latitude: 0, Longitude: -179.5}, poly))
	assert.True(t, PointInPolygon(models.Point{Latitude: 0, Longitude: 180}, poly))
	assert.False(t, PointInPolygon(models.Point{Latitude: 0, Longitude: 0}, poly))
	assert.False(t, PointInPolygon(models.Point{Latitude: 0, Longitude: 178}, poly))
}

func TestClassifyTransitions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := circle(0, 0, 1000)
	b := circle(0, 0.005, 1000)
	c := circle(10, 10, 1000)
	removed := uuid.New()
	p := models.Point{Latitude: 0, Longitude: 0.004}

	got := Classify(p, now, []*models.Geofence{a, b, c}, map[uuid.UUID]bool{
		a.ID:    true,
		c.ID:    true,
		removed: true,
	}, time.UTC)

	require.Len(t, got.Dwelling, 1)
	assert.Equal(t, a.ID, got.Dwelling[0].ID)
	require.Len(t, got.Entered, 1)
	assert.Equal(t, b.ID, got.Entered[0].ID)
	assert.Equal(t, []uuid.UUID{c.ID, removed}, got.Exited)
	assert.Empty(t, got.Warnings)
}

func TestClassifyEmptyFenceSet(t *testing.T) {
	got := Classify(models.Point{Latitude: 1, Longitude: 1}, time.Now(), nil, nil, time.UTC)

	assert.Empty(t, got.Entered)
	assert.Empty(t, got.Exited)
	assert.Empty(t, got.Dwelling)
}

func TestClassifyRespectsScheduleAndExpiry(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	night := circle(0, 0, 500)
	night.Schedule = []models.TimeWindow{{Start: "22:00", End: "06:00"}}
	expired := circle(0, 0, 500)
	past := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expired.ExpiresAt = &past

	p := models.Point{Latitude: 0, Longitude: 0}
	fences := []*models.Geofence{night, expired}

	// 20:00 UTC = 23:00 в Москве
	got := Classify(p, time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC), fences, nil, moscow)
	require.Len(t, got.Entered, 1)
	assert.Equal(t, night.ID, got.Entered[0].ID)

	// 12:00 UTC = 15:00 в Москве, окно не действует
	got = Classify(p, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), fences, map[uuid.UUID]bool{night.ID: true}, moscow)
	assert.Empty(t, got.Entered)
	assert.Equal(t, []uuid.UUID{night.ID}, got.Exited)
}

func TestClassifyReportsWarningsWithoutHalting(t *testing.T) {
	bad := circle(0, 0, 0)
	good := circle(0, 0, 100)

	got := Classify(models.Point{Latitude: 0, Longitude: 0}, time.Now(), []*models.Geofence{bad, good}, nil, time.UTC)

	require.Len(t, got.Warnings, 1)
	assert.Equal(t, bad.ID, got.Warnings[0].GeofenceID)
	require.Len(t, got.Entered, 1)
	assert.Equal(t, good.ID, got.Entered[0].ID)
}

func TestRouteDeviation(t *testing.T) {
	route := []models.Point{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 1}}

	d, err := RouteDeviation(models.Point{Latitude: 0.001, Longitude: 0.5}, route)
	require.NoError(t, err)
	assert.InDelta(t, 111.195, d, 0.5)

	// за концом маршрута расстояние до ближайшей вершины
	d, err = RouteDeviation(models.Point{Latitude: 0, Longitude: 1.01}, route)
	require.NoError(t, err)
	assert.InDelta(t, 1111.95, d, 5)

	d, err = RouteDeviation(models.Point{Latitude: 0, Longitude: 0.25}, route)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-6)
}

func TestRouteDeviationAcrossAntimeridian(t *testing.T) {
	route := []models.Point{{Latitude: 0, Longitude: 179.9}, {Latitude: 0, Longitude: -179.9}}

	d, err := RouteDeviation(models.Point{Latitude: 0.001, Longitude: 180}, route)
	require.NoError(t, err)
	assert.InDelta(t, 111.195, d, 0.5)
}

func TestRouteDeviationDegenerateRoutes(t *testing.T) {
	_, err := RouteDeviation(models.Point{}, nil)
	assert.ErrorIs(t, err, apperror.ErrConfiguration)

	d, err := RouteDeviation(models.Point{Latitude: 1, Longitude: 0}, []models.Point{{Latitude: 0, Longitude: 0}})
	require.NoError(t, err)
	assert.InDelta(t, 111195.08, d, 0.01)
}

func TestRouteDeviationRejectsMalformedVertices(t *testing.T) {
	p := models.Point{Latitude: 10, Longitude: 10}
	tests := []struct {
		name  string
		route []models.Point
	}{
		{name: "single vertex out of range", route: []models.Point{{Latitude: 95, Longitude: 0}}},
		{name: "last vertex out of range", route: []models.Point{{Latitude: 10, Longitude: 10}, {Latitude: 11, Longitude: 11}, {Latitude: 0, Longitude: 181}}},
		{name: "NaN vertex", route: []models.Point{{Latitude: 10, Longitude: 10}, {Latitude: math.NaN(), Longitude: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RouteDeviation(p, tt.route)
			assert.ErrorIs(t, err, apperror.ErrConfiguration)
			assert.ErrorIs(t, ValidateRoute(tt.route), apperror.ErrConfiguration)
		})
	}
}
