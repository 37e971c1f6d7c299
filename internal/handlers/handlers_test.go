package handlers

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/flickmobile/navigation-backend/internal/middleware"
	"github.com/flickmobile/navigation-backend/pkg/routing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves a canned route without any network access
type fakeProvider struct {
	route *routing.Route
	err   error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GetRoute(ctx context.Context, from, to routing.Point, profile string) (*routing.Route, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.route, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newMockDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

// deviceContextInjector stands in for the auth middleware in handler tests
func deviceContextInjector(deviceID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.DeviceContextKey, middleware.DeviceContext{
			DeviceID:   deviceID,
			DeviceName: "test-device",
			Roles:      []string{"shell"},
		})
		c.Next()
	}
}

func pointNorthOf(base routing.Point, meters float64) routing.Point {
	metersPerDegree := 6371000.0 * math.Pi / 180
	return routing.Point{
		Latitude:  base.Latitude + meters/metersPerDegree,
		Longitude: base.Longitude,
	}
}

var (
	testOrigin      = routing.Point{Latitude: 52.52, Longitude: 13.405}
	testDestination = pointNorthOf(routing.Point{Latitude: 52.52, Longitude: 13.405}, 2000)
)

func testRoute() *routing.Route {
	return &routing.Route{
		Legs: []routing.Leg{{
			Steps: []routing.Step{
				{Maneuver: routing.ManeuverDepart, RoadName: "Main Street", Location: testOrigin},
				{Maneuver: routing.ManeuverTurn, Modifier: "left", RoadName: "Station Road", Location: pointNorthOf(testOrigin, 1000)},
				{Maneuver: routing.ManeuverArrive, Location: testDestination},
			},
		}},
		DistanceM: 2000,
		DurationS: 240,
	}
}
