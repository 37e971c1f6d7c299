package services

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/flickmobile/navigation-backend/pkg/routing"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider returns a canned route and records the requested origin
type fakeProvider struct {
	route    *routing.Route
	err      error
	lastFrom routing.Point
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GetRoute(ctx context.Context, from, to routing.Point, profile string) (*routing.Route, error) {
	f.lastFrom = from
	if f.err != nil {
		return nil, f.err
	}
	return f.route, nil
}

type recordingAnnouncer struct {
	spoken []string
}

func (a *recordingAnnouncer) Speak(text string) {
	a.spoken = append(a.spoken, text)
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
				{Maneuver: routing.ManeuverArrive, Location: testDestination},
			},
		}},
		DistanceM: 2000,
		DurationS: 240,
	}
}

func newTestNavigationService(t *testing.T, provider routing.Provider, announcer *recordingAnnouncer) (*NavigationService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewNavigationService(
		provider,
		announcer,
		database.NewTripLogRepository(db),
		database.NewDeviceRepository(db),
		logger,
		30,
		5*time.Second,
		"driving",
	)

	return svc, mock
}

func startRequest() *models.StartNavigationRequest {
	return &models.StartNavigationRequest{
		From: &models.Coordinate{Latitude: testOrigin.Latitude, Longitude: testOrigin.Longitude},
		To:   &models.Coordinate{Latitude: testDestination.Latitude, Longitude: testDestination.Longitude},
	}
}

func TestStartNavigation(t *testing.T) {
	announcer := &recordingAnnouncer{}
	svc, _ := newTestNavigationService(t, &fakeProvider{route: testRoute()}, announcer)
	deviceID := uuid.New()

	state, err := svc.StartNavigation(context.Background(), deviceID, startRequest())

	require.NoError(t, err)
	assert.True(t, state.Active)
	assert.NotNil(t, state.SessionID)
	assert.Equal(t, 0, state.StepIndex)
	assert.Equal(t, 2, state.StepCount)
	assert.Equal(t, "Start by heading forward on Main Street", state.Instruction)
	assert.True(t, state.VoiceEnabled)
	require.NotNil(t, state.Route)
	assert.Equal(t, 2000.0, state.Route.DistanceM)
	assert.Equal(t, 1, svc.ActiveSessionCount())

	// The start announcement is spoken immediately
	require.NotEmpty(t, announcer.spoken)
	assert.Equal(t, "Start by heading forward on Main Street", announcer.spoken[0])
}

func TestStartNavigationNoKnownPosition(t *testing.T) {
	svc, _ := newTestNavigationService(t, &fakeProvider{route: testRoute()}, &recordingAnnouncer{})

	req := startRequest()
	req.From = nil

	_, err := svc.StartNavigation(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, ErrNoKnownPosition)
}

func TestStartNavigationUsesLastKnownPosition(t *testing.T) {
	provider := &fakeProvider{route: testRoute()}
	svc, _ := newTestNavigationService(t, provider, &recordingAnnouncer{})
	deviceID := uuid.New()

	// A position report without a session still records the last known position
	_, err := svc.UpdatePosition(deviceID, testOrigin.Latitude, testOrigin.Longitude)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	req := startRequest()
	req.From = nil

	_, err = svc.StartNavigation(context.Background(), deviceID, req)

	require.NoError(t, err)
	assert.Equal(t, testOrigin, provider.lastFrom)
}

func TestStartNavigationProviderError(t *testing.T) {
	providerErr := errors.New("routing backend down")
	svc, _ := newTestNavigationService(t, &fakeProvider{err: providerErr}, &recordingAnnouncer{})

	_, err := svc.StartNavigation(context.Background(), uuid.New(), startRequest())

	assert.ErrorIs(t, err, providerErr)
	assert.Equal(t, 0, svc.ActiveSessionCount())
}

func TestUpdatePositionArrival(t *testing.T) {
	announcer := &recordingAnnouncer{}
	svc, _ := newTestNavigationService(t, &fakeProvider{route: testRoute()}, announcer)
	deviceID := uuid.New()

	_, err := svc.StartNavigation(context.Background(), deviceID, startRequest())
	require.NoError(t, err)

	// Advance off the depart step
	resp, err := svc.UpdatePosition(deviceID, testOrigin.Latitude, testOrigin.Longitude)
	require.NoError(t, err)
	assert.True(t, resp.State.Active)
	assert.Equal(t, 1, resp.State.StepIndex)

	// Arrive at the destination: session ends
	resp, err = svc.UpdatePosition(deviceID, testDestination.Latitude, testDestination.Longitude)
	require.NoError(t, err)
	assert.True(t, resp.Arrived)
	assert.False(t, resp.State.Active)
	assert.Equal(t, "You have arrived at your destination", resp.Announced)
	assert.Equal(t, 0, svc.ActiveSessionCount())

	// The session is gone, state reads inactive
	state := svc.GetState(deviceID)
	assert.False(t, state.Active)
}

func TestUpdatePositionNoSession(t *testing.T) {
	svc, _ := newTestNavigationService(t, &fakeProvider{route: testRoute()}, &recordingAnnouncer{})

	_, err := svc.UpdatePosition(uuid.New(), 52.52, 13.405)

	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStopNavigationIdempotent(t *testing.T) {
	svc, _ := newTestNavigationService(t, &fakeProvider{route: testRoute()}, &recordingAnnouncer{})
	deviceID := uuid.New()

	_, err := svc.StartNavigation(context.Background(), deviceID, startRequest())
	require.NoError(t, err)

	svc.StopNavigation(deviceID)
	svc.StopNavigation(deviceID) // no-op

	assert.Equal(t, 0, svc.ActiveSessionCount())
	assert.False(t, svc.GetState(deviceID).Active)
}

func TestStartNavigationReplacesExistingSession(t *testing.T) {
	svc, _ := newTestNavigationService(t, &fakeProvider{route: testRoute()}, &recordingAnnouncer{})
	deviceID := uuid.New()

	first, err := svc.StartNavigation(context.Background(), deviceID, startRequest())
	require.NoError(t, err)

	second, err := svc.StartNavigation(context.Background(), deviceID, startRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Equal(t, 1, svc.ActiveSessionCount())
}

func TestSweepStaleSessions(t *testing.T) {
	svc, _ := newTestNavigationService(t, &fakeProvider{route: testRoute()}, &recordingAnnouncer{})
	deviceID := uuid.New()

	_, err := svc.StartNavigation(context.Background(), deviceID, startRequest())
	require.NoError(t, err)

	// A zero stale window sweeps everything immediately
	swept := svc.SweepStaleSessions(0)

	assert.Equal(t, 1, swept)
	assert.Equal(t, 0, svc.ActiveSessionCount())
}

func TestSetVoiceEnabled(t *testing.T) {
	svc, mock := newTestNavigationService(t, &fakeProvider{route: testRoute()}, &recordingAnnouncer{})
	deviceID := uuid.New()

	_, err := svc.StartNavigation(context.Background(), deviceID, startRequest())
	require.NoError(t, err)

	mock.ExpectExec("UPDATE devices").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.SetVoiceEnabled(deviceID, false))
	assert.False(t, svc.GetState(deviceID).VoiceEnabled)
}
