package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/flickmobile/navigation-backend/internal/guidance"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/flickmobile/navigation-backend/pkg/routing"
	"github.com/flickmobile/navigation-backend/pkg/speech"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoActiveSession indicates the device has no navigation session
	ErrNoActiveSession = errors.New("no active navigation session")

	// ErrRouteSuperseded indicates a newer start request won the race
	ErrRouteSuperseded = errors.New("route request superseded by a newer start")

	// ErrNoKnownPosition indicates "from" was omitted and the device has
	// never reported a position
	ErrNoKnownPosition = errors.New("no known position for device")
)

// session is one device's active navigation state
type session struct {
	id           uuid.UUID
	deviceID     uuid.UUID
	tracker      *guidance.Tracker
	route        *routing.Route
	origin       routing.Point
	destination  routing.Point
	startedAt    time.Time
	lastUpdate   time.Time
	lastPosition routing.Point
	hasPosition  bool
}

// NavigationService owns all navigation sessions: route fetch, the guidance
// tracker lifecycle, and trip logging. One session per device; a mutex
// serializes HTTP handlers, the guidance core itself stays lock-free.
type NavigationService struct {
	provider       routing.Provider
	announcer      speech.Announcer
	tripRepo       *database.TripLogRepository
	deviceRepo     *database.DeviceRepository
	logger         *logrus.Logger
	advanceRadiusM float64
	requestTimeout time.Duration
	defaultProfile string

	mu          sync.Mutex
	sessions    map[uuid.UUID]*session
	generations map[uuid.UUID]uint64
	lastKnown   map[uuid.UUID]routing.Point
}

// NewNavigationService creates the navigation session service
func NewNavigationService(
	provider routing.Provider,
	announcer speech.Announcer,
	tripRepo *database.TripLogRepository,
	deviceRepo *database.DeviceRepository,
	logger *logrus.Logger,
	advanceRadiusM float64,
	requestTimeout time.Duration,
	defaultProfile string,
) *NavigationService {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	if defaultProfile == "" {
		defaultProfile = "driving"
	}
	return &NavigationService{
		provider:       provider,
		announcer:      announcer,
		tripRepo:       tripRepo,
		deviceRepo:     deviceRepo,
		logger:         logger,
		advanceRadiusM: advanceRadiusM,
		requestTimeout: requestTimeout,
		defaultProfile: defaultProfile,
		sessions:       make(map[uuid.UUID]*session),
		generations:    make(map[uuid.UUID]uint64),
		lastKnown:      make(map[uuid.UUID]routing.Point),
	}
}

// StartNavigation fetches a route and installs a new session for the device.
// The newest start wins: while the route fetch is in flight, a second start
// bumps the device's generation and the stale response is discarded.
func (s *NavigationService) StartNavigation(ctx context.Context, deviceID uuid.UUID, req *models.StartNavigationRequest) (*models.NavigationState, error) {
	destination := routing.Point{Latitude: req.To.Latitude, Longitude: req.To.Longitude}

	// Resolve the origin and claim a request generation
	s.mu.Lock()
	var origin routing.Point
	if req.From != nil {
		origin = routing.Point{Latitude: req.From.Latitude, Longitude: req.From.Longitude}
	} else {
		known, ok := s.lastKnown[deviceID]
		if !ok {
			s.mu.Unlock()
			return nil, ErrNoKnownPosition
		}
		origin = known
	}
	s.generations[deviceID]++
	generation := s.generations[deviceID]
	s.mu.Unlock()

	profile := req.Profile
	if profile == "" {
		profile = s.defaultProfile
	}

	voiceEnabled := true
	if device, err := s.deviceRepo.GetDeviceByID(deviceID); err == nil {
		voiceEnabled = device.VoiceEnabled
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	// A fetch failure leaves any existing session untouched
	route, err := s.provider.GetRoute(fetchCtx, origin, destination, profile)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generations[deviceID] != generation {
		s.logger.WithFields(logrus.Fields{
			"device_id":  deviceID,
			"generation": generation,
		}).Info("Discarding superseded route response")
		return nil, ErrRouteSuperseded
	}

	// Replace any running session, logging it as cancelled
	if existing, ok := s.sessions[deviceID]; ok {
		existing.tracker.Stop()
		s.logTripAsync(existing, models.TripStatusCancelled)
		delete(s.sessions, deviceID)
	}

	tracker, err := guidance.NewTracker(route, s.announcer, voiceEnabled, s.advanceRadiusM)
	if err != nil {
		return nil, err
	}

	sess := &session{
		id:          uuid.New(),
		deviceID:    deviceID,
		tracker:     tracker,
		route:       route,
		origin:      origin,
		destination: destination,
		startedAt:   time.Now(),
		lastUpdate:  time.Now(),
	}
	s.sessions[deviceID] = sess

	s.logger.WithFields(logrus.Fields{
		"device_id":  deviceID,
		"session_id": sess.id,
		"steps":      tracker.StepCount(),
		"distance_m": route.DistanceM,
		"provider":   s.provider.Name(),
	}).Info("Navigation session started")

	return s.sessionState(sess), nil
}

// UpdatePosition runs one guidance tick for the device's session
func (s *NavigationService) UpdatePosition(deviceID uuid.UUID, lat, lon float64) (*models.PositionUpdateResponse, error) {
	pos := routing.Point{Latitude: lat, Longitude: lon}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Remember the position even without a session so a later start
	// can omit "from"
	s.lastKnown[deviceID] = pos

	sess, ok := s.sessions[deviceID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	update := sess.tracker.UpdatePosition(pos)
	sess.lastUpdate = time.Now()
	sess.lastPosition = pos
	sess.hasPosition = true

	if update.Arrived {
		s.logTripAsync(sess, models.TripStatusCompleted)
		delete(s.sessions, deviceID)

		s.logger.WithFields(logrus.Fields{
			"device_id":  deviceID,
			"session_id": sess.id,
		}).Info("Navigation session completed")

		return &models.PositionUpdateResponse{
			State:     models.NavigationState{Active: false},
			Announced: update.Announced,
			Arrived:   true,
		}, nil
	}

	return &models.PositionUpdateResponse{
		State:     *s.sessionState(sess),
		Announced: update.Announced,
	}, nil
}

// GetState returns the device's navigation state; inactive is a valid state
func (s *NavigationService) GetState(deviceID uuid.UUID) *models.NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[deviceID]
	if !ok {
		return &models.NavigationState{Active: false}
	}
	return s.sessionState(sess)
}

// StopNavigation ends the device's session. Idempotent: stopping with no
// session is a no-op.
func (s *NavigationService) StopNavigation(deviceID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[deviceID]
	if !ok {
		return
	}

	sess.tracker.Stop()
	s.logTripAsync(sess, models.TripStatusCancelled)
	delete(s.sessions, deviceID)

	s.logger.WithFields(logrus.Fields{
		"device_id":  deviceID,
		"session_id": sess.id,
	}).Info("Navigation session stopped")
}

// SetVoiceEnabled applies the voice toggle to the running session and stores
// it as the device default for future sessions
func (s *NavigationService) SetVoiceEnabled(deviceID uuid.UUID, enabled bool) error {
	s.mu.Lock()
	if sess, ok := s.sessions[deviceID]; ok {
		sess.tracker.SetVoiceEnabled(enabled)
	}
	s.mu.Unlock()

	if err := s.deviceRepo.SetVoiceEnabled(deviceID, enabled); err != nil {
		return err
	}

	return nil
}

// SweepStaleSessions ends sessions with no position update for staleAfter,
// logging them as abandoned. Returns the number of sessions swept.
func (s *NavigationService) SweepStaleSessions(staleAfter time.Duration) int {
	cutoff := time.Now().Add(-staleAfter)

	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for deviceID, sess := range s.sessions {
		if sess.lastUpdate.After(cutoff) {
			continue
		}
		sess.tracker.Stop()
		s.logTripAsync(sess, models.TripStatusAbandoned)
		delete(s.sessions, deviceID)
		swept++

		s.logger.WithFields(logrus.Fields{
			"device_id":  deviceID,
			"session_id": sess.id,
			"idle_since": sess.lastUpdate,
		}).Warn("Swept stale navigation session")
	}

	return swept
}

// ActiveSessionCount reports how many sessions are running
func (s *NavigationService) ActiveSessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ProviderName identifies the routing provider for health reporting
func (s *NavigationService) ProviderName() string {
	return s.provider.Name()
}

// sessionState snapshots a session; callers hold the mutex
func (s *NavigationService) sessionState(sess *session) *models.NavigationState {
	sessionID := sess.id

	state := &models.NavigationState{
		Active:       sess.tracker.Active(),
		SessionID:    &sessionID,
		StepIndex:    sess.tracker.StepIndex(),
		StepCount:    sess.tracker.StepCount(),
		Instruction:  sess.tracker.Instruction(),
		ShortLabel:   sess.tracker.ShortLabel(),
		VoiceEnabled: sess.tracker.VoiceEnabled(),
		Route: &models.RouteSummary{
			DistanceM: sess.route.DistanceM,
			DurationS: sess.route.DurationS,
		},
	}

	if sess.hasPosition {
		state.DistanceToManeuverM = sess.tracker.DistanceTo(sess.lastPosition)
	}

	return state
}

// logTripAsync writes the trip log in the background; callers hold the mutex
func (s *NavigationService) logTripAsync(sess *session, status string) {
	trip := &models.TripLog{
		DeviceID:       sess.deviceID,
		Status:         status,
		OriginLat:      sess.origin.Latitude,
		OriginLon:      sess.origin.Longitude,
		DestinationLat: sess.destination.Latitude,
		DestinationLon: sess.destination.Longitude,
		DistanceM:      sess.route.DistanceM,
		DurationS:      time.Since(sess.startedAt).Seconds(),
		StepCount:      sess.tracker.StepCount(),
		StartedAt:      sess.startedAt,
		EndedAt:        time.Now(),
	}

	go func() {
		if err := s.tripRepo.InsertTrip(trip); err != nil {
			s.logger.WithError(err).Warn("Failed to log trip")
		}
	}()
}
