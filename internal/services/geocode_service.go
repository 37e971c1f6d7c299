package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/flickmobile/navigation-backend/internal/cache"
	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GeocodeService resolves place searches through Nominatim, with an optional
// Redis result cache, per-device rate limiting, and async history logging
type GeocodeService struct {
	baseURL     string
	userAgent   string
	client      *http.Client
	cache       *cache.GeocodeCache // nil when caching is disabled
	rateLimiter *RateLimitService
	historyRepo *database.SearchHistoryRepository
	logger      *logrus.Logger

	// Nominatim's usage policy caps request frequency; upstream calls
	// are spaced out process-wide
	upstreamMu   sync.Mutex
	lastUpstream time.Time
	minInterval  time.Duration
}

// NewGeocodeService creates a new geocoding service. cache may be nil.
func NewGeocodeService(
	baseURL, userAgent string,
	minInterval time.Duration,
	geocodeCache *cache.GeocodeCache,
	rateLimiter *RateLimitService,
	historyRepo *database.SearchHistoryRepository,
	logger *logrus.Logger,
) *GeocodeService {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	return &GeocodeService{
		baseURL:     baseURL,
		userAgent:   userAgent,
		client:      &http.Client{Timeout: 10 * time.Second},
		cache:       geocodeCache,
		rateLimiter: rateLimiter,
		historyRepo: historyRepo,
		logger:      logger,
		minInterval: minInterval,
	}
}

// nominatimResult mirrors one entry of the Nominatim jsonv2 response.
// Coordinates arrive as strings.
type nominatimResult struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
}

// Search resolves a free-text place query for a device
func (s *GeocodeService) Search(ctx context.Context, deviceID uuid.UUID, query string, limit int) ([]models.Place, error) {
	if query == "" {
		return nil, models.NewValidationError("q", "search query is required")
	}
	if limit <= 0 {
		limit = 5
	}
	if limit > 40 {
		limit = 40
	}

	// Step 1: per-device rate limit
	if err := s.rateLimiter.CheckSearchRateLimit(deviceID); err != nil {
		return nil, err
	}

	// Step 2: cache lookup
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.cache.Key(query, limit)
		if data, ok := s.cache.Get(ctx, cacheKey); ok {
			var places []models.Place
			if err := json.Unmarshal(data, &places); err == nil {
				s.logger.WithFields(logrus.Fields{
					"query":   query,
					"results": len(places),
				}).Debug("Geocode cache hit")
				s.recordSearch(deviceID, query, len(places))
				return places, nil
			}
		}
	}

	// Step 3: upstream fetch
	places, err := s.fetchUpstream(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	// Step 4: cache fill
	if s.cache != nil {
		if data, err := json.Marshal(places); err == nil {
			s.cache.Set(ctx, cacheKey, data)
		}
	}

	// Step 5: rate limit record + async history logging
	s.recordSearch(deviceID, query, len(places))

	s.logger.WithFields(logrus.Fields{
		"query":   query,
		"results": len(places),
	}).Info("Geocode search completed")

	return places, nil
}

// fetchUpstream queries Nominatim, spacing calls at least minInterval apart
func (s *GeocodeService) fetchUpstream(ctx context.Context, query string, limit int) ([]models.Place, error) {
	s.upstreamMu.Lock()
	if wait := s.minInterval - time.Since(s.lastUpstream); wait > 0 {
		time.Sleep(wait)
	}
	s.lastUpstream = time.Now()
	s.upstreamMu.Unlock()

	requestURL := fmt.Sprintf("%s/search?%s", s.baseURL, url.Values{
		"format": {"jsonv2"},
		"q":      {query},
		"limit":  {strconv.Itoa(limit)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read geocode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse geocode response: %w", err)
	}

	places := make([]models.Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		places = append(places, models.Place{
			Name:        r.Name,
			DisplayName: r.DisplayName,
			Latitude:    lat,
			Longitude:   lon,
			Type:        r.Type,
			Importance:  r.Importance,
		})
	}

	return places, nil
}

// recordSearch stores the rate limit record synchronously and the history
// entry asynchronously so logging never slows the response
func (s *GeocodeService) recordSearch(deviceID uuid.UUID, query string, resultCount int) {
	if err := s.rateLimiter.RecordSearchRequest(deviceID); err != nil {
		s.logger.WithError(err).Warn("Failed to record search for rate limiting")
	}

	go func() {
		if err := s.historyRepo.InsertSearch(deviceID, query, resultCount); err != nil {
			s.logger.WithError(err).Warn("Failed to log search history")
		}
	}()
}
