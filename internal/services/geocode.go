// Nominatim implementation of [Geocoder]
//
// Nominatim usage policy caps anonymous clients at one request per second, so
// all lookups pass through a [rate.Limiter].
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"lunarview/internal/models"
	"lunarview/internal/shared"
	"golang.org/x/time/rate"
)

const defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// NominatimClient implements [Geocoder] against a Nominatim instance.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNominatimClient creates a geocoding client. requestsPerSecond defaults to
// 1.0 when non-positive.
func NewNominatimClient(baseURL, userAgent string, client *http.Client, requestsPerSecond float64) *NominatimClient {
	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}
	if userAgent == "" {
		userAgent = "lunarview-cli"
	}
	if client == nil {
		client = http.DefaultClient
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1.0
	}

	return &NominatimClient{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// doRequest performs a rate-limited GET and decodes the JSON response.
func (n *NominatimClient) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: geocoder status %d", shared.ErrService, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	return nil
}

// Reverse converts a coordinate to address components.
func (n *NominatimClient) Reverse(ctx context.Context, coord models.Coordinate) (*ReverseResult, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/reverse?format=json&lat=%v&lon=%v", coord.Latitude, coord.Longitude)

	var result ReverseResult
	if err := n.doRequest(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Search converts a free-text place name to candidate coordinates.
// An empty result slice means the place was not found; mapping that to
// ErrPlaceNotFound is the caller's concern.
func (n *NominatimClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := fmt.Sprintf("/search?format=json&q=%s&limit=1", url.QueryEscape(query))

	var results []SearchResult
	if err := n.doRequest(ctx, endpoint, &results); err != nil {
		return nil, err
	}

	return results, nil
}
