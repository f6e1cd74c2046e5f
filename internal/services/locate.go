// IP geolocation implementation of [LocateProvider]
//
// Terminal environments have no platform geolocation API, so the device
// position comes from an IP geolocation endpoint. A refusal from the provider
// plays the role of a denied platform permission prompt.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"lunarview/internal/models"
	"lunarview/internal/shared"
)

const defaultLocateBaseURL = "https://ipapi.co"

// IPLocateClient implements [LocateProvider] over an ipapi-style endpoint.
type IPLocateClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewIPLocateClient creates a device position provider.
func NewIPLocateClient(baseURL string, client *http.Client) *IPLocateClient {
	if baseURL == "" {
		baseURL = defaultLocateBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &IPLocateClient{baseURL: baseURL, httpClient: client}
}

// CurrentPosition returns the device coordinate.
func (c *IPLocateClient) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	var coord models.Coordinate

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/", nil)
	if err != nil {
		return coord, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return coord, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return coord, fmt.Errorf("%w: locate provider refused the request (status %d)", shared.ErrPermissionDenied, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return coord, fmt.Errorf("%w: locate provider status %d", shared.ErrService, resp.StatusCode)
	}

	var payload struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Err       bool    `json:"error"`
		Reason    string  `json:"reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return coord, fmt.Errorf("failed to decode locate response: %w", err)
	}

	if payload.Err {
		return coord, fmt.Errorf("%w: %s", shared.ErrPermissionDenied, payload.Reason)
	}

	coord = models.Coordinate{Latitude: payload.Latitude, Longitude: payload.Longitude}
	if err := coord.Validate(); err != nil {
		return models.Coordinate{}, err
	}

	return coord, nil
}
