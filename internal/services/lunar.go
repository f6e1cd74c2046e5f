// Lunar View backend API client
//
// Wraps the FastAPI backend: bearer-token auth, astronomy fetch, favorites CRUD.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"lunarview/internal/models"
	"lunarview/internal/shared"
	"golang.org/x/oauth2"
)

const defaultLunarBaseURL = "http://localhost:8000"

// AuthUser is the account profile embedded in token responses.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenResponse is returned by the login and register endpoints.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        AuthUser `json:"user"`
}

// favoriteCreate is the POST /api/favorites request body.
type favoriteCreate struct {
	LocationName string  `json:"location_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// LunarService is the client for the Lunar View backend API.
//
// Authenticated requests use an [oauth2] static token source so the bearer
// header is attached by the transport.
type LunarService struct {
	baseURL    string
	token      *oauth2.Token
	httpClient *http.Client
}

// NewLunarService creates a backend client. An empty baseURL falls back to the
// local development server; a nil client falls back to a client with the given
// timeout.
func NewLunarService(baseURL string, client *http.Client, timeout time.Duration) *LunarService {
	if baseURL == "" {
		baseURL = defaultLunarBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &LunarService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Authenticate installs a bearer token for subsequent requests.
func (s *LunarService) Authenticate(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return fmt.Errorf("%w: empty access token", shared.ErrNotAuthenticated)
	}

	s.token = &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	base := s.httpClient
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	s.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(s.token))
	return nil
}

// Authenticated reports whether a bearer token has been installed.
func (s *LunarService) Authenticated() bool {
	return s.token != nil
}

// doRequest performs an HTTP request against the backend and decodes the JSON
// response into result. Failures are classified into the client error
// taxonomy: 401 → ErrUnauthorized, other non-2xx → ErrService carrying the
// server detail verbatim, transport failure → ErrNetwork.
func (s *LunarService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	apiURL := s.baseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", shared.ErrUnauthorized, serverDetail(resp))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s (status %d)", shared.ErrService, serverDetail(resp), resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// serverDetail extracts the FastAPI error detail so the message can be
// surfaced to the user verbatim.
func serverDetail(resp *http.Response) string {
	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
		return errResp.Detail
	}
	return resp.Status
}

// Login exchanges credentials for a bearer token.
func (s *LunarService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var token TokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := s.doRequest(ctx, http.MethodPost, "/api/auth/login", body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Register creates an account and returns its first bearer token.
func (s *LunarService) Register(ctx context.Context, email, password, name string) (*TokenResponse, error) {
	var token TokenResponse
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := s.doRequest(ctx, http.MethodPost, "/api/auth/register", body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Me retrieves the authenticated account profile.
func (s *LunarService) Me(ctx context.Context) (*AuthUser, error) {
	var user AuthUser
	if err := s.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Astronomy fetches the sun/moon snapshot for a coordinate.
//
// Every invocation is a fresh round trip; retries are user-initiated
// re-invocations of the pipeline, never automatic.
func (s *LunarService) Astronomy(ctx context.Context, coord models.Coordinate) (*models.AstronomySnapshot, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/api/astronomy?lat=%s&long=%s",
		url.QueryEscape(fmt.Sprintf("%v", coord.Latitude)),
		url.QueryEscape(fmt.Sprintf("%v", coord.Longitude)),
	)

	var snapshot models.AstronomySnapshot
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &snapshot); err != nil {
		return nil, err
	}

	snapshot.FetchedAt = time.Now()
	return &snapshot, nil
}

// Favorites retrieves the account's saved locations.
func (s *LunarService) Favorites(ctx context.Context) ([]models.FavoriteEntry, error) {
	var favorites []models.FavoriteEntry
	if err := s.doRequest(ctx, http.MethodGet, "/api/favorites", nil, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// CreateFavorite saves a named coordinate. Duplicate coordinates under
// different names are permitted; the server owns identity.
func (s *LunarService) CreateFavorite(ctx context.Context, name string, coord models.Coordinate) (*models.FavoriteEntry, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	var entry models.FavoriteEntry
	body := favoriteCreate{LocationName: name, Latitude: coord.Latitude, Longitude: coord.Longitude}
	if err := s.doRequest(ctx, http.MethodPost, "/api/favorites", body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteFavorite removes a saved location by its server id.
func (s *LunarService) DeleteFavorite(ctx context.Context, id string) error {
	endpoint := "/api/favorites/" + url.PathEscape(id)
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}
