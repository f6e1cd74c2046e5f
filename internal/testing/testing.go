// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"lunarview/internal/models"
	"lunarview/internal/services"
)

// MockGeocoder is a test double for [services.Geocoder]
type MockGeocoder struct {
	ReverseFn func(ctx context.Context, coord models.Coordinate) (*services.ReverseResult, error)
	SearchFn  func(ctx context.Context, query string) ([]services.SearchResult, error)
}

func (m *MockGeocoder) Reverse(ctx context.Context, coord models.Coordinate) (*services.ReverseResult, error) {
	if m.ReverseFn == nil {
		return &services.ReverseResult{}, nil
	}
	return m.ReverseFn(ctx, coord)
}

func (m *MockGeocoder) Search(ctx context.Context, query string) ([]services.SearchResult, error) {
	if m.SearchFn == nil {
		return []services.SearchResult{}, nil
	}
	return m.SearchFn(ctx, query)
}

// MockLocator is a test double for [services.LocateProvider]
type MockLocator struct {
	Coord models.Coordinate
	Err   error
}

func (m *MockLocator) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	return m.Coord, m.Err
}

// MockNotifier records notifications for assertions.
type MockNotifier struct {
	Titles []string
	Bodies []string
	Err    error
}

func (m *MockNotifier) Notify(title, body string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Titles = append(m.Titles, title)
	m.Bodies = append(m.Bodies, body)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
