package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrUnauthorized     = fmt.Errorf("unauthorized")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrAuthFailed       = fmt.Errorf("authentication failed")

	// Location resolution errors
	ErrPermissionDenied = fmt.Errorf("location permission denied")
	ErrPlaceNotFound    = fmt.Errorf("place not found")

	// API and transport errors
	ErrService = fmt.Errorf("service error")
	ErrNetwork = fmt.Errorf("network error")

	// Capability errors
	ErrUnsupported = fmt.Errorf("unsupported on this platform")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
