package domain

import (
	"encoding/json"
	"errors"
)

var (
	// ErrMalformedResponse is returned when the scanner webhook answered but no
	// calorie total or macro-nutrient object could be located in the payload
	ErrMalformedResponse = errors.New("scanner response is not in the expected format")

	// ErrTransportFailure is returned when the scanner webhook call failed or returned a non-success status
	ErrTransportFailure = errors.New("scanner webhook request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidImage is returned when an upload is empty or not an image
	ErrInvalidImage = errors.New("upload is not a valid image")

	// ErrImageTooLarge is returned when an upload exceeds the configured size limit
	ErrImageTooLarge = errors.New("image exceeds maximum upload size")

	// ErrMissingAPIKey is returned when no generative-AI key is configured
	ErrMissingAPIKey = errors.New("generative AI API key is not configured")

	// ErrInvalidAPIKey is returned when the generative-AI service rejects the key
	ErrInvalidAPIKey = errors.New("generative AI API key was rejected")

	// ErrQuotaExceeded is returned when the generative-AI quota is exhausted
	ErrQuotaExceeded = errors.New("generative AI quota exceeded")

	// ErrModelOverloaded is returned when the generative-AI model is temporarily unavailable
	ErrModelOverloaded = errors.New("generative AI model overloaded")

	// ErrGenerationFailed is returned when a diet plan could not be generated
	ErrGenerationFailed = errors.New("diet plan generation failed")

	// ErrDietNotFound is returned when a saved diet does not exist for the user
	ErrDietNotFound = errors.New("diet not found")

	// ErrUnauthorized is returned when a bearer token is missing or invalid
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// MalformedResponseError carries the unwrapped scanner payload so callers can
// show it next to the error message.
type MalformedResponseError struct {
	Reason string
	Raw    json.RawMessage
}

func (e *MalformedResponseError) Error() string {
	if e.Reason == "" {
		return ErrMalformedResponse.Error()
	}
	return ErrMalformedResponse.Error() + ": " + e.Reason
}

// Is lets errors.Is(err, ErrMalformedResponse) match.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
