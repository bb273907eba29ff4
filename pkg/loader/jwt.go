package loader

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// IsJWT detects whether input looks like a JWT token: exactly three
// dot-separated parts where the first two are base64url-encoded JSON
// objects. A leading "Bearer " prefix is tolerated.
func IsJWT(input string) bool {
	input = strings.TrimPrefix(input, "Bearer ")
	input = strings.TrimSpace(input)

	parts := strings.Split(input, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if len(part) == 0 {
			return false
		}
	}

	for i := 0; i < 2; i++ {
		if _, err := decodeJWTSegment(parts[i], ""); err != nil {
			return false
		}
	}

	// The signature only needs to be valid base64url.
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT splits a JWT token into a {header, payload, signature} object.
// The signature stays as its raw base64url string since it is binary data
// with no JSON representation.
func DecodeJWT(input string) (map[string]any, error) {
	input = strings.TrimPrefix(input, "Bearer ")
	input = strings.TrimSpace(input)

	parts := strings.Split(input, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT: expected 3 parts, got %d", len(parts))
	}

	header, err := decodeJWTSegment(parts[0], "header")
	if err != nil {
		return nil, err
	}
	payload, err := decodeJWTSegment(parts[1], "payload")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"header":    header,
		"payload":   payload,
		"signature": parts[2],
	}, nil
}

func decodeJWTSegment(seg, what string) (map[string]any, error) {
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT %s: %w", what, err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("invalid JWT %s JSON: %w", what, err)
	}
	return obj, nil
}

// loadJWT parses a JWT string and wraps the decoded object in []interface{}.
func loadJWT(input string) ([]interface{}, error) {
	decoded, err := DecodeJWT(input)
	if err != nil {
		return nil, err
	}
	return []interface{}{decoded}, nil
}
