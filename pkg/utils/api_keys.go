package utils

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// ApiKeyPrefix marks brand API keys so they are recognisable in logs and headers.
const ApiKeyPrefix = "ss_"

// GenerateRandomKey returns ApiKeyPrefix followed by n random bytes, URL-safe base64 encoded without padding.
func GenerateRandomKey(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return ApiKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// LooksLikeApiKey is a cheap shape check done before hitting the key store.
func LooksLikeApiKey(s string) bool {
	return strings.HasPrefix(s, ApiKeyPrefix) && len(s) > len(ApiKeyPrefix)
}
