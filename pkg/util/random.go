package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateFunnelSlug returns a short opaque identifier for funnel links.
// 8 hex characters keep the printed QR payload short while staying unique
// enough for one tenant's businesses; callers retry on collision.
func GenerateFunnelSlug() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return id[:8]
}

// GenerateRequestID returns a unique identifier for request tracing
func GenerateRequestID() string {
	return uuid.New().String()
}
