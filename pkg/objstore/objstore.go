// Package objstore provides access to the binary object store that holds
// product images. Objects are addressed by key under a fixed logical prefix
// and are publicly reachable through a base URL.
package objstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Gateway uploads and deletes binary assets.
//
// Delete must treat a missing key as success: compensating deletes may race
// with earlier cleanup and must stay idempotent.
type Gateway interface {
	// Put stores the object and returns its public retrieval address.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// KeyPrefix is the logical prefix under which all product images are stored.
const KeyPrefix = "products/"

var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ExtensionByMIME returns the storage extension for a supported image MIME
// type, and false for anything else.
func ExtensionByMIME(contentType string) (string, bool) {
	ext, ok := extByMIME[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// NewImageKey generates a globally unique storage key for an image of the
// given MIME type.
func NewImageKey(contentType string) (string, error) {
	ext, ok := ExtensionByMIME(contentType)
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
	return KeyPrefix + uuid.New().String() + ext, nil
}

// KeyFromURL derives the storage key from a public object address by taking
// the URL path without its leading slash.
func KeyFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("malformed object address %q: %w", raw, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Scheme == "" || u.Host == "" || key == "" {
		return "", fmt.Errorf("malformed object address %q: no key in path", raw)
	}
	return key, nil
}
