package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/dealerpress/api/internal/platform/config"
)

const defaultSignedURLExpiry = 15 * time.Minute

var (
	errInvalidBucket = errors.New("storage: bucket name is required")
	errInvalidObject = errors.New("storage: object name is required")
	errNoSigner      = errors.New("storage: signer is required for signed URLs")
)

// AssetResolver turns stored asset references into publicly servable URLs.
// Absolute URLs pass through untouched; bare object paths are rewritten to the
// CDN base when configured, or to a direct bucket URL otherwise.
type AssetResolver struct {
	bucket  string
	cdnBase string
	signer  Signer
	ttl     time.Duration
	scheme  storage.SigningScheme
	now     func() time.Time
}

// ResolverOption customises resolver behaviour.
type ResolverOption func(*AssetResolver)

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) ResolverOption {
	return func(r *AssetResolver) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithSigningScheme overrides the signing scheme (defaults to V4).
func WithSigningScheme(scheme storage.SigningScheme) ResolverOption {
	return func(r *AssetResolver) {
		if scheme != 0 {
			r.scheme = scheme
		}
	}
}

// NewAssetResolver constructs a resolver from storage configuration. The signer
// may be nil when signed URLs are not needed.
func NewAssetResolver(cfg config.StorageConfig, signer Signer, opts ...ResolverOption) (*AssetResolver, error) {
	bucket := strings.TrimSpace(cfg.AssetsBucket)
	if bucket == "" {
		return nil, errInvalidBucket
	}

	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = defaultSignedURLExpiry
	}

	resolver := &AssetResolver{
		bucket:  bucket,
		cdnBase: strings.TrimRight(strings.TrimSpace(cfg.CDNBaseURL), "/"),
		signer:  signer,
		ttl:     ttl,
		scheme:  storage.SigningSchemeV4,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(resolver)
		}
	}
	return resolver, nil
}

// IsObjectPath reports whether the value looks like a bucket object path rather
// than an already-resolved URL or inline value.
func IsObjectPath(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "//") {
		return false
	}
	if strings.HasPrefix(trimmed, "data:") {
		return false
	}
	return strings.HasPrefix(trimmed, "assets/") || strings.HasPrefix(trimmed, "uploads/")
}

// ServeURL resolves an asset reference for serving. Object paths rewrite to
// the CDN when one is configured; without a CDN a signer produces a
// time-limited URL so the bucket can stay private. Signing failures fall back
// to the direct bucket URL rather than breaking the page.
func (r *AssetResolver) ServeURL(ctx context.Context, value string) string {
	if r == nil || !IsObjectPath(value) {
		return value
	}
	if r.cdnBase == "" && r.signer != nil && strings.TrimSpace(r.signer.Email()) != "" {
		if signed, _, err := r.SignedURL(ctx, value); err == nil {
			return signed
		}
	}
	return r.PublicURL(value)
}

// PublicURL returns the CDN or direct bucket URL for the object path.
// Values that are not object paths are returned unchanged.
func (r *AssetResolver) PublicURL(value string) string {
	if r == nil || !IsObjectPath(value) {
		return value
	}
	object := strings.TrimPrefix(strings.TrimSpace(value), "/")
	if r.cdnBase != "" {
		return fmt.Sprintf("%s/%s", r.cdnBase, escapeObjectPath(object))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", r.bucket, escapeObjectPath(object))
}

// SignedURL generates a time-limited GET URL for the object path.
func (r *AssetResolver) SignedURL(ctx context.Context, object string) (string, time.Time, error) {
	if r == nil || r.signer == nil || strings.TrimSpace(r.signer.Email()) == "" {
		return "", time.Time{}, errNoSigner
	}
	object = strings.TrimPrefix(strings.TrimSpace(object), "/")
	if object == "" {
		return "", time.Time{}, errInvalidObject
	}

	expires := r.now().Add(r.ttl)
	signed, err := storage.SignedURL(r.bucket, object, &storage.SignedURLOptions{
		GoogleAccessID: r.signer.Email(),
		Method:         "GET",
		Expires:        expires,
		Scheme:         r.scheme,
		SignBytes: func(payload []byte) ([]byte, error) {
			return r.signer.SignBytes(ctx, payload)
		},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("storage: sign url for %s: %w", object, err)
	}
	return signed, expires, nil
}

func escapeObjectPath(object string) string {
	segments := strings.Split(object, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
