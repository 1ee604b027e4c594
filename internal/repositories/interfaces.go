package repositories

import (
	"context"

	domain "github.com/dealerpress/api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	Sites() SiteRepository
	Templates() TemplateRepository
	Content() ContentRepository
	Customizations() CustomizationRepository
	Features() FeatureRepository
	Catalog() CatalogRepository
	AuditLogs() AuditLogRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// SiteRepository reads tenant site records, template embedded.
type SiteRepository interface {
	FindByID(ctx context.Context, siteID string) (domain.Site, error)
}

// TemplateRepository reads visual templates; demo previews resolve by slug.
type TemplateRepository interface {
	FindBySlug(ctx context.Context, slug string) (domain.Template, error)
}

// ContentRepository persists per-site content override rows. Rows are keyed by
// site and dotted field key; upserts are last-write-wins and deletes are
// idempotent (clearing a value removes the row entirely).
type ContentRepository interface {
	ListBySite(ctx context.Context, siteID string) ([]domain.ContentOverride, error)
	Upsert(ctx context.Context, siteID string, override domain.ContentOverride) error
	Delete(ctx context.Context, siteID string, fieldKey string) error
}

// CustomizationRepository persists design/visibility blobs, one row per type
// per site, last-write-wins.
type CustomizationRepository interface {
	ListBySite(ctx context.Context, siteID string) ([]domain.Customization, error)
	Upsert(ctx context.Context, siteID string, customization domain.Customization) error
}

// FeatureRepository reads the tier-gated feature keys enabled for a site.
type FeatureRepository interface {
	EnabledKeys(ctx context.Context, siteID string) ([]string, error)
}

// CatalogRepository reads opaque product and manufacturer collections that
// renderers receive unchanged.
type CatalogRepository interface {
	ListProducts(ctx context.Context, siteID string) ([]domain.Product, error)
	ListManufacturers(ctx context.Context, siteID string) ([]domain.Manufacturer, error)
}

// AuditLogRepository appends editor mutation records.
type AuditLogRepository interface {
	Append(ctx context.Context, entry domain.AuditLogEntry) error
}
