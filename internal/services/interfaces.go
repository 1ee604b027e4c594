package services

import (
	"context"
	"encoding/json"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/renderer"
)

// SiteBundle is everything a render needs, fully loaded before dispatch.
type SiteBundle struct {
	Site           domain.Site
	Content        map[string]string
	Customizations map[domain.CustomizationType]json.RawMessage
	Features       []string
	Products       []domain.Product
	Manufacturers  []domain.Manufacturer
	DemoFallback   map[string]string
	Demo           bool
}

// SiteService loads the site bundle for live tenants and synthesized demo previews.
type SiteService interface {
	LoadBundle(ctx context.Context, siteID string) (SiteBundle, error)
}

// RenderService resolves content and visibility for a page and dispatches to a renderer.
type RenderService interface {
	RenderPage(ctx context.Context, siteID, pageSlug string) (renderer.Document, error)
}

// EditorService persists tenant edits as independent row-level upserts.
type EditorService interface {
	SaveContent(ctx context.Context, siteID string, values map[string]string) error
	SaveCustomization(ctx context.Context, siteID string, ctype domain.CustomizationType, config json.RawMessage) error
}

// SiteTour is the tier-filtered walkthrough with completion state for one site.
type SiteTour struct {
	Steps []StepStatus
}

// TourService derives the editing walkthrough for a site.
type TourService interface {
	TourForSite(ctx context.Context, siteID string) (SiteTour, error)
}

// AuditLogRecord captures one editor mutation prior to persistence.
type AuditLogRecord struct {
	Actor     string
	Action    string
	TargetRef string
	Metadata  map[string]any
	Severity  string
	RequestID string
}

// AuditLogService persists editor mutation records without interrupting the primary flow.
type AuditLogService interface {
	Record(ctx context.Context, record AuditLogRecord)
}
