package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/storage"
	"github.com/dealerpress/api/internal/renderer"
)

type renderService struct {
	sites    SiteService
	registry *renderer.Registry
	assets   *storage.AssetResolver
	logger   WarnLogger
}

// RenderServiceDeps bundles constructor inputs for the render orchestrator.
type RenderServiceDeps struct {
	Sites    SiteService
	Registry *renderer.Registry
	Assets   *storage.AssetResolver
	Logger   WarnLogger
}

// NewRenderService creates the orchestrator that resolves a page and
// dispatches it to a renderer.
func NewRenderService(deps RenderServiceDeps) (RenderService, error) {
	if deps.Sites == nil {
		return nil, fmt.Errorf("render service: site service is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("render service: renderer registry is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = noopAuditLogger{}
	}

	return &renderService{
		sites:    deps.Sites,
		registry: deps.Registry,
		assets:   deps.Assets,
		logger:   logger,
	}, nil
}

// RenderPage loads the site bundle, resolves content and visibility, assembles
// renderer input, and dispatches by template slug. Pages the gate hides, and
// slugs the schema does not derive, render the home page instead so a locked
// surface is never reachable by direct URL. Given an unchanged bundle the
// whole pipeline is deterministic.
func (s *renderService) RenderPage(ctx context.Context, siteID, pageSlug string) (renderer.Document, error) {
	bundle, err := s.sites.LoadBundle(ctx, siteID)
	if err != nil {
		return renderer.Document{}, err
	}

	pageSlug = strings.TrimSpace(pageSlug)
	if pageSlug == "" {
		pageSlug = domain.HomePageSlug
	}

	schema, err := domain.ParseTemplateSchema([]byte(bundle.Site.Template.Schema))
	if err != nil {
		s.logger.Warnf("malformed schema for template %s, rendering empty schema: %v", bundle.Site.Template.Slug, err)
		schema = domain.TemplateSchema{}
	}

	resolver := NewContentResolver(nil, bundle.Content, schema, bundle.DemoFallback)
	features := NewFeatureSet(bundle.Features)
	visibility := ComputeVisibility(VisibilityInput{
		Schema:       schema,
		SectionFlags: ParseVisibilityFlags(bundle.Customizations[domain.CustomizationSectionVisibility]),
		PageFlags:    ParseVisibilityFlags(bundle.Customizations[domain.CustomizationPageVisibility]),
		Tier:         bundle.Site.SubscriptionTier,
		Features:     features,
	})

	if pageSlug != domain.HomePageSlug && !visibility.Pages[pageSlug] {
		pageSlug = domain.HomePageSlug
	}

	pages := make([]domain.Page, 0, len(schema.Sections)+1)
	for _, page := range schema.Pages() {
		if visibility.Pages[page.Slug] {
			pages = append(pages, page)
		}
	}

	input := renderer.Input{
		SiteID:            bundle.Site.ID,
		SiteName:          bundle.Site.Name,
		TemplateSlug:      bundle.Site.Template.Slug,
		CurrentPage:       pageSlug,
		Pages:             pages,
		Products:          bundle.Products,
		Manufacturers:     bundle.Manufacturers,
		Schema:            schema,
		Colors:            parseStringMap(bundle.Customizations[domain.CustomizationColors]),
		Fonts:             parseStringMap(bundle.Customizations[domain.CustomizationFonts]),
		SectionVisibility: visibility.Sections,
		EnabledFeatures:   bundle.Features,
		GetContent:        resolver.GetContent,
		ListItems:         resolver.ListItems,
		ResolveAsset: func(value string) string {
			return s.resolveAsset(ctx, value)
		},
	}

	return s.registry.Resolve(bundle.Site.Template.Slug).Render(ctx, input)
}

func (s *renderService) resolveAsset(ctx context.Context, value string) string {
	if s.assets == nil {
		return value
	}
	return s.assets.ServeURL(ctx, value)
}

// parseStringMap decodes a colors/fonts blob, keeping only string values.
// Malformed JSON yields an empty map.
func parseStringMap(raw json.RawMessage) map[string]string {
	values := map[string]string{}
	if len(raw) == 0 {
		return values
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return values
	}
	for key, value := range decoded {
		if s, ok := value.(string); ok {
			values[key] = s
		}
	}
	return values
}
