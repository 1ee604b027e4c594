package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/observability"
	"github.com/dealerpress/api/internal/repositories"
)

// DefaultDemoSitePrefix marks site ids that synthesize a preview from a
// template instead of a live tenant.
const DefaultDemoSitePrefix = "demo-"

type siteService struct {
	sites          repositories.SiteRepository
	templates      repositories.TemplateRepository
	content        repositories.ContentRepository
	customizations repositories.CustomizationRepository
	features       repositories.FeatureRepository
	catalog        repositories.CatalogRepository
	logger         WarnLogger
	demoPrefix     string
	demoContent    map[string]map[string]string
}

// SiteServiceDeps bundles constructor inputs for the site bundle loader.
type SiteServiceDeps struct {
	Sites          repositories.SiteRepository
	Templates      repositories.TemplateRepository
	Content        repositories.ContentRepository
	Customizations repositories.CustomizationRepository
	Features       repositories.FeatureRepository
	Catalog        repositories.CatalogRepository
	Logger         WarnLogger

	// DemoSitePrefix marks preview ids; defaults to DefaultDemoSitePrefix.
	DemoSitePrefix string
	// DemoContent is the constant preview fallback table keyed by template slug.
	DemoContent map[string]map[string]string
}

// NewSiteService creates the loader that assembles complete site bundles.
func NewSiteService(deps SiteServiceDeps) (SiteService, error) {
	if deps.Sites == nil {
		return nil, fmt.Errorf("site service: site repository is required")
	}
	if deps.Templates == nil {
		return nil, fmt.Errorf("site service: template repository is required")
	}
	if deps.Content == nil {
		return nil, fmt.Errorf("site service: content repository is required")
	}
	if deps.Customizations == nil {
		return nil, fmt.Errorf("site service: customization repository is required")
	}
	if deps.Features == nil {
		return nil, fmt.Errorf("site service: feature repository is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("site service: catalog repository is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = noopAuditLogger{}
	}

	prefix := strings.TrimSpace(deps.DemoSitePrefix)
	if prefix == "" {
		prefix = DefaultDemoSitePrefix
	}

	return &siteService{
		sites:          deps.Sites,
		templates:      deps.Templates,
		content:        deps.Content,
		customizations: deps.Customizations,
		features:       deps.Features,
		catalog:        deps.Catalog,
		logger:         logger,
		demoPrefix:     prefix,
		demoContent:    deps.DemoContent,
	}, nil
}

// LoadBundle fetches everything a render needs. The site record loads first;
// the remaining reads are independent and run concurrently, all completing
// before the bundle is returned. A failed feature fetch degrades to an empty
// set with a warning; the other reads are required.
func (s *siteService) LoadBundle(ctx context.Context, siteID string) (SiteBundle, error) {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return SiteBundle{}, fmt.Errorf("site service: site id is required")
	}

	if strings.HasPrefix(siteID, s.demoPrefix) {
		return s.loadDemoBundle(ctx, siteID)
	}

	site, err := s.sites.FindByID(ctx, siteID)
	if err != nil {
		return SiteBundle{}, err
	}

	var (
		wg sync.WaitGroup

		overrides        []domain.ContentOverride
		contentErr       error
		rows             []domain.Customization
		rowsErr          error
		features         []string
		featuresErr      error
		products         []domain.Product
		productsErr      error
		manufacturers    []domain.Manufacturer
		manufacturersErr error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		overrides, contentErr = s.content.ListBySite(ctx, siteID)
	}()
	go func() {
		defer wg.Done()
		rows, rowsErr = s.customizations.ListBySite(ctx, siteID)
	}()
	go func() {
		defer wg.Done()
		features, featuresErr = s.features.EnabledKeys(ctx, siteID)
	}()
	go func() {
		defer wg.Done()
		products, productsErr = s.catalog.ListProducts(ctx, siteID)
	}()
	go func() {
		defer wg.Done()
		manufacturers, manufacturersErr = s.catalog.ListManufacturers(ctx, siteID)
	}()
	wg.Wait()

	if contentErr != nil {
		return SiteBundle{}, fmt.Errorf("load content for site %s: %w", siteID, contentErr)
	}
	if rowsErr != nil {
		return SiteBundle{}, fmt.Errorf("load customizations for site %s: %w", siteID, rowsErr)
	}
	if productsErr != nil {
		return SiteBundle{}, fmt.Errorf("load products for site %s: %w", siteID, productsErr)
	}
	if manufacturersErr != nil {
		return SiteBundle{}, fmt.Errorf("load manufacturers for site %s: %w", siteID, manufacturersErr)
	}
	if featuresErr != nil {
		s.logger.Warnf("feature fetch failed for site %s, continuing with empty set: %v", observability.SanitizeSiteID(siteID), featuresErr)
		features = nil
	}

	return SiteBundle{
		Site:           site,
		Content:        contentMap(overrides),
		Customizations: customizationMap(rows),
		Features:       features,
		Products:       products,
		Manufacturers:  manufacturers,
	}, nil
}

// loadDemoBundle synthesizes a professional-tier site from the template's own
// schema defaults plus the constant demo content table. Unknown templates
// surface the repository not-found error.
func (s *siteService) loadDemoBundle(ctx context.Context, siteID string) (SiteBundle, error) {
	templateSlug := strings.TrimPrefix(siteID, s.demoPrefix)
	template, err := s.templates.FindBySlug(ctx, templateSlug)
	if err != nil {
		return SiteBundle{}, err
	}

	site := domain.Site{
		ID:               siteID,
		Name:             template.Name,
		Slug:             siteID,
		SubscriptionTier: domain.TierProfessional,
		Template:         template,
	}

	return SiteBundle{
		Site:           site,
		Content:        map[string]string{},
		Customizations: map[domain.CustomizationType]json.RawMessage{},
		DemoFallback:   s.demoContent[templateSlug],
		Demo:           true,
	}, nil
}

func contentMap(overrides []domain.ContentOverride) map[string]string {
	values := make(map[string]string, len(overrides))
	for _, override := range overrides {
		if override.FieldKey == "" || override.Value == "" {
			continue
		}
		values[override.FieldKey] = override.Value
	}
	return values
}

func customizationMap(rows []domain.Customization) map[domain.CustomizationType]json.RawMessage {
	values := make(map[domain.CustomizationType]json.RawMessage, len(rows))
	for _, row := range rows {
		if row.Type == "" {
			continue
		}
		values[row.Type] = row.Config
	}
	return values
}
