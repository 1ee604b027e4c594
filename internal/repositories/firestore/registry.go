// Package firestore provides the Firestore-backed implementations of the
// repository contracts.
package firestore

import (
	"context"
	"fmt"

	"github.com/dealerpress/api/internal/platform/firestore"
	"github.com/dealerpress/api/internal/repositories"
)

// Collection names. Content and customization rows live in flat collections
// with composite document ids so a full site load stays a pair of equality
// queries.
const (
	collectionSites          = "sites"
	collectionTemplates      = "templates"
	collectionContent        = "siteContent"
	collectionCustomizations = "siteCustomizations"
	collectionFeatures       = "siteFeatures"
	collectionProducts       = "products"
	collectionManufacturers  = "manufacturers"
	collectionAuditLogs      = "auditLogs"
)

type registry struct {
	provider *firestore.Provider

	sites          repositories.SiteRepository
	templates      repositories.TemplateRepository
	content        repositories.ContentRepository
	customizations repositories.CustomizationRepository
	features       repositories.FeatureRepository
	catalog        repositories.CatalogRepository
	auditLogs      repositories.AuditLogRepository
}

// NewRegistry wires every repository over a shared Firestore provider.
func NewRegistry(provider *firestore.Provider) (repositories.Registry, error) {
	if provider == nil {
		return nil, fmt.Errorf("firestore registry: provider is required")
	}

	templates := newTemplateRepository(provider)
	return &registry{
		provider:       provider,
		sites:          newSiteRepository(provider, templates),
		templates:      templates,
		content:        newContentRepository(provider),
		customizations: newCustomizationRepository(provider),
		features:       newFeatureRepository(provider),
		catalog:        newCatalogRepository(provider),
		auditLogs:      newAuditLogRepository(provider),
	}, nil
}

func (r *registry) Close(context.Context) error {
	return r.provider.Close()
}

func (r *registry) Sites() repositories.SiteRepository                   { return r.sites }
func (r *registry) Templates() repositories.TemplateRepository           { return r.templates }
func (r *registry) Content() repositories.ContentRepository              { return r.content }
func (r *registry) Customizations() repositories.CustomizationRepository { return r.customizations }
func (r *registry) Features() repositories.FeatureRepository             { return r.features }
func (r *registry) Catalog() repositories.CatalogRepository              { return r.catalog }
func (r *registry) AuditLogs() repositories.AuditLogRepository           { return r.auditLogs }
