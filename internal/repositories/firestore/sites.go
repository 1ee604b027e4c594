package firestore

import (
	"context"
	"time"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/firestore"
	"github.com/dealerpress/api/internal/repositories"
)

// siteEntity is the persisted shape of a tenant site. The template is stored
// by slug and joined on read so schema updates apply to every site at once.
type siteEntity struct {
	Name             string    `firestore:"name"`
	Slug             string    `firestore:"slug"`
	SubscriptionTier string    `firestore:"subscriptionTier"`
	TemplateSlug     string    `firestore:"templateSlug"`
	CreatedAt        time.Time `firestore:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt"`
}

type siteRepository struct {
	base      *firestore.BaseRepository[siteEntity]
	templates repositories.TemplateRepository
}

func newSiteRepository(provider *firestore.Provider, templates repositories.TemplateRepository) repositories.SiteRepository {
	return &siteRepository{
		base:      firestore.NewBaseRepository[siteEntity](provider, collectionSites, nil),
		templates: templates,
	}
}

func (r *siteRepository) FindByID(ctx context.Context, siteID string) (domain.Site, error) {
	doc, err := r.base.Get(ctx, siteID)
	if err != nil {
		return domain.Site{}, err
	}

	site := domain.Site{
		ID:               doc.ID,
		Name:             doc.Data.Name,
		Slug:             doc.Data.Slug,
		SubscriptionTier: domain.SubscriptionTier(doc.Data.SubscriptionTier),
		CreatedAt:        doc.Data.CreatedAt,
		UpdatedAt:        doc.Data.UpdatedAt,
	}

	if doc.Data.TemplateSlug != "" {
		template, err := r.templates.FindBySlug(ctx, doc.Data.TemplateSlug)
		if err != nil {
			return domain.Site{}, err
		}
		site.Template = template
	}
	return site, nil
}
