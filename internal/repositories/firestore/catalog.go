package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/firestore"
	"github.com/dealerpress/api/internal/repositories"
)

// catalogRepository reads products and manufacturers as untyped maps. The
// engine never interprets catalog fields; renderers pick what they display.
type catalogRepository struct {
	products      *firestore.BaseRepository[map[string]any]
	manufacturers *firestore.BaseRepository[map[string]any]
}

func newCatalogRepository(provider *firestore.Provider) repositories.CatalogRepository {
	return &catalogRepository{
		products:      firestore.NewBaseRepository(provider, collectionProducts, firestore.MapDecoder()),
		manufacturers: firestore.NewBaseRepository(provider, collectionManufacturers, firestore.MapDecoder()),
	}
}

func (r *catalogRepository) ListProducts(ctx context.Context, siteID string) ([]domain.Product, error) {
	docs, err := r.products.Query(ctx, bySite(siteID))
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, domain.Product(withID(doc.Data, doc.ID)))
	}
	return products, nil
}

func (r *catalogRepository) ListManufacturers(ctx context.Context, siteID string) ([]domain.Manufacturer, error) {
	docs, err := r.manufacturers.Query(ctx, bySite(siteID))
	if err != nil {
		return nil, err
	}
	manufacturers := make([]domain.Manufacturer, 0, len(docs))
	for _, doc := range docs {
		manufacturers = append(manufacturers, domain.Manufacturer(withID(doc.Data, doc.ID)))
	}
	return manufacturers, nil
}

func bySite(siteID string) firestore.QueryBuilder {
	return func(query fs.Query) fs.Query {
		return query.Where("siteId", "==", siteID)
	}
}

func withID(data map[string]any, id string) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["id"]; !ok {
		data["id"] = id
	}
	return data
}
