package firestore

import (
	"context"
	"encoding/json"
	"time"

	fs "cloud.google.com/go/firestore"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/firestore"
	"github.com/dealerpress/api/internal/repositories"
)

// customizationEntity is one stored design blob. The config is persisted as a
// JSON string; services treat it as opaque until parse time. The document id is
// "<siteID>__<type>", one row per type.
type customizationEntity struct {
	SiteID    string    `firestore:"siteId"`
	Type      string    `firestore:"type"`
	Config    string    `firestore:"config"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type customizationRepository struct {
	base *firestore.BaseRepository[customizationEntity]
}

func newCustomizationRepository(provider *firestore.Provider) repositories.CustomizationRepository {
	return &customizationRepository{
		base: firestore.NewBaseRepository[customizationEntity](provider, collectionCustomizations, nil),
	}
}

func (r *customizationRepository) ListBySite(ctx context.Context, siteID string) ([]domain.Customization, error) {
	docs, err := r.base.Query(ctx, func(query fs.Query) fs.Query {
		return query.Where("siteId", "==", siteID)
	})
	if err != nil {
		return nil, err
	}

	rows := make([]domain.Customization, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, domain.Customization{
			Type:      domain.CustomizationType(doc.Data.Type),
			Config:    json.RawMessage(doc.Data.Config),
			UpdatedAt: doc.Data.UpdatedAt,
		})
	}
	return rows, nil
}

func (r *customizationRepository) Upsert(ctx context.Context, siteID string, customization domain.Customization) error {
	id, err := compositeID(siteID, string(customization.Type))
	if err != nil {
		return err
	}
	_, err = r.base.Set(ctx, id, customizationEntity{
		SiteID:    siteID,
		Type:      string(customization.Type),
		Config:    string(customization.Config),
		UpdatedAt: customization.UpdatedAt,
	})
	return err
}
