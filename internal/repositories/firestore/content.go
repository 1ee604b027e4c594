package firestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	fs "cloud.google.com/go/firestore"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/firestore"
	"github.com/dealerpress/api/internal/repositories"
)

// contentEntity is one stored field override. The document id is
// "<siteID>__<fieldKey>" so an upsert per key needs no prior read.
type contentEntity struct {
	SiteID    string    `firestore:"siteId"`
	FieldKey  string    `firestore:"fieldKey"`
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type contentRepository struct {
	base *firestore.BaseRepository[contentEntity]
}

func newContentRepository(provider *firestore.Provider) repositories.ContentRepository {
	return &contentRepository{
		base: firestore.NewBaseRepository[contentEntity](provider, collectionContent, nil),
	}
}

func (r *contentRepository) ListBySite(ctx context.Context, siteID string) ([]domain.ContentOverride, error) {
	docs, err := r.base.Query(ctx, func(query fs.Query) fs.Query {
		return query.Where("siteId", "==", siteID)
	})
	if err != nil {
		return nil, err
	}

	overrides := make([]domain.ContentOverride, 0, len(docs))
	for _, doc := range docs {
		overrides = append(overrides, domain.ContentOverride{
			FieldKey:  doc.Data.FieldKey,
			Value:     doc.Data.Value,
			UpdatedAt: doc.Data.UpdatedAt,
		})
	}
	return overrides, nil
}

func (r *contentRepository) Upsert(ctx context.Context, siteID string, override domain.ContentOverride) error {
	id, err := compositeID(siteID, override.FieldKey)
	if err != nil {
		return err
	}
	_, err = r.base.Set(ctx, id, contentEntity{
		SiteID:    siteID,
		FieldKey:  override.FieldKey,
		Value:     override.Value,
		UpdatedAt: override.UpdatedAt,
	})
	return err
}

func (r *contentRepository) Delete(ctx context.Context, siteID string, fieldKey string) error {
	id, err := compositeID(siteID, fieldKey)
	if err != nil {
		return err
	}
	return r.base.Delete(ctx, id)
}

// compositeID joins a site id and a row key into a deterministic document id.
// Firestore forbids "/" in ids; field keys are dotted so "__" stays unambiguous.
func compositeID(siteID, key string) (string, error) {
	siteID = strings.TrimSpace(siteID)
	key = strings.TrimSpace(key)
	if siteID == "" || key == "" {
		return "", fmt.Errorf("firestore: composite id requires site id and key")
	}
	if strings.Contains(siteID, "/") || strings.Contains(key, "/") {
		return "", fmt.Errorf("firestore: composite id parts must not contain '/'")
	}
	return siteID + "__" + key, nil
}
