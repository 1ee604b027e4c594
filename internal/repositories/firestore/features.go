package firestore

import (
	"context"
	"sort"

	fs "cloud.google.com/go/firestore"

	"github.com/dealerpress/api/internal/platform/firestore"
	"github.com/dealerpress/api/internal/repositories"
)

// featureEntity is one feature grant row. Disabled rows stay behind as an
// explicit record; only enabled ones feed the gate.
type featureEntity struct {
	SiteID  string `firestore:"siteId"`
	Key     string `firestore:"key"`
	Enabled bool   `firestore:"enabled"`
}

type featureRepository struct {
	base *firestore.BaseRepository[featureEntity]
}

func newFeatureRepository(provider *firestore.Provider) repositories.FeatureRepository {
	return &featureRepository{
		base: firestore.NewBaseRepository[featureEntity](provider, collectionFeatures, nil),
	}
}

func (r *featureRepository) EnabledKeys(ctx context.Context, siteID string) ([]string, error) {
	docs, err := r.base.Query(ctx, func(query fs.Query) fs.Query {
		return query.Where("siteId", "==", siteID).Where("enabled", "==", true)
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Data.Key != "" {
			keys = append(keys, doc.Data.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
