package firestore

import (
	"context"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/firestore"
	"github.com/dealerpress/api/internal/repositories"
)

// templateEntity is the persisted shape of a visual template. The schema stays
// a raw JSON string; decoding is the schema model's concern.
type templateEntity struct {
	Name   string `firestore:"name"`
	Schema string `firestore:"schema"`
}

type templateRepository struct {
	base *firestore.BaseRepository[templateEntity]
}

func newTemplateRepository(provider *firestore.Provider) repositories.TemplateRepository {
	return &templateRepository{
		base: firestore.NewBaseRepository[templateEntity](provider, collectionTemplates, nil),
	}
}

// FindBySlug resolves a template; the slug doubles as the document id.
func (r *templateRepository) FindBySlug(ctx context.Context, slug string) (domain.Template, error) {
	doc, err := r.base.Get(ctx, slug)
	if err != nil {
		return domain.Template{}, err
	}
	return domain.Template{
		Name:   doc.Data.Name,
		Slug:   doc.ID,
		Schema: doc.Data.Schema,
	}, nil
}
