package services

import (
	"context"
	"fmt"

	domain "github.com/dealerpress/api/internal/domain"
)

// Step is one stop of the editing walkthrough: a subsection group of fields on
// one page. Steps carry their index so navigation can be recomputed from the
// index alone.
type Step struct {
	Index      int      `json:"index"`
	PageSlug   string   `json:"pageSlug"`
	SectionKey string   `json:"sectionKey"`
	GroupLabel string   `json:"groupLabel"`
	FieldKeys  []string `json:"fieldKeys"`
}

// StepStatus pairs a step with its content completion state.
type StepStatus struct {
	Step
	Complete bool `json:"complete"`
}

// TourSteps derives the ordered walkthrough from the schema: pages in
// navigation order, sections in display order, subsection groups in declared
// order. Sections locked for the tier or missing a required feature are
// skipped entirely, never emitted as disabled steps.
func TourSteps(schema domain.TemplateSchema, tier domain.SubscriptionTier, features FeatureSet) []Step {
	professional := domain.HasProfessionalAccess(tier)

	var steps []Step
	for _, page := range schema.Pages() {
		if premiumLockedPage(page) && !professional {
			continue
		}
		for _, section := range schema.SectionsForPage(page.Slug) {
			if premiumLockedSection(section) && !professional {
				continue
			}
			if section.RequiredFeature != "" && !features.Has(section.RequiredFeature) {
				continue
			}
			for _, group := range schema.GroupedFields(section.Key) {
				keys := make([]string, 0, len(group.Fields))
				for _, field := range group.Fields {
					keys = append(keys, fmt.Sprintf("%s.%s", section.Key, field.Key))
				}
				steps = append(steps, Step{
					Index:      len(steps),
					PageSlug:   page.Slug,
					SectionKey: section.Key,
					GroupLabel: group.Label,
					FieldKeys:  keys,
				})
			}
		}
	}
	return steps
}

// CompletionChecklist resolves every field of every step; a step is complete
// only when all its fields resolve to a non-empty value.
func CompletionChecklist(steps []Step, resolver *ContentResolver) []StepStatus {
	statuses := make([]StepStatus, 0, len(steps))
	for _, step := range steps {
		complete := true
		for _, key := range step.FieldKeys {
			if resolver.GetContent(key) == "" {
				complete = false
				break
			}
		}
		statuses = append(statuses, StepStatus{Step: step, Complete: complete})
	}
	return statuses
}

// NextStep returns the step after the given index, recomputed purely from the
// index so a resumed tour lands in the right place.
func NextStep(steps []Step, index int) (Step, bool) {
	next := index + 1
	if next < 0 || next >= len(steps) {
		return Step{}, false
	}
	return steps[next], true
}

// PrevStep returns the step before the given index.
func PrevStep(steps []Step, index int) (Step, bool) {
	prev := index - 1
	if prev < 0 || prev >= len(steps) {
		return Step{}, false
	}
	return steps[prev], true
}

type tourService struct {
	sites SiteService
}

// TourServiceDeps bundles constructor inputs for the tour service.
type TourServiceDeps struct {
	Sites SiteService
}

// NewTourService creates a tour generator over loaded site bundles.
func NewTourService(deps TourServiceDeps) (TourService, error) {
	if deps.Sites == nil {
		return nil, fmt.Errorf("tour service: site service is required")
	}
	return &tourService{sites: deps.Sites}, nil
}

// TourForSite loads the site bundle and derives the tier-filtered walkthrough
// with completion state.
func (s *tourService) TourForSite(ctx context.Context, siteID string) (SiteTour, error) {
	bundle, err := s.sites.LoadBundle(ctx, siteID)
	if err != nil {
		return SiteTour{}, err
	}

	schema, err := domain.ParseTemplateSchema([]byte(bundle.Site.Template.Schema))
	if err != nil {
		schema = domain.TemplateSchema{}
	}

	features := NewFeatureSet(bundle.Features)
	steps := TourSteps(schema, bundle.Site.SubscriptionTier, features)
	resolver := NewContentResolver(nil, bundle.Content, schema, bundle.DemoFallback)

	return SiteTour{Steps: CompletionChecklist(steps, resolver)}, nil
}
