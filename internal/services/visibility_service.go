package services

import (
	"encoding/json"
	"strings"

	domain "github.com/dealerpress/api/internal/domain"
)

// featuredSectionKey names the one section that is tier-sensitive by default
// but overridable: hidden on basic unless the tenant stored an explicit true.
const featuredSectionKey = "featured"

// Premium add-on surfaces locked below professional regardless of schema flags
// or stored visibility.
var (
	alwaysHiddenSections = map[string]struct{}{
		"inventoryPage": {},
		"rentalsPage":   {},
	}
	alwaysHiddenPages = map[string]struct{}{
		"inventory": {},
		"rentals":   {},
	}
)

// EffectiveVisibility holds the final boolean visibility of every section and
// page for one render. Maps are built fresh per call and total over the
// schema's keys.
type EffectiveVisibility struct {
	Sections map[string]bool
	Pages    map[string]bool
}

// FeatureSet is the set of feature keys enabled for a site.
type FeatureSet map[string]struct{}

// NewFeatureSet builds a set from enabled feature keys, dropping blanks.
func NewFeatureSet(keys []string) FeatureSet {
	set := make(FeatureSet, len(keys))
	for _, key := range keys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// Has reports whether the feature key is enabled.
func (f FeatureSet) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// ParseVisibilityFlags decodes a stored section_visibility or page_visibility
// blob. Malformed JSON yields an empty map, meaning no explicit flags.
func ParseVisibilityFlags(raw json.RawMessage) map[string]bool {
	if len(raw) == 0 {
		return map[string]bool{}
	}
	var flags map[string]bool
	if err := json.Unmarshal(raw, &flags); err != nil || flags == nil {
		return map[string]bool{}
	}
	return flags
}

// VisibilityInput bundles everything the gate folds together.
type VisibilityInput struct {
	Schema       domain.TemplateSchema
	SectionFlags map[string]bool
	PageFlags    map[string]bool
	Tier         domain.SubscriptionTier
	Features     FeatureSet
}

// ComputeVisibility derives the effective visibility of every section and page.
// Stored flags default to visible. Premium surfaces are forced hidden below
// professional regardless of stored values; the featured section defaults to
// hidden on basic but an explicit stored true wins. Sections requiring a
// feature are hidden while the feature is absent.
func ComputeVisibility(in VisibilityInput) EffectiveVisibility {
	professional := domain.HasProfessionalAccess(in.Tier)

	sections := make(map[string]bool, len(in.Schema.Sections))
	for _, section := range in.Schema.Sections {
		sections[section.Key] = sectionVisible(section, in.SectionFlags, professional, in.Features)
	}

	schemaPages := in.Schema.Pages()
	pages := make(map[string]bool, len(schemaPages))
	for _, page := range schemaPages {
		pages[page.Slug] = pageVisible(page, in, professional)
	}

	return EffectiveVisibility{Sections: sections, Pages: pages}
}

func sectionVisible(section domain.Section, flags map[string]bool, professional bool, features FeatureSet) bool {
	stored, hasStored := flags[section.Key]

	if premiumLockedSection(section) && !professional {
		return false
	}
	if section.RequiredFeature != "" && !features.Has(section.RequiredFeature) {
		return false
	}
	if section.Key == featuredSectionKey && !professional {
		// Default hidden on basic; only an explicit stored true reveals it.
		return hasStored && stored
	}
	if hasStored {
		return stored
	}
	return true
}

func pageVisible(page domain.Page, in VisibilityInput, professional bool) bool {
	if premiumLockedPage(page) && !professional {
		return false
	}
	if section, ok := in.Schema.Section(page.Slug + domain.PageSectionSuffix); ok {
		if section.RequiredFeature != "" && !in.Features.Has(section.RequiredFeature) {
			return false
		}
	}
	if stored, ok := in.PageFlags[page.Slug]; ok {
		return stored
	}
	return true
}

func premiumLockedSection(section domain.Section) bool {
	if section.Premium {
		return true
	}
	_, locked := alwaysHiddenSections[section.Key]
	return locked
}

func premiumLockedPage(page domain.Page) bool {
	if page.Premium {
		return true
	}
	_, locked := alwaysHiddenPages[page.Slug]
	return locked
}
