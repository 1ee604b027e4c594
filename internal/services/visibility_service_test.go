package services

import (
	"encoding/json"
	"reflect"
	"testing"

	domain "github.com/dealerpress/api/internal/domain"
)

func TestComputeVisibilityTierInvariant(t *testing.T) {
	schema := testEngineSchema()

	tests := []struct {
		name         string
		tier         domain.SubscriptionTier
		sectionFlags map[string]bool
		pageFlags    map[string]bool
		wantSection  map[string]bool
		wantPage     map[string]bool
	}{
		{
			name: "basic tier hides premium surfaces",
			tier: domain.TierBasic,
			wantSection: map[string]bool{
				"hero": true, "featured": false, "testimonials": true,
				"servicePage": true, "inventoryPage": false, "rentalsPage": false,
			},
			wantPage: map[string]bool{
				"home": true, "service": true, "inventory": false, "rentals": false,
			},
		},
		{
			name:         "stored true cannot reveal premium on basic",
			tier:         domain.TierBasic,
			sectionFlags: map[string]bool{"inventoryPage": true},
			pageFlags:    map[string]bool{"inventory": true, "rentals": true},
			wantSection: map[string]bool{
				"hero": true, "featured": false, "testimonials": true,
				"servicePage": true, "inventoryPage": false, "rentalsPage": false,
			},
			wantPage: map[string]bool{
				"home": true, "service": true, "inventory": false, "rentals": false,
			},
		},
		{
			name: "professional tier defaults everything visible",
			tier: domain.TierProfessional,
			wantSection: map[string]bool{
				"hero": true, "featured": true, "testimonials": true,
				"servicePage": true, "inventoryPage": true, "rentalsPage": true,
			},
			wantPage: map[string]bool{
				"home": true, "service": true, "inventory": true, "rentals": true,
			},
		},
		{
			name:         "professional tier honours stored false",
			tier:         domain.TierProfessional,
			sectionFlags: map[string]bool{"testimonials": false},
			pageFlags:    map[string]bool{"inventory": false},
			wantSection: map[string]bool{
				"hero": true, "featured": true, "testimonials": false,
				"servicePage": true, "inventoryPage": true, "rentalsPage": true,
			},
			wantPage: map[string]bool{
				"home": true, "service": true, "inventory": false, "rentals": true,
			},
		},
		{
			name:         "explicit true reveals featured on basic",
			tier:         domain.TierBasic,
			sectionFlags: map[string]bool{"featured": true},
			wantSection: map[string]bool{
				"hero": true, "featured": true, "testimonials": true,
				"servicePage": true, "inventoryPage": false, "rentalsPage": false,
			},
			wantPage: map[string]bool{
				"home": true, "service": true, "inventory": false, "rentals": false,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeVisibility(VisibilityInput{
				Schema:       schema,
				SectionFlags: tc.sectionFlags,
				PageFlags:    tc.pageFlags,
				Tier:         tc.tier,
			})
			if !reflect.DeepEqual(got.Sections, tc.wantSection) {
				t.Errorf("sections = %v, want %v", got.Sections, tc.wantSection)
			}
			if !reflect.DeepEqual(got.Pages, tc.wantPage) {
				t.Errorf("pages = %v, want %v", got.Pages, tc.wantPage)
			}
		})
	}
}

func TestComputeVisibilityPremiumFlaggedFeaturedStaysHidden(t *testing.T) {
	schema := domain.TemplateSchema{
		Sections: []domain.Section{
			{Key: "featured", Premium: true, DisplayOrder: 1},
		},
	}

	got := ComputeVisibility(VisibilityInput{
		Schema:       schema,
		SectionFlags: map[string]bool{"featured": true},
		Tier:         domain.TierBasic,
	})
	if got.Sections["featured"] {
		t.Error("premium-flagged featured section must stay hidden on basic despite stored true")
	}
}

func TestComputeVisibilityRequiredFeature(t *testing.T) {
	schema := domain.TemplateSchema{
		Sections: []domain.Section{
			{Key: "financing", RequiredFeature: "financing_calculator", DisplayOrder: 1},
			{Key: "partsPage", RequiredFeature: "parts_lookup", DisplayOrder: 2},
		},
	}

	got := ComputeVisibility(VisibilityInput{
		Schema:   schema,
		Tier:     domain.TierProfessional,
		Features: NewFeatureSet([]string{"financing_calculator"}),
	})
	if !got.Sections["financing"] {
		t.Error("section with enabled feature should be visible")
	}
	if got.Sections["partsPage"] {
		t.Error("section missing its required feature should be hidden")
	}
	if got.Pages["parts"] {
		t.Error("page backed by a feature-gated section should be hidden")
	}
}

func TestComputeVisibilityIdempotent(t *testing.T) {
	schema := testEngineSchema()
	input := VisibilityInput{
		Schema:       schema,
		SectionFlags: map[string]bool{"featured": true, "testimonials": false},
		PageFlags:    map[string]bool{"service": false},
		Tier:         domain.TierBasic,
		Features:     NewFeatureSet([]string{"x"}),
	}

	first := ComputeVisibility(input)
	second := ComputeVisibility(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated computation differs: %v vs %v", first, second)
	}

	// The gate returns fresh maps; mutating one run must not leak into the next.
	first.Sections["hero"] = false
	third := ComputeVisibility(input)
	if !third.Sections["hero"] {
		t.Error("mutating a result leaked into a later computation")
	}
}

func TestParseVisibilityFlags(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
		want map[string]bool
	}{
		{name: "nil blob", raw: nil, want: map[string]bool{}},
		{name: "valid flags", raw: json.RawMessage(`{"hero":false,"featured":true}`), want: map[string]bool{"hero": false, "featured": true}},
		{name: "malformed blob", raw: json.RawMessage(`{"hero":`), want: map[string]bool{}},
		{name: "wrong shape", raw: json.RawMessage(`[1,2]`), want: map[string]bool{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseVisibilityFlags(tc.raw); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseVisibilityFlags = %v, want %v", got, tc.want)
			}
		})
	}
}
