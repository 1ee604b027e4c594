package services

import (
	"reflect"
	"testing"

	domain "github.com/dealerpress/api/internal/domain"
)

func testEngineSchema() domain.TemplateSchema {
	return domain.TemplateSchema{
		Sections: []domain.Section{
			{
				Key:          "hero",
				Label:        "Hero",
				DisplayOrder: 1,
				Fields: []domain.Field{
					{Key: "heading", Type: domain.FieldTypeText, Default: "Welcome", DisplayOrder: 1},
					{Key: "tagline", Type: domain.FieldTypeText, DisplayOrder: 2},
					{Key: "_details", Type: domain.FieldTypeHeading, Default: "Details", DisplayOrder: 3},
					{Key: "backgroundImage", Type: domain.FieldTypeImage, DisplayOrder: 4},
				},
			},
			{
				Key:          "featured",
				Label:        "Featured Equipment",
				DisplayOrder: 2,
				Fields: []domain.Field{
					{Key: "heading", Type: domain.FieldTypeText, Default: "Featured", DisplayOrder: 1},
				},
			},
			{
				Key:          "testimonials",
				Label:        "Testimonials",
				DisplayOrder: 3,
				Fields: []domain.Field{
					{Key: "items", Type: domain.FieldTypeJSON, DisplayOrder: 1},
				},
			},
			{
				Key:          "servicePage",
				Label:        "Service",
				DisplayOrder: 4,
				Fields: []domain.Field{
					{Key: "intro", Type: domain.FieldTypeText, Default: "Our service department", DisplayOrder: 1},
				},
			},
			{
				Key:          "inventoryPage",
				Label:        "Inventory",
				DisplayOrder: 5,
				Premium:      true,
				Fields: []domain.Field{
					{Key: "intro", Type: domain.FieldTypeText, DisplayOrder: 1},
				},
			},
			{
				Key:          "rentalsPage",
				Label:        "Rentals",
				DisplayOrder: 6,
				Fields: []domain.Field{
					{Key: "intro", Type: domain.FieldTypeText, DisplayOrder: 1},
				},
			},
		},
	}
}

func TestGetContentPrecedence(t *testing.T) {
	schema := testEngineSchema()
	request := map[string]string{"hero.heading": "From Request"}
	stored := map[string]string{"hero.heading": "Best Mowers"}
	demo := map[string]string{"hero.heading": "Demo Heading", "hero.tagline": "Demo Tagline"}

	tests := []struct {
		name     string
		resolver *ContentResolver
		key      string
		want     string
	}{
		{
			name:     "request layer wins over all others",
			resolver: NewContentResolver(request, stored, schema, demo),
			key:      "hero.heading",
			want:     "From Request",
		},
		{
			name:     "stored override wins without request value",
			resolver: NewContentResolver(nil, stored, schema, demo),
			key:      "hero.heading",
			want:     "Best Mowers",
		},
		{
			name:     "schema default wins without stored value",
			resolver: NewContentResolver(nil, nil, schema, demo),
			key:      "hero.heading",
			want:     "Welcome",
		},
		{
			name:     "demo fallback wins without schema default",
			resolver: NewContentResolver(nil, nil, schema, demo),
			key:      "hero.tagline",
			want:     "Demo Tagline",
		},
		{
			name:     "empty string terminal",
			resolver: NewContentResolver(nil, nil, schema, nil),
			key:      "hero.tagline",
			want:     "",
		},
		{
			name:     "empty request value falls through",
			resolver: NewContentResolver(map[string]string{"hero.heading": ""}, stored, schema, demo),
			key:      "hero.heading",
			want:     "Best Mowers",
		},
		{
			name:     "unknown key resolves empty",
			resolver: NewContentResolver(request, stored, schema, demo),
			key:      "nosuch.field",
			want:     "",
		},
		{
			name:     "three part key skips schema default",
			resolver: NewContentResolver(nil, nil, schema, nil),
			key:      "hero.heading.extra",
			want:     "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.resolver.GetContent(tc.key); got != tc.want {
				t.Errorf("GetContent(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestListItemsRecoversFromMalformedJSON(t *testing.T) {
	schema := testEngineSchema()
	stored := map[string]string{"testimonials.items": `{"not": "an array"`}

	resolver := NewContentResolver(nil, stored, schema, nil)
	if got := resolver.ListItems("testimonials.items"); len(got) != 0 {
		t.Errorf("expected zero items for malformed JSON, got %v", got)
	}
}

func TestListItemsDecodesStoredArray(t *testing.T) {
	schema := testEngineSchema()
	stored := map[string]string{"testimonials.items": `[{"text":"Great service","name":"Pat"}]`}

	resolver := NewContentResolver(nil, stored, schema, nil)
	got := resolver.ListItems("testimonials.items")
	want := []map[string]any{{"text": "Great service", "name": "Pat"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListItems = %v, want %v", got, want)
	}
}

func TestObjectValueRecoversFromMalformedJSON(t *testing.T) {
	stored := map[string]string{"servicePage.hours": `[1,2,3]`}

	resolver := NewContentResolver(nil, stored, domain.TemplateSchema{}, nil)
	if got := resolver.ObjectValue("servicePage.hours"); len(got) != 0 {
		t.Errorf("expected empty object for mistyped JSON, got %v", got)
	}
	if got := resolver.ObjectValue("servicePage.missing"); len(got) != 0 {
		t.Errorf("expected empty object for missing key, got %v", got)
	}
}
