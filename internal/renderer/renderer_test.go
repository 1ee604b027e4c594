package renderer

import (
	"context"
	"strings"
	"testing"

	domain "github.com/dealerpress/api/internal/domain"
)

type markerRenderer struct{ tag string }

func (r markerRenderer) Render(_ context.Context, _ Input) (Document, error) {
	return Document{HTML: r.tag, ContentType: HTMLContentType}, nil
}

func TestRegistryResolve(t *testing.T) {
	fallback := markerRenderer{tag: "generic"}
	registry := NewRegistry(fallback)
	registry.Register("classic", markerRenderer{tag: "classic"})
	registry.Register("", markerRenderer{tag: "ignored"})

	tests := []struct {
		slug string
		want string
	}{
		{slug: "classic", want: "classic"},
		{slug: " classic ", want: "classic"},
		{slug: "acme-custom", want: "generic"},
		{slug: "", want: "generic"},
	}

	for _, tc := range tests {
		doc, err := registry.Resolve(tc.slug).Render(context.Background(), Input{})
		if err != nil {
			t.Fatalf("Render returned error: %v", err)
		}
		if doc.HTML != tc.want {
			t.Errorf("Resolve(%q) rendered %q, want %q", tc.slug, doc.HTML, tc.want)
		}
	}
}

func rendererTestSchema() domain.TemplateSchema {
	return domain.TemplateSchema{
		Sections: []domain.Section{
			{
				Key:          "hero",
				Label:        "Hero",
				DisplayOrder: 1,
				Fields: []domain.Field{
					{Key: "heading", Type: domain.FieldTypeText, Default: "Welcome", DisplayOrder: 1},
					{Key: "backgroundImage", Type: domain.FieldTypeImage, DisplayOrder: 2},
					{Key: "contactEmail", Type: domain.FieldTypeEmail, DisplayOrder: 3},
				},
			},
			{
				Key:          "testimonials",
				Label:        "Testimonials",
				DisplayOrder: 2,
				Fields: []domain.Field{
					{Key: "items", Type: domain.FieldTypeJSON, DisplayOrder: 1},
				},
			},
			{
				Key:          "servicePage",
				Label:        "Service",
				DisplayOrder: 3,
				Fields: []domain.Field{
					{Key: "intro", Type: domain.FieldTypeTextarea, DisplayOrder: 1},
				},
			},
		},
	}
}

func rendererTestInput(content map[string]string, items map[string][]map[string]any) Input {
	schema := rendererTestSchema()
	return Input{
		SiteID:       "site-1",
		SiteName:     "Valley Equipment",
		TemplateSlug: "acme-custom",
		CurrentPage:  domain.HomePageSlug,
		Pages:        schema.Pages(),
		Schema:       schema,
		GetContent: func(key string) string {
			return content[key]
		},
		ListItems: func(key string) []map[string]any {
			return items[key]
		},
		ResolveAsset: func(value string) string {
			return "https://cdn.example.com/" + value
		},
	}
}

func TestGenericRendererHomePage(t *testing.T) {
	renderer, err := NewGenericRenderer()
	if err != nil {
		t.Fatalf("NewGenericRenderer returned error: %v", err)
	}

	in := rendererTestInput(map[string]string{
		"hero.heading":         "Best Mowers",
		"hero.backgroundImage": "assets/hero.jpg",
		"hero.contactEmail":    "sales@example.com",
	}, map[string][]map[string]any{
		"testimonials.items": {{"text": "Great service"}},
	})

	doc, err := renderer.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if doc.ContentType != HTMLContentType {
		t.Errorf("content type = %q", doc.ContentType)
	}

	wantFragments := []string{
		"<title>Valley Equipment</title>",
		`<section id="hero">`,
		"<p>Best Mowers</p>",
		`src="https://cdn.example.com/assets/hero.jpg"`,
		`href="mailto:sales@example.com"`,
		"<li>Great service</li>",
		`<a href="?page=service"`,
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(doc.HTML, fragment) {
			t.Errorf("rendered page missing %q", fragment)
		}
	}
	if strings.Contains(doc.HTML, "servicePage") {
		t.Error("home page rendered a dedicated page section")
	}
}

func TestGenericRendererSanitizesContent(t *testing.T) {
	renderer, err := NewGenericRenderer()
	if err != nil {
		t.Fatalf("NewGenericRenderer returned error: %v", err)
	}

	in := rendererTestInput(map[string]string{
		"hero.heading": `<script>alert("x")</script>Safe`,
	}, nil)

	doc, err := renderer.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(doc.HTML, "<script>") {
		t.Error("script tag survived sanitization")
	}
	if !strings.Contains(doc.HTML, "Safe") {
		t.Error("safe text was stripped")
	}
}

func TestGenericRendererSkipsHiddenSections(t *testing.T) {
	renderer, err := NewGenericRenderer()
	if err != nil {
		t.Fatalf("NewGenericRenderer returned error: %v", err)
	}

	in := rendererTestInput(map[string]string{"hero.heading": "Best Mowers"}, nil)
	in.SectionVisibility = map[string]bool{"hero": false}

	doc, err := renderer.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(doc.HTML, `<section id="hero">`) {
		t.Error("hidden section rendered")
	}
}

func TestGenericRendererOmitsEmptyItemLists(t *testing.T) {
	renderer, err := NewGenericRenderer()
	if err != nil {
		t.Fatalf("NewGenericRenderer returned error: %v", err)
	}

	in := rendererTestInput(nil, nil)
	doc, err := renderer.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(doc.HTML, "<ul>") {
		t.Error("empty item list produced markup")
	}
}

func TestGenericRendererDedicatedPage(t *testing.T) {
	renderer, err := NewGenericRenderer()
	if err != nil {
		t.Fatalf("NewGenericRenderer returned error: %v", err)
	}

	in := rendererTestInput(map[string]string{
		"servicePage.intro": "<p>Factory trained <em>technicians</em></p>",
	}, nil)
	in.CurrentPage = "service"

	doc, err := renderer.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(doc.HTML, "<title>Service | Valley Equipment</title>") {
		t.Errorf("unexpected title in %q", doc.HTML)
	}
	if !strings.Contains(doc.HTML, `<section id="servicePage">`) {
		t.Error("service page missing its section")
	}
	if !strings.Contains(doc.HTML, "<em>technicians</em>") {
		t.Error("rich text field lost its formatting")
	}
}

func TestGenericRendererCustomColors(t *testing.T) {
	renderer, err := NewGenericRenderer()
	if err != nil {
		t.Fatalf("NewGenericRenderer returned error: %v", err)
	}

	in := rendererTestInput(nil, nil)
	in.Colors = map[string]string{"primary": "#102030", "accent": "bad;value{}"}

	doc, err := renderer.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(doc.HTML, "--color-primary:#102030") {
		t.Error("custom primary color not applied")
	}
	if strings.Contains(doc.HTML, "bad;value") {
		t.Error("unsafe accent value leaked into the stylesheet")
	}
}

func TestShippedRenderersProduceFullShells(t *testing.T) {
	registry, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry returned error: %v", err)
	}

	in := rendererTestInput(map[string]string{"hero.heading": "Best Mowers"}, nil)
	for _, slug := range []string{"classic", "summit", "acme-custom"} {
		doc, err := registry.Resolve(slug).Render(context.Background(), in)
		if err != nil {
			t.Fatalf("%s: Render returned error: %v", slug, err)
		}
		for _, fragment := range []string{"<!DOCTYPE html>", "Valley Equipment", "Best Mowers", "</html>"} {
			if !strings.Contains(doc.HTML, fragment) {
				t.Errorf("%s: rendered page missing %q", slug, fragment)
			}
		}
	}
}
