package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/config"
	"github.com/dealerpress/api/internal/platform/storage"
	"github.com/dealerpress/api/internal/renderer"
)

type fakeURLSigner struct{}

func (fakeURLSigner) Email() string { return "render@dp.iam.gserviceaccount.com" }

func (fakeURLSigner) SignBytes(context.Context, []byte) ([]byte, error) {
	return []byte("signature"), nil
}

type capturingRenderer struct {
	input  renderer.Input
	called bool
	html   string
}

func (r *capturingRenderer) Render(_ context.Context, in renderer.Input) (renderer.Document, error) {
	r.called = true
	r.input = in
	return renderer.Document{HTML: r.html, ContentType: renderer.HTMLContentType}, nil
}

func newTestRenderService(t *testing.T, deps RenderServiceDeps) RenderService {
	t.Helper()
	service, err := NewRenderService(deps)
	if err != nil {
		t.Fatalf("NewRenderService returned error: %v", err)
	}
	return service
}

func renderTestBundle(t *testing.T, templateSlug string) SiteBundle {
	t.Helper()
	raw, err := schemaJSON(testEngineSchema())
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	return SiteBundle{
		Site: domain.Site{
			ID:               "site-1",
			Name:             "Valley Equipment",
			SubscriptionTier: domain.TierProfessional,
			Template:         domain.Template{Name: "Custom", Slug: templateSlug, Schema: raw},
		},
		Content: map[string]string{"hero.heading": "Best Mowers"},
	}
}

func TestRenderPageDispatchesBySlug(t *testing.T) {
	classic := &capturingRenderer{html: "<html>classic</html>"}
	fallback := &capturingRenderer{html: "<html>generic</html>"}
	registry := renderer.NewRegistry(fallback)
	registry.Register("classic", classic)

	service := newTestRenderService(t, RenderServiceDeps{
		Sites:    &stubSiteService{bundle: renderTestBundle(t, "classic")},
		Registry: registry,
	})

	doc, err := service.RenderPage(context.Background(), "site-1", "service")
	if err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}
	if !classic.called || fallback.called {
		t.Fatal("expected the classic renderer to handle the page")
	}
	if doc.HTML != "<html>classic</html>" || doc.ContentType != renderer.HTMLContentType {
		t.Errorf("unexpected document: %+v", doc)
	}
	if classic.input.CurrentPage != "service" {
		t.Errorf("current page = %q, want service", classic.input.CurrentPage)
	}
	if got := classic.input.Content("hero.heading"); got != "Best Mowers" {
		t.Errorf("resolved content = %q, want stored override", got)
	}
}

func TestRenderPageUnknownSlugUsesFallback(t *testing.T) {
	fallback := &capturingRenderer{html: "<html>generic</html>"}
	registry := renderer.NewRegistry(fallback)

	service := newTestRenderService(t, RenderServiceDeps{
		Sites:    &stubSiteService{bundle: renderTestBundle(t, "acme-custom")},
		Registry: registry,
	})

	doc, err := service.RenderPage(context.Background(), "site-1", "")
	if err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}
	if !fallback.called {
		t.Fatal("expected the fallback renderer for an unregistered slug")
	}
	if doc.HTML != "<html>generic</html>" {
		t.Errorf("unexpected document: %+v", doc)
	}
	if fallback.input.CurrentPage != domain.HomePageSlug {
		t.Errorf("blank page slug should default to %q, got %q", domain.HomePageSlug, fallback.input.CurrentPage)
	}
}

func TestRenderPageFiltersLockedPages(t *testing.T) {
	fallback := &capturingRenderer{}
	registry := renderer.NewRegistry(fallback)

	bundle := renderTestBundle(t, "classic")
	bundle.Site.SubscriptionTier = domain.TierBasic

	service := newTestRenderService(t, RenderServiceDeps{
		Sites:    &stubSiteService{bundle: bundle},
		Registry: registry,
	})

	if _, err := service.RenderPage(context.Background(), "site-1", "home"); err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}

	for _, page := range fallback.input.Pages {
		if page.Slug == "inventory" || page.Slug == "rentals" {
			t.Errorf("basic-tier navigation leaked locked page %s", page.Slug)
		}
	}
	if visible := fallback.input.SectionVisibility["inventoryPage"]; visible {
		t.Error("premium section visible in renderer input on basic tier")
	}
	if visible := fallback.input.SectionVisibility["featured"]; visible {
		t.Error("default-hidden featured section visible on basic tier")
	}
}

func TestRenderPageRecoversFromMalformedBlobs(t *testing.T) {
	logger := &recordingLogger{}
	fallback := &capturingRenderer{}
	registry := renderer.NewRegistry(fallback)

	bundle := renderTestBundle(t, "classic")
	bundle.Site.Template.Schema = `{"sections":`
	bundle.Customizations = map[domain.CustomizationType]json.RawMessage{
		domain.CustomizationColors: json.RawMessage(`{"primary":`),
	}

	service := newTestRenderService(t, RenderServiceDeps{
		Sites:    &stubSiteService{bundle: bundle},
		Registry: registry,
		Logger:   logger,
	})

	if _, err := service.RenderPage(context.Background(), "site-1", "home"); err != nil {
		t.Fatalf("malformed blobs must not fail the render: %v", err)
	}
	if len(fallback.input.Schema.Sections) != 0 {
		t.Errorf("expected empty schema substitute, got %v", fallback.input.Schema.Sections)
	}
	if len(fallback.input.Colors) != 0 {
		t.Errorf("expected empty colors substitute, got %v", fallback.input.Colors)
	}
	if len(logger.messages) == 0 {
		t.Error("expected a warning for the malformed schema")
	}
}

func TestRenderPagePropagatesBundleErrors(t *testing.T) {
	wantErr := errors.New("bundle load failed")
	registry := renderer.NewRegistry(&capturingRenderer{})
	service := newTestRenderService(t, RenderServiceDeps{
		Sites:    &stubSiteService{err: wantErr},
		Registry: registry,
	})

	if _, err := service.RenderPage(context.Background(), "site-1", "home"); !errors.Is(err, wantErr) {
		t.Errorf("expected bundle error to propagate, got %v", err)
	}
}

func TestRenderPageDemoBundleUsesFallbackContent(t *testing.T) {
	fallback := &capturingRenderer{}
	registry := renderer.NewRegistry(fallback)

	bundle := renderTestBundle(t, "classic")
	bundle.Demo = true
	bundle.Content = map[string]string{}
	bundle.DemoFallback = map[string]string{"hero.tagline": "Preview tagline"}

	service := newTestRenderService(t, RenderServiceDeps{
		Sites:    &stubSiteService{bundle: bundle},
		Registry: registry,
	})

	if _, err := service.RenderPage(context.Background(), "demo-classic", "home"); err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}
	if got := fallback.input.Content("hero.tagline"); got != "Preview tagline" {
		t.Errorf("demo fallback content = %q, want preview value", got)
	}
	if got := fallback.input.Content("hero.heading"); got != "Welcome" {
		t.Errorf("schema default should still win over demo fallback, got %q", got)
	}
}

func TestRenderPageLockedPageServedAsHome(t *testing.T) {
	fallback := &capturingRenderer{}
	registry := renderer.NewRegistry(fallback)

	bundle := renderTestBundle(t, "classic")
	bundle.Site.SubscriptionTier = domain.TierBasic
	bundle.Products = []domain.Product{{"name": "Mower X"}}

	service := newTestRenderService(t, RenderServiceDeps{
		Sites:    &stubSiteService{bundle: bundle},
		Registry: registry,
	})

	if _, err := service.RenderPage(context.Background(), "site-1", "inventory"); err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}
	if fallback.input.CurrentPage != domain.HomePageSlug {
		t.Errorf("locked page dispatched as %q, want %q", fallback.input.CurrentPage, domain.HomePageSlug)
	}

	if _, err := service.RenderPage(context.Background(), "site-1", "blog"); err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}
	if fallback.input.CurrentPage != domain.HomePageSlug {
		t.Errorf("unknown page dispatched as %q, want %q", fallback.input.CurrentPage, domain.HomePageSlug)
	}
}

func TestRenderPageLockedPageOmitsProducts(t *testing.T) {
	registry, err := renderer.DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry returned error: %v", err)
	}

	bundle := renderTestBundle(t, "classic")
	bundle.Site.SubscriptionTier = domain.TierBasic
	bundle.Products = []domain.Product{{"name": "Mower X"}}

	service := newTestRenderService(t, RenderServiceDeps{
		Sites:    &stubSiteService{bundle: bundle},
		Registry: registry,
	})

	doc, err := service.RenderPage(context.Background(), "site-1", "inventory")
	if err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}
	if strings.Contains(doc.HTML, "Mower X") {
		t.Error("basic-tier render leaked inventory products through a direct URL")
	}
}

func TestRenderPageSignsPrivateAssets(t *testing.T) {
	resolver, err := storage.NewAssetResolver(config.StorageConfig{AssetsBucket: "dp-assets"}, fakeURLSigner{})
	if err != nil {
		t.Fatalf("NewAssetResolver returned error: %v", err)
	}

	fallback := &capturingRenderer{}
	registry := renderer.NewRegistry(fallback)
	service := newTestRenderService(t, RenderServiceDeps{
		Sites:    &stubSiteService{bundle: renderTestBundle(t, "classic")},
		Registry: registry,
		Assets:   resolver,
	})

	if _, err := service.RenderPage(context.Background(), "site-1", "home"); err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}

	got := fallback.input.Asset("assets/demo/classic-hero.jpg")
	if !strings.Contains(got, "X-Goog-Signature") {
		t.Errorf("expected a signed URL without a CDN base, got %q", got)
	}
	if !strings.Contains(got, "dp-assets") {
		t.Errorf("signed URL missing bucket: %q", got)
	}
}
