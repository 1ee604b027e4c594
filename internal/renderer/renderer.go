package renderer

import (
	"context"
	"strings"
	"sync"

	domain "github.com/dealerpress/api/internal/domain"
)

// HTMLContentType is the content type every page document carries.
const HTMLContentType = "text/html; charset=utf-8"

// Input is the fully resolved bundle handed to a renderer. Content access goes
// through the resolver funcs; renderers never reach back into storage.
type Input struct {
	SiteID       string
	SiteName     string
	TemplateSlug string
	CurrentPage  string

	// Pages lists the visible pages in navigation order.
	Pages         []domain.Page
	Products      []domain.Product
	Manufacturers []domain.Manufacturer

	Schema            domain.TemplateSchema
	Colors            map[string]string
	Fonts             map[string]string
	SectionVisibility map[string]bool
	EnabledFeatures   []string

	// GetContent resolves a dotted "<section>.<field>" key to its effective value.
	GetContent func(key string) string
	// ListItems resolves a key holding a JSON array; malformed JSON yields zero items.
	ListItems func(key string) []map[string]any
	// ResolveAsset rewrites storage object paths into servable URLs.
	ResolveAsset func(value string) string
}

// Content resolves a key, tolerating a nil accessor.
func (in Input) Content(key string) string {
	if in.GetContent == nil {
		return ""
	}
	return in.GetContent(key)
}

// Items resolves a JSON list key, tolerating a nil accessor.
func (in Input) Items(key string) []map[string]any {
	if in.ListItems == nil {
		return nil
	}
	return in.ListItems(key)
}

// Asset resolves an asset reference, tolerating a nil resolver.
func (in Input) Asset(value string) string {
	if in.ResolveAsset == nil {
		return value
	}
	return in.ResolveAsset(value)
}

// SectionVisible reports the effective visibility of a section, defaulting to
// visible when the gate produced no entry.
func (in Input) SectionVisible(key string) bool {
	if in.SectionVisibility == nil {
		return true
	}
	visible, ok := in.SectionVisibility[key]
	if !ok {
		return true
	}
	return visible
}

// Document is a complete rendered page.
type Document struct {
	HTML        string
	ContentType string
}

// Renderer turns resolved content and visibility into a page document.
// Registered renderers own the full page shell including header, navigation,
// and footer.
type Renderer interface {
	Render(ctx context.Context, in Input) (Document, error)
}

// Registry maps template slugs to renderers with a shared fallback for
// unregistered slugs. An unknown slug is not an error.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	fallback  Renderer
}

// NewRegistry constructs a registry around the fallback renderer.
func NewRegistry(fallback Renderer) *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		fallback:  fallback,
	}
}

// Register binds a renderer to a template slug. Empty slugs and nil renderers
// are ignored.
func (r *Registry) Register(slug string, renderer Renderer) {
	slug = strings.TrimSpace(slug)
	if slug == "" || renderer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[slug] = renderer
}

// Resolve returns the renderer registered for the slug, or the fallback.
func (r *Registry) Resolve(slug string) Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.renderers[strings.TrimSpace(slug)]; ok {
		return renderer
	}
	return r.fallback
}

// DefaultRegistry wires the shipped template renderers over the generic fallback.
func DefaultRegistry() (*Registry, error) {
	generic, err := NewGenericRenderer()
	if err != nil {
		return nil, err
	}
	classic, err := NewClassicRenderer()
	if err != nil {
		return nil, err
	}
	summit, err := NewSummitRenderer()
	if err != nil {
		return nil, err
	}

	registry := NewRegistry(generic)
	registry.Register("classic", classic)
	registry.Register("summit", summit)
	return registry, nil
}
