package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dealerpress/api/internal/platform/config"
	"github.com/dealerpress/api/internal/platform/storage"
	"github.com/dealerpress/api/internal/renderer"
	"github.com/dealerpress/api/internal/repositories"
	"github.com/dealerpress/api/internal/services"
)

// Services bundles the service-layer contracts that handlers rely upon.
type Services struct {
	Sites  services.SiteService
	Render services.RenderService
	Editor services.EditorService
	Tour   services.TourService
	Audit  services.AuditLogService
}

// Container wires repositories, services, and the renderer registry for runtime use.
type Container struct {
	Config       config.Config
	Repositories repositories.Registry
	Renderers    *renderer.Registry
	Services     Services
}

// ContainerOption customises container construction.
type ContainerOption func(*containerDeps)

type containerDeps struct {
	assets *storage.AssetResolver
	logger services.WarnLogger
	clock  func() time.Time
	demo   map[string]map[string]string
}

// WithAssetResolver injects the storage-backed asset URL resolver.
func WithAssetResolver(resolver *storage.AssetResolver) ContainerOption {
	return func(d *containerDeps) {
		d.assets = resolver
	}
}

// WithWarnLogger injects the logger services use for non-fatal failures.
func WithWarnLogger(logger services.WarnLogger) ContainerOption {
	return func(d *containerDeps) {
		d.logger = logger
	}
}

// WithClock overrides the time source used by mutating services.
func WithClock(clock func() time.Time) ContainerOption {
	return func(d *containerDeps) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithDemoContent overrides the demo preview fallback table.
func WithDemoContent(demo map[string]map[string]string) ContainerOption {
	return func(d *containerDeps) {
		d.demo = demo
	}
}

// NewContainer constructs the runtime dependencies. Production wiring provides
// the Firestore registry; tests can supply in-memory registries.
func NewContainer(_ context.Context, cfg config.Config, reg repositories.Registry, opts ...ContainerOption) (*Container, error) {
	if reg == nil {
		return nil, errors.New("repositories registry is required")
	}

	deps := containerDeps{
		clock: time.Now,
		demo:  services.DefaultDemoContent(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}

	renderers, err := renderer.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("build renderer registry: %w", err)
	}

	svc, err := buildServices(cfg, reg, renderers, deps)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:       cfg,
		Repositories: reg,
		Renderers:    renderers,
		Services:     svc,
	}, nil
}

// Close releases repository clients and other held resources.
func (c *Container) Close(ctx context.Context) error {
	if c == nil || c.Repositories == nil {
		return nil
	}
	return c.Repositories.Close(ctx)
}

func buildServices(cfg config.Config, reg repositories.Registry, renderers *renderer.Registry, deps containerDeps) (Services, error) {
	var svc Services

	auditSvc, err := services.NewAuditLogService(services.AuditLogServiceDeps{
		Repository: reg.AuditLogs(),
		Clock:      deps.clock,
		Logger:     deps.logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build audit log service: %w", err)
	}
	svc.Audit = auditSvc

	siteSvc, err := services.NewSiteService(services.SiteServiceDeps{
		Sites:          reg.Sites(),
		Templates:      reg.Templates(),
		Content:        reg.Content(),
		Customizations: reg.Customizations(),
		Features:       reg.Features(),
		Catalog:        reg.Catalog(),
		Logger:         deps.logger,
		DemoSitePrefix: cfg.Demo.SitePrefix,
		DemoContent:    deps.demo,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build site service: %w", err)
	}
	svc.Sites = siteSvc

	renderSvc, err := services.NewRenderService(services.RenderServiceDeps{
		Sites:    siteSvc,
		Registry: renderers,
		Assets:   deps.assets,
		Logger:   deps.logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build render service: %w", err)
	}
	svc.Render = renderSvc

	editorSvc, err := services.NewEditorService(services.EditorServiceDeps{
		Content:        reg.Content(),
		Customizations: reg.Customizations(),
		Audit:          auditSvc,
		Clock:          deps.clock,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build editor service: %w", err)
	}
	svc.Editor = editorSvc

	tourSvc, err := services.NewTourService(services.TourServiceDeps{
		Sites: siteSvc,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build tour service: %w", err)
	}
	svc.Tour = tourSvc

	return svc, nil
}
