package renderer

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	domain "github.com/dealerpress/api/internal/domain"
)

// summitRenderer is the "summit" shipped template: a hero-banner layout with a
// top navigation bar. It owns its full page shell.
type summitRenderer struct {
	shell *template.Template
	body  *genericRenderer
}

const summitShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root{--color-primary:{{.PrimaryColor}};--color-accent:{{.AccentColor}};--font-body:{{.BodyFont}};--font-heading:{{.HeadingFont}}}
body{margin:0;font-family:var(--font-body);color:#141a22}
.topbar{background:#141a22;color:#fff;padding:.75rem 2rem;display:flex;justify-content:space-between;align-items:center}
.topbar nav a{color:#cfd6e1;margin-left:1.25rem;text-decoration:none;text-transform:uppercase;font-size:.8rem;letter-spacing:.08em}
.topbar nav a.active{color:var(--color-accent)}
.hero{background:linear-gradient(120deg,var(--color-primary),#141a22);color:#fff;padding:3.5rem 2rem}
.hero h1{font-family:var(--font-heading);margin:0;font-size:2.2rem}
main{max-width:1040px;margin:0 auto;padding:2rem}
footer{background:#141a22;color:#8b94a3;padding:1.5rem 2rem;font-size:.85rem}
h2,h3{font-family:var(--font-heading)}
.cards{display:grid;grid-template-columns:repeat(auto-fill,minmax(240px,1fr));gap:1.25rem}
.card{box-shadow:0 1px 4px rgba(20,26,34,.15);border-radius:8px;padding:1rem}
.card img{max-width:100%;border-radius:6px}
</style>
</head>
<body>
<div class="topbar">
<span class="brand">{{.SiteName}}</span>
<nav>{{range .Nav}}<a href="?page={{.Slug}}"{{if .Active}} class="active"{{end}}>{{.Name}}</a>{{end}}</nav>
</div>
<div class="hero"><h1>{{.Title}}</h1></div>
<main>{{.Main}}</main>
<footer>{{.Footer}}</footer>
</body>
</html>
`

// NewSummitRenderer constructs the summit template renderer.
func NewSummitRenderer() (Renderer, error) {
	shell, err := template.New("summit").Parse(summitShell)
	if err != nil {
		return nil, fmt.Errorf("renderer: parse summit shell: %w", err)
	}
	body, err := newGenericRenderer()
	if err != nil {
		return nil, err
	}
	return &summitRenderer{shell: shell, body: body}, nil
}

func (s *summitRenderer) Render(_ context.Context, in Input) (Document, error) {
	page := in.CurrentPage
	if page == "" {
		page = domain.HomePageSlug
	}

	nav := make([]shellNavItem, 0, len(in.Pages))
	for _, p := range in.Pages {
		nav = append(nav, shellNavItem{Slug: p.Slug, Name: p.Name, Active: p.Slug == page})
	}

	title := in.Content("hero.heading")
	if title == "" {
		title = pageTitle(in, page)
	}

	data := shellData{
		Title:        title,
		SiteName:     in.SiteName,
		PrimaryColor: cssColor(in.Colors["primary"], "#1d5c4d"),
		AccentColor:  cssColor(in.Colors["accent"], "#f0b429"),
		BodyFont:     cssFont(in.Fonts["body"], "'Segoe UI', Roboto, sans-serif"),
		HeadingFont:  cssFont(in.Fonts["heading"], "'Segoe UI Semibold', Roboto, sans-serif"),
		Nav:          nav,
		Main:         s.body.buildMain(in, page),
		Footer:       fmt.Sprintf("%s · all equipment subject to availability", in.SiteName),
	}

	var out strings.Builder
	if err := s.shell.Execute(&out, data); err != nil {
		return Document{}, fmt.Errorf("renderer: execute summit shell: %w", err)
	}
	return Document{HTML: out.String(), ContentType: HTMLContentType}, nil
}
