package renderer

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	domain "github.com/dealerpress/api/internal/domain"
)

// classicRenderer is the "classic" shipped template: a sidebar-navigation
// layout. It owns its full page shell; the dispatcher never wraps its output.
type classicRenderer struct {
	shell *template.Template
	body  *genericRenderer
}

const classicShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root{--color-primary:{{.PrimaryColor}};--color-accent:{{.AccentColor}};--font-body:{{.BodyFont}};--font-heading:{{.HeadingFont}}}
body{margin:0;font-family:var(--font-body);display:flex;min-height:100vh;color:#23282f}
aside{width:220px;background:var(--color-primary);color:#fff;padding:1.5rem}
aside .brand{font-family:var(--font-heading);font-size:1.3rem;display:block;margin-bottom:1.5rem}
aside nav a{display:block;color:#fff;padding:.4rem 0;text-decoration:none}
aside nav a.active{color:var(--color-accent)}
.content{flex:1;display:flex;flex-direction:column}
main{flex:1;padding:2rem;max-width:860px}
footer{padding:1rem 2rem;border-top:1px solid #e2e6ee;color:#6b7280;font-size:.85rem}
h1,h2,h3{font-family:var(--font-heading)}
.cards{display:grid;grid-template-columns:repeat(auto-fill,minmax(200px,1fr));gap:1rem}
.card{border:1px solid #e2e6ee;border-radius:4px;padding:.75rem}
.card img{max-width:100%}
</style>
</head>
<body>
<aside>
<span class="brand">{{.SiteName}}</span>
<nav>{{range .Nav}}<a href="?page={{.Slug}}"{{if .Active}} class="active"{{end}}>{{.Name}}</a>{{end}}</nav>
</aside>
<div class="content">
<main>{{.Main}}</main>
<footer>{{.Footer}}</footer>
</div>
</body>
</html>
`

// NewClassicRenderer constructs the classic template renderer.
func NewClassicRenderer() (Renderer, error) {
	shell, err := template.New("classic").Parse(classicShell)
	if err != nil {
		return nil, fmt.Errorf("renderer: parse classic shell: %w", err)
	}
	body, err := newGenericRenderer()
	if err != nil {
		return nil, err
	}
	return &classicRenderer{shell: shell, body: body}, nil
}

func (c *classicRenderer) Render(_ context.Context, in Input) (Document, error) {
	page := in.CurrentPage
	if page == "" {
		page = domain.HomePageSlug
	}

	nav := make([]shellNavItem, 0, len(in.Pages))
	for _, p := range in.Pages {
		nav = append(nav, shellNavItem{Slug: p.Slug, Name: p.Name, Active: p.Slug == page})
	}

	data := shellData{
		Title:        pageTitle(in, page),
		SiteName:     in.SiteName,
		PrimaryColor: cssColor(in.Colors["primary"], "#20313f"),
		AccentColor:  cssColor(in.Colors["accent"], "#d08c2f"),
		BodyFont:     cssFont(in.Fonts["body"], "Georgia, 'Times New Roman', serif"),
		HeadingFont:  cssFont(in.Fonts["heading"], "Georgia, serif"),
		Nav:          nav,
		Main:         c.body.buildMain(in, page),
		Footer:       fmt.Sprintf("© %s", in.SiteName),
	}

	var out strings.Builder
	if err := c.shell.Execute(&out, data); err != nil {
		return Document{}, fmt.Errorf("renderer: execute classic shell: %w", err)
	}
	return Document{HTML: out.String(), ContentType: HTMLContentType}, nil
}
