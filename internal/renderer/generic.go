package renderer

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	domain "github.com/dealerpress/api/internal/domain"
)

// genericRenderer is the fallback for templates without a registered renderer.
// It owns a shared page shell (header, navigation, footer) and delegates only
// the main region to per-page builders driven by the schema.
type genericRenderer struct {
	shell  *template.Template
	strict *bluemonday.Policy
	rich   *bluemonday.Policy
}

const genericShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root{--color-primary:{{.PrimaryColor}};--color-accent:{{.AccentColor}};--font-body:{{.BodyFont}};--font-heading:{{.HeadingFont}}}
body{margin:0;font-family:var(--font-body);color:#1f2430}
header{background:var(--color-primary);color:#fff;padding:1rem 2rem;display:flex;align-items:center;justify-content:space-between}
nav a{color:#fff;margin-left:1rem;text-decoration:none}
nav a.active{border-bottom:2px solid var(--color-accent)}
main{max-width:960px;margin:0 auto;padding:2rem}
footer{background:#1f2430;color:#9aa3b5;padding:1rem 2rem;font-size:.85rem}
h1,h2,h3{font-family:var(--font-heading)}
.cards{display:grid;grid-template-columns:repeat(auto-fill,minmax(220px,1fr));gap:1rem}
.card{border:1px solid #e2e6ee;border-radius:6px;padding:1rem}
.card img{max-width:100%}
</style>
</head>
<body>
<header>
<span class="brand">{{.SiteName}}</span>
<nav>{{range .Nav}}<a href="?page={{.Slug}}"{{if .Active}} class="active"{{end}}>{{.Name}}</a>{{end}}</nav>
</header>
<main>{{.Main}}</main>
<footer>{{.Footer}}</footer>
</body>
</html>
`

type shellNavItem struct {
	Slug   string
	Name   string
	Active bool
}

type shellData struct {
	Title        string
	SiteName     string
	PrimaryColor template.CSS
	AccentColor  template.CSS
	BodyFont     template.CSS
	HeadingFont  template.CSS
	Nav          []shellNavItem
	Main         template.HTML
	Footer       string
}

// NewGenericRenderer constructs the shared fallback renderer.
func NewGenericRenderer() (Renderer, error) {
	return newGenericRenderer()
}

func newGenericRenderer() (*genericRenderer, error) {
	shell, err := template.New("shell").Parse(genericShell)
	if err != nil {
		return nil, fmt.Errorf("renderer: parse generic shell: %w", err)
	}
	return &genericRenderer{
		shell:  shell,
		strict: bluemonday.StrictPolicy(),
		rich:   bluemonday.UGCPolicy(),
	}, nil
}

func (g *genericRenderer) Render(_ context.Context, in Input) (Document, error) {
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
		PrimaryColor: cssColor(in.Colors["primary"], "#28457a"),
		AccentColor:  cssColor(in.Colors["accent"], "#e8a33d"),
		BodyFont:     cssFont(in.Fonts["body"], "'Helvetica Neue', Arial, sans-serif"),
		HeadingFont:  cssFont(in.Fonts["heading"], "Georgia, serif"),
		Nav:          nav,
		Main:         g.buildMain(in, page),
		Footer:       fmt.Sprintf("%s — powered by DealerPress", in.SiteName),
	}

	var out strings.Builder
	if err := g.shell.Execute(&out, data); err != nil {
		return Document{}, fmt.Errorf("renderer: execute generic shell: %w", err)
	}
	return Document{HTML: out.String(), ContentType: HTMLContentType}, nil
}

func (g *genericRenderer) buildMain(in Input, page string) template.HTML {
	switch page {
	case domain.HomePageSlug:
		return g.buildHome(in)
	case "manufacturers":
		return g.buildManufacturers(in)
	case "inventory":
		return g.buildInventory(in)
	case "rentals":
		return g.buildRentals(in)
	default:
		// contact, service, and any other page-specific section.
		return g.buildPageSection(in, page)
	}
}

func (g *genericRenderer) buildHome(in Input) template.HTML {
	var b strings.Builder
	for _, section := range in.Schema.SectionsForPage(domain.HomePageSlug) {
		if !in.SectionVisible(section.Key) {
			continue
		}
		g.writeSection(&b, in, section)
	}
	return template.HTML(b.String())
}

func (g *genericRenderer) buildPageSection(in Input, page string) template.HTML {
	var b strings.Builder
	for _, section := range in.Schema.SectionsForPage(page) {
		if !in.SectionVisible(section.Key) {
			continue
		}
		g.writeSection(&b, in, section)
	}
	return template.HTML(b.String())
}

func (g *genericRenderer) buildManufacturers(in Input) template.HTML {
	var b strings.Builder
	b.WriteString(string(g.buildPageSection(in, "manufacturers")))
	b.WriteString(`<div class="cards">`)
	for _, m := range in.Manufacturers {
		b.WriteString(`<div class="card">`)
		if logo := itemString(m, "logoUrl"); logo != "" {
			fmt.Fprintf(&b, `<img src="%s" alt="">`, attr(in.Asset(logo)))
		}
		fmt.Fprintf(&b, "<h3>%s</h3>", g.strict.Sanitize(itemString(m, "name")))
		if desc := itemString(m, "description"); desc != "" {
			fmt.Fprintf(&b, "<p>%s</p>", g.strict.Sanitize(desc))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

func (g *genericRenderer) buildInventory(in Input) template.HTML {
	var b strings.Builder
	b.WriteString(string(g.buildPageSection(in, "inventory")))
	g.writeProductCards(&b, in, in.Products)
	return template.HTML(b.String())
}

func (g *genericRenderer) buildRentals(in Input) template.HTML {
	var b strings.Builder
	b.WriteString(string(g.buildPageSection(in, "rentals")))
	g.writeProductCards(&b, in, in.Products)
	return template.HTML(b.String())
}

func (g *genericRenderer) writeProductCards(b *strings.Builder, in Input, products []domain.Product) {
	b.WriteString(`<div class="cards">`)
	for _, p := range products {
		b.WriteString(`<div class="card">`)
		if image := itemString(p, "imageUrl"); image != "" {
			fmt.Fprintf(b, `<img src="%s" alt="">`, attr(in.Asset(image)))
		}
		fmt.Fprintf(b, "<h3>%s</h3>", g.strict.Sanitize(itemString(p, "name")))
		if price := itemString(p, "price"); price != "" {
			fmt.Fprintf(b, `<p class="price">%s</p>`, g.strict.Sanitize(price))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
}

// writeSection renders one schema section: heading, then each editable field by
// its tagged type. Subsection markers become intermediate headings.
func (g *genericRenderer) writeSection(b *strings.Builder, in Input, section domain.Section) {
	fmt.Fprintf(b, `<section id="%s">`, attr(section.Key))
	if label := strings.TrimSpace(section.Label); label != "" {
		fmt.Fprintf(b, "<h2>%s</h2>", g.strict.Sanitize(label))
	}
	for _, field := range section.SortedFields() {
		if field.IsSubsectionMarker() {
			label := strings.TrimSpace(field.Default)
			if label == "" {
				label = domain.PrettifyKey(field.Key)
			}
			fmt.Fprintf(b, "<h3>%s</h3>", g.strict.Sanitize(label))
			continue
		}
		g.writeField(b, in, section.Key, field)
	}
	b.WriteString(`</section>`)
}

func (g *genericRenderer) writeField(b *strings.Builder, in Input, sectionKey string, field domain.Field) {
	key := sectionKey + "." + field.Key
	switch field.Type {
	case domain.FieldTypeImage:
		if value := in.Content(key); value != "" {
			fmt.Fprintf(b, `<img src="%s" alt="%s">`, attr(in.Asset(value)), attr(domain.PrettifyKey(field.Key)))
		}
	case domain.FieldTypeTextarea:
		if value := in.Content(key); value != "" {
			fmt.Fprintf(b, `<div class="rich">%s</div>`, g.rich.Sanitize(value))
		}
	case domain.FieldTypeEmail:
		if value := in.Content(key); value != "" {
			clean := g.strict.Sanitize(value)
			fmt.Fprintf(b, `<p><a href="mailto:%s">%s</a></p>`, attr(clean), clean)
		}
	case domain.FieldTypeJSON:
		items := in.Items(key)
		if len(items) == 0 {
			return
		}
		b.WriteString("<ul>")
		for _, item := range items {
			fmt.Fprintf(b, "<li>%s</li>", g.strict.Sanitize(itemText(item)))
		}
		b.WriteString("</ul>")
	case domain.FieldTypeHeading:
		if value := in.Content(key); value != "" {
			fmt.Fprintf(b, "<h3>%s</h3>", g.strict.Sanitize(value))
		}
	default:
		if value := in.Content(key); value != "" {
			fmt.Fprintf(b, "<p>%s</p>", g.strict.Sanitize(value))
		}
	}
}

func pageTitle(in Input, page string) string {
	for _, p := range in.Pages {
		if p.Slug == page && p.Slug != domain.HomePageSlug {
			return fmt.Sprintf("%s | %s", p.Name, in.SiteName)
		}
	}
	return in.SiteName
}

func cssColor(value, fallback string) template.CSS {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, ";{}<>") {
		value = fallback
	}
	return template.CSS(value)
}

func cssFont(value, fallback string) template.CSS {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, ";{}<>") {
		value = fallback
	}
	return template.CSS(value)
}

func attr(value string) string {
	return template.HTMLEscapeString(value)
}

func itemString(item map[string]any, key string) string {
	if item == nil {
		return ""
	}
	if value, ok := item[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

// itemText picks the most descriptive string field of a list item.
func itemText(item map[string]any) string {
	for _, key := range []string{"text", "quote", "name", "label", "title"} {
		if value := itemString(item, key); value != "" {
			return value
		}
	}
	for _, value := range item {
		if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
