package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PageSectionSuffix marks section keys that belong to a dedicated page rather
// than the home page.
const PageSectionSuffix = "Page"

// GeneralGroupLabel names the implicit group holding fields declared before the
// first subsection marker.
const GeneralGroupLabel = "General"

var titleCaser = cases.Title(language.AmericanEnglish)

// ParseTemplateSchema decodes a raw schema blob. Callers that tolerate
// malformed configuration substitute the zero schema on error.
func ParseTemplateSchema(raw []byte) (TemplateSchema, error) {
	if len(raw) == 0 {
		return TemplateSchema{}, nil
	}
	var schema TemplateSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return TemplateSchema{}, fmt.Errorf("schema: decode: %w", err)
	}
	return schema, nil
}

// Section returns the section with the given key, if declared.
// Schemas hold at most one section per key; the first declaration wins.
func (s TemplateSchema) Section(key string) (Section, bool) {
	for _, section := range s.Sections {
		if section.Key == key {
			return section, true
		}
	}
	return Section{}, false
}

// SectionsForPage returns the sections applying to the page, in display order.
// The home page receives every section whose key does not end in "Page"; any
// other page receives exactly the section keyed "<slug>Page", if present.
// Ties in display order preserve declaration order.
func (s TemplateSchema) SectionsForPage(pageSlug string) []Section {
	if pageSlug == "" || pageSlug == HomePageSlug {
		sections := make([]Section, 0, len(s.Sections))
		for _, section := range s.Sections {
			if !strings.HasSuffix(section.Key, PageSectionSuffix) {
				sections = append(sections, section)
			}
		}
		sort.SliceStable(sections, func(i, j int) bool {
			return sections[i].DisplayOrder < sections[j].DisplayOrder
		})
		return sections
	}
	if section, ok := s.Section(pageSlug + PageSectionSuffix); ok {
		return []Section{section}
	}
	return nil
}

// SortedFields returns the section's fields ordered by display order, markers
// included. The receiver is never mutated.
func (sec Section) SortedFields() []Field {
	fields := make([]Field, len(sec.Fields))
	copy(fields, sec.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].DisplayOrder < fields[j].DisplayOrder
	})
	return fields
}

// EditableFields returns the sorted fields excluding subsection markers.
func (sec Section) EditableFields() []Field {
	fields := sec.SortedFields()
	editable := fields[:0:0]
	for _, field := range fields {
		if !field.IsSubsectionMarker() {
			editable = append(editable, field)
		}
	}
	return editable
}

// GroupedFields partitions a section's sorted fields at each subsection
// marker. Fields declared before any marker fall into the "General" group;
// that group is dropped when empty. Marker groups keep their label even when
// no fields follow.
func (s TemplateSchema) GroupedFields(sectionKey string) []FieldGroup {
	section, ok := s.Section(sectionKey)
	if !ok {
		return nil
	}

	var groups []FieldGroup
	current := FieldGroup{Label: ""}
	flush := func() {
		if len(current.Fields) == 0 && current.Label == "" {
			return
		}
		if current.Label == "" {
			current.Label = GeneralGroupLabel
		}
		groups = append(groups, current)
	}

	for _, field := range section.SortedFields() {
		if field.IsSubsectionMarker() {
			flush()
			current = FieldGroup{Label: markerLabel(field)}
			continue
		}
		current.Fields = append(current.Fields, field)
	}
	flush()
	return groups
}

// FieldDefault resolves the schema default for a dotted "<section>.<field>"
// key. The key must split into exactly two parts and both must exist.
func (s TemplateSchema) FieldDefault(key string) (string, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	section, ok := s.Section(parts[0])
	if !ok {
		return "", false
	}
	for _, field := range section.Fields {
		if field.Key == parts[1] && !field.IsSubsectionMarker() {
			return field.Default, true
		}
	}
	return "", false
}

// Pages derives the navigable page list: home first, then one page per
// "<slug>Page" section in display order. Page names come from the section
// label, falling back to the prettified slug.
func (s TemplateSchema) Pages() []Page {
	pages := []Page{{Slug: HomePageSlug, Name: "Home"}}

	pageSections := make([]Section, 0, len(s.Sections))
	for _, section := range s.Sections {
		if strings.HasSuffix(section.Key, PageSectionSuffix) && len(section.Key) > len(PageSectionSuffix) {
			pageSections = append(pageSections, section)
		}
	}
	sort.SliceStable(pageSections, func(i, j int) bool {
		return pageSections[i].DisplayOrder < pageSections[j].DisplayOrder
	})

	for _, section := range pageSections {
		slug := strings.TrimSuffix(section.Key, PageSectionSuffix)
		name := strings.TrimSpace(section.Label)
		if name == "" {
			name = PrettifyKey(slug)
		}
		pages = append(pages, Page{Slug: slug, Name: name, Premium: section.Premium})
	}
	return pages
}

// PrettifyKey turns a schema key or slug into a human readable label,
// splitting camelCase segments and title-casing the result.
func PrettifyKey(key string) string {
	key = strings.TrimPrefix(strings.TrimSpace(key), "_")
	if key == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range key {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return titleCaser.String(b.String())
}

func markerLabel(field Field) string {
	if label := strings.TrimSpace(field.Default); label != "" {
		return label
	}
	return PrettifyKey(field.Key)
}
