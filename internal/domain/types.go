package domain

import (
	"encoding/json"
	"time"
)

// SubscriptionTier enumerates the ordered capability classes a site can hold.
type SubscriptionTier string

const (
	// TierBasic is the entry tier without access to premium surfaces.
	TierBasic SubscriptionTier = "basic"
	// TierProfessional unlocks premium sections and pages.
	TierProfessional SubscriptionTier = "professional"
	// TierEnterprise carries every professional capability plus account extras.
	TierEnterprise SubscriptionTier = "enterprise"
)

// HasProfessionalAccess reports whether the tier grants premium surface access.
func HasProfessionalAccess(tier SubscriptionTier) bool {
	switch tier {
	case TierProfessional, TierEnterprise:
		return true
	default:
		return false
	}
}

// FieldType tags the editing control and rendering semantics of a schema field.
type FieldType string

const (
	// FieldTypeText is a single-line text field.
	FieldTypeText FieldType = "text"
	// FieldTypeTextarea is a multi-line text field.
	FieldTypeTextarea FieldType = "textarea"
	// FieldTypeImage stores a storage path or URL to an image asset.
	FieldTypeImage FieldType = "image"
	// FieldTypeEmail stores a contact email address.
	FieldTypeEmail FieldType = "email"
	// FieldTypePageLink references another page of the site.
	FieldTypePageLink FieldType = "pageLink"
	// FieldTypeHeading is a non-editable marker; prefixed with "_" it opens a subsection.
	FieldTypeHeading FieldType = "heading"
	// FieldTypeJSON stores a JSON-encoded list or object (hours tables, testimonial items).
	FieldTypeJSON FieldType = "json"
)

// Field describes one editable value (or subsection marker) within a section.
type Field struct {
	Key          string    `json:"key"`
	Type         FieldType `json:"type"`
	Default      string    `json:"default"`
	DisplayOrder int       `json:"displayOrder"`
	HelpText     string    `json:"helpText"`
}

// IsSubsectionMarker reports whether the field partitions subsequent fields into
// a named group instead of holding content itself.
func (f Field) IsSubsectionMarker() bool {
	return f.Type == FieldTypeHeading && len(f.Key) > 0 && f.Key[0] == '_'
}

// FieldGroup is an ordered run of fields under a subsection label.
type FieldGroup struct {
	Label  string
	Fields []Field
}

// Section groups the fields of one editable surface of a template.
// A key ending in "Page" belongs to the page of the same slug; all other keys
// belong to the home page.
type Section struct {
	Key             string  `json:"key"`
	Label           string  `json:"label"`
	Icon            string  `json:"icon"`
	DisplayOrder    int     `json:"displayOrder"`
	Premium         bool    `json:"premium"`
	RequiredFeature string  `json:"requiredFeature"`
	Fields          []Field `json:"fields"`
}

// TemplateSchema is the declarative description of a template's editable
// sections, fields, and derived pages. Declaration order is positional.
type TemplateSchema struct {
	Sections []Section `json:"sections"`
}

// Template carries the identity and raw schema of a visual template.
type Template struct {
	Name   string
	Slug   string
	Schema string
}

// Site is a tenant's configured instance of a template.
type Site struct {
	ID               string
	Name             string
	Slug             string
	SubscriptionTier SubscriptionTier
	Template         Template
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Page describes one navigable page of a rendered site.
type Page struct {
	Slug    string
	Name    string
	Premium bool
}

// HomePageSlug is the canonical landing page slug.
const HomePageSlug = "home"

// ContentOverride is one tenant-supplied field value, keyed "<section>.<field>".
// Empty values are never stored; clearing a field deletes the row.
type ContentOverride struct {
	FieldKey  string
	Value     string
	UpdatedAt time.Time
}

// CustomizationType identifies one design/visibility configuration blob.
type CustomizationType string

const (
	// CustomizationColors stores the tenant palette overrides.
	CustomizationColors CustomizationType = "colors"
	// CustomizationFonts stores the tenant font overrides.
	CustomizationFonts CustomizationType = "fonts"
	// CustomizationSectionVisibility stores per-section visibility flags.
	CustomizationSectionVisibility CustomizationType = "section_visibility"
	// CustomizationPageVisibility stores per-page visibility flags.
	CustomizationPageVisibility CustomizationType = "page_visibility"
)

// KnownCustomizationType reports whether the type is one the engine persists.
func KnownCustomizationType(t CustomizationType) bool {
	switch t {
	case CustomizationColors, CustomizationFonts, CustomizationSectionVisibility, CustomizationPageVisibility:
		return true
	default:
		return false
	}
}

// Customization is one tenant-supplied configuration blob, one row per type,
// last write wins.
type Customization struct {
	Type      CustomizationType
	Config    json.RawMessage
	UpdatedAt time.Time
}

// Product is an opaque catalog item passed through to renderers unchanged.
type Product map[string]any

// Manufacturer is an opaque manufacturer record passed through to renderers unchanged.
type Manufacturer map[string]any

// AuditLogEntry records one editor mutation for admin review.
type AuditLogEntry struct {
	ID        string
	Actor     string
	Action    string
	TargetRef string
	Metadata  map[string]any
	Severity  string
	RequestID string
	CreatedAt time.Time
}
