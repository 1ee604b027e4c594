package services

import (
	"encoding/json"
	"strings"

	domain "github.com/dealerpress/api/internal/domain"
)

// ContentResolver produces the effective string value for a dotted
// "<section>.<field>" key. Precedence, highest to lowest: request-scoped
// content, stored override, schema field default, demo fallback table, empty
// string. Resolution never fails; unknown keys fall through to "".
//
// Resolvers are cheap and carry per-request state, so one is built per render
// rather than cached.
type ContentResolver struct {
	request map[string]string
	stored  map[string]string
	schema  domain.TemplateSchema
	demo    map[string]string
}

// NewContentResolver builds a resolver over the four content layers. Any layer
// may be nil.
func NewContentResolver(request, stored map[string]string, schema domain.TemplateSchema, demoFallback map[string]string) *ContentResolver {
	return &ContentResolver{
		request: request,
		stored:  stored,
		schema:  schema,
		demo:    demoFallback,
	}
}

// GetContent resolves the effective value for the key.
func (r *ContentResolver) GetContent(key string) string {
	if r == nil {
		return ""
	}
	if value, ok := r.request[key]; ok && value != "" {
		return value
	}
	if value, ok := r.stored[key]; ok && value != "" {
		return value
	}
	if value, ok := r.schema.FieldDefault(key); ok && value != "" {
		return value
	}
	if value, ok := r.demo[key]; ok && value != "" {
		return value
	}
	return ""
}

// ListItems decodes the JSON array resolved for the key. Missing or malformed
// JSON yields an empty list so a corrupted blob never blocks a render.
func (r *ContentResolver) ListItems(key string) []map[string]any {
	raw := strings.TrimSpace(r.GetContent(key))
	if raw == "" {
		return []map[string]any{}
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []map[string]any{}
	}
	return items
}

// ObjectValue decodes the JSON object resolved for the key. Missing or
// malformed JSON yields an empty map.
func (r *ContentResolver) ObjectValue(key string) map[string]any {
	raw := strings.TrimSpace(r.GetContent(key))
	if raw == "" {
		return map[string]any{}
	}
	var value map[string]any
	if err := json.Unmarshal([]byte(raw), &value); err != nil || value == nil {
		return map[string]any{}
	}
	return value
}
