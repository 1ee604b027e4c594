package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/repositories"
)

// ErrInvalidCustomizationType is returned for customization types the engine
// does not persist.
var ErrInvalidCustomizationType = errors.New("editor service: unknown customization type")

// ErrInvalidConfigBlob is returned when a customization payload is not valid JSON.
var ErrInvalidConfigBlob = errors.New("editor service: config blob is not valid JSON")

type editorService struct {
	content        repositories.ContentRepository
	customizations repositories.CustomizationRepository
	audit          AuditLogService
	clock          func() time.Time
}

// EditorServiceDeps bundles constructor inputs for the editor save service.
type EditorServiceDeps struct {
	Content        repositories.ContentRepository
	Customizations repositories.CustomizationRepository
	Audit          AuditLogService
	Clock          func() time.Time
}

// NewEditorService creates the save service for tenant edits.
func NewEditorService(deps EditorServiceDeps) (EditorService, error) {
	if deps.Content == nil {
		return nil, fmt.Errorf("editor service: content repository is required")
	}
	if deps.Customizations == nil {
		return nil, fmt.Errorf("editor service: customization repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &editorService{
		content:        deps.Content,
		customizations: deps.Customizations,
		audit:          deps.Audit,
		clock:          func() time.Time { return clock().UTC() },
	}, nil
}

// SaveContent upserts each field value as an independent row write. Empty
// values delete the stored row instead of persisting a tombstone. Failures are
// collected per key; a failed key never blocks the others.
func (s *editorService) SaveContent(ctx context.Context, siteID string, values map[string]string) error {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return fmt.Errorf("editor service: site id is required")
	}
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if strings.TrimSpace(key) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	now := s.clock()
	var errs []error
	saved := make([]string, 0, len(keys))
	for _, key := range keys {
		value := values[key]
		if value == "" {
			if err := s.content.Delete(ctx, siteID, key); err != nil && !isNotFound(err) {
				errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
				continue
			}
		} else {
			override := domain.ContentOverride{FieldKey: key, Value: value, UpdatedAt: now}
			if err := s.content.Upsert(ctx, siteID, override); err != nil {
				errs = append(errs, fmt.Errorf("upsert %s: %w", key, err))
				continue
			}
		}
		saved = append(saved, key)
	}

	if s.audit != nil && len(saved) > 0 {
		s.audit.Record(ctx, AuditLogRecord{
			Action:    "content.save",
			TargetRef: fmt.Sprintf("/sites/%s/content", siteID),
			Metadata:  map[string]any{"fieldKeys": saved},
		})
	}

	return errors.Join(errs...)
}

// SaveCustomization replaces the single row for the customization type,
// last write wins.
func (s *editorService) SaveCustomization(ctx context.Context, siteID string, ctype domain.CustomizationType, config json.RawMessage) error {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return fmt.Errorf("editor service: site id is required")
	}
	if !domain.KnownCustomizationType(ctype) {
		return ErrInvalidCustomizationType
	}
	if len(config) == 0 || !json.Valid(config) {
		return ErrInvalidConfigBlob
	}

	customization := domain.Customization{
		Type:      ctype,
		Config:    config,
		UpdatedAt: s.clock(),
	}
	if err := s.customizations.Upsert(ctx, siteID, customization); err != nil {
		return fmt.Errorf("upsert customization %s: %w", ctype, err)
	}

	if s.audit != nil {
		s.audit.Record(ctx, AuditLogRecord{
			Action:    "customization.save",
			TargetRef: fmt.Sprintf("/sites/%s/customizations/%s", siteID, ctype),
		})
	}
	return nil
}

func isNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}
