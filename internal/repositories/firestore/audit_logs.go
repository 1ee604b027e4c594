package firestore

import (
	"context"
	"time"

	domain "github.com/dealerpress/api/internal/domain"
	"github.com/dealerpress/api/internal/platform/firestore"
	"github.com/dealerpress/api/internal/repositories"
)

// auditLogEntity is one appended mutation record. The ulid entry id doubles as
// the document id, keeping the collection time-ordered.
type auditLogEntity struct {
	Actor     string         `firestore:"actor"`
	Action    string         `firestore:"action"`
	TargetRef string         `firestore:"targetRef"`
	Metadata  map[string]any `firestore:"metadata"`
	Severity  string         `firestore:"severity"`
	RequestID string         `firestore:"requestId"`
	CreatedAt time.Time      `firestore:"createdAt"`
}

type auditLogRepository struct {
	base *firestore.BaseRepository[auditLogEntity]
}

func newAuditLogRepository(provider *firestore.Provider) repositories.AuditLogRepository {
	return &auditLogRepository{
		base: firestore.NewBaseRepository[auditLogEntity](provider, collectionAuditLogs, nil),
	}
}

func (r *auditLogRepository) Append(ctx context.Context, entry domain.AuditLogEntry) error {
	_, err := r.base.Set(ctx, entry.ID, auditLogEntity{
		Actor:     entry.Actor,
		Action:    entry.Action,
		TargetRef: entry.TargetRef,
		Metadata:  entry.Metadata,
		Severity:  entry.Severity,
		RequestID: entry.RequestID,
		CreatedAt: entry.CreatedAt,
	})
	return err
}
