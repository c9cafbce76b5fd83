package auditlog

import (
	"encoding/json"
	"fmt"

	"assetdesk/internal/repository"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type Auditlog struct {
	r   *repository.Repository
	log *zap.Logger
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(r *repository.Repository, log *zap.Logger) *Auditlog {
	return &Auditlog{r: r, log: log}
}

// Log records an audit entry; failures are logged, never propagated, so a
// broken audit sink cannot fail the operation it describes.
func (a *Auditlog) Log(action string, actor string, data map[string]interface{}, item Auditable) {
	entry := item.CreateLogView()
	entry.Action = action
	entry.Actor = actor

	if err := a.persist(entry, data); err != nil {
		a.log.Warn("unable to create audit log entry",
			zap.Int("resource_id", entry.ResourceID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func (a *Auditlog) persist(entry models.AuditLog, data map[string]interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}

	query := a.r.GoquDBWrapper.Insert("audit_logs").Rows(goqu.Record{
		"resource_id":   entry.ResourceID,
		"resource_type": entry.ResourceType,
		"action":        entry.Action,
		"actor":         entry.Actor,
		"payload":       string(payload),
	})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert audit log record: %w", err)
	}

	return nil
}
