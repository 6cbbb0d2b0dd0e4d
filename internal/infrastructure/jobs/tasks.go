// Package jobs tareas en segundo plano (asynq) sobre el kardex.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola única del worker.
	QueueDefault = "default"
	// TaskLedgerAudit recalcula el kardex y lo compara con el saldo guardado.
	TaskLedgerAudit = "ledger:audit"
)

// LedgerAuditPayload TenantID vacío audita todos los tenants.
type LedgerAuditPayload struct {
	TenantID    string    `json:"tenant_id,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewLedgerAuditTask construye la tarea de auditoría.
func NewLedgerAuditTask(tenantID string, at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(LedgerAuditPayload{TenantID: tenantID, RequestedAt: at.UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerAudit, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}

// LedgerAuditor lo implementa inventory.AuditUseCase.
type LedgerAuditor interface {
	AuditTenantCount(ctx context.Context, tenantID string) (int, error)
	AuditAll(ctx context.Context) (int, error)
}

// AuditObserver recibe el número de productos inconsistentes de cada corrida.
type AuditObserver interface {
	ObserveAudit(inconsistent int, err error)
}

// NewLedgerAuditHandler handler de TaskLedgerAudit. observer puede ser nil.
func NewLedgerAuditHandler(auditor LedgerAuditor, observer AuditObserver) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LedgerAuditPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
		}
		var (
			n   int
			err error
		)
		if payload.TenantID == "" {
			n, err = auditor.AuditAll(ctx)
		} else {
			n, err = auditor.AuditTenantCount(ctx, payload.TenantID)
		}
		if observer != nil {
			observer.ObserveAudit(n, err)
		}
		return err
	}
}
