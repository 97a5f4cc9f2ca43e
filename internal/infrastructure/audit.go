package infrastructure

import (
	"github.com/doeshing/guardsh/internal/domain"
	"github.com/doeshing/guardsh/internal/ports"
)

// Auditor routes pipeline state transitions to the structured logger, one
// event per transition keyed by the request correlation id.
type Auditor struct {
	logger ports.Logger
}

// NewAuditor builds an audit adapter over the given logger.
func NewAuditor(logger ports.Logger) *Auditor {
	return &Auditor{logger: logger}
}

// Transition implements ports.AuditLogger.
func (a *Auditor) Transition(correlationID string, state domain.PipelineState, fields map[string]interface{}) {
	if a.logger == nil {
		return
	}
	event := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		event[k] = v
	}
	event["correlation_id"] = correlationID
	event["state"] = string(state)
	a.logger.Info("pipeline transition", event)
}

var _ ports.AuditLogger = (*Auditor)(nil)
