package worker

import (
	"github.com/spec-kit/catalog-gateway/internal/service"
)

// StartAuditWorker registers audit handlers for authentication events.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
