package service

import (
	"context"

	"returns-settlement-engine/internal/core/domain"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/logger"

	"github.com/rs/zerolog"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new audit service.
// If repo is nil, audit entries are only written to the logger.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: logger.WithComponent(log, "audit")}
}

// Log records an audit entry asynchronously (fire-and-forget). The request
// context is detached so the write outlives the response.
func (s *auditService) Log(ctx context.Context, entry *domain.AuditLog) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		actor := ""
		if entry.ActorID != nil {
			actor = *entry.ActorID
		}
		s.log.Info().
			Str("action", string(entry.Action)).
			Str("actor", actor).
			Str("resource_type", entry.ResourceType).
			Str("resource_id", entry.ResourceID).
			Str("ip", entry.IPAddress).
			Msg("audit")

		if s.repo != nil {
			if err := s.repo.Create(ctx, entry); err != nil {
				s.log.Warn().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit log")
			}
		}
	}()
}
