package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kolekta/internal/audit/domain"
	"github.com/smallbiznis/kolekta/internal/clock"
	obsctx "github.com/smallbiznis/kolekta/internal/observability/context"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clk   clock.Clock
	repo  domain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("audit.service"),

		genID: p.GenID,
		clk:   p.Clock,
		repo:  p.Repo,
	}
}

// AuditLog records an action without failing the caller. Write errors are
// logged and swallowed so a slow or broken audit table never blocks the
// operation being audited.
func (s *Service) AuditLog(ctx context.Context, actorType domain.ActorType, actorID *string, action, targetType string, targetID *string, metadata map[string]any) error {
	entry := &domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  string(actorType),
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   metadata,
		CreatedAt:  s.clk.Now(),
	}
	if entry.Metadata == nil {
		entry.Metadata = map[string]any{}
	}
	if requestID := obsctx.RequestIDFromContext(ctx); requestID != "" {
		entry.Metadata["request_id"] = requestID
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("audit write failed",
			zap.String("action", action),
			zap.String("target_type", targetType),
			zap.Error(err),
		)
		return err
	}
	return nil
}
