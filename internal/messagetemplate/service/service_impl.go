package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kolekta/internal/cache"
	"github.com/smallbiznis/kolekta/internal/clock"
	"github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const catalogTTL = 30 * time.Second

type catalogKey struct {
	Channel domain.Channel
	Tone    domain.Tone
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID    *snowflake.Node
	clk      clock.Clock
	repo     domain.Repository
	catalogs cache.Cache[catalogKey, []domain.MessageTemplate]
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
		log: p.Log.Named("messagetemplate.service"),

		genID:    p.GenID,
		clk:      p.Clock,
		repo:     p.Repo,
		catalogs: cache.NewTTLCache[catalogKey, []domain.MessageTemplate](),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.MessageTemplate, error) {
	channel := domain.Channel(strings.ToLower(strings.TrimSpace(req.Channel)))
	if !channel.Valid() {
		return nil, domain.ErrInvalidChannel
	}
	tone := domain.Tone(strings.ToLower(strings.TrimSpace(req.Tone)))
	if !tone.Valid() {
		return nil, domain.ErrInvalidTone
	}
	if req.MinDays < 0 {
		return nil, domain.ErrInvalidMinDays
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, domain.ErrInvalidBody
	}

	placeholders := make([]string, 0, len(req.Placeholders))
	for _, name := range req.Placeholders {
		if name = strings.TrimSpace(name); name != "" {
			placeholders = append(placeholders, name)
		}
	}
	encoded, err := json.Marshal(placeholders)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	tmpl := &domain.MessageTemplate{
		ID:           s.genID.Generate(),
		Channel:      channel,
		Tone:         tone,
		MinDays:      req.MinDays,
		Subject:      strings.TrimSpace(req.Subject),
		Body:         body,
		Placeholders: datatypes.JSON(encoded),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, tmpl); err != nil {
		return nil, err
	}

	s.catalogs.Delete(catalogKey{Channel: channel, Tone: tone})
	return tmpl, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.MessageTemplate, error) {
	return s.repo.List(ctx, s.db, req)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.MessageTemplate, error) {
	templateID, err := domain.ParseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	tmpl, err := s.repo.FindByID(ctx, s.db, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, domain.ErrNotFound
	}
	return tmpl, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (*domain.MessageTemplate, error) {
	templateID, err := domain.ParseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	updated, err := s.repo.SetActive(ctx, s.db, templateID, false)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrNotFound
	}

	tmpl, err := s.repo.FindByID(ctx, s.db, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl != nil {
		s.catalogs.Delete(catalogKey{Channel: tmpl.Channel, Tone: tmpl.Tone})
	}
	return tmpl, nil
}

func (s *Service) Catalog(ctx context.Context, channel domain.Channel, tone domain.Tone) ([]domain.MessageTemplate, error) {
	key := catalogKey{Channel: channel, Tone: tone}
	if cached, ok := s.catalogs.Get(key); ok {
		return cached, nil
	}

	templates, err := s.repo.ListActive(ctx, s.db, channel, tone)
	if err != nil {
		return nil, err
	}
	s.catalogs.Set(key, templates, catalogTTL)
	return templates, nil
}
