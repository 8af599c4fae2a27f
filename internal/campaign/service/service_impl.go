package service

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kolekta/internal/campaign/domain"
	"github.com/smallbiznis/kolekta/internal/clock"
	msgtemplatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"github.com/smallbiznis/kolekta/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clk   clock.Clock
	store repository.Repository[domain.Campaign]
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("campaign.service"),

		genID: p.GenID,
		clk:   p.Clock,
		store: repository.ProvideStore[domain.Campaign](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Campaign, error) {
	variant := strings.TrimSpace(req.Variant)
	if variant == "" {
		return nil, domain.ErrInvalidVariant
	}
	tone := msgtemplatedomain.Tone(strings.ToLower(strings.TrimSpace(req.Tone)))
	if !tone.Valid() {
		return nil, domain.ErrInvalidTone
	}

	channels := make([]string, 0, len(req.Channels))
	for _, raw := range req.Channels {
		channel := msgtemplatedomain.Channel(strings.ToLower(strings.TrimSpace(raw)))
		if !channel.Valid() {
			return nil, msgtemplatedomain.ErrInvalidChannel
		}
		channels = append(channels, string(channel))
	}
	encoded, err := json.Marshal(channels)
	if err != nil {
		return nil, err
	}

	cadence := req.CadenceDays
	if cadence <= 0 {
		cadence = 7
	}

	now := s.clk.Now()
	campaign := &domain.Campaign{
		ID:          s.genID.Generate(),
		Variant:     variant,
		Tone:        string(tone),
		Channels:    datatypes.JSON(encoded),
		CadenceDays: cadence,
		Config:      datatypes.JSONMap(req.Config),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	campaignID, err := domain.ParseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	campaign, err := s.store.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, domain.ErrNotFound
	}
	return campaign, nil
}

func (s *Service) Increment(ctx context.Context, id snowflake.ID, field string, delta int64) error {
	if !domain.ValidField(field) {
		return domain.ErrInvalidField
	}
	if delta <= 0 {
		return domain.ErrInvalidDelta
	}

	// field is validated against the fixed counter column list above, so
	// interpolating it is safe.
	result := s.db.WithContext(ctx).Exec(
		`UPDATE campaigns SET `+field+` = `+field+` + ?, updated_at = ? WHERE id = ?`,
		delta,
		s.clk.Now(),
		id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) IncrementDispatch(ctx context.Context, id snowflake.ID, delivered bool) error {
	deliveredDelta := int64(0)
	if delivered {
		deliveredDelta = 1
	}
	result := s.db.WithContext(ctx).Exec(
		`UPDATE campaigns
		 SET sent_count = sent_count + 1,
		     delivered_count = delivered_count + ?,
		     updated_at = ?
		 WHERE id = ?`,
		deliveredDelta,
		s.clk.Now(),
		id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Compare(ctx context.Context, aID, bID string) (*domain.Comparison, error) {
	a, err := s.GetByID(ctx, aID)
	if err != nil {
		return nil, err
	}
	b, err := s.GetByID(ctx, bID)
	if err != nil {
		return nil, err
	}
	return &domain.Comparison{
		A: rates(a),
		B: rates(b),
	}, nil
}

func rates(c *domain.Campaign) domain.Rates {
	return domain.Rates{
		CampaignID:     c.ID.String(),
		Variant:        c.Variant,
		Sent:           c.SentCount,
		OpenRate:       rate(c.ReadCount, c.SentCount),
		ResponseRate:   rate(c.RespondedCount, c.SentCount),
		ConversionRate: rate(c.PaidCount, c.SentCount),
	}
}

// rate returns count/sent as a percentage with two decimals, and 0 for a
// campaign that has not sent anything yet.
func rate(count, sent int64) float64 {
	if sent == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(sent)*100*100) / 100
}
