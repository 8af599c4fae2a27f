package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kolekta/internal/debt/domain"
	"gorm.io/gorm"
)

type repo struct{}

// Provide constructs the debt repository.
func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, debt *domain.Debt) error {
	return db.WithContext(ctx).Create(debt).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Debt, error) {
	var debt domain.Debt
	err := db.WithContext(ctx).Where("id = ?", id).Take(&debt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Debt, error) {
	query := db.WithContext(ctx).Model(&domain.Debt{})
	if customerID := strings.TrimSpace(filter.CustomerID); customerID != "" {
		id, err := domain.ParseID(customerID)
		if err != nil {
			return nil, domain.ErrInvalidCustomer
		}
		query = query.Where("customer_id = ?", id)
	}
	if tier := strings.TrimSpace(filter.Tier); tier != "" {
		if !domain.Tier(tier).Valid() {
			return nil, domain.ErrInvalidTier
		}
		query = query.Where("tier = ?", tier)
	}

	var debts []domain.Debt
	if err := query.Order("id ASC").Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

func (r *repo) FetchOpenForWork(ctx context.Context, db *gorm.DB, afterID snowflake.ID, limit int) ([]domain.OpenDebt, error) {
	var debts []domain.OpenDebt
	err := db.WithContext(ctx).Raw(
		`SELECT id, due_date, days_in_arrears, tier
		 FROM debts
		 WHERE tier NOT IN (?, ?) AND id > ?
		 ORDER BY id ASC
		 LIMIT ?`,
		domain.TierPaid,
		domain.TierCancelled,
		afterID,
		limit,
	).Scan(&debts).Error
	if err != nil {
		return nil, err
	}
	return debts, nil
}

func (r *repo) UpdateClassification(ctx context.Context, db *gorm.DB, id snowflake.ID, days int, tier domain.Tier, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE debts
		 SET days_in_arrears = ?, tier = ?, updated_at = ?
		 WHERE id = ? AND tier NOT IN (?, ?)`,
		days,
		tier,
		now,
		id,
		domain.TierPaid,
		domain.TierCancelled,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) MarkTerminal(ctx context.Context, db *gorm.DB, id snowflake.ID, tier domain.Tier, paidAt *time.Time, method *string, now time.Time) (bool, error) {
	if !tier.Terminal() {
		return false, domain.ErrInvalidTier
	}
	result := db.WithContext(ctx).Exec(
		`UPDATE debts
		 SET tier = ?, paid_at = ?, payment_method = ?, updated_at = ?
		 WHERE id = ? AND tier NOT IN (?, ?)`,
		tier,
		paidAt,
		method,
		now,
		id,
		domain.TierPaid,
		domain.TierCancelled,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
