package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kolekta/internal/communication/domain"
	"gorm.io/gorm"
)

type repo struct{}

// Provide constructs the communication repository.
func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, comm *domain.Communication) error {
	return db.WithContext(ctx).Create(comm).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Communication, error) {
	var comm domain.Communication
	err := db.WithContext(ctx).Where("id = ?", id).Take(&comm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comm, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Communication, error) {
	query := db.WithContext(ctx).Model(&domain.Communication{})
	if debtID := strings.TrimSpace(filter.DebtID); debtID != "" {
		id, err := snowflake.ParseString(debtID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		query = query.Where("debt_id = ?", id)
	}
	if customerID := strings.TrimSpace(filter.CustomerID); customerID != "" {
		id, err := snowflake.ParseString(customerID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		query = query.Where("customer_id = ?", id)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var comms []domain.Communication
	if err := query.Order("id DESC").Find(&comms).Error; err != nil {
		return nil, err
	}
	return comms, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status, failReason *string, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE communications SET status = ?, fail_reason = ?, updated_at = ? WHERE id = ?`,
		status,
		failReason,
		now,
		id,
	).Error
}
