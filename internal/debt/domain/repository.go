package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// OpenDebt is the slim projection the reclassification sweep works on.
type OpenDebt struct {
	ID            snowflake.ID
	DueDate       time.Time
	DaysInArrears int
	Tier          Tier
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, debt *Debt) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Debt, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Debt, error)

	// FetchOpenForWork returns a batch of non-terminal debts ordered by id,
	// starting after the given cursor.
	FetchOpenForWork(ctx context.Context, db *gorm.DB, afterID snowflake.ID, limit int) ([]OpenDebt, error)

	// UpdateClassification persists a tier/day-count transition. The update
	// is guarded so it never lands on a debt that has gone terminal in the
	// meantime; it reports whether a row was written.
	UpdateClassification(ctx context.Context, db *gorm.DB, id snowflake.ID, days int, tier Tier, now time.Time) (bool, error)

	// MarkTerminal moves a debt into paid or cancelled exactly once.
	MarkTerminal(ctx context.Context, db *gorm.DB, id snowflake.ID, tier Tier, paidAt *time.Time, method *string, now time.Time) (bool, error)
}
