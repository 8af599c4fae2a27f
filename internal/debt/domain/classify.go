package domain

import "time"

// Arrears tier boundaries, in whole days past due. Upper bounds are
// inclusive: day 30 is still early, day 90 is still mid.
const (
	earlyMaxDays = 30
	midMaxDays   = 90
)

// Classify maps a due date and reference date to a day count and tier.
// Terminal tiers pass through with the tier untouched so a concurrent
// payment or cancellation always wins over the classifier; the day count
// is still the real elapsed figure. The function is pure and idempotent
// for a fixed reference date.
func Classify(dueDate, reference time.Time, current Tier) (int, Tier) {
	days := int(reference.Sub(dueDate).Hours() / 24)
	if days < 0 {
		days = 0
	}

	if current.Terminal() {
		return days, current
	}
	return days, TierForDays(days)
}

// TierForDays returns the non-terminal tier for a days-in-arrears count.
func TierForDays(days int) Tier {
	switch {
	case days <= 0:
		return TierCurrent
	case days <= earlyMaxDays:
		return TierEarly
	case days <= midMaxDays:
		return TierMid
	default:
		return TierAdvanced
	}
}
