package domain

// Select picks the single best-matching template from a catalog: active,
// matching channel and tone, threshold at or below the day count. Among
// matches the largest threshold wins; at equal thresholds the lowest
// template ID wins, which keeps selection deterministic regardless of
// catalog order.
func Select(channel Channel, tone Tone, daysInArrears int, catalog []MessageTemplate) (*MessageTemplate, error) {
	var best *MessageTemplate
	for i := range catalog {
		tmpl := &catalog[i]
		if !tmpl.Active || tmpl.Channel != channel || tmpl.Tone != tone {
			continue
		}
		if tmpl.MinDays > daysInArrears {
			continue
		}
		if best == nil ||
			tmpl.MinDays > best.MinDays ||
			(tmpl.MinDays == best.MinDays && tmpl.ID < best.ID) {
			best = tmpl
		}
	}
	if best == nil {
		return nil, ErrNoTemplateMatch
	}
	return best, nil
}
