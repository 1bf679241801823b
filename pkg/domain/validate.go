package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of Card.DueDate.
const DateLayout = "2006-01-02"

// ParsePriority validates a priority name (case-insensitive).
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// ParseCardType validates a card type name (case-insensitive).
func ParseCardType(s string) (CardType, error) {
	switch t := CardType(strings.ToLower(strings.TrimSpace(s))); t {
	case CardTypeFeature, CardTypeBug, CardTypeTask, CardTypeStory:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCardType, s)
}

// ParseDueDate validates a YYYY-MM-DD date. An empty string means "no due date".
func ParseDueDate(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
	}
	return &s, nil
}

// ParseLabels resolves label ids against the catalog.
func ParseLabels(ids []string) ([]Label, error) {
	labels := make([]Label, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		l, ok := LabelByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, id)
		}
		labels = append(labels, l)
	}
	return labels, nil
}
