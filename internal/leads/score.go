package leads

import "github.com/chatleadhq/chatlead-platform/internal/entity"

const (
	scoreBase = 50
	scoreMax  = 100
)

// Score maps a record's field completeness to a bounded lead score. Raw
// records carry no fields and score the base. The result is always within
// [50,100] and never decreases as fields are added.
func Score(rec entity.Record) int {
	score := scoreBase
	if rec.Name != "" {
		score += 10
	}
	if rec.Phone != "" {
		score += 15
	}
	if rec.Email != "" {
		score += 15
	}
	if rec.Date != "" {
		score += 10
	}
	if rec.Time != "" {
		score += 10
	}
	if rec.ServiceType != "" {
		score += 10
	}
	if score > scoreMax {
		score = scoreMax
	}
	return score
}
