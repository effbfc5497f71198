package triage

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
)

// ScoreConfig holds the weights behind the priority score. Zero values
// are not usable; start from DefaultScoreConfig.
type ScoreConfig struct {
	ValueWeight         float64
	StalenessWeight     float64
	MaxValue            float64 // reference basket size, currency units
	MaxStalenessMinutes float64 // soft cap on age
	StatusUrgency       map[domain.OrderStatus]float64
	KeywordBoost        float64
	Keywords            []string
	RushBoost           float64
	RushWindows         []HourRange
}

// HourRange is an inclusive local-hour window, e.g. {12, 15} covers
// 12:00 through 15:59.
type HourRange struct {
	From int
	To   int
}

func (r HourRange) contains(hour int) bool {
	return hour >= r.From && hour <= r.To
}

func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		ValueWeight:         0.5,
		StalenessWeight:     0.3,
		MaxValue:            1000,
		MaxStalenessMinutes: 90,
		StatusUrgency: map[domain.OrderStatus]float64{
			domain.StatusPlaced:     5,
			domain.StatusConfirmed:  4,
			domain.StatusDispatched: 2,
			domain.StatusDelivered:  1,
			domain.StatusCancelled:  0,
		},
		KeywordBoost: 2,
		Keywords:     []string{"paneer", "thali", "dal", "sabzi"},
		RushBoost:    1,
		RushWindows:  []HourRange{{From: 12, To: 15}, {From: 19, To: 22}}, // lunch & dinner rush
	}
}

// Breakdown retains every sub-score behind a priority score. It is the
// audit trail for why an order was ranked where it was.
type Breakdown struct {
	ValueScore         float64 `json:"valueScore"`
	StalenessScore     float64 `json:"stalenessScore"`
	StatusScore        float64 `json:"statusScore"`
	KeywordBoost       float64 `json:"keywordBoost"`
	RushBoost          float64 `json:"rushBoost"`
	MinutesSincePlaced float64 `json:"minutesSincePlaced"`
}

// String renders the tooltip line shown next to a score.
func (b Breakdown) String() string {
	parts := []string{
		fmt.Sprintf("Value:%.2f", b.ValueScore),
		fmt.Sprintf("Age:%.2f (%dm)", b.StalenessScore, int(math.Round(b.MinutesSincePlaced))),
		fmt.Sprintf("Status:%.2f", b.StatusScore),
	}
	if b.KeywordBoost > 0 {
		parts = append(parts, fmt.Sprintf("Keywords:+%g", b.KeywordBoost))
	}
	if b.RushBoost > 0 {
		parts = append(parts, fmt.Sprintf("Rush:+%g", b.RushBoost))
	}
	return strings.Join(parts, " | ")
}

// Score computes the priority score for one order at the given time.
// It never fails: a zero or bogus createdAt counts as "just placed" so
// one bad record cannot take the queue down.
func (c ScoreConfig) Score(o domain.Order, now time.Time) (float64, Breakdown) {
	var minutes float64
	if !o.CreatedAt.IsZero() {
		minutes = math.Max(0, now.Sub(o.CreatedAt).Minutes())
	}

	valueScore := math.Min(1, o.Total/c.MaxValue)
	if valueScore < 0 {
		valueScore = 0
	}
	stalenessScore := math.Min(1, minutes/c.MaxStalenessMinutes)

	var maxUrgency float64
	for _, u := range c.StatusUrgency {
		if u > maxUrgency {
			maxUrgency = u
		}
	}
	var statusScore float64
	if maxUrgency > 0 {
		statusScore = c.StatusUrgency[o.Status] / maxUrgency
	}

	var keywordBoost float64
	if c.hasKeyword(o.Items) {
		keywordBoost = c.KeywordBoost
	}

	var rushBoost float64
	for _, w := range c.RushWindows {
		if w.contains(now.Hour()) {
			rushBoost = c.RushBoost
			break
		}
	}

	base := valueScore*c.ValueWeight + stalenessScore*c.StalenessWeight + statusScore
	score := math.Round((base+keywordBoost+rushBoost)*100) / 100

	return score, Breakdown{
		ValueScore:         valueScore,
		StalenessScore:     stalenessScore,
		StatusScore:        statusScore,
		KeywordBoost:       keywordBoost,
		RushBoost:          rushBoost,
		MinutesSincePlaced: minutes,
	}
}

func (c ScoreConfig) hasKeyword(items []domain.OrderItem) bool {
	for _, it := range items {
		name := strings.ToLower(it.Name)
		for _, kw := range c.Keywords {
			if strings.Contains(name, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}
