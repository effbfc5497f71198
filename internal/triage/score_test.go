package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
)

// quiet hour outside both rush windows
var calm = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func orderAt(created time.Time, total float64, status domain.OrderStatus, itemNames ...string) domain.Order {
	items := make([]domain.OrderItem, 0, len(itemNames))
	for _, n := range itemNames {
		items = append(items, domain.OrderItem{ID: n, Name: n, Quantity: 1, Price: total})
	}
	return domain.Order{
		ID:        "o-" + string(status),
		Total:     total,
		Status:    status,
		Items:     items,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestValueScoreClamped(t *testing.T) {
	cfg := DefaultScoreConfig()
	for _, total := range []float64{1000, 1500, 50000} {
		_, bd := cfg.Score(orderAt(calm, total, domain.StatusPlaced), calm)
		assert.Equal(t, 1.0, bd.ValueScore, "total %v", total)
	}
	_, bd := cfg.Score(orderAt(calm, 500, domain.StatusPlaced), calm)
	assert.Equal(t, 0.5, bd.ValueScore)
}

func TestStalenessScoreClamped(t *testing.T) {
	cfg := DefaultScoreConfig()
	for _, mins := range []time.Duration{90, 120, 600} {
		_, bd := cfg.Score(orderAt(calm.Add(-mins*time.Minute), 100, domain.StatusPlaced), calm)
		assert.Equal(t, 1.0, bd.StalenessScore, "age %vm", mins)
	}
}

func TestTerminalStatusesLeastUrgent(t *testing.T) {
	cfg := DefaultScoreConfig()
	_, placed := cfg.Score(orderAt(calm, 100, domain.StatusPlaced), calm)
	_, delivered := cfg.Score(orderAt(calm, 100, domain.StatusDelivered), calm)
	_, cancelled := cfg.Score(orderAt(calm, 100, domain.StatusCancelled), calm)

	assert.Less(t, delivered.StatusScore, placed.StatusScore)
	assert.Less(t, cancelled.StatusScore, placed.StatusScore)
	assert.Equal(t, 1.0, placed.StatusScore, "PLACED carries max urgency")
}

func TestLunchRushPaneerScenario(t *testing.T) {
	cfg := DefaultScoreConfig()
	now := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC) // lunch rush
	o := orderAt(now.Add(-30*time.Minute), 500, domain.StatusPlaced, "Paneer Butter Masala")

	score, bd := cfg.Score(o, now)

	assert.InDelta(t, 0.5, bd.ValueScore, 0.001)
	assert.InDelta(t, 30.0/90.0, bd.StalenessScore, 0.001)
	assert.Equal(t, 1.0, bd.StatusScore)
	assert.Equal(t, 2.0, bd.KeywordBoost)
	assert.Equal(t, 1.0, bd.RushBoost)
	assert.InDelta(t, 30.0, bd.MinutesSincePlaced, 0.001)
	assert.InDelta(t, 4.35, score, 0.01)
}

func TestKeywordMatchCaseInsensitive(t *testing.T) {
	cfg := DefaultScoreConfig()
	_, bd := cfg.Score(orderAt(calm, 100, domain.StatusPlaced, "GKK THALI special"), calm)
	assert.Equal(t, cfg.KeywordBoost, bd.KeywordBoost)

	_, bd = cfg.Score(orderAt(calm, 100, domain.StatusPlaced, "Jeera Rice"), calm)
	assert.Zero(t, bd.KeywordBoost)
}

func TestRushWindows(t *testing.T) {
	cfg := DefaultScoreConfig()
	boosted := map[int]bool{12: true, 13: true, 14: true, 15: true, 19: true, 20: true, 21: true, 22: true}

	for hour := 0; hour < 24; hour++ {
		now := time.Date(2025, 6, 10, hour, 30, 0, 0, time.UTC)
		_, bd := cfg.Score(orderAt(now, 100, domain.StatusPlaced), now)
		want := 0.0
		if boosted[hour] {
			want = cfg.RushBoost
		}
		assert.Equal(t, want, bd.RushBoost, "hour %d", hour)
	}
}

func TestZeroItemsAndMissingTimestamp(t *testing.T) {
	cfg := DefaultScoreConfig()

	empty := domain.Order{ID: "o-empty", Status: domain.StatusPlaced}
	score, bd := cfg.Score(empty, calm)
	assert.Zero(t, bd.ValueScore)
	assert.Zero(t, bd.StalenessScore, "missing createdAt counts as just placed")
	assert.Zero(t, bd.KeywordBoost)
	assert.Equal(t, 1.0, score, "status urgency still applies")
}

func TestScoreRounding(t *testing.T) {
	cfg := DefaultScoreConfig()
	o := orderAt(calm.Add(-10*time.Minute), 333, domain.StatusConfirmed)
	score, _ := cfg.Score(o, calm)
	// 0.333*0.5 + (10/90)*0.3 + 0.8 = 0.9998... -> 1.00
	assert.InDelta(t, 1.0, score, 0.001)
}

func TestBreakdownString(t *testing.T) {
	bd := Breakdown{
		ValueScore:         0.5,
		StalenessScore:     0.33,
		StatusScore:        1,
		KeywordBoost:       2,
		RushBoost:          1,
		MinutesSincePlaced: 30,
	}
	require.Equal(t, "Value:0.50 | Age:0.33 (30m) | Status:1.00 | Keywords:+2 | Rush:+1", bd.String())

	quiet := Breakdown{ValueScore: 0.1, StalenessScore: 0, StatusScore: 0.2}
	require.Equal(t, "Value:0.10 | Age:0.00 (0m) | Status:0.20", quiet.String())
}
