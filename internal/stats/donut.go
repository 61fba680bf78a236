package stats

import (
	"strings"

	"github.com/sadopc/gradr/internal/api"
)

// Palette is the fixed 8-color cycle for donut segments.
var Palette = []string{
	"#003f5c", "#2f4b7c", "#665191", "#a05195",
	"#d45087", "#f95d6a", "#ff7c43", "#ffa600",
}

// SkillTotal is one category of the donut, in first-seen order.
type SkillTotal struct {
	Category string
	Amount   float64
}

// Segment describes one arc of the donut ring. Sweep is the arc length as a
// percentage of the full circle; Offset is the stroke-dash rotation that
// stacks segment i directly after segment i-1, starting from a fixed origin.
type Segment struct {
	Category   string
	Amount     float64
	ColorIndex int
	Offset     float64
	Sweep      float64
}

// startOffset rotates the first segment to the top of the ring.
const startOffset = 25.0

// SkillTotals groups skill transactions by category, preserving the order in
// which each category first appears. The category is the second "_"-separated
// segment of the type string ("skill_go" -> "go"); a type with no separator
// is kept whole.
func SkillTotals(txs []api.Transaction) ([]SkillTotal, float64) {
	index := make(map[string]int)
	var totals []SkillTotal
	var grand float64

	for _, tx := range txs {
		category := tx.Type
		if parts := strings.Split(tx.Type, "_"); len(parts) > 1 {
			category = parts[1]
		}
		if i, seen := index[category]; seen {
			totals[i].Amount += tx.Amount
		} else {
			index[category] = len(totals)
			totals = append(totals, SkillTotal{Category: category, Amount: tx.Amount})
		}
		grand += tx.Amount
	}
	return totals, grand
}

// DonutSegments lays the categories out around the ring. Segment sweeps sum
// to 100 (modulo floating point) whenever total > 0; a non-positive total
// yields no segments.
func DonutSegments(totals []SkillTotal, total float64) []Segment {
	if total <= 0 {
		return nil
	}

	segments := make([]Segment, 0, len(totals))
	preceding := 0.0
	for i, st := range totals {
		sweep := st.Amount / total * 100
		segments = append(segments, Segment{
			Category:   st.Category,
			Amount:     st.Amount,
			ColorIndex: i % len(Palette),
			Offset:     100 - preceding + startOffset,
			Sweep:      sweep,
		})
		preceding += sweep
	}
	return segments
}
