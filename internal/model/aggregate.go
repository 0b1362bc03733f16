package model

import (
	"math"
	"sort"
)

// AggregateWeeks folds weekly lines into one PlayerRow per player. Metrics
// named in sumMetrics accumulate as totals; every other metric is averaged
// over the weeks in which it was observed, so a rate stat missing for two
// weeks does not drag toward zero. Non-finite weekly values are skipped.
func AggregateWeeks(weeks []PlayerWeek, sumMetrics map[string]bool) []PlayerRow {
	type acc struct {
		row    PlayerRow
		sums   map[string]float64
		counts map[string]int
	}

	byPlayer := make(map[string]*acc)
	order := make([]string, 0, 16)

	for _, w := range weeks {
		a, ok := byPlayer[w.PlayerID]
		if !ok {
			a = &acc{
				row: PlayerRow{
					PlayerID: w.PlayerID,
					Name:     w.Name,
					Team:     w.Team,
					Position: w.Position,
					Age:      w.Age,
					Metrics:  make(map[string]float64),
				},
				sums:   make(map[string]float64),
				counts: make(map[string]int),
			}
			byPlayer[w.PlayerID] = a
			order = append(order, w.PlayerID)
		}

		a.row.Games++
		a.row.Samples++
		a.row.Weeks = append(a.row.Weeks, w.Week)
		// Latest team and age win.
		a.row.Team = w.Team
		if w.Age > 0 {
			a.row.Age = w.Age
		}

		for name, v := range w.Metrics {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			a.sums[name] += v
			a.counts[name]++
		}
	}

	rows := make([]PlayerRow, 0, len(byPlayer))
	for _, id := range order {
		a := byPlayer[id]
		sort.Ints(a.row.Weeks)
		for name, total := range a.sums {
			if sumMetrics[name] {
				a.row.Metrics[name] = total
			} else {
				a.row.Metrics[name] = total / float64(a.counts[name])
			}
		}
		rows = append(rows, a.row)
	}
	return rows
}
