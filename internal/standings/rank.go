package standings

import (
	"math"
	"sort"
)

// winPctEpsilon guards the floating-point win percentage comparison so that
// rounding noise does not break what should be a tie.
const winPctEpsilon = 0.001

// Rank orders every rostered team into the final table, grouped by level in
// the order the levels were given. Within a level the precedence is: win
// percentage, point differential, fewest points against, then the
// head-to-head record between the two tied teams (wins, then point
// differential) when they have actually met. Teams still tied after all of
// that keep their roster order (the sort is stable).
//
// The head-to-head step is applied pairwise during comparison, exactly as
// the league has always run it; a three-way cycle of results can therefore
// produce an ordering with no globally consistent winner, and that is
// accepted rather than papered over with a derived score.
func Rank(agg *Aggregate, levels []Level) []Row {
	levelIndex := make(map[string]int, len(levels))
	levelNames := make(map[string]string, len(levels))
	for i, level := range levels {
		levelIndex[level.ID] = i
		levelNames[level.ID] = level.Name
	}

	rows := make([]Row, 0, len(agg.order))
	for _, teamID := range agg.order {
		stat := agg.stats[teamID]
		rows = append(rows, Row{
			TeamID:        stat.TeamID,
			Name:          stat.Name,
			LevelID:       stat.LevelID,
			LevelName:     levelNames[stat.LevelID],
			GamesPlayed:   stat.GamesPlayed,
			Wins:          stat.Wins,
			Losses:        stat.Losses,
			Draws:         stat.Draws,
			PointsFor:     stat.PointsFor,
			PointsAgainst: stat.PointsAgainst,
			WinPct:        stat.WinPct(),
			PointDiff:     stat.PointDiff(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]

		// Level groups the output; it is not a ranking criterion.
		if a.LevelID != b.LevelID {
			return levelIndex[a.LevelID] < levelIndex[b.LevelID]
		}

		if math.Abs(a.WinPct-b.WinPct) > winPctEpsilon {
			return a.WinPct > b.WinPct
		}
		if a.PointDiff != b.PointDiff {
			return a.PointDiff > b.PointDiff
		}
		if a.PointsAgainst != b.PointsAgainst {
			return a.PointsAgainst < b.PointsAgainst
		}

		rec := agg.HeadToHead(a.TeamID, b.TeamID)
		if rec.Meetings() > 0 {
			if rec.Wins != rec.Losses {
				return rec.Wins > rec.Losses
			}
			if rec.PointDiff != 0 {
				return rec.PointDiff > 0
			}
		}
		return false
	})

	return rows
}
