package standings

import (
	"strconv"
	"strings"
)

type pairKey struct {
	teamID     string
	opponentID string
}

// Aggregate holds per-team totals and the pairwise head-to-head ledger for
// one pass over a season's games.
type Aggregate struct {
	stats      map[string]*TeamStat
	headToHead map[pairKey]*Record

	// order preserves roster order so that ranking stays deterministic
	// regardless of map iteration.
	order []string
}

// Stat returns the accumulated record for a team, or nil if the team was not
// on any level's roster.
func (a *Aggregate) Stat(teamID string) *TeamStat {
	return a.stats[teamID]
}

// HeadToHead returns the record between teamID and opponentID from teamID's
// perspective. The zero Record is returned for pairs that never met.
func (a *Aggregate) HeadToHead(teamID, opponentID string) Record {
	if rec, ok := a.headToHead[pairKey{teamID, opponentID}]; ok {
		return *rec
	}
	return Record{}
}

// TeamIDs returns all rostered team IDs in roster order.
func (a *Aggregate) TeamIDs() []string {
	return a.order
}

// Build scans every game in every non-off week and accumulates per-team
// totals plus the head-to-head ledger. Every rostered team gets a zero-seeded
// entry even if it never plays. Games that are incomplete, have unparseable
// scores, or reference teams that cannot be resolved contribute nothing; the
// rest of the table still computes.
func Build(levels []Level, teamsByLevel map[string][]Team, weeks []Week) *Aggregate {
	agg := &Aggregate{
		stats:      make(map[string]*TeamStat),
		headToHead: make(map[pairKey]*Record),
	}

	// Older imported games reference teams by display name, so keep a
	// per-level name index alongside the ID index.
	namesToIDs := make(map[pairKey]string)
	for _, level := range levels {
		for _, team := range teamsByLevel[level.ID] {
			if _, ok := agg.stats[team.ID]; ok {
				continue
			}
			agg.stats[team.ID] = &TeamStat{
				TeamID:  team.ID,
				Name:    team.Name,
				LevelID: level.ID,
			}
			agg.order = append(agg.order, team.ID)
			namesToIDs[pairKey{level.ID, team.Name}] = team.ID
		}
	}

	for _, week := range weeks {
		if week.OffWeek {
			continue
		}
		for _, game := range week.Games {
			team1 := agg.resolve(namesToIDs, game.LevelID, game.Team1ID, game.Team1Name)
			team2 := agg.resolve(namesToIDs, game.LevelID, game.Team2ID, game.Team2Name)
			if team1 == "" || team2 == "" {
				continue
			}

			score1, ok1 := parseScore(game.Score1)
			score2, ok2 := parseScore(game.Score2)
			if !ok1 || !ok2 {
				// Not completed, or corrupt; either way it is uncounted.
				continue
			}

			agg.recordResult(team1, team2, score1, score2)
			agg.recordResult(team2, team1, score2, score1)
		}
	}

	return agg
}

// resolve maps a game-side team reference to a rostered team ID, preferring
// the ID and falling back to a (level, name) lookup. Returns "" when the
// reference does not match any rostered team.
func (a *Aggregate) resolve(namesToIDs map[pairKey]string, levelID, teamID, teamName string) string {
	if teamID != "" {
		if _, ok := a.stats[teamID]; ok {
			return teamID
		}
	}
	if teamName != "" {
		if id, ok := namesToIDs[pairKey{levelID, teamName}]; ok {
			return id
		}
	}
	return ""
}

// recordResult applies one completed game from teamID's perspective. Called
// once per side so the stats and the ledger stay exact mirrors.
func (a *Aggregate) recordResult(teamID, opponentID string, pointsFor, pointsAgainst int) {
	stat := a.stats[teamID]
	stat.GamesPlayed++
	stat.PointsFor += pointsFor
	stat.PointsAgainst += pointsAgainst

	key := pairKey{teamID, opponentID}
	rec, ok := a.headToHead[key]
	if !ok {
		rec = &Record{}
		a.headToHead[key] = rec
	}
	rec.PointDiff += pointsFor - pointsAgainst

	switch {
	case pointsFor > pointsAgainst:
		stat.Wins++
		rec.Wins++
	case pointsFor < pointsAgainst:
		stat.Losses++
		rec.Losses++
	default:
		stat.Draws++
		rec.Draws++
	}
}

// parseScore reports whether raw is a recorded score. Blank means not yet
// played; anything that is not a non-negative integer is treated the same
// way rather than corrupting totals.
func parseScore(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
