package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/maxviazov/football-sim-service/internal/model"
)

const (
	positionBias      = 0.7
	assistProbability = 0.7
)

// MinuteRange is an inclusive window of match minutes.
type MinuteRange struct{ Min, Max int }

func (m MinuteRange) span() int { return m.Max - m.Min + 1 }

// Contains reports whether minute lies inside the window.
func (m MinuteRange) Contains(minute int) bool { return minute >= m.Min && minute <= m.Max }

var (
	GoalMinutes       = MinuteRange{Min: 1, Max: 90}
	YellowCardMinutes = MinuteRange{Min: 15, Max: 90}
	RedCardMinutes    = MinuteRange{Min: 30, Max: 90}
)

// Side is one team's input to the timeline builder.
type Side struct {
	Team        model.Team
	Roster      []model.Player
	Goals       int
	YellowCards int
	RedCards    int
}

// playable zeroes every count when there is nobody to attribute events to.
func (s Side) playable() Side {
	if len(s.Roster) == 0 {
		s.Goals, s.YellowCards, s.RedCards = 0, 0, 0
	}
	return s
}

// BuildTimeline assigns every goal and card to a distinct minute (per category)
// and a player of the right side. The result is ordered by minute.
func BuildTimeline(r Rand, matchID int64, home, away Side) []model.MatchEvent {
	home, away = home.playable(), away.playable()

	goalMins := shuffled(r, UniqueMinutes(r, home.Goals+away.Goals, GoalMinutes))
	yellowMins := shuffled(r, UniqueMinutes(r, home.YellowCards+away.YellowCards, YellowCardMinutes))
	redMins := shuffled(r, UniqueMinutes(r, home.RedCards+away.RedCards, RedCardMinutes))

	events := make([]model.MatchEvent, 0, len(goalMins)+len(yellowMins)+len(redMins))

	next := 0
	for _, s := range []Side{home, away} {
		for range s.Goals {
			events = append(events, goalEvent(r, matchID, goalMins[next], s))
			next++
		}
	}

	next = 0
	for _, s := range []Side{home, away} {
		for range s.YellowCards {
			p := s.Roster[r.IntN(len(s.Roster))]
			events = append(events, model.MatchEvent{
				MatchID:     matchID,
				Minute:      yellowMins[next],
				Type:        model.EventYellowCard,
				PlayerID:    p.ID,
				TeamID:      s.Team.ID,
				Description: fmt.Sprintf("%s (%s) receives a yellow card", displayName(p), s.Team.Name),
			})
			next++
		}
	}

	next = 0
	for _, s := range []Side{home, away} {
		for range s.RedCards {
			p := s.Roster[r.IntN(len(s.Roster))]
			events = append(events, model.MatchEvent{
				MatchID:     matchID,
				Minute:      redMins[next],
				Type:        model.EventRedCard,
				PlayerID:    p.ID,
				TeamID:      s.Team.ID,
				Description: fmt.Sprintf("%s (%s) is sent off with a red card", displayName(p), s.Team.Name),
			})
			next++
		}
	}

	slices.SortStableFunc(events, func(a, b model.MatchEvent) int { return cmp.Compare(a.Minute, b.Minute) })
	return events
}

func goalEvent(r Rand, matchID int64, minute int, s Side) model.MatchEvent {
	outfield := filterPlayers(s.Roster, func(p model.Player) bool { return p.Position != model.PositionGK })
	if len(outfield) == 0 {
		outfield = s.Roster
	}
	scorer, _ := PickPlayer(r, outfield, model.PositionFWD)

	ev := model.MatchEvent{
		MatchID:  matchID,
		Minute:   minute,
		Type:     model.EventGoal,
		PlayerID: scorer.ID,
		TeamID:   s.Team.ID,
	}
	desc := fmt.Sprintf("%s scores for %s", displayName(scorer), s.Team.Name)

	if chance(r, assistProbability) {
		others := filterPlayers(s.Roster, func(p model.Player) bool { return p.ID != scorer.ID })
		if assist, ok := PickPlayer(r, others, model.PositionMID); ok {
			id := assist.ID
			ev.AssistPlayerID = &id
			desc += fmt.Sprintf(" (assist: %s)", displayName(assist))
		}
	}
	ev.Description = desc
	return ev
}

// PickPlayer selects from pool, restricted to the preferred position with
// probability positionBias when such players exist. It returns false only for
// an empty pool.
func PickPlayer(r Rand, pool []model.Player, preferred model.Position) (model.Player, bool) {
	if len(pool) == 0 {
		return model.Player{}, false
	}
	if preferred != "" {
		favored := filterPlayers(pool, func(p model.Player) bool { return p.Position == preferred })
		if len(favored) > 0 && chance(r, positionBias) {
			return favored[r.IntN(len(favored))], true
		}
	}
	return pool[r.IntN(len(pool))], true
}

// UniqueMinutes draws count distinct minutes from window by rejection sampling
// and returns them ascending. count is capped at the window size.
func UniqueMinutes(r Rand, count int, window MinuteRange) []int {
	count = min(count, window.span())
	if count <= 0 {
		return nil
	}
	seen := make(map[int]struct{}, count)
	out := make([]int, 0, count)
	for len(out) < count {
		m := intBetween(r, window.Min, window.Max+1)
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// shuffled permutes minutes in place so the home side does not always
// receive the earliest ones.
func shuffled(r Rand, minutes []int) []int {
	for i := len(minutes) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		minutes[i], minutes[j] = minutes[j], minutes[i]
	}
	return minutes
}

func filterPlayers(in []model.Player, keep func(model.Player) bool) []model.Player {
	out := make([]model.Player, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func displayName(p model.Player) string {
	switch {
	case p.LastName != "":
		return p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return fmt.Sprintf("Player #%d", p.ID)
	}
}
