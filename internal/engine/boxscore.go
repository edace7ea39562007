package engine

import (
	"github.com/maxviazov/football-sim-service/internal/model"
)

const (
	fullMatchMinutes = 90

	baseRating      = 5.5
	goalBonus       = 1.0
	assistBonus     = 0.5
	yellowPenalty   = 0.3
	redPenalty      = 1.0
	minRating       = 1.0
	maxRating       = 10.0
	outfieldNoise   = 0.75
	goalkeeperNoise = 1.0
)

type positionProfile struct {
	pass, shot, tackle float64
}

var profiles = map[model.Position]positionProfile{
	model.PositionGK:  {pass: 0.3, shot: 0.1, tackle: 0.0},
	model.PositionDEF: {pass: 0.8, shot: 0.1, tackle: 1.5},
	model.PositionMID: {pass: 1.2, shot: 0.5, tackle: 0.8},
	model.PositionFWD: {pass: 0.6, shot: 1.5, tackle: 0.3},
}

var otherProfile = positionProfile{pass: 0.7, shot: 0.3, tackle: 0.5}

func profileOf(p model.Position) positionProfile {
	if pp, ok := profiles[p]; ok {
		return pp
	}
	return otherProfile
}

// eventTally is what the timeline credits to a single player.
type eventTally struct {
	goals, assists, yellows int
	redMinute               int // 0 when not sent off
}

// tallyKey scopes a player to a team so a malformed input listing the same
// player on both rosters cannot leak events across sides.
type tallyKey struct{ team, player int64 }

func tallyEvents(events []model.MatchEvent) map[tallyKey]*eventTally {
	out := make(map[tallyKey]*eventTally)
	get := func(team, player int64) *eventTally {
		k := tallyKey{team, player}
		t, ok := out[k]
		if !ok {
			t = &eventTally{}
			out[k] = t
		}
		return t
	}
	for _, ev := range events {
		switch ev.Type {
		case model.EventGoal:
			get(ev.TeamID, ev.PlayerID).goals++
			if ev.AssistPlayerID != nil {
				get(ev.TeamID, *ev.AssistPlayerID).assists++
			}
		case model.EventYellowCard:
			get(ev.TeamID, ev.PlayerID).yellows++
		case model.EventRedCard:
			if t := get(ev.TeamID, ev.PlayerID); t.redMinute == 0 {
				t.redMinute = ev.Minute
			}
		}
	}
	return out
}

// BuildBoxScores produces one PlayerMatchStats per rostered player, home first.
// There are no substitutions, so every rostered player is recorded as a starter.
func BuildBoxScores(r Rand, matchID int64, home, away Side, events []model.MatchEvent, homePossession int) []model.PlayerMatchStats {
	tally := tallyEvents(events)
	out := make([]model.PlayerMatchStats, 0, len(home.Roster)+len(away.Roster))
	for _, p := range home.Roster {
		out = append(out, boxScore(r, matchID, home.Team.ID, p, tally[tallyKey{home.Team.ID, p.ID}], homePossession))
	}
	for _, p := range away.Roster {
		out = append(out, boxScore(r, matchID, away.Team.ID, p, tally[tallyKey{away.Team.ID, p.ID}], 100-homePossession))
	}
	return out
}

func boxScore(r Rand, matchID, teamID int64, p model.Player, t *eventTally, possession int) model.PlayerMatchStats {
	if t == nil {
		t = &eventTally{}
	}
	prof := profileOf(p.Position)

	passes := int(float64(20+r.IntN(40)) * (float64(possession) / 50.0) * prof.pass)
	passAccuracy := intBetween(r, 50, 91)

	shots := int(float64(1+r.IntN(5)) * prof.shot)
	onTarget := min(shots, scaled(shots, floatBetween(r, 0.3, 0.8)))

	tackles := int(float64(1+r.IntN(8)) * prof.tackle)
	interceptions := int(float64(1+r.IntN(6)) * prof.tackle)

	redCard := t.redMinute > 0
	var fouls int
	if t.yellows > 0 || redCard {
		fouls = 1 + r.IntN(4)
	} else {
		fouls = r.IntN(3)
	}

	rating := baseRating +
		goalBonus*float64(t.goals) +
		assistBonus*float64(t.assists) -
		yellowPenalty*float64(t.yellows)
	if redCard {
		rating -= redPenalty
	}
	rating += performance(r, p.Position, passes, shots, onTarget, tackles, interceptions)

	minutes := fullMatchMinutes
	if redCard {
		minutes = t.redMinute
	}

	return model.PlayerMatchStats{
		PlayerID:      p.ID,
		MatchID:       matchID,
		TeamID:        teamID,
		MinutesPlayed: minutes,
		Goals:         t.goals,
		Assists:       t.assists,
		Shots:         shots,
		ShotsOnTarget: onTarget,
		Passes:        passes,
		PassAccuracy:  passAccuracy,
		Tackles:       tackles,
		Interceptions: interceptions,
		Fouls:         fouls,
		YellowCards:   t.yellows,
		RedCard:       redCard,
		Rating:        ClampRating(rating),
		IsStarting:    true,
		Position:      p.Position,
	}
}

// performance is the position-specific rating term: a small function of the
// player's own derived stats plus symmetric noise.
func performance(r Rand, pos model.Position, passes, shots, onTarget, tackles, interceptions int) float64 {
	switch pos {
	case model.PositionGK:
		return floatBetween(r, -goalkeeperNoise, goalkeeperNoise)
	case model.PositionDEF:
		return 0.1*float64(tackles) + 0.1*float64(interceptions) + floatBetween(r, -outfieldNoise, outfieldNoise)
	case model.PositionMID:
		return 0.01*float64(passes) + 0.05*float64(tackles) + 0.1*float64(onTarget) + floatBetween(r, -outfieldNoise, outfieldNoise)
	case model.PositionFWD:
		return 0.05*float64(shots) + 0.1*float64(onTarget) + floatBetween(r, -outfieldNoise, outfieldNoise)
	default:
		return floatBetween(r, -outfieldNoise, outfieldNoise)
	}
}

// ClampRating bounds a rating to [1.0, 10.0].
func ClampRating(v float64) float64 {
	return min(max(v, minRating), maxRating)
}
