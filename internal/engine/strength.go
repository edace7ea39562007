package engine

import "github.com/maxviazov/football-sim-service/internal/model"

const (
	// defaultPlayerRating is used for players in an unrecognized position and
	// as the roster average when a roster is empty.
	defaultPlayerRating = 10.0
	playerRatingScale   = 5.0

	reputationWeight       = 0.5
	stadiumQualityWeight   = 0.3
	trainingFacilityWeight = 0.2
)

// PlayerRating averages the position-relevant subset of a player's skills.
func PlayerRating(p model.Player) float64 {
	s := p.Skills
	switch p.Position {
	case model.PositionGK:
		return avg(s.Reflexes, s.Handling, s.AerialAbility, s.GoalkeepingPositioning)
	case model.PositionDEF:
		return avg(s.Tackling, s.Marking, s.Positioning, s.Interceptions, s.Strength)
	case model.PositionMID:
		return avg(s.Passing, s.Technique, s.Vision, s.Decisions, s.Stamina)
	case model.PositionFWD:
		return avg(s.Finishing, s.Technique, s.Dribbling, s.Speed, s.BallControl)
	default:
		return defaultPlayerRating
	}
}

// TeamStrength converts a team and its roster into a single scalar.
// An empty roster contributes defaultPlayerRating as its average.
func TeamStrength(team model.Team, roster []model.Player) int {
	rosterAvg := defaultPlayerRating
	if len(roster) > 0 {
		var sum float64
		for _, p := range roster {
			sum += PlayerRating(p)
		}
		rosterAvg = sum / float64(len(roster))
	}

	teamFactors := float64(team.Reputation)*reputationWeight +
		float64(team.StadiumQuality)*stadiumQualityWeight +
		float64(team.TrainingFacilityQuality)*trainingFacilityWeight

	return int(rosterAvg*playerRatingScale + teamFactors)
}

func avg(vals ...int) float64 {
	var sum int
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}
