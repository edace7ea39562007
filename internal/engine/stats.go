package engine

import (
	"math"

	"github.com/maxviazov/football-sim-service/internal/model"
)

const (
	homeAdvantage = 10

	baseShotsMin = 5
	baseShotsMax = 15 // exclusive
	minShots     = 5

	shotsOnTargetRatioMin = 0.35
	shotsOnTargetRatioMax = 0.65
	conversionRateMin     = 0.10
	conversionRateMax     = 0.30

	foulsMin = 5
	foulsMax = 16 // exclusive

	yellowPerFoulMin = 0.20
	yellowPerFoulMax = 0.40
	maxYellowCards   = 5

	redCardProbability = 0.08
)

// Possession splits 100% between the sides, home advantage included.
func Possession(homeStrength, awayStrength int) (home, away int) {
	effHome := homeStrength + homeAdvantage
	total := effHome + awayStrength
	if total <= 0 {
		return 50, 50
	}
	home = int(math.Round(100 * float64(effHome) / float64(total)))
	home = min(max(home, 0), 100)
	return home, 100 - home
}

// GenerateMatchStats derives the aggregate result of a match from both strengths.
// Draws are made home then away for each statistic, in a fixed order.
func GenerateMatchStats(r Rand, homeStrength, awayStrength int) model.MatchStats {
	var s model.MatchStats
	s.HomePossession, s.AwayPossession = Possession(homeStrength, awayStrength)

	s.HomeShots = shots(r, s.HomePossession)
	s.AwayShots = shots(r, s.AwayPossession)

	s.HomeShotsOnTarget = scaled(s.HomeShots, floatBetween(r, shotsOnTargetRatioMin, shotsOnTargetRatioMax))
	s.AwayShotsOnTarget = scaled(s.AwayShots, floatBetween(r, shotsOnTargetRatioMin, shotsOnTargetRatioMax))

	s.HomeGoals = scaled(s.HomeShotsOnTarget, floatBetween(r, conversionRateMin, conversionRateMax))
	s.AwayGoals = scaled(s.AwayShotsOnTarget, floatBetween(r, conversionRateMin, conversionRateMax))

	s.HomeFouls = intBetween(r, foulsMin, foulsMax)
	s.AwayFouls = intBetween(r, foulsMin, foulsMax)

	s.HomeYellowCards = min(maxYellowCards, scaled(s.HomeFouls, floatBetween(r, yellowPerFoulMin, yellowPerFoulMax)))
	s.AwayYellowCards = min(maxYellowCards, scaled(s.AwayFouls, floatBetween(r, yellowPerFoulMin, yellowPerFoulMax)))

	s.HomeRedCards = redCards(r)
	s.AwayRedCards = redCards(r)
	return s
}

func shots(r Rand, possession int) int {
	base := intBetween(r, baseShotsMin, baseShotsMax)
	return max(minShots, scaled(base, float64(possession)/50.0))
}

func redCards(r Rand) int {
	if chance(r, redCardProbability) {
		return 1
	}
	return 0
}

// scaled multiplies n by f and truncates toward zero.
func scaled(n int, f float64) int {
	return int(float64(n) * f)
}
