// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes; the only behavior here is
// parsing of the closed position and event taxonomies.
package model

import "time"

// Team represents a football club. Ratings are on a 1-100 scale.
type Team struct {
	ID                      int64     `json:"id"`
	Name                    string    `json:"name"`
	ShortName               string    `json:"short_name"`
	HomeCity                string    `json:"home_city"`
	LeagueID                int64     `json:"league_id"`
	Reputation              int       `json:"reputation" validate:"min=1,max=100"`
	StadiumQuality          int       `json:"stadium_quality" validate:"min=1,max=100"`
	TrainingFacilityQuality int       `json:"training_facility_quality" validate:"min=1,max=100"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Skills holds the named attribute ratings of a player, each on a 1-20 scale.
type Skills struct {
	// Technical
	Passing     int `json:"passing" validate:"min=1,max=20"`
	Technique   int `json:"technique" validate:"min=1,max=20"`
	Dribbling   int `json:"dribbling" validate:"min=1,max=20"`
	Crossing    int `json:"crossing" validate:"min=1,max=20"`
	Finishing   int `json:"finishing" validate:"min=1,max=20"`
	LongShots   int `json:"long_shots" validate:"min=1,max=20"`
	BallControl int `json:"ball_control" validate:"min=1,max=20"`

	// Physical
	Acceleration int `json:"acceleration" validate:"min=1,max=20"`
	Speed        int `json:"speed" validate:"min=1,max=20"`
	Strength     int `json:"strength" validate:"min=1,max=20"`
	Jumping      int `json:"jumping" validate:"min=1,max=20"`
	Stamina      int `json:"stamina" validate:"min=1,max=20"`
	Agility      int `json:"agility" validate:"min=1,max=20"`

	// Mental
	WorkRate      int `json:"work_rate" validate:"min=1,max=20"`
	Vision        int `json:"vision" validate:"min=1,max=20"`
	Leadership    int `json:"leadership" validate:"min=1,max=20"`
	Determination int `json:"determination" validate:"min=1,max=20"`
	Decisions     int `json:"decisions" validate:"min=1,max=20"`
	Teamwork      int `json:"teamwork" validate:"min=1,max=20"`

	// Goalkeeping
	Reflexes               int `json:"reflexes" validate:"min=1,max=20"`
	Handling               int `json:"handling" validate:"min=1,max=20"`
	GoalkeepingPositioning int `json:"goalkeeping_positioning" validate:"min=1,max=20"`
	AerialAbility          int `json:"aerial_ability" validate:"min=1,max=20"`

	// Defensive
	Tackling      int `json:"tackling" validate:"min=1,max=20"`
	Marking       int `json:"marking" validate:"min=1,max=20"`
	Positioning   int `json:"positioning" validate:"min=1,max=20"`
	Interceptions int `json:"interceptions" validate:"min=1,max=20"`
}

// Player represents a footballer belonging to a team.
type Player struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Position  Position  `json:"position"`
	Skills    Skills    `json:"skills"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchStats is the aggregate result of a played match, per side.
type MatchStats struct {
	HomeGoals         int `json:"home_goals"`
	AwayGoals         int `json:"away_goals"`
	HomeShots         int `json:"home_shots"`
	AwayShots         int `json:"away_shots"`
	HomeShotsOnTarget int `json:"home_shots_on_target"`
	AwayShotsOnTarget int `json:"away_shots_on_target"`
	HomePossession    int `json:"home_possession"`
	AwayPossession    int `json:"away_possession"`
	HomeFouls         int `json:"home_fouls"`
	AwayFouls         int `json:"away_fouls"`
	HomeYellowCards   int `json:"home_yellow_cards"`
	AwayYellowCards   int `json:"away_yellow_cards"`
	HomeRedCards      int `json:"home_red_cards"`
	AwayRedCards      int `json:"away_red_cards"`
}

// Match represents a scheduled or played fixture.
// Stats is only meaningful once IsPlayed is true.
type Match struct {
	ID         int64      `json:"id"`
	HomeTeamID int64      `json:"home_team_id"`
	AwayTeamID int64      `json:"away_team_id"`
	LeagueID   int64      `json:"league_id"`
	Season     int        `json:"season"`
	Week       int        `json:"week"`
	MatchDate  time.Time  `json:"match_date"`
	IsPlayed   bool       `json:"is_played"`
	Stats      MatchStats `json:"stats"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MatchEvent is a single timeline occurrence. AssistPlayerID is only set for goals.
type MatchEvent struct {
	ID             int64     `json:"id"`
	MatchID        int64     `json:"match_id"`
	Minute         int       `json:"minute"`
	Type           EventType `json:"event_type"`
	PlayerID       int64     `json:"player_id"`
	AssistPlayerID *int64    `json:"assist_player_id,omitempty"`
	TeamID         int64     `json:"team_id"`
	Description    string    `json:"description"`
}

// PlayerMatchStats is the box score of one player in one match.
type PlayerMatchStats struct {
	PlayerID      int64    `json:"player_id"`
	MatchID       int64    `json:"match_id"`
	TeamID        int64    `json:"team_id"`
	MinutesPlayed int      `json:"minutes_played"`
	Goals         int      `json:"goals"`
	Assists       int      `json:"assists"`
	Shots         int      `json:"shots"`
	ShotsOnTarget int      `json:"shots_on_target"`
	Passes        int      `json:"passes"`
	PassAccuracy  int      `json:"pass_accuracy"`
	Tackles       int      `json:"tackles"`
	Interceptions int      `json:"interceptions"`
	Fouls         int      `json:"fouls"`
	YellowCards   int      `json:"yellow_cards"`
	RedCard       bool     `json:"red_card"`
	Rating        float64  `json:"rating"`
	IsStarting    bool     `json:"is_starting"`
	Position      Position `json:"position"`
}

// SimulationResult bundles everything a simulation produces.
// The three parts are only mutually consistent as a set and must be persisted together.
type SimulationResult struct {
	Match       Match              `json:"match"`
	Events      []MatchEvent       `json:"events"`
	PlayerStats []PlayerMatchStats `json:"player_stats"`
}

// PlayerAggregatedStats holds totals across all played matches of a player.
// This model is designed for read-only query results and is not persisted directly.
type PlayerAggregatedStats struct {
	Appearances   int     `json:"appearances"`
	MinutesPlayed int     `json:"minutes_played"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	YellowCards   int     `json:"yellow_cards"`
	RedCards      int     `json:"red_cards"`
	AvgRating     float64 `json:"avg_rating"`
}

// TeamAggregatedStats provides a league-table style summary of a team's played matches.
type TeamAggregatedStats struct {
	Played       int `json:"played"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	Points       int `json:"points"`
}

// Points awarded per result in the league table.
const (
	PointsForWin  = 3
	PointsForDraw = 1
)

// LeaguePoints converts a win/draw record into table points.
func LeaguePoints(wins, draws int) int {
	return wins*PointsForWin + draws*PointsForDraw
}

// UniformSkills returns Skills with every attribute set to v.
func UniformSkills(v int) Skills {
	return Skills{
		Passing: v, Technique: v, Dribbling: v, Crossing: v, Finishing: v, LongShots: v, BallControl: v,
		Acceleration: v, Speed: v, Strength: v, Jumping: v, Stamina: v, Agility: v,
		WorkRate: v, Vision: v, Leadership: v, Determination: v, Decisions: v, Teamwork: v,
		Reflexes: v, Handling: v, GoalkeepingPositioning: v, AerialAbility: v,
		Tackling: v, Marking: v, Positioning: v, Interceptions: v,
	}
}
