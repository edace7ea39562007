package model

import "strings"

// Position is the closed set of roles a player can be listed in.
// Anything the engine does not recognize is carried as PositionOther.
type Position string

const (
	PositionGK    Position = "GK"
	PositionDEF   Position = "DEF"
	PositionMID   Position = "MID"
	PositionFWD   Position = "FWD"
	PositionOther Position = "OTHER"
)

// ParsePosition normalizes a raw position label. Unknown labels map to PositionOther.
func ParsePosition(raw string) Position {
	switch p := Position(strings.ToUpper(strings.TrimSpace(raw))); p {
	case PositionGK, PositionDEF, PositionMID, PositionFWD:
		return p
	default:
		return PositionOther
	}
}

// Known reports whether p is one of the four on-pitch roles.
func (p Position) Known() bool {
	switch p {
	case PositionGK, PositionDEF, PositionMID, PositionFWD:
		return true
	}
	return false
}

func (p Position) String() string { return string(p) }

// EventType categorizes a MatchEvent.
type EventType string

const (
	EventGoal         EventType = "GOAL"
	EventYellowCard   EventType = "YELLOW_CARD"
	EventRedCard      EventType = "RED_CARD"
	EventInjury       EventType = "INJURY"
	EventSubstitution EventType = "SUBSTITUTION"
)

// ParseEventType returns the event type for raw and whether it is part of the taxonomy.
func ParseEventType(raw string) (EventType, bool) {
	switch t := EventType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case EventGoal, EventYellowCard, EventRedCard, EventInjury, EventSubstitution:
		return t, true
	}
	return "", false
}

func (t EventType) String() string { return string(t) }
