package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/football-sim-service/internal/model"
)

func TestParsePosition(t *testing.T) {
	cases := []struct {
		in   string
		want model.Position
	}{
		{"GK", model.PositionGK},
		{" def ", model.PositionDEF},
		{"mid", model.PositionMID},
		{"Fwd", model.PositionFWD},
		{"ST", model.PositionOther},
		{"", model.PositionOther},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, model.ParsePosition(tc.in))
		})
	}
}

func TestPositionKnown(t *testing.T) {
	assert.True(t, model.PositionGK.Known())
	assert.True(t, model.PositionFWD.Known())
	assert.False(t, model.PositionOther.Known())
	assert.False(t, model.Position("WING").Known())
}

func TestParseEventType(t *testing.T) {
	got, ok := model.ParseEventType("yellow_card")
	assert.True(t, ok)
	assert.Equal(t, model.EventYellowCard, got)

	_, ok = model.ParseEventType("OFFSIDE")
	assert.False(t, ok)
}
