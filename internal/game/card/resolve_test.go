package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b Value
		want Outcome
	}{
		{Rock, Scissors, FirstWins},
		{Paper, Rock, FirstWins},
		{Scissors, Paper, FirstWins},
		{Scissors, Rock, SecondWins},
		{Rock, Paper, SecondWins},
		{Paper, Scissors, SecondWins},
		{Rock, Rock, Draw},
		{Paper, Paper, Draw},
		{Scissors, Scissors, Draw},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"_vs_"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.a, tt.b))
		})
	}
}

func TestResolve_SwapFlipsLabel(t *testing.T) {
	t.Parallel()

	for _, a := range cycle {
		for _, b := range cycle {
			ab, ba := Resolve(a, b), Resolve(b, a)
			switch ab {
			case Draw:
				assert.Equal(t, Draw, ba)
				assert.Equal(t, a, b)
			case FirstWins:
				assert.Equal(t, SecondWins, ba, "%s vs %s", a, b)
			case SecondWins:
				assert.Equal(t, FirstWins, ba, "%s vs %s", a, b)
			}
		}
	}
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "draw", Draw.String())
	assert.Equal(t, "player1", FirstWins.String())
	assert.Equal(t, "player2", SecondWins.String())
	assert.Equal(t, "unknown", Outcome(7).String())
}
