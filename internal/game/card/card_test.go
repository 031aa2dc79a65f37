package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cyclicCounts returns the expected composition of a deck of n cards
func cyclicCounts(n int) map[Value]int {
	counts := map[Value]int{}
	for i := 0; i < n; i++ {
		counts[cycle[i%3]]++
	}
	return counts
}

func TestGenerateDeck_Composition(t *testing.T) {
	t.Parallel()

	for _, handSize := range []int{0, 1, 2, 4, 5, 7, 15, 16} {
		deck := GenerateDeck(handSize)
		assert.Len(t, deck, 2*handSize, "hand size %d", handSize)

		counts := Counts(deck)
		expected := cyclicCounts(2 * handSize)
		for _, v := range cycle {
			assert.Equal(t, expected[v], counts[v], "hand size %d value %s", handSize, v)
		}
	}
}

func TestGenerateDeck_DefaultHandSize(t *testing.T) {
	t.Parallel()

	deck := GenerateDeck(DefaultHandSize)
	require.Len(t, deck, 30)

	counts := Counts(deck)
	assert.Equal(t, 10, counts[Rock])
	assert.Equal(t, 10, counts[Paper])
	assert.Equal(t, 10, counts[Scissors])
}

func TestNewDeck_NonMultipleOfThree(t *testing.T) {
	t.Parallel()

	// 8 slots: rock, paper, scissors, rock, paper, scissors, rock, paper
	deck := NewDeck(4)
	counts := Counts(deck)
	assert.Equal(t, 3, counts[Rock])
	assert.Equal(t, 3, counts[Paper])
	assert.Equal(t, 2, counts[Scissors])
}

func TestNewDeck_NegativeHandSize(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NewDeck(-3))
}

func TestDeck_Split(t *testing.T) {
	t.Parallel()

	deck := GenerateDeck(DefaultHandSize)
	first, second := deck.Split(DefaultHandSize)

	assert.Len(t, first, DefaultHandSize)
	assert.Len(t, second, DefaultHandSize)
	assert.Equal(t, []Value(deck[:DefaultHandSize]), first)
	assert.Equal(t, []Value(deck[DefaultHandSize:]), second)

	// Union of both hands equals the deck as a multiset
	union := append(append([]Value{}, first...), second...)
	assert.Equal(t, Counts(deck), Counts(union))

	// Hands are copies, not views into the deck
	before := append(Deck(nil), deck...)
	first[0] = (first[0] + 1) % 3
	second[0] = (second[0] + 1) % 3
	assert.Equal(t, before, deck)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Value
		wantErr bool
	}{
		{"rock", Rock, false},
		{"Paper", Paper, false},
		{" SCISSORS ", Scissors, false},
		{"lizard", -1, true},
		{"", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]Value{Rock, Paper, Scissors})
	require.NoError(t, err)
	assert.JSONEq(t, `["rock","paper","scissors"]`, string(data))

	var got []Value
	require.NoError(t, json.Unmarshal([]byte(`["scissors","rock"]`), &got))
	assert.Equal(t, []Value{Scissors, Rock}, got)

	assert.Error(t, json.Unmarshal([]byte(`["spock"]`), &got))

	_, err = json.Marshal(Value(9))
	assert.Error(t, err)
}
