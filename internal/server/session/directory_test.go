package session

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectory_CRUD(t *testing.T) {
	t.Parallel()
	d := NewDirectory()

	// Register
	name, ok := d.Register("c1", "  Alice ")
	assert.True(t, ok)
	assert.Equal(t, "Alice", name)
	assert.Equal(t, "Alice", d.Name("c1"))

	// Update
	d.Register("c1", "Alicia")
	assert.Equal(t, "Alicia", d.Name("c1"))
	assert.Equal(t, 1, d.Len())

	// Lookup unknown
	_, ok = d.Lookup("c2")
	assert.False(t, ok)
	assert.Empty(t, d.Name("c2"))

	// Remove
	d.Remove("c1")
	_, ok = d.Lookup("c1")
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestDirectory_RejectsBlankName(t *testing.T) {
	t.Parallel()
	d := NewDirectory()

	_, ok := d.Register("c1", "   ")
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Bob", "Bob"},
		{"trimmed", "\tBob\n", "Bob"},
		{"empty", "", ""},
		{"truncated ascii", strings.Repeat("a", 40), strings.Repeat("a", MaxDisplayNameLength)},
		{"truncated runes", strings.Repeat("猫", 40), strings.Repeat("猫", MaxDisplayNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}
}

func TestDirectory_Concurrent(t *testing.T) {
	t.Parallel()
	d := NewDirectory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			d.Register(id, "player")
			_ = d.Name(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 26, d.Len())
}
