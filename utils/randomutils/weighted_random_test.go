package randomutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rand"
)

// TestWeightedRandomChooserDistribution ensures zero-weight choices are never selected and heavier choices are
// selected more often.
func TestWeightedRandomChooserDistribution(t *testing.T) {
	chooser := NewWeightedRandomChooser[string]()
	chooser.AddChoices(
		NewWeightedRandomChoice("never", 0),
		NewWeightedRandomChoice("rare", 1),
		NewWeightedRandomChoice("common", 9),
	)
	assert.EqualValues(t, 3, chooser.ChoiceCount())

	counts := make(map[string]int)
	rnd := rand.New(1)
	for i := 0; i < 10000; i++ {
		choice, err := chooser.Choose(rnd)
		require.NoError(t, err)
		counts[*choice]++
	}

	assert.Zero(t, counts["never"])
	assert.Greater(t, counts["common"], counts["rare"]*4)
}

// TestWeightedRandomChooserDeterministic ensures equal seeds select equal choices.
func TestWeightedRandomChooserDeterministic(t *testing.T) {
	chooser := NewWeightedRandomChooser[int]()
	for i := 0; i < 10; i++ {
		chooser.AddChoices(NewWeightedRandomChoice(i, uint64(i+1)))
	}

	rndA, rndB := rand.New(42), rand.New(42)
	for i := 0; i < 100; i++ {
		a, err := chooser.Choose(rndA)
		require.NoError(t, err)
		b, err := chooser.Choose(rndB)
		require.NoError(t, err)
		assert.EqualValues(t, *a, *b)
	}
}

func TestWeightedRandomChooserEmpty(t *testing.T) {
	_, err := NewWeightedRandomChooser[int]().Choose(rand.New(0))
	assert.Error(t, err)
}
