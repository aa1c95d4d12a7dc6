package randomutils

import (
	"github.com/pkg/errors"
	"pgregory.net/rand"
)

// WeightedRandomChoice describes a weighted, randomly selectable object for use with a WeightedRandomChooser.
type WeightedRandomChoice[T any] struct {
	// Data describes the wrapped data that a WeightedRandomChooser should return when making a random
	// WeightedRandomChoice selection.
	Data T

	// weight describes a value indicating the likelihood of this WeightedRandomChoice to appear in a random selection.
	// Its probability is calculated as current weight / all weights in a WeightedRandomChooser.
	weight uint64
}

// NewWeightedRandomChoice creates a WeightedRandomChoice with the given underlying data and weight to use when added
// to a WeightedRandomChooser.
func NewWeightedRandomChoice[T any](data T, weight uint64) *WeightedRandomChoice[T] {
	return &WeightedRandomChoice[T]{
		Data:   data,
		weight: weight,
	}
}

// WeightedRandomChooser takes a series of WeightedRandomChoice objects which wrap underlying data, and returns one
// of the weighted options randomly. The chooser holds no random source of its own: callers pass one to Choose, so
// a selection is fully determined by the caller's seed.
type WeightedRandomChooser[T any] struct {
	// choices describes the weighted choices from which the chooser will randomly select.
	choices []*WeightedRandomChoice[T]

	// totalWeight describes the sum of all weights in choices.
	totalWeight uint64
}

// NewWeightedRandomChooser creates an empty WeightedRandomChooser.
func NewWeightedRandomChooser[T any]() *WeightedRandomChooser[T] {
	return &WeightedRandomChooser[T]{
		choices: make([]*WeightedRandomChoice[T], 0),
	}
}

// ChoiceCount returns the count of choices added to this provider.
func (c *WeightedRandomChooser[T]) ChoiceCount() int {
	return len(c.choices)
}

// AddChoices adds weighted choices to the WeightedRandomChooser, allowing for future random selection.
func (c *WeightedRandomChooser[T]) AddChoices(choices ...*WeightedRandomChoice[T]) {
	for _, choice := range choices {
		c.totalWeight += choice.weight
	}
	c.choices = append(c.choices, choices...)
}

// Choose selects a random weighted item from the WeightedRandomChooser using the provided random source.
func (c *WeightedRandomChooser[T]) Choose(rnd *rand.Rand) (*T, error) {
	if len(c.choices) == 0 || c.totalWeight == 0 {
		return nil, errors.New("could not return a weighted random choice because no choices exist with non-zero weights")
	}

	// Select a position in the total weight and walk the choices until it falls within one of them.
	selectedWeightPosition := rnd.Uint64n(c.totalWeight)
	for _, choice := range c.choices {
		if selectedWeightPosition < choice.weight {
			return &choice.Data, nil
		}
		selectedWeightPosition -= choice.weight
	}

	return nil, errors.New("could not obtain a weighted random choice, selected position does not exist")
}
