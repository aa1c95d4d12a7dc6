// Package generators produces random crowdsale configurations and command sequences. Every generator is a pure
// function of the random source it is given, so the same seed always yields the same values.
package generators

import (
	"github.com/qiibee/crowdsim/utils/randomutils"
	"pgregory.net/rand"
)

// Generator produces a value of type T from a random source.
type Generator[T any] func(rnd *rand.Rand) T

// Nat generates integers in [0, max].
func Nat(max uint64) Generator[uint64] {
	return NatRange(0, max)
}

// NatRange generates integers in [min, max]. It panics if min > max.
func NatRange(min uint64, max uint64) Generator[uint64] {
	if min > max {
		panic("generators: NatRange called with min > max")
	}
	return func(rnd *rand.Rand) uint64 {
		span := max - min
		if span == ^uint64(0) {
			return rnd.Uint64()
		}
		return min + rnd.Uint64n(span+1)
	}
}

// Bool returns true or false with equal probability.
func Bool() Generator[bool] {
	return func(rnd *rand.Rand) bool {
		return rnd.Uint64n(2) == 1
	}
}

// Constant always returns the value.
func Constant[T any](value T) Generator[T] {
	return func(*rand.Rand) T {
		return value
	}
}

// OneOf picks one of the generators uniformly and returns its value.
func OneOf[T any](generators ...Generator[T]) Generator[T] {
	if len(generators) == 0 {
		panic("generators: OneOf called without generators")
	}
	return func(rnd *rand.Rand) T {
		return generators[rnd.Intn(len(generators))](rnd)
	}
}

// Map transforms the values of a generator.
func Map[T any, U any](generator Generator[T], f func(T) U) Generator[U] {
	return func(rnd *rand.Rand) U {
		return f(generator(rnd))
	}
}

// WeightedGenerator pairs a generator with the likelihood of it being picked by Weighted.
type WeightedGenerator[T any] struct {
	Weight    uint64
	Generator Generator[T]
}

// Weighted picks one of the generators with a probability proportional to its weight. It panics if no generator has
// a non-zero weight.
func Weighted[T any](choices ...WeightedGenerator[T]) Generator[T] {
	chooser := randomutils.NewWeightedRandomChooser[Generator[T]]()
	var totalWeight uint64
	for _, choice := range choices {
		chooser.AddChoices(randomutils.NewWeightedRandomChoice(choice.Generator, choice.Weight))
		totalWeight += choice.Weight
	}
	if totalWeight == 0 {
		panic("generators: Weighted called without a non-zero weight")
	}

	return func(rnd *rand.Rand) T {
		generator, err := chooser.Choose(rnd)
		if err != nil {
			panic(err)
		}
		return (*generator)(rnd)
	}
}
