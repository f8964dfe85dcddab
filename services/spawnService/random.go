package spawnService

import (
	"errors"
	"math/rand/v2"

	"ballsDexBot/models"
)

var ErrNothingToSpawn = errors.New("no ball to spawn")

// pickWeighted maps roll, a value in [0, 1), onto weights. It returns -1 when
// no weight is positive.
func pickWeighted(weights []float64, roll float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	target := roll * total
	last := -1
	for idx, w := range weights {
		if w <= 0 {
			continue
		}
		last = idx
		if target < w {
			return idx
		}
		target -= w
	}
	return last
}

// PickBall chooses an enabled ball, weighted by rarity.
func PickBall(balls []models.Ball, rng *rand.Rand) (models.Ball, error) {
	weights := make([]float64, len(balls))
	for idx, ball := range balls {
		if ball.Enabled {
			weights[idx] = ball.Rarity
		}
	}
	idx := pickWeighted(weights, rng.Float64())
	if idx < 0 {
		return models.Ball{}, ErrNothingToSpawn
	}
	return balls[idx], nil
}

// PickSpecial rolls among the active specials. Each is weighted by its rarity
// and no special at all by the sum of (1 - rarity). A nil result is a common catch.
func PickSpecial(active []models.Special, rng *rand.Rand) *models.Special {
	if len(active) == 0 {
		return nil
	}
	weights := make([]float64, 0, len(active)+1)
	common := 0.0
	for _, special := range active {
		weights = append(weights, special.Rarity)
		common += 1 - special.Rarity
	}
	weights = append(weights, common)

	idx := pickWeighted(weights, rng.Float64())
	if idx < 0 || idx == len(active) {
		return nil
	}
	special := active[idx]
	return &special
}

// RollBonus returns a stat bonus percentage in [-100, maxBonus].
func RollBonus(maxBonus int, rng *rand.Rand) int {
	if maxBonus < -100 {
		maxBonus = -100
	}
	return rng.IntN(maxBonus+101) - 100
}
