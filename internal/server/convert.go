package server

import (
	"github.com/samber/lo"

	"threestar/internal/domain/value"
	"threestar/pkg/rest"
)

func newRESTPredictionSets(sets []value.Digits) []rest.PredictionSet {
	return lo.Map(sets, func(d value.Digits, _ int) rest.PredictionSet {
		return rest.PredictionSet(d)
	})
}
