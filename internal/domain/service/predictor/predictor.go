package predictor

import (
	"context"
	"fmt"
	"log/slog"

	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
	"threestar/pkg/logx"
)

const (
	DefaultSets = 5
	PickAllSets = 10
)

type HistoryReader interface {
	Records(ctx context.Context) ([]entity.Draw, error)
}

// Predictor не хранит состояния между вызовами: результат зависит только
// от аргументов, истории и источника случайности.
type Predictor struct {
	history HistoryReader
	rng     RandomSource
}

func NewPredictor(history HistoryReader, rng RandomSource) *Predictor {
	if rng == nil {
		rng = NewSource()
	}

	return &Predictor{
		history: history,
		rng:     rng,
	}
}

// Uniform - n наборов из трёх независимых равномерных цифр.
func (p *Predictor) Uniform(n int) []value.Digits {
	sets := make([]value.Digits, n)

	for i := range sets {
		for pos := range sets[i] {
			sets[i][pos] = value.MinDigit + p.rng.IntN(value.DigitCount)
		}
	}

	predictionsTotal.WithLabelValues(string(entity.PredictionUniform)).Add(float64(n))

	return sets
}

// Weighted - n наборов по распределениям hot/mid/cold, посчитанным на окне w.
func (p *Predictor) Weighted(draws []entity.Draw, w value.Window, n int) []value.Digits {
	dists := Distributions(draws, w)
	sets := make([]value.Digits, n)

	for i := range sets {
		for pos, dist := range dists {
			sets[i][pos] = dist.sample(p.rng)
		}
	}

	predictionsTotal.WithLabelValues(string(entity.PredictionWeighted)).Add(float64(n))

	return sets
}

// Predict строит n наборов в заданном режиме. Для weighted читается история.
func (p *Predictor) Predict(
	ctx context.Context,
	mode entity.PredictionMode,
	w value.Window,
	n int,
) (entity.Prediction, error) {
	if n <= 0 {
		n = DefaultSets
	}

	switch mode {
	case entity.PredictionUniform, "":
		return entity.Prediction{
			Mode:   entity.PredictionUniform,
			Window: w,
			Sets:   p.Uniform(n),
		}, nil
	case entity.PredictionWeighted:
		draws, err := p.history.Records(ctx)
		if err != nil {
			return entity.Prediction{}, fmt.Errorf("history.Records: %w", err)
		}

		logger(ctx).Debug("weighted prediction",
			slog.String(logx.FieldWindow, w.Key()),
			slog.Int(logx.FieldRows, len(draws)),
		)

		return entity.Prediction{
			Mode:   entity.PredictionWeighted,
			Window: w,
			Sets:   p.Weighted(draws, w, n),
		}, nil
	default:
		return entity.Prediction{}, fmt.Errorf("unknown prediction mode %q", mode)
	}
}

// PickAll - один набор по всей истории в режиме weighted.
func (p *Predictor) PickAll(ctx context.Context) (value.Digits, error) {
	sets, err := p.PickAllN(ctx, 1)
	if err != nil {
		return value.Digits{}, err
	}

	return sets[0], nil
}

// PickAllN - n наборов по всей истории в режиме weighted.
func (p *Predictor) PickAllN(ctx context.Context, n int) ([]value.Digits, error) {
	prediction, err := p.Predict(ctx, entity.PredictionWeighted, value.WindowAll, n)
	if err != nil {
		return nil, err
	}

	return prediction.Sets, nil
}
