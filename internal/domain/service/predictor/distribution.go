package predictor

import (
	"slices"

	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
)

const (
	hotSize  = 3
	coldSize = 3
)

// Ratio - доли корзин hot/mid/cold в распределении одной позиции.
type Ratio struct {
	Hot, Mid, Cold float64
}

//nolint:gochecknoglobals
var (
	// Первые две позиции тянутся к частым цифрам, третья - к редким.
	ratioLeading  = Ratio{Hot: 0.45, Mid: 0.35, Cold: 0.20}
	ratioTrailing = Ratio{Hot: 0.20, Mid: 0.35, Cold: 0.45}

	PositionRatios = [3]Ratio{ratioLeading, ratioLeading, ratioTrailing}
)

// Distribution - вероятности цифр 0..9 для одной позиции.
type Distribution [value.DigitCount]float64

// Frequencies считает, сколько раз каждая цифра встречается во всех
// позициях записей окна.
func Frequencies(draws []entity.Draw, w value.Window) [value.DigitCount]int {
	var freq [value.DigitCount]int

	from, to := w.Bounds(len(draws))
	for _, d := range draws[from:to] {
		for _, n := range d.Digits {
			if value.IsDigit(n) {
				freq[n]++
			}
		}
	}

	return freq
}

// Buckets ранжирует цифры по убыванию частоты (при равенстве - по
// возрастанию цифры): три первых - hot, три последних - cold, остальные - mid.
func Buckets(freq [value.DigitCount]int) (hot, mid, cold []int) {
	order := make([]int, value.DigitCount)
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return freq[b] - freq[a]
	})

	return order[:hotSize], order[hotSize : len(order)-coldSize], order[len(order)-coldSize:]
}

// bucketWeights - доля частоты каждой цифры внутри корзины; если у всей
// корзины частота нулевая, доли равные.
func bucketWeights(freq [value.DigitCount]int, bucket []int) map[int]float64 {
	weights := make(map[int]float64, len(bucket))

	var total int
	for _, n := range bucket {
		total += freq[n]
	}

	for _, n := range bucket {
		if total == 0 {
			weights[n] = 1 / float64(len(bucket))
			continue
		}
		weights[n] = float64(freq[n]) / float64(total)
	}

	return weights
}

// Mix смешивает корзины в распределение по ratio и нормирует его.
// Неположительная сумма даёт равномерное распределение.
func Mix(freq [value.DigitCount]int, ratio Ratio) Distribution {
	hot, mid, cold := Buckets(freq)

	var dist Distribution

	for n, w := range bucketWeights(freq, hot) {
		dist[n] += ratio.Hot * w
	}
	for n, w := range bucketWeights(freq, mid) {
		dist[n] += ratio.Mid * w
	}
	for n, w := range bucketWeights(freq, cold) {
		dist[n] += ratio.Cold * w
	}

	return dist.normalized()
}

// Distributions строит распределения трёх позиций по окну истории.
func Distributions(draws []entity.Draw, w value.Window) [3]Distribution {
	freq := Frequencies(draws, w)

	var dists [3]Distribution
	for pos, ratio := range PositionRatios {
		dists[pos] = Mix(freq, ratio)
	}

	return dists
}

func (d Distribution) normalized() Distribution {
	var sum float64
	for _, p := range d {
		if p > 0 {
			sum += p
		}
	}

	var out Distribution
	for n, p := range d {
		switch {
		case sum <= 0:
			out[n] = 1 / float64(value.DigitCount)
		case p > 0:
			out[n] = p / sum
		}
	}

	return out
}

// sample выбирает цифру по распределению.
func (d Distribution) sample(rng RandomSource) int {
	r := rng.Float64()

	last := 0
	for n, p := range d {
		if p <= 0 {
			continue
		}
		if r < p {
			return n
		}
		r -= p
		last = n
	}

	// Округление могло оставить r чуть больше нуля.
	return last
}
