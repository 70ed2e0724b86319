package entity

import "threestar/internal/domain/value"

type PredictionMode string

const (
	PredictionUniform  PredictionMode = "uniform"
	PredictionWeighted PredictionMode = "weighted"
)

// Prediction - набор предсказанных наборов вместе с параметрами, которыми
// он получен.
type Prediction struct {
	Mode   PredictionMode
	Window value.Window
	Sets   []value.Digits
}
