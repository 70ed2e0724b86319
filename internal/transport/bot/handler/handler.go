package handler

import (
	"context"

	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
)

type lottoPredictor interface {
	Predict(ctx context.Context, mode entity.PredictionMode, w value.Window, n int) (entity.Prediction, error)
	PickAllN(ctx context.Context, n int) ([]value.Digits, error)
}

type historyService interface {
	Update(ctx context.Context) (entity.UpdateResult, error)
	Records(ctx context.Context) ([]entity.Draw, error)
}

type Handler struct {
	predictor lottoPredictor
	history   historyService
}

func New(predictor lottoPredictor, history historyService) *Handler {
	return &Handler{
		predictor: predictor,
		history:   history,
	}
}
