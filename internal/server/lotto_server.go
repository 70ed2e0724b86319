package server

import (
	"context"
	"fmt"
	"net/http"

	"threestar/internal/domain/entity"
	"threestar/internal/domain/service/predictor"
	"threestar/internal/domain/value"
	"threestar/pkg/httpx/reply"
	"threestar/pkg/httpx/req"
	"threestar/pkg/rest"
)

const (
	WelcomeMessage = "🎯 Welcome to 3-Star Lotto API Server"
	UpdatedMessage = "Data updated"
)

type lottoPredictor interface {
	Predict(ctx context.Context, mode entity.PredictionMode, w value.Window, n int) (entity.Prediction, error)
	PickAllN(ctx context.Context, n int) ([]value.Digits, error)
}

type historyUpdater interface {
	Update(ctx context.Context) (entity.UpdateResult, error)
}

type LottoServer struct {
	predictor lottoPredictor
	history   historyUpdater
}

func NewLottoServer(predictor lottoPredictor, history historyUpdater) LottoServer {
	return LottoServer{
		predictor: predictor,
		history:   history,
	}
}

func (s LottoServer) getRoot(w http.ResponseWriter, r *http.Request) error {
	reply.Text(r.Context(), w, http.StatusOK, WelcomeMessage)

	return nil
}

// getAPIPredict - по умолчанию пять равномерных наборов.
// ?mode=weighted&window=近50期&count=3 включает взвешенный режим.
func (s LottoServer) getAPIPredict(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var query rest.PredictQuery

	if err := req.ReadQuery(r, &query); err != nil {
		return fmt.Errorf("req.ReadQuery: %w", err)
	}

	prediction, err := s.predictor.Predict(
		ctx,
		entity.PredictionMode(query.Mode),
		value.ParseWindow(query.Window),
		query.Count,
	)
	if err != nil {
		return fmt.Errorf("predictor.Predict: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.PredictResponse{
		Predictions: newRESTPredictionSets(prediction.Sets),
	})

	return nil
}

func (s LottoServer) getAPIPickAll(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	sets, err := s.predictor.PickAllN(ctx, predictor.PickAllSets)
	if err != nil {
		return fmt.Errorf("predictor.PickAllN: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.PickAllResponse{
		ComputerPicks: newRESTPredictionSets(sets),
	})

	return nil
}

func (s LottoServer) postAPIUpdate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	result, err := s.history.Update(ctx)
	if err != nil {
		return fmt.Errorf("history.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.UpdateResponse{
		Message:      UpdatedMessage,
		UpdatedCount: result.Added,
	})

	return nil
}
