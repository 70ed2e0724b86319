package handler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"threestar/internal/domain"
	"threestar/internal/domain/entity"
	"threestar/internal/domain/service/predictor"
	"threestar/internal/domain/value"
	"threestar/internal/transport/bot/view"
	"threestar/pkg/logx"
)

const (
	maxSets           = 20
	defaultHistoryLen = 10
	maxHistoryLen     = 50
)

// PredictArgs - разобранные аргументы /predict и callback-кнопки.
type PredictArgs struct {
	Mode   entity.PredictionMode
	Window value.Window
	Count  int
}

// ParsePredictArgs принимает аргументы в любом порядке: режим, окно, число.
// Окно без явного режима включает weighted.
func ParsePredictArgs(args []string) (PredictArgs, error) {
	parsed := PredictArgs{
		Mode:   entity.PredictionUniform,
		Window: value.WindowAll,
		Count:  predictor.DefaultSets,
	}

	var modeSet, windowSet bool

	for _, arg := range args {
		switch {
		case arg == string(entity.PredictionUniform) || arg == string(entity.PredictionWeighted):
			parsed.Mode = entity.PredictionMode(arg)
			modeSet = true
		case isNumber(arg):
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 || n > maxSets {
				return PredictArgs{}, fmt.Errorf("count %q out of range", arg)
			}
			parsed.Count = n
		default:
			w, ok := value.LookupWindow(arg)
			if !ok {
				return PredictArgs{}, fmt.Errorf("unknown argument %q", arg)
			}
			parsed.Window = w
			windowSet = true
		}
	}

	if windowSet && !modeSet {
		parsed.Mode = entity.PredictionWeighted
	}

	return parsed, nil
}

func (a PredictArgs) String() string {
	return fmt.Sprintf("%s %s %d", a.Mode, a.Window.Key(), a.Count)
}

func (h *Handler) PredictText(ctx context.Context, args PredictArgs) string {
	prediction, err := h.predictor.Predict(ctx, args.Mode, args.Window, args.Count)
	if err != nil {
		logger(ctx).Error("predictor.Predict", logx.Error(err))
		return fmt.Sprintf(view.PredictFailed, html.EscapeString(err.Error()))
	}

	var sb strings.Builder

	if prediction.Mode == entity.PredictionWeighted {
		fmt.Fprintf(&sb, view.PredictTitleWeighted, prediction.Window.Key())
	} else {
		sb.WriteString(view.PredictTitleUniform)
	}

	writeSets(&sb, prediction.Sets)

	return sb.String()
}

func (h *Handler) PickAllText(ctx context.Context) string {
	sets, err := h.predictor.PickAllN(ctx, predictor.PickAllSets)
	if err != nil {
		logger(ctx).Error("predictor.PickAllN", logx.Error(err))
		return fmt.Sprintf(view.PredictFailed, html.EscapeString(err.Error()))
	}

	var sb strings.Builder

	sb.WriteString(view.PickAllTitle)
	writeSets(&sb, sets)

	return sb.String()
}

func (h *Handler) HistoryText(ctx context.Context, args []string) string {
	n := defaultHistoryLen
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
			n = min(v, maxHistoryLen)
		}
	}

	draws, err := h.history.Records(ctx)
	if err != nil {
		logger(ctx).Error("history.Records", logx.Error(err))
		return fmt.Sprintf(view.HistoryFailed, html.EscapeString(err.Error()))
	}

	if len(draws) == 0 {
		return view.HistoryEmpty
	}

	n = min(n, len(draws))

	var sb strings.Builder

	fmt.Fprintf(&sb, view.HistoryTitle, n, len(draws))

	for _, d := range draws[len(draws)-n:] {
		fmt.Fprintf(&sb, view.HistoryItemTemplate, d.Digits[0], d.Digits[1], d.Digits[2], html.EscapeString(strings.TrimSpace(d.Date+" "+d.Issue)))
	}

	return sb.String()
}

func (h *Handler) UpdateText(ctx context.Context) string {
	result, err := h.history.Update(ctx)
	switch {
	case errors.Is(err, domain.ErrNoData):
		return view.UpdateNoData
	case err != nil:
		return fmt.Sprintf(view.UpdateFailed, html.EscapeString(err.Error()))
	}

	return fmt.Sprintf(view.UpdateSuccess, result.Added, result.Total)
}

func writeSets(sb *strings.Builder, sets []value.Digits) {
	for i, s := range sets {
		fmt.Fprintf(sb, view.SetItemTemplate, i+1, s[0], s[1], s[2])
	}
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
