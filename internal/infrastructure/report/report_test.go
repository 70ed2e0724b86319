package report_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
	"threestar/internal/infrastructure/report"
)

func TestWriteCSV(t *testing.T) {
	rq := require.New(t)

	base := t.TempDir()
	w := report.NewWriter(base)

	path, err := w.WriteCSV(context.Background(), []value.Digits{{1, 2, 3}, {0, 9, 0}})
	rq.NoError(err)
	rq.Equal(filepath.Join(base, "report", "predicted_sets.csv"), path)

	raw, err := os.ReadFile(path)
	rq.NoError(err)
	rq.Equal("\ufeffNumber1,Number2,Number3\n1,2,3\n0,9,0\n", string(raw))
}

func TestWriteHTML(t *testing.T) {
	tests := []struct {
		name       string
		prediction entity.Prediction
		contains   []string
	}{
		{
			name: "Weighted shows window",
			prediction: entity.Prediction{
				Mode:   entity.PredictionWeighted,
				Window: value.WindowLast10,
				Sets:   []value.Digits{{1, 2, 3}, {4, 5, 6}},
			},
			contains: []string{
				"<h1>預測結果（區間：近10期）</h1>",
				"<li>第 1 組：1、2、3</li>",
				"<li>第 2 組：4、5、6</li>",
			},
		},
		{
			name: "Uniform shows mode",
			prediction: entity.Prediction{
				Mode: entity.PredictionUniform,
				Sets: []value.Digits{{7, 7, 7}},
			},
			contains: []string{
				"<h1>預測結果（區間：uniform）</h1>",
				"<li>第 1 組：7、7、7</li>",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			base := t.TempDir()
			now := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

			w := report.NewWriter(base).WithClock(func() time.Time { return now })

			path, err := w.WriteHTML(context.Background(), tt.prediction)
			rq.NoError(err)
			rq.Equal(filepath.Join(w.Dir(), "20240102_150405.html"), path)

			raw, err := os.ReadFile(path)
			rq.NoError(err)

			for _, s := range tt.contains {
				rq.Contains(string(raw), s)
			}
		})
	}
}
