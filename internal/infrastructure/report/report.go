package report

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
	"threestar/pkg/logx"
)

const (
	Dir     = "report"
	CSVName = "predicted_sets.csv"

	htmlNameLayout = "20060102_150405"

	htmlTemplate = `<html><head><meta charset='utf-8'><title>預測報表</title></head><body>
<h1>預測結果（區間：{{ .Window }}）</h1>
<ol>
{{- range $i, $set := .Sets }}
<li>第 {{ inc $i }} 組：{{ index $set 0 }}、{{ index $set 1 }}、{{ index $set 2 }}</li>
{{- end }}
</ol>
</body></html>
`
)

//nolint:gochecknoglobals
var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	csvHeader = []string{"Number1", "Number2", "Number3"}

	htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{"inc": inc}).Parse(htmlTemplate))
)

func inc(i int) int { return i + 1 }

// Writer сохраняет предсказания в <base>/report.
type Writer struct {
	dir string
	now func() time.Time
}

func NewWriter(baseDir string) *Writer {
	return &Writer{
		dir: filepath.Join(baseDir, Dir),
		now: time.Now,
	}
}

func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

func (w *Writer) Dir() string {
	return w.dir
}

// WriteCSV перезаписывает predicted_sets.csv и возвращает путь к нему.
func (w *Writer) WriteCSV(ctx context.Context, sets []value.Digits) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil { //nolint:gosec,mnd
		return "", fmt.Errorf("os.MkdirAll: %w", err)
	}

	path := filepath.Join(w.dir, CSVName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("os.Create: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err = bw.Write(utf8BOM); err != nil {
		return "", fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(bw)
	if err = cw.Write(csvHeader); err != nil {
		return "", fmt.Errorf("csv.Write: %w", err)
	}

	for _, set := range sets {
		if err = cw.Write([]string{
			strconv.Itoa(set[0]),
			strconv.Itoa(set[1]),
			strconv.Itoa(set[2]),
		}); err != nil {
			return "", fmt.Errorf("csv.Write: %w", err)
		}
	}

	cw.Flush()
	if err = cw.Error(); err != nil {
		return "", fmt.Errorf("csv.Flush: %w", err)
	}

	if err = bw.Flush(); err != nil {
		return "", fmt.Errorf("bufio.Flush: %w", err)
	}

	if err = f.Close(); err != nil {
		return "", fmt.Errorf("f.Close: %w", err)
	}

	logger(ctx).Info("prediction csv written", slog.String(logx.FieldPath, path))

	return path, nil
}

// WriteHTML пишет отчёт с именем по текущему времени, например 20240102_150405.html.
func (w *Writer) WriteHTML(ctx context.Context, prediction entity.Prediction) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil { //nolint:gosec,mnd
		return "", fmt.Errorf("os.MkdirAll: %w", err)
	}

	path := filepath.Join(w.dir, w.now().Format(htmlNameLayout)+".html")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("os.Create: %w", err)
	}
	defer f.Close()

	window := prediction.Window.Key()
	if prediction.Mode != entity.PredictionWeighted {
		window = string(prediction.Mode)
	}

	err = htmlReport.Execute(f, struct {
		Window string
		Sets   []value.Digits
	}{
		Window: window,
		Sets:   prediction.Sets,
	})
	if err != nil {
		return "", fmt.Errorf("htmlReport.Execute: %w", err)
	}

	if err = f.Close(); err != nil {
		return "", fmt.Errorf("f.Close: %w", err)
	}

	logger(ctx).Info("prediction report written", slog.String(logx.FieldPath, path))

	return path, nil
}
