package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"threestar/internal/domain"
	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
	"threestar/pkg/errcodes"
	"threestar/pkg/logx"
)

const (
	colDate      = "date"
	colIssue     = "issue"
	colD1        = "d1"
	colD2        = "d2"
	colD3        = "d3"
	colSource    = "source"
	colUpdatedAt = "updated_at"
)

// utf8BOM пишется в начало файла, чтобы Excel открывал китайские метки
// источника без кракозябр.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals

//nolint:gochecknoglobals
var (
	header = []string{colDate, colIssue, colD1, colD2, colD3, colSource, colUpdatedAt}

	columnAliases = map[string]string{
		"號碼1": colD1,
		"號碼2": colD2,
		"號碼3": colD3,
		"号码1": colD1,
		"号码2": colD2,
		"号码3": colD3,
	}
)

// CSVStore хранит историю в одном CSV-файле и переписывает его целиком.
type CSVStore struct {
	path string
}

// NewCSVStore - path относительно baseDir, если он не абсолютный.
func NewCSVStore(baseDir, path string) *CSVStore {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string {
	return s.path
}

// Load читает историю. Отсутствующий файл - пустая история. Строки с
// пустыми, нечисловыми или выходящими за 0..9 цифрами отбрасываются.
func (s *CSVStore) Load(ctx context.Context) ([]entity.Draw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, domain.WrapError(err, errcodes.StorageFailed, "open history")
	}
	defer f.Close()

	draws, dropped, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	if dropped > 0 {
		logger(ctx).Warn("history rows dropped",
			slog.String(logx.FieldPath, s.path),
			slog.Int(logx.FieldDropped, dropped),
		)
	}

	return draws, nil
}

const defaultFileMode os.FileMode = 0o644

func historyFileMode(path string) os.FileMode {
	if fi, err := os.Stat(path); err == nil {
		return fi.Mode().Perm()
	}
	return defaultFileMode
}

// Save переписывает файл целиком через временный файл в той же директории.
func (s *CSVStore) Save(ctx context.Context, draws []entity.Draw) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)

	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec,mnd
		return domain.WrapError(err, errcodes.StorageFailed, "create history dir")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return domain.WrapError(err, errcodes.StorageFailed, "create temp history")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err = encode(tmp, draws); err != nil {
		tmp.Close()
		return domain.WrapError(err, errcodes.StorageFailed, "write history")
	}

	// CreateTemp создаёт 0600, сохраняем права прежнего файла
	if err = tmp.Chmod(historyFileMode(s.path)); err != nil {
		tmp.Close()
		return domain.WrapError(err, errcodes.StorageFailed, "chmod temp history")
	}

	if err = tmp.Close(); err != nil {
		return domain.WrapError(err, errcodes.StorageFailed, "close temp history")
	}

	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return domain.WrapError(err, errcodes.StorageFailed, "replace history")
	}

	return nil
}

func encode(w io.Writer, draws []entity.Draw) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(bw)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv.Write: %w", err)
	}

	for _, d := range draws {
		record := []string{
			d.Date,
			d.Issue,
			strconv.Itoa(d.Digits[0]),
			strconv.Itoa(d.Digits[1]),
			strconv.Itoa(d.Digits[2]),
			d.Source,
			strconv.FormatInt(d.UpdatedAt, 10),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv.Write: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv.Flush: %w", err)
	}

	return bw.Flush()
}

func decode(r io.Reader) (draws []entity.Draw, dropped int, err error) {
	br := bufio.NewReader(r)

	if bom, _ := br.Peek(len(utf8BOM)); bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	index, err := columnIndex(head)
	if err != nil {
		return nil, 0, err
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("csv.Read: %w", err)
		}

		field := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		var (
			digits value.Digits
			valid  = true
		)

		for pos, col := range []string{colD1, colD2, colD3} {
			n, ok := value.ParseDigit(field(col))
			if !ok {
				valid = false
				break
			}
			digits[pos] = n
		}

		if !valid {
			dropped++
			continue
		}

		draws = append(draws, entity.Draw{
			Date:      field(colDate),
			Issue:     field(colIssue),
			Digits:    digits,
			Source:    field(colSource),
			UpdatedAt: parseUnix(field(colUpdatedAt)),
		})
	}

	return draws, dropped, nil
}

// columnIndex нормализует заголовок: синонимы колонок цифр приводятся к
// d1..d3, недостающие текстовые колонки просто читаются пустыми.
func columnIndex(head []string) (map[string]int, error) {
	index := make(map[string]int, len(head))

	for i, name := range head {
		name = strings.TrimSpace(name)
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}

		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	for _, col := range []string{colD1, colD2, colD3} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("column %q: %w", col, domain.ErrSchemaMismatch)
		}
	}

	return index, nil
}

// parseUnix принимает "1700000000" и "1700000000.0"; всё остальное - 0.
func parseUnix(s string) int64 {
	if s == "" {
		return 0
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return int64(f)
}
