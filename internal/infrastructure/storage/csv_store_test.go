package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"threestar/internal/domain"
	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
	"threestar/internal/infrastructure/storage"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestCSVStoreLoadMissingFile(t *testing.T) {
	rq := require.New(t)

	store := storage.NewCSVStore(t.TempDir(), "data/3star_history.csv")

	draws, err := store.Load(context.Background())
	rq.NoError(err)
	rq.Empty(draws)
}

func TestCSVStoreLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []entity.Draw
		wantErr error
	}{
		{
			name:    "Canonical header with BOM",
			content: "\ufeffdate,issue,d1,d2,d3,source,updated_at\n2024-01-02,113000001,1,2,3,taiwanlottery,1700000000\n",
			want: []entity.Draw{
				{Date: "2024-01-02", Issue: "113000001", Digits: value.Digits{1, 2, 3}, Source: "taiwanlottery", UpdatedAt: 1700000000},
			},
		},
		{
			name:    "Chinese digit columns, missing text columns backfilled",
			content: "號碼1,號碼2,號碼3\n4,5,6\n7.0,8,9\n",
			want: []entity.Draw{
				{Digits: value.Digits{4, 5, 6}},
				{Digits: value.Digits{7, 8, 9}},
			},
		},
		{
			name:    "Invalid digits dropped, never coerced to zero",
			content: "d1,d2,d3,updated_at\n1,2,3,10\n,2,3,11\nx,1,1,12\n10,1,1,13\n0,0,0,14.0\n",
			want: []entity.Draw{
				{Digits: value.Digits{1, 2, 3}, UpdatedAt: 10},
				{Digits: value.Digits{0, 0, 0}, UpdatedAt: 14},
			},
		},
		{
			name:    "Short rows",
			content: "d1,d2,d3,source\n1,2\n3,4,5\n",
			want: []entity.Draw{
				{Digits: value.Digits{3, 4, 5}},
			},
		},
		{
			name:    "Header only",
			content: "date,issue,d1,d2,d3,source,updated_at\n",
		},
		{
			name:    "Empty file",
			content: "",
		},
		{
			name:    "No digit columns",
			content: "date,issue,n1,n2,n3\n2024-01-02,1,1,2,3\n",
			wantErr: domain.ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			dir := t.TempDir()
			path := writeFile(t, dir, tt.content)

			draws, err := storage.NewCSVStore(dir, path).Load(context.Background())
			if tt.wantErr != nil {
				rq.ErrorIs(err, tt.wantErr)
				return
			}

			rq.NoError(err)
			rq.Equal(tt.want, draws)

			for _, d := range draws {
				rq.True(d.Digits.Valid())
			}
		})
	}
}

func TestCSVStoreSaveLoad(t *testing.T) {
	rq := require.New(t)

	base := t.TempDir()
	store := storage.NewCSVStore(base, filepath.Join("nested", "data", "history.csv"))
	rq.Equal(filepath.Join(base, "nested", "data", "history.csv"), store.Path())

	draws := []entity.Draw{
		{Date: "2024-01-02", Issue: "1", Digits: value.Digits{1, 2, 3}, Source: "台灣彩券", UpdatedAt: 1700000000},
		{Digits: value.Digits{0, 9, 0}, Source: "taiwanlottery", UpdatedAt: 1700000100},
	}

	rq.NoError(store.Save(context.Background(), draws))

	raw, err := os.ReadFile(store.Path())
	rq.NoError(err)

	content := string(raw)
	rq.True(strings.HasPrefix(content, "\ufeffdate,issue,d1,d2,d3,source,updated_at\n"))
	rq.Contains(content, "2024-01-02,1,1,2,3,台灣彩券,1700000000\n")
	rq.Contains(content, ",,0,9,0,taiwanlottery,1700000100\n")

	loaded, err := store.Load(context.Background())
	rq.NoError(err)
	rq.Equal(draws, loaded)

	// Перезапись целиком, без временных файлов рядом.
	rq.NoError(store.Save(context.Background(), draws[:1]))

	loaded, err = store.Load(context.Background())
	rq.NoError(err)
	rq.Len(loaded, 1)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	rq.NoError(err)
	rq.Len(entries, 1)
}

func TestCSVStoreSaveKeepsFileMode(t *testing.T) {
	tests := []struct {
		name     string
		existing os.FileMode // 0 - файла нет
		want     os.FileMode
	}{
		{name: "New file", want: 0o644},
		{name: "Existing 0644", existing: 0o644, want: 0o644},
		{name: "Existing 0640", existing: 0o640, want: 0o640},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			store := storage.NewCSVStore(t.TempDir(), "history.csv")

			if tc.existing != 0 {
				rq.NoError(os.WriteFile(store.Path(), []byte("d1,d2,d3\n"), tc.existing))
				rq.NoError(os.Chmod(store.Path(), tc.existing))
			}

			rq.NoError(store.Save(context.Background(), []entity.Draw{{Digits: value.Digits{1, 2, 3}}}))

			fi, err := os.Stat(store.Path())
			rq.NoError(err)
			rq.Equal(tc.want, fi.Mode().Perm())
		})
	}
}

func TestCSVStoreCanceledContext(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := storage.NewCSVStore(t.TempDir(), "history.csv")

	_, err := store.Load(ctx)
	rq.ErrorIs(err, context.Canceled)
	rq.ErrorIs(store.Save(ctx, nil), context.Canceled)
}
