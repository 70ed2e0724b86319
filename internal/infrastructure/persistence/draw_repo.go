package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"threestar/internal/domain"
	"threestar/internal/domain/entity"
	"threestar/pkg/errcodes"
)

// insertBatchSize держит число параметров запроса ниже лимита Postgres (65535).
const insertBatchSize = 1000

// DrawRepository - история тиражей в Postgres. Save, как и CSV-хранилище,
// заменяет историю целиком, но в одной транзакции.
type DrawRepository struct {
	db *sqlx.DB
}

func NewDrawRepository(db *sqlx.DB) *DrawRepository {
	return &DrawRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *DrawRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.StorageFailed, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.StorageFailed,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.StorageFailed, "failed to commit")
	}

	return nil
}

// Load возвращает историю в порядке сохранения.
func (r *DrawRepository) Load(ctx context.Context) ([]entity.Draw, error) {
	query := `
		SELECT position, draw_date, issue, d1, d2, d3, source, updated_at
		FROM draws
		ORDER BY position`

	var schemas []drawSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.StorageFailed, "failed to load draws")
	}

	draws := make([]entity.Draw, 0, len(schemas))
	for _, s := range schemas {
		draws = append(draws, s.toDomain())
	}

	return draws, nil
}

// Save заменяет историю целиком.
func (r *DrawRepository) Save(ctx context.Context, draws []entity.Draw) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM draws`); err != nil {
			return domain.WrapError(err, errcodes.StorageFailed, "failed to clear draws")
		}

		for start := 0; start < len(draws); start += insertBatchSize {
			end := min(start+insertBatchSize, len(draws))

			batch := make([]drawSchema, 0, end-start)
			for i := start; i < end; i++ {
				batch = append(batch, fromDraw(i, draws[i]))
			}

			if err := r.insertTx(ctx, tx, batch); err != nil {
				return domain.WrapError(err, errcodes.StorageFailed,
					fmt.Sprintf("failed at batch %d", start/insertBatchSize))
			}
		}

		return nil
	})
}

func (r *DrawRepository) insertTx(ctx context.Context, tx *sqlx.Tx, batch []drawSchema) error {
	query := `
		INSERT INTO draws (position, draw_date, issue, d1, d2, d3, source, updated_at)
		VALUES (:position, :draw_date, :issue, :d1, :d2, :d3, :source, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, query, batch); err != nil {
		return fmt.Errorf("tx.NamedExecContext: %w", err)
	}

	return nil
}
