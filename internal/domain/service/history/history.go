package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"threestar/internal/domain"
	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
	"threestar/pkg/errcodes"
	"threestar/pkg/logx"
)

const recordsCacheKey = "records"

type Store interface {
	Load(ctx context.Context) ([]entity.Draw, error)
	Save(ctx context.Context, draws []entity.Draw) error
}

type Fetcher interface {
	Fetch(ctx context.Context) ([]value.Digits, error)
}

type Notifier interface {
	NotifyUpdate(ctx context.Context, result entity.UpdateResult) error
}

// AfterUpdateFunc вызывается после успешного сохранения (например, для
// переобучения модели). Её ошибка только логируется.
type AfterUpdateFunc func(ctx context.Context, result entity.UpdateResult) error

// Service владеет историей тиражей: обновляет её с сайта и отдаёт записи
// для предсказаний. Одновременные Update не согласованы между собой:
// файл перезаписывается целиком, последний писатель выигрывает.
type Service struct {
	store    Store
	fetcher  Fetcher
	notifier Notifier

	source      string
	key         value.DedupKey
	now         func() time.Time
	afterUpdate AfterUpdateFunc
	records     *cache.Cache
	recordsTTL  time.Duration

	// generation растёт при каждом сохранении; Records не кладёт в кэш
	// снимок, прочитанный до сохранения.
	mu         sync.Mutex
	generation uint64
}

func NewService(store Store, fetcher Fetcher) *Service {
	return &Service{
		store:   store,
		fetcher: fetcher,
		source:  SourceTaiwanLottery,
		key:     value.DedupByDigits,
		now:     time.Now,
	}
}

func (s *Service) WithSource(source string) *Service {
	if source != "" {
		s.source = source
	}
	return s
}

func (s *Service) WithDedupKey(key value.DedupKey) *Service {
	s.key = key
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

func (s *Service) WithAfterUpdate(fn AfterUpdateFunc) *Service {
	s.afterUpdate = fn
	return s
}

// WithRecordsCache кэширует загруженную историю на ttl. Update сбрасывает кэш.
func (s *Service) WithRecordsCache(ttl time.Duration) *Service {
	if ttl <= 0 {
		s.records = nil
		return s
	}

	s.recordsTTL = ttl
	s.records = cache.New(ttl, 2*ttl)

	return s
}

// Update забирает свежие тиражи, сливает их с историей и перезаписывает её.
// Если сайт не вернул строк, история не трогается и возвращается ErrNoData.
func (s *Service) Update(ctx context.Context) (entity.UpdateResult, error) {
	result, err := s.update(ctx)
	if err != nil {
		updatesTotal.WithLabelValues(updateStatus(err)).Inc()
		return entity.UpdateResult{}, err
	}

	updatesTotal.WithLabelValues(statusOK).Inc()
	addedTotal.Add(float64(result.Added))

	logger(ctx).Info("history updated",
		slog.Int(logx.FieldRows, result.Fetched),
		slog.Int(logx.FieldAdded, result.Added),
		slog.Int(logx.FieldTotal, result.Total),
	)

	if s.notifier != nil {
		if err := s.notifier.NotifyUpdate(ctx, result); err != nil {
			logger(ctx).Warn("notifier.NotifyUpdate", logx.Error(err))
		}
	}

	if s.afterUpdate != nil {
		if err := s.afterUpdate(ctx, result); err != nil {
			logger(ctx).Warn("after update hook failed", logx.Error(err))
		}
	}

	return result, nil
}

func (s *Service) update(ctx context.Context) (entity.UpdateResult, error) {
	rows, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if domain.IsAppError(err) {
			return entity.UpdateResult{}, fmt.Errorf("fetcher.Fetch: %w", err)
		}
		return entity.UpdateResult{}, domain.WrapError(err, errcodes.FetchFailed, "fetch draws")
	}

	if len(rows) == 0 {
		return entity.UpdateResult{}, fmt.Errorf("fetcher.Fetch: %w", domain.ErrNoData)
	}

	existing, err := s.store.Load(ctx)
	if err != nil {
		return entity.UpdateResult{}, fmt.Errorf("store.Load: %w", err)
	}

	merged, added, err := Merge(existing, rows, MergeOptions{
		FetchedAt: s.now().Unix(),
		Source:    s.source,
		Key:       s.key,
	})
	if err != nil {
		return entity.UpdateResult{}, err
	}

	if err = s.store.Save(ctx, merged); err != nil {
		return entity.UpdateResult{}, fmt.Errorf("store.Save: %w", err)
	}

	s.mu.Lock()
	s.generation++
	if s.records != nil {
		s.records.Set(recordsCacheKey, merged, s.recordsTTL)
	}
	s.mu.Unlock()

	return entity.UpdateResult{
		Fetched: len(rows),
		Added:   added,
		Total:   len(merged),
	}, nil
}

// Records возвращает историю в хронологическом порядке.
func (s *Service) Records(ctx context.Context) ([]entity.Draw, error) {
	if s.records != nil {
		if cached, ok := s.records.Get(recordsCacheKey); ok {
			return cached.([]entity.Draw), nil //nolint:forcetypeassert
		}
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	draws, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}

	if s.records != nil {
		s.mu.Lock()
		if s.generation == generation {
			s.records.Set(recordsCacheKey, draws, s.recordsTTL)
		}
		s.mu.Unlock()
	}

	return draws, nil
}

func updateStatus(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoData):
		return statusNoData
	case errors.Is(err, domain.ErrFetchFailed):
		return statusFetchFailed
	default:
		return statusError
	}
}
