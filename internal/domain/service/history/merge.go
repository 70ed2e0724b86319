package history

import (
	"fmt"

	"threestar/internal/domain"
	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
)

// SourceTaiwanLottery - метка источника для строк, пришедших с сайта.
const SourceTaiwanLottery = "taiwanlottery"

type MergeOptions struct {
	FetchedAt int64 // unix, проставляется в updated_at каждой новой строки
	Source    string
	Key       value.DedupKey
}

// Merge добавляет свежие строки к истории и оставляет по одной записи на
// ключ: ту, у которой updated_at больше; при равенстве - первую встреченную.
// Победители идут в порядке своего появления в existing+incoming, так что
// история остаётся хронологической.
//
// added = max(0, len(merged) - len(existing)). Если новая строка совпала по
// ключу с другой старой записью, она не считается добавленной.
func Merge(existing []entity.Draw, incoming []value.Digits, opts MergeOptions) ([]entity.Draw, int, error) {
	fresh := make([]value.Digits, 0, len(incoming))
	for _, digits := range incoming {
		if digits.Valid() {
			fresh = append(fresh, digits)
		}
	}

	if len(fresh) == 0 {
		return nil, 0, fmt.Errorf("history.Merge: %w", domain.ErrNoData)
	}

	key := opts.Key
	if key == "" {
		key = value.DedupByDigits
	}

	all := make([]entity.Draw, 0, len(existing)+len(fresh))

	for _, d := range existing {
		if d.Digits.Valid() {
			all = append(all, d)
		}
	}

	for _, digits := range fresh {
		all = append(all, entity.Draw{
			Digits:    digits,
			Source:    opts.Source,
			UpdatedAt: opts.FetchedAt,
		})
	}

	winner := make(map[string]int, len(all))

	for i, d := range all {
		k := d.Key(key)

		j, seen := winner[k]
		if !seen || d.UpdatedAt > all[j].UpdatedAt {
			winner[k] = i
		}
	}

	merged := make([]entity.Draw, 0, len(winner))

	for i, d := range all {
		if winner[d.Key(key)] == i {
			merged = append(merged, d)
		}
	}

	return merged, max(0, len(merged)-len(existing)), nil
}
