package history_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"threestar/internal/domain"
	"threestar/internal/domain/entity"
	"threestar/internal/domain/service/history"
	"threestar/internal/domain/value"
	"threestar/pkg/tests"
)

func TestMergeRejectsEmptyIncoming(t *testing.T) {
	rq := require.New(t)

	existing := []entity.Draw{{Digits: value.Digits{1, 2, 3}, UpdatedAt: 100}}

	_, _, err := history.Merge(existing, nil, history.MergeOptions{FetchedAt: 200})
	rq.ErrorIs(err, domain.ErrNoData)

	_, _, err = history.Merge(existing, []value.Digits{{1, 12, 3}}, history.MergeOptions{FetchedAt: 200})
	rq.ErrorIs(err, domain.ErrNoData, "rows that fail validation do not count as data")
}

func TestMerge(t *testing.T) {
	testCases := []struct {
		name      string
		existing  []entity.Draw
		incoming  []value.Digits
		fetchedAt int64
		wantKeys  []string
		wantAdded int
		check     func(rq *require.Assertions, merged []entity.Draw)
	}{
		{
			name:      "Newer fetch replaces same digits",
			existing:  []entity.Draw{{Digits: value.Digits{1, 2, 3}, Source: "manual", UpdatedAt: 100}},
			incoming:  []value.Digits{{1, 2, 3}},
			fetchedAt: 200,
			wantKeys:  []string{"123"},
			wantAdded: 0,
			check: func(rq *require.Assertions, merged []entity.Draw) {
				rq.Equal(int64(200), merged[0].UpdatedAt)
				rq.Equal(history.SourceTaiwanLottery, merged[0].Source)
			},
		},
		{
			name:     "Empty history takes eight distinct rows",
			existing: nil,
			incoming: []value.Digits{
				{0, 0, 1}, {0, 0, 2}, {0, 0, 3}, {0, 0, 4},
				{0, 0, 5}, {0, 0, 6}, {0, 0, 7}, {0, 0, 8},
			},
			fetchedAt: 300,
			wantKeys:  []string{"001", "002", "003", "004", "005", "006", "007", "008"},
			wantAdded: 8,
		},
		{
			name: "Older or equal fetch keeps existing record",
			existing: []entity.Draw{
				{Date: "2025-01-01", Issue: "1", Digits: value.Digits{4, 5, 6}, Source: "manual", UpdatedAt: 500},
			},
			incoming:  []value.Digits{{4, 5, 6}},
			fetchedAt: 500,
			wantKeys:  []string{"456"},
			wantAdded: 0,
			check: func(rq *require.Assertions, merged []entity.Draw) {
				rq.Equal("manual", merged[0].Source)
				rq.Equal("2025-01-01", merged[0].Date)
			},
		},
		{
			name: "Duplicates inside one fetch collapse",
			existing: []entity.Draw{
				{Digits: value.Digits{9, 9, 9}, UpdatedAt: 10},
			},
			incoming:  []value.Digits{{1, 1, 1}, {1, 1, 1}, {2, 2, 2}},
			fetchedAt: 20,
			wantKeys:  []string{"999", "111", "222"},
			wantAdded: 2,
		},
		{
			name: "Invalid rows are dropped",
			existing: []entity.Draw{
				{Digits: value.Digits{1, 0, 11}, UpdatedAt: 10},
				{Digits: value.Digits{3, 3, 3}, UpdatedAt: 10},
			},
			incoming:  []value.Digits{{-1, 0, 0}, {4, 4, 4}},
			fetchedAt: 20,
			wantKeys:  []string{"333", "444"},
			wantAdded: 0,
		},
		{
			name: "Re-drawn digits move to the end",
			existing: []entity.Draw{
				{Digits: value.Digits{1, 2, 3}, UpdatedAt: 10},
				{Digits: value.Digits{4, 5, 6}, UpdatedAt: 10},
			},
			incoming:  []value.Digits{{1, 2, 3}, {7, 8, 9}},
			fetchedAt: 20,
			wantKeys:  []string{"456", "123", "789"},
			wantAdded: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			merged, added, err := history.Merge(tc.existing, tc.incoming, history.MergeOptions{
				FetchedAt: tc.fetchedAt,
				Source:    history.SourceTaiwanLottery,
				Key:       value.DedupByDigits,
			})
			rq.NoError(err)
			rq.Equal(tc.wantAdded, added)

			keys := make([]string, 0, len(merged))
			for _, d := range merged {
				rq.True(d.Digits.Valid())
				keys = append(keys, d.Digits.String())
			}

			rq.Equal(tc.wantKeys, keys)

			if tc.check != nil {
				tc.check(rq, merged)
			}
		})
	}
}

func TestMergeIdempotent(t *testing.T) {
	rq := require.New(t)

	incoming := []value.Digits{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}

	first, _, err := history.Merge(nil, incoming, history.MergeOptions{FetchedAt: 100})
	rq.NoError(err)

	for _, fetchedAt := range []int64{100, 50} {
		again, added, err := history.Merge(first, incoming, history.MergeOptions{FetchedAt: fetchedAt})
		rq.NoError(err)
		rq.Zero(added)
		rq.Equal(first, again)
	}
}

func TestMergeRandomized(t *testing.T) {
	random := tests.NewRandomizer(t)

	digits := func() value.Digits {
		// узкий диапазон, чтобы ключи совпадали почаще
		return value.Digits{random.IntN(3), random.IntN(3), random.IntN(10)}
	}

	for range 50 {
		rq := require.New(t)

		existing := make([]entity.Draw, random.IntN(20))
		for i := range existing {
			existing[i] = entity.Draw{Digits: digits(), UpdatedAt: int64(random.IntN(1000))}
		}

		incoming := make([]value.Digits, 1+random.IntN(8))
		for i := range incoming {
			incoming[i] = digits()
		}

		merged, added, err := history.Merge(existing, incoming, history.MergeOptions{FetchedAt: 500})
		rq.NoError(err)
		rq.Equal(max(0, len(merged)-len(existing)), added)

		newest := map[string]int64{}
		for _, d := range existing {
			newest[d.Digits.String()] = max(newest[d.Digits.String()], d.UpdatedAt)
		}
		for _, d := range incoming {
			newest[d.String()] = max(newest[d.String()], 500)
		}

		seen := map[string]bool{}
		for _, d := range merged {
			key := d.Digits.String()
			rq.False(seen[key], "duplicate key %s", key)
			seen[key] = true
			rq.Equal(newest[key], d.UpdatedAt, "key %s keeps the newest record", key)
		}
		rq.Len(seen, len(newest))

		again, addedAgain, err := history.Merge(merged, incoming, history.MergeOptions{FetchedAt: 500})
		rq.NoError(err)
		rq.Zero(addedAgain)
		rq.Equal(merged, again)
	}
}

func TestMergeByIssue(t *testing.T) {
	rq := require.New(t)

	existing := []entity.Draw{
		{Date: "2025-03-01", Issue: "114000050", Digits: value.Digits{1, 2, 3}, UpdatedAt: 10},
		{Date: "2025-03-02", Issue: "114000051", Digits: value.Digits{1, 2, 3}, UpdatedAt: 10},
	}

	merged, added, err := history.Merge(existing, []value.Digits{{1, 2, 3}}, history.MergeOptions{
		FetchedAt: 20,
		Key:       value.DedupByIssue,
	})
	rq.NoError(err)

	// Два тиража с номерами живут отдельно; строка без номера схлопывается
	// только с такими же строками без номера.
	rq.Len(merged, 3)
	rq.Equal(1, added)
}
