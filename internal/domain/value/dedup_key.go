package value

import "fmt"

// DedupKey выбирает, по каким полям две записи считаются одним тиражом.
type DedupKey string

const (
	// DedupByDigits - ключ "d1d2d3". Разные тиражи с одинаковыми цифрами
	// схлопываются в одну запись: источник не отдаёт ни даты, ни номера тиража.
	DedupByDigits DedupKey = "digits"
	// DedupByIssue - ключ "date|issue", если оба поля заполнены, иначе "d1d2d3".
	DedupByIssue DedupKey = "issue"
)

func ParseDedupKey(s string) (DedupKey, error) {
	switch k := DedupKey(s); k {
	case DedupByDigits, DedupByIssue:
		return k, nil
	case "":
		return DedupByDigits, nil
	default:
		return "", fmt.Errorf("unknown dedup key %q", s)
	}
}

// Of строит ключ записи.
func (k DedupKey) Of(date, issue string, digits Digits) string {
	if k == DedupByIssue && date != "" && issue != "" {
		return date + "|" + issue
	}
	return digits.String()
}
