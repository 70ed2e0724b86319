package entity

import "threestar/internal/domain/value"

// Draw - одна строка истории тиражей.
type Draw struct {
	Date      string       `json:"date"`
	Issue     string       `json:"issue"`
	Digits    value.Digits `json:"digits"`
	Source    string       `json:"source"`
	UpdatedAt int64        `json:"updated_at"` // unix, секунды
}

// Key - ключ дедупликации записи.
func (d Draw) Key(k value.DedupKey) string {
	return k.Of(d.Date, d.Issue, d.Digits)
}
