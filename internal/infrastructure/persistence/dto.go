package persistence

import (
	"threestar/internal/domain/entity"
	"threestar/internal/domain/value"
)

// drawSchema - строка таблицы draws. position хранит хронологический порядок.
type drawSchema struct {
	Position  int    `db:"position"`
	Date      string `db:"draw_date"`
	Issue     string `db:"issue"`
	D1        int    `db:"d1"`
	D2        int    `db:"d2"`
	D3        int    `db:"d3"`
	Source    string `db:"source"`
	UpdatedAt int64  `db:"updated_at"`
}

func fromDraw(position int, d entity.Draw) drawSchema {
	return drawSchema{
		Position:  position,
		Date:      d.Date,
		Issue:     d.Issue,
		D1:        d.Digits[0],
		D2:        d.Digits[1],
		D3:        d.Digits[2],
		Source:    d.Source,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s drawSchema) toDomain() entity.Draw {
	return entity.Draw{
		Date:      s.Date,
		Issue:     s.Issue,
		Digits:    value.Digits{s.D1, s.D2, s.D3},
		Source:    s.Source,
		UpdatedAt: s.UpdatedAt,
	}
}
