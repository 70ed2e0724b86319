// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// PredictionSet Три цифры одного набора
type PredictionSet [3]int

type PredictResponse struct {
	Predictions []PredictionSet `json:"predictions"`
}

type PickAllResponse struct {
	ComputerPicks []PredictionSet `json:"computer_picks"`
}

type UpdateResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
}

// PredictQuery Параметры GET /api/predict
type PredictQuery struct {
	// Mode uniform (по умолчанию) или weighted
	Mode string `json:"mode" validate:"omitempty,oneof=uniform weighted"`

	// Window ключ окна истории, например "近10期"
	Window string `json:"window" validate:"omitempty,max=32"`

	// Count количество наборов
	Count int `json:"count,string" validate:"omitempty,min=1,max=100"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// Error Текст ошибки
	Error string `json:"error"`
}

// ErrorCode Код ошибки
type ErrorCode string
