package req

import (
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"threestar/pkg/errcodes"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

// ReadQuery декодирует query-параметры в dest по json-тегам и валидирует результат.
// Берётся только первое значение каждого параметра, пустое значение
// равносильно отсутствию параметра. Числовые поля нужно помечать опцией ",string".
func ReadQuery(r *http.Request, dest any) error {
	query := r.URL.Query()

	params := make(map[string]string, len(query))
	for k := range query {
		if v := query.Get(k); v != "" {
			params[k] = v
		}
	}

	b, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err = json.Unmarshal(b, dest); err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("json.Unmarshal: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid query parameters"),
		)
	}

	if err = validate.StructCtx(r.Context(), dest); err != nil {
		return failure.NewInvalidArgumentError(
			"validation error",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(err.Error()),
		)
	}

	return nil
}
