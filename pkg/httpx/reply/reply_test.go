package reply_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"threestar/internal/domain"
	"threestar/pkg/contextx"
	"threestar/pkg/errcodes"
	"threestar/pkg/httpx/reply"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorBody struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	SupportID string `json:"supportId"`
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{
			name:       "Domain error",
			err:        fmt.Errorf("history.Update: %w", domain.ErrNoData),
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(errcodes.NoData),
			wantError:  "no draws returned by source",
		},
		{
			name:       "Wrapped domain error keeps cause",
			err:        domain.WrapError(errors.New("status 503"), errcodes.FetchFailed, "fetch draws"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   string(errcodes.FetchFailed),
			wantError:  "fetch draws: status 503",
		},
		{
			name: "Validation error",
			err: failure.NewInvalidArgumentError(
				"validation error",
				failure.WithCode(errcodes.ValidationError),
			),
			wantStatus: http.StatusBadRequest,
			wantCode:   string(errcodes.ValidationError),
		},
		{
			name:       "Plain error",
			err:        errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			ctx := contextx.WithTraceID(context.Background(), "trace-42")
			rec := httptest.NewRecorder()

			reply.Error(ctx, rec, tt.err)

			rq.Equal(tt.wantStatus, rec.Code)
			rq.Contains(rec.Header().Get("Content-Type"), "application/json")

			var body errorBody
			rq.NoError(json.Unmarshal(rec.Body.Bytes(), &body))

			rq.Equal("trace-42", body.SupportID)
			rq.NotEmpty(body.Code)
			rq.NotEmpty(body.Error)

			if tt.wantCode != "" {
				rq.Equal(tt.wantCode, body.Code)
			}

			if tt.wantError != "" {
				rq.Equal(tt.wantError, body.Error)
			}
		})
	}
}

func TestText(t *testing.T) {
	rq := require.New(t)

	rec := httptest.NewRecorder()
	reply.Text(context.Background(), rec, http.StatusOK, "hello")

	rq.Equal(http.StatusOK, rec.Code)
	rq.Equal("hello", rec.Body.String())
	rq.Equal("text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}
