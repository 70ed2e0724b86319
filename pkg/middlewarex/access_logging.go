package middlewarex

import (
	"bytes"
	"cmp"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/zenazn/goji/web/mutil"

	"threestar/pkg/logx"
)

// AccessLogging пишет дамп запроса и ответа. Ответы 5xx уходят в Warn.
// Поля длиннее logFieldMaxLen обрезаются (0 без ограничения).
//
// Про обёртку ResponseWriter:
// https://blog.merovius.de/posts/2017-07-30-the-trouble-with-optional-interfaces/
func AccessLogging(
	sensitiveDataMasker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) func(next http.Handler) http.Handler {
	field := func(b []byte) string {
		if logFieldMaxLen > 0 && len(b) > logFieldMaxLen {
			b = b[:logFieldMaxLen]
		}
		return string(sensitiveDataMasker.Mask(b))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()

			dump, err := httputil.DumpRequest(r, r.ContentLength != 0)
			if err != nil {
				logger(ctx).Error("httputil.DumpRequest", logx.Error(err))
			}

			logger(ctx).Info(logx.FieldHTTPRequest, slog.String(logx.FieldRequestBody, field(dump)))

			lw := mutil.WrapWriter(w)

			var body bytes.Buffer

			lw.Tee(&body)

			next.ServeHTTP(lw, r)

			headers, err := responseHeaders(w)
			if err != nil {
				logger(ctx).Error("responseHeaders", logx.Error(err))
			}

			// без явного WriteHeader mutil отдаёт 0
			status := cmp.Or(lw.Status(), http.StatusOK)

			logger(ctx).Log(ctx, responseLevel(status), logx.FieldHTTPResponse,
				slog.Int(logx.FieldResponseStatus, status),
				slog.String(logx.FieldResponseHeaders, field(headers)),
				slog.String(logx.FieldResponseBody, field(body.Bytes())),
				slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
			)
		})
	}
}

func responseLevel(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

func responseHeaders(w http.ResponseWriter) ([]byte, error) {
	var buf bytes.Buffer

	if err := w.Header().WriteSubset(&buf, nil); err != nil {
		return nil, fmt.Errorf("header.WriteSubset: %w", err)
	}

	return buf.Bytes(), nil
}
