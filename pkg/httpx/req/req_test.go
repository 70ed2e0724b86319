package req_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"threestar/pkg/httpx/req"
	"threestar/pkg/rest"
)

func TestReadQuery(t *testing.T) {
	testCases := []struct {
		name    string
		target  string
		want    rest.PredictQuery
		invalid bool
	}{
		{
			name:   "Empty query",
			target: "/api/predict",
			want:   rest.PredictQuery{},
		},
		{
			name:   "Weighted with window and count",
			target: "/api/predict?mode=weighted&window=%E8%BF%9110%E6%9C%9F&count=7",
			want:   rest.PredictQuery{Mode: "weighted", Window: "近10期", Count: 7},
		},
		{
			name:   "Empty values are ignored",
			target: "/api/predict?mode=&window=&count=",
			want:   rest.PredictQuery{},
		},
		{
			name:   "Empty count with mode",
			target: "/api/predict?mode=uniform&count=",
			want:   rest.PredictQuery{Mode: "uniform"},
		},
		{
			name:    "Unknown mode",
			target:  "/api/predict?mode=lucky",
			invalid: true,
		},
		{
			name:    "Count is not a number",
			target:  "/api/predict?count=five",
			invalid: true,
		},
		{
			name:    "Count out of range",
			target:  "/api/predict?count=1000",
			invalid: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			r := httptest.NewRequest(http.MethodGet, tc.target, http.NoBody)

			var got rest.PredictQuery

			err := req.ReadQuery(r, &got)
			if tc.invalid {
				rq.Error(err)
				rq.True(failure.IsInvalidArgumentError(err))

				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}
