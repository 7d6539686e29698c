package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/marcelobragadossantos/api-realtime/internal/api/v1"
	"github.com/marcelobragadossantos/api-realtime/internal/cache"
	httperr "github.com/marcelobragadossantos/api-realtime/internal/core/errors"
	"github.com/marcelobragadossantos/api-realtime/internal/core/window"
	"github.com/marcelobragadossantos/api-realtime/internal/testutil"
	"github.com/stretchr/testify/require"
)

var errAny = errors.New("boom")

// recordingDispatcher captures prewarm dispatches without running them.
type recordingDispatcher struct {
	refs []time.Time
	err  error
}

func (d *recordingDispatcher) DispatchMonthPrewarm(ref time.Time) error {
	d.refs = append(d.refs, ref)
	return d.err
}

func newTestRouter(t *testing.T, store *spyStore, dispatcher Dispatcher) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	_, client := testutil.NewMiniredisClient(t)
	svc := NewService(store, cache.NewRedisStore(client), dispatcher, testPrefix, 300*time.Second)
	svc.nowFn = func() time.Time { return fixedNow }

	r := gin.New()
	svc.RegisterRoutes(r)
	return r, svc
}

func doRequest(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHandleVendasRealtime_SingleDayDispatchesPrewarm(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	r, _ := newTestRouter(t, &spyStore{items: storeItems()}, dispatcher)

	w := doRequest(r, http.MethodGet, "/vendas-realtime?data=2024-03-15")
	require.Equal(t, http.StatusOK, w.Code)

	var rep v1.VendasReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	require.Equal(t, v1.FonteDatabase, rep.Fonte)
	require.Equal(t, "2024-03-15 00:00:00", rep.PeriodoInicio)
	require.Equal(t, "2024-03-15 23:59:59", rep.PeriodoFim)
	require.Len(t, rep.Vendas, 2)

	require.Len(t, dispatcher.refs, 1)
	require.Equal(t, "2024-03-15", dispatcher.refs[0].Format(window.DateLayout))
}

func TestHandleVendasRealtime_NoParamsIsTodayAndDispatches(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	r, _ := newTestRouter(t, &spyStore{items: storeItems()}, dispatcher)

	w := doRequest(r, http.MethodGet, "/vendas-realtime")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, dispatcher.refs, 1)
	require.Equal(t, "2024-03-15", dispatcher.refs[0].Format(window.DateLayout))
}

func TestHandleVendasRealtime_RangeDoesNotDispatchPrewarm(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	r, _ := newTestRouter(t, &spyStore{items: storeItems()}, dispatcher)

	w := doRequest(r, http.MethodGet, "/vendas-realtime?data_inicio=2024-03-10&data_fim=2024-03-10")
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, dispatcher.refs, "an explicit range never triggers the month prewarm")
}

func TestHandleVendasRealtime_DispatchFailureDoesNotFailRequest(t *testing.T) {
	dispatcher := &recordingDispatcher{err: errAny}
	r, _ := newTestRouter(t, &spyStore{items: storeItems()}, dispatcher)

	w := doRequest(r, http.MethodGet, "/vendas-realtime?data=2024-03-15")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleVendasRealtime_ValidationErrors(t *testing.T) {
	cases := []struct {
		name      string
		target    string
		errorType string
	}{
		{"invalid date", "/vendas-realtime?data=2024-13-40", httperr.HttpInvalidDateError},
		{"inverted range", "/vendas-realtime?data_inicio=2024-03-10&data_fim=2024-03-01", httperr.HttpInvalidRangeError},
		{"incomplete range", "/vendas-realtime?data_inicio=2024-03-10", httperr.HttpIncompleteRangeError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRouter(t, &spyStore{}, nil)

			w := doRequest(r, http.MethodGet, tc.target)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp httperr.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tc.errorType, resp.ErrorType)
		})
	}
}

func TestHandleVendasRealtime_StoreFailureIs500(t *testing.T) {
	r, _ := newTestRouter(t, &spyStore{err: errAny}, nil)

	w := doRequest(r, http.MethodGet, "/vendas-realtime?data=2024-03-15")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, httperr.HttpQueryError, resp.ErrorType)
}

func TestHandleClearCache(t *testing.T) {
	r, svc := newTestRouter(t, &spyStore{items: storeItems()}, nil)

	for _, day := range []string{"2024-03-10", "2024-03-11"} {
		w := doRequest(r, http.MethodGet, "/vendas-realtime?data="+day)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(r, http.MethodDelete, "/cache")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Removed int64 `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(2), resp.Removed)

	require.False(t, svc.IsCached(context.Background(), window.DayWindow(
		time.Date(2024, 3, 10, 0, 0, 0, 0, window.Location))))
}
