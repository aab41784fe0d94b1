package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Post("/v1/u/{username}/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	for _, username := range []string{"alice", "bob"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/u/"+username+"/messages", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)
	}

	// Both recipients collapse into the route pattern series
	count := testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodPost, "/v1/u/{username}/messages", "201"))
	assert.Equal(t, 2.0, count)

	assert.Equal(t, 0.0, testutil.ToFloat64(requestsInFlight))
}
