package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mesob_back_end/internal/apiclient"
	"mesob_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, stats models.DashboardStats, orders []models.Order) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/kitchen/orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"orders": orders})
	})
	mux.HandleFunc("/api/v1/reports/dashboard", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stats)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRefresherLoadsSnapshot(t *testing.T) {
	stats := models.DashboardStats{TotalRevenue: 1234.5, OrdersToday: 17}
	backend := newBackend(t, stats, []models.Order{
		{Status: "preparing", TotalAmount: 92.0},
	})

	r := NewRefresher(apiclient.New(backend.URL, "token"), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	require.Eventually(t, func() bool {
		orders, _ := r.Snapshot()
		return len(orders) == 1
	}, 2*time.Second, 20*time.Millisecond)

	orders, got := r.Snapshot()
	assert.Equal(t, stats, got)
	assert.Equal(t, "preparing", orders[0].Status)
	assert.InDelta(t, 92.0, orders[0].TotalAmount, 0.001)
}

func TestRefresherSnapshotIsACopy(t *testing.T) {
	backend := newBackend(t, models.DashboardStats{}, []models.Order{{Status: "pending"}})

	r := NewRefresher(apiclient.New(backend.URL, ""), time.Hour)
	r.refetch()

	first, _ := r.Snapshot()
	require.Len(t, first, 1)
	first[0].Status = "modifié"

	second, _ := r.Snapshot()
	assert.Equal(t, "pending", second[0].Status)
}

func TestRefresherKeepsStateOnBackendFailure(t *testing.T) {
	backend := newBackend(t, models.DashboardStats{OrdersToday: 3}, []models.Order{{Status: "ready"}})

	api := apiclient.New(backend.URL, "")
	r := NewRefresher(api, time.Hour)
	r.refetch()

	orders, stats := r.Snapshot()
	require.Len(t, orders, 1)
	require.Equal(t, 3, stats.OrdersToday)

	// Le backend tombe : l'état affiché reste le dernier connu
	backend.Close()
	r.refetch()

	orders, stats = r.Snapshot()
	assert.Len(t, orders, 1)
	assert.Equal(t, 3, stats.OrdersToday)
}
