package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"mesob_back_end/internal/apiclient"
	"mesob_back_end/internal/events"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/wsclient"
)

// Refresher maintient une vue fraîche de la file cuisine et des stats.
// Pas d'application de deltas : chaque événement pertinent déclenche un
// refetch complet, comme un rafraîchissement d'écran.
type Refresher struct {
	api      *apiclient.Client
	interval time.Duration

	mu     sync.Mutex
	seq    uint64 // estampille la dernière réponse appliquée
	orders []models.Order
	stats  models.DashboardStats
}

func NewRefresher(api *apiclient.Client, interval time.Duration) *Refresher {
	return &Refresher{api: api, interval: interval}
}

// Bind abonne le refresher aux événements commande et paiement
func (r *Refresher) Bind(ws *wsclient.Client) {
	ws.On(events.KindOrderUpdate, func(events.Envelope) { r.refetch() })
	ws.On(events.KindPaymentUpdate, func(events.Envelope) { r.refetch() })
}

// Run rafraîchit à intervalle fixe, en plus des événements
func (r *Refresher) Run(ctx context.Context) {
	r.refetch()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refetch()
		}
	}
}

// refetch relit la file et les stats. Deux refetchs peuvent se croiser
// en vol : seule la réponse la plus récente est conservée.
func (r *Refresher) refetch() {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var ordersResp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := r.api.Get(ctx, "/api/v1/kitchen/orders", &ordersResp); err != nil {
		log.Printf("⚠️ Refetch file cuisine échoué: %v", err)
		return
	}

	var stats models.DashboardStats
	if err := r.api.Get(ctx, "/api/v1/reports/dashboard", &stats); err != nil {
		log.Printf("⚠️ Refetch stats échoué: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.seq {
		// Une réponse plus récente est déjà passée
		return
	}
	r.orders = ordersResp.Orders
	r.stats = stats
}

// Snapshot renvoie une copie de l'état courant
func (r *Refresher) Snapshot() ([]models.Order, models.DashboardStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders := append([]models.Order(nil), r.orders...)
	return orders, r.stats
}
