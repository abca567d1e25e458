package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mesob_back_end/internal/apiclient"
	"mesob_back_end/internal/config"
	"mesob_back_end/internal/dashboard"
	"mesob_back_end/internal/events"
	"mesob_back_end/internal/orders"
	"mesob_back_end/internal/wsclient"
)

// kds est l'écran cuisine en mode terminal : il suit le flux
// d'événements WebSocket du serveur et affiche la file des commandes.
func main() {
	config.Load()

	baseURL := flag.String("server", envOr("KDS_SERVER_URL", "http://localhost:8080"), "URL du serveur")
	refresh := flag.Duration("refresh", 30*time.Second, "intervalle de rafraîchissement complet")
	flag.Parse()

	token := os.Getenv("KDS_STAFF_TOKEN")
	if token == "" {
		log.Fatal("❌ KDS_STAFF_TOKEN manquant")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := apiclient.New(*baseURL, token)
	wsURL := strings.Replace(*baseURL, "http", "ws", 1) + "/ws"
	ws := wsclient.New(wsURL, token)

	refresher := dashboard.NewRefresher(api, *refresh)
	refresher.Bind(ws)

	if err := ws.Connect(ctx); err != nil {
		log.Println("⚠️ Connexion WebSocket différée:", err)
	}
	defer ws.Close()

	go refresher.Run(ctx)

	// Redessine l'écran à chaque événement commande
	redraw := make(chan struct{}, 1)
	unsubscribe := ws.On(events.KindOrderUpdate, func(env events.Envelope) {
		select {
		case redraw <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sig:
			log.Println("👋 Arrêt de l'écran cuisine")
			return
		case <-redraw:
			render(refresher)
		case <-ticker.C:
			render(refresher)
		}
	}
}

func render(r *dashboard.Refresher) {
	list, stats := r.Snapshot()

	fmt.Print("\033[H\033[2J") // clear
	fmt.Printf("=== MESOB CUISINE — %s ===\n", time.Now().Format("15:04:05"))
	fmt.Printf("CA du jour: %.2f Br | Commandes: %d | Réservations: %d\n\n",
		stats.TotalRevenue, stats.OrdersToday, stats.ReservationsToday)

	if len(list) == 0 {
		fmt.Println("Aucune commande en cours 🎉")
		return
	}

	for _, o := range list {
		if !orders.IsActive(o.Status) {
			continue
		}
		fmt.Printf("[%-9s] #%s  table %d  %d article(s)  %.2f Br  (~%d min)\n",
			strings.ToUpper(o.Status), o.ID.String()[:8], o.TableNumber,
			len(o.Items), o.TotalAmount, orders.ETAMinutes(o.Status))
		for _, it := range o.Items {
			note := ""
			if it.Notes != "" {
				note = " — " + it.Notes
			}
			fmt.Printf("    %dx %s%s\n", it.Quantity, it.Name, note)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
