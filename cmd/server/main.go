package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"mesob_back_end/internal/config"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/handlers"
	"mesob_back_end/internal/handlers/payement"
	"mesob_back_end/internal/routes"
	"mesob_back_end/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"github.com/stripe/stripe-go/v83"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY manquant — paiements carte désactivés")
	} else {
		log.Println("✅ Stripe initialisé")
	}

	database.ConnectDatabases()
	database.InitPreparedStatements()
	warmupRedisCache()

	initOAuthProviders()
	handlers.InitProviders()

	// Hub WebSocket branché sur le canal d'événements Redis
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := ws.NewHub()
	go hub.Run(ctx)

	webhooks := payement.NewWebhookHandlers()

	r := gin.Default()
	r.Use(cors.New(corsConfig()))
	routes.RegisterRoutes(r, hub, webhooks)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Mesob lancé sur le port", port)
	r.Run(":" + port)
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.AllowOrigins = []string{origins}
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "Idempotency-Key")
	return cfg
}

func initOAuthProviders() {
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Println("⚠️ SESSION_SECRET manquant — OAuth désactivé")
		return
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}

	gothic.Store = store

	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		if provider := req.FormValue("provider"); provider != "" {
			return provider, nil
		}
		return "", errors.New("provider not found")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	var providers []goth.Provider

	if id, secret := os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"); id != "" && secret != "" {
		providers = append(providers, google.New(id, secret, baseURL+"/api/auth/google/callback"))
		log.Println("✅ Google OAuth activé")
	}

	if id, secret := os.Getenv("FACEBOOK_CLIENT_ID"), os.Getenv("FACEBOOK_CLIENT_SECRET"); id != "" && secret != "" {
		providers = append(providers, facebook.New(id, secret, baseURL+"/api/auth/facebook/callback"))
		log.Println("✅ Facebook OAuth activé")
	}

	if len(providers) == 0 {
		log.Println("⚠️ Aucun provider OAuth configuré")
		return
	}

	goth.UseProviders(providers...)
	log.Printf("✅ %d OAuth provider(s) initialisé(s)", len(providers))
}

// warmupRedisCache établit la connexion avant la première requête
func warmupRedisCache() {
	if err := database.Redis.Ping(context.Background()).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
