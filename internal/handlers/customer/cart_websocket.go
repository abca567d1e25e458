package customer

import (
	"context"
	"log"
	"net/http"
	"time"

	"mesob_back_end/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var cartUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CartWebSocket pousse le panier à chaque modification. Le client
// s'abonne sur /ws/cart avec son token ; chaque publication Redis sur
// cart:<account> déclenche un renvoi de l'état complet.
func CartWebSocket(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	conn, err := cartUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("❌ Erreur upgrade WebSocket panier:", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := database.Redis.Subscribe(ctx, cartKey(accountID))
	defer pubsub.Close()

	// Etat initial à la connexion
	if items, err := loadCart(ctx, accountID); err == nil {
		conn.WriteJSON(cartResponse(items))
	}

	// Draine les messages entrants pour détecter la fermeture
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			items, err := loadCart(ctx, accountID)
			if err != nil {
				continue
			}
			if err := conn.WriteJSON(cartResponse(items)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
