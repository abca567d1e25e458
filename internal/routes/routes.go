package routes

import (
	"mesob_back_end/internal/handlers"
	"mesob_back_end/internal/handlers/account"
	adminh "mesob_back_end/internal/handlers/admin"
	"mesob_back_end/internal/handlers/customer"
	"mesob_back_end/internal/handlers/kitchen"
	"mesob_back_end/internal/handlers/menu"
	"mesob_back_end/internal/handlers/order"
	"mesob_back_end/internal/handlers/payement"
	"mesob_back_end/internal/handlers/reports"
	"mesob_back_end/internal/handlers/reservation"
	"mesob_back_end/internal/handlers/staff"
	"mesob_back_end/internal/handlers/table"
	"mesob_back_end/internal/middleware"
	"mesob_back_end/internal/ws"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, hub *ws.Hub, webhooks *payement.WebhookHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Webhooks paiement : pas d'auth JWT, la signature HMAC fait foi
	r.POST("/api/webhook/chapa", webhooks.ChapaWebhook)
	r.POST("/api/webhook/telebirr", webhooks.TelebirrWebhook)
	r.POST("/api/webhook/stripe", payement.StripeWebhook)

	// OAuth dashboard
	r.GET("/api/auth/:provider", handlers.BeginAuth)
	r.GET("/api/auth/:provider/callback", handlers.CallbackAuth)

	api := r.Group("/api/v1")
	api.Use(middleware.APIRateLimit())

	// Authentification
	auth := api.Group("/auth")
	{
		auth.POST("/request-otp", middleware.OTPRateLimit(), handlers.RequestOTP)
		auth.POST("/verify-otp", handlers.VerifyOTP)
		auth.POST("/staff/signin", middleware.SigninRateLimit(), handlers.StaffSignin)
		auth.POST("/refresh", handlers.RefreshToken)
		auth.POST("/logout", middleware.AuthRequired(), handlers.Logout)
	}

	// Carte : lecture publique, recherche incluse
	api.GET("/menu/categories", menu.ListCategories)
	api.GET("/menu/items", menu.ListItems)
	api.GET("/menu/items/:id", menu.GetItem)
	api.GET("/menu/search", menu.SearchItems)

	// Tables : le scan du QR code est public
	api.GET("/tables/:id/scan", table.ScanTable)

	// Réservations : création publique, gestion côté staff
	api.POST("/reservations", reservation.CreateReservation)

	// Newsletter
	api.POST("/newsletter/subscribe", handlers.SubscribeNewsletter)

	// Espace client
	client := api.Group("")
	client.Use(middleware.AuthRequired())
	{
		cart := client.Group("/cart")
		{
			cart.GET("", customer.GetCart)
			cart.GET("/sync", customer.SyncCart)
			cart.POST("/add", middleware.CartRateLimit(), customer.AddToCart)
			cart.PUT("/:itemId", customer.UpdateCartQuantity)
			cart.DELETE("/:itemId", customer.RemoveFromCart)
			cart.DELETE("", customer.ClearCart)
		}

		client.POST("/checkout", payement.Checkout)

		client.GET("/orders/mine", customer.GetMyOrders)
		client.GET("/orders/mine/:id", customer.GetMyOrder)
		client.POST("/orders/mine/:id/reorder", customer.Reorder)
		client.GET("/orders/:id/eta", order.GetETA)

		client.GET("/payments/:id", payement.GetPayment)
		client.GET("/payments/:id/status", payement.GetPaymentStatus)
		client.GET("/payments/:id/wait", payement.WaitForPayment)
		client.POST("/payments/telebirr", payement.CreateTelebirrOrder)

		client.GET("/account", account.GetMyAccount)
		client.PUT("/account", account.UpdateMyAccount)
		client.GET("/account/loyalty", account.GetLoyaltyHistory)
		client.POST("/account/loyalty/redeem", account.RedeemLoyaltyPoints)
	}

	// Espace staff
	staffAPI := api.Group("")
	staffAPI.Use(middleware.AuthRequired(), middleware.RequireStaff())
	{
		staffAPI.GET("/orders", order.ListOrders)
		staffAPI.GET("/orders/:id", order.GetOrder)
		staffAPI.PATCH("/orders/:id/status", order.UpdateStatus)
		staffAPI.POST("/orders/:id/cancel", order.CancelOrder)
		staffAPI.POST("/orders/:id/sync", order.SyncOrder)
		staffAPI.POST("/orders/:id/split", order.SplitOrder)
		staffAPI.POST("/orders/:id/merge", order.MergeOrders)

		staffAPI.GET("/kitchen/orders", kitchen.ListActiveOrders)
		staffAPI.POST("/kitchen/orders/:id/preparing", kitchen.StartPreparing)
		staffAPI.POST("/kitchen/orders/:id/ready", kitchen.MarkReady)
		staffAPI.POST("/kitchen/orders/:id/delivered", kitchen.MarkDelivered)

		staffAPI.POST("/payments/:id/paid", middleware.RequireStaff("manager", "cashier"), payement.MarkPaid)
		staffAPI.POST("/payments/:id/tip", payement.AddTip)
		staffAPI.POST("/payments/:id/refund", middleware.RequireStaff("manager"), payement.Refund)

		staffAPI.GET("/reservations", reservation.ListReservations)
		staffAPI.PATCH("/reservations/:id/status", reservation.UpdateReservationStatus)

		staffAPI.GET("/tables", table.ListTables)
		staffAPI.POST("/tables", middleware.RequireManager, table.CreateTable)
		staffAPI.PATCH("/tables/:id/state", table.SetTableState)
		staffAPI.POST("/tables/:id/assign-waiter", table.AssignWaiter)
		staffAPI.GET("/tables/:id/qr", table.TableQRCode)

		// La cuisine peut signaler une rupture sans passer par un manager
		staffAPI.PATCH("/menu/items/:id/availability", menu.SetAvailability)

		staffAPI.GET("/reports/dashboard", reports.GetDashboardStats)
		staffAPI.GET("/reports/sales", reports.GetSalesReport)
	}

	// Gestion de la carte et de l'équipe : manager uniquement
	admin := api.Group("")
	admin.Use(middleware.AuthRequired(), middleware.RequireManager)
	{
		admin.POST("/menu/categories", menu.CreateCategory)
		admin.PUT("/menu/categories/:id", menu.UpdateCategory)
		admin.DELETE("/menu/categories/:id", menu.DeleteCategory)

		admin.POST("/menu/items", menu.CreateItem)
		admin.PUT("/menu/items/:id", menu.UpdateItem)
		admin.DELETE("/menu/items/:id", menu.DeleteItem)
		admin.POST("/menu/items/:id/image", menu.UploadItemImage)

		admin.GET("/audit-logs", adminh.GetAuditLogs)

		admin.GET("/staff", staff.ListStaff)
		admin.POST("/staff", staff.CreateStaff)
		admin.PUT("/staff/:id", staff.UpdateStaff)
		admin.POST("/staff/:id/deactivate", staff.DeactivateStaff)
	}

	// Temps réel
	r.GET("/ws", middleware.AuthRequired(), hub.ServeWS)
	r.GET("/ws/orders", middleware.AuthRequired(), hub.ServeOrderWS)
	r.GET("/ws/cart", middleware.AuthRequired(), customer.CartWebSocket)
}
