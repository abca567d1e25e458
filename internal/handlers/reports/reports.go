package reports

import (
	"net/http"
	"strconv"
	"time"

	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/orders"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats agrège les chiffres du jour pour le tableau de
// bord : chiffre d'affaires, commandes, équipe active, réservations,
// avec la variation par rapport à la veille.
func GetDashboardStats(c *gin.Context) {
	today := time.Now().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	todayRevenue, todayOrders, err := dailyTotals(today, today.AddDate(0, 0, 1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur agrégation commandes"})
		return
	}
	yRevenue, yOrders, _ := dailyTotals(yesterday, today)

	stats := models.DashboardStats{
		TotalRevenue:  todayRevenue,
		OrdersToday:   todayOrders,
		RevenueChange: percentChange(yRevenue, todayRevenue),
		OrdersChange:  percentChange(float64(yOrders), float64(todayOrders)),
	}

	if session, err := database.GetAccountsSession(); err == nil {
		session.Query(`SELECT COUNT(*) FROM staff WHERE is_active = true ALLOW FILTERING`).
			Scan(&stats.ActiveStaff)
	}
	if session, err := database.GetOrdersSession(); err == nil {
		session.Query(`SELECT COUNT(*) FROM reservations_by_date WHERE date = ?`,
			today.Format("2006-01-02")).Scan(&stats.ReservationsToday)
	}

	c.JSON(http.StatusOK, stats)
}

// dailyTotals somme les commandes livrées et en cours d'une journée,
// les annulées exclues
func dailyTotals(from, to time.Time) (float64, int, error) {
	list, err := orders.ListRecent(1000)
	if err != nil {
		return 0, 0, err
	}

	var revenue float64
	var count int
	for _, o := range list {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		if o.Status == orders.StatusCancelled {
			continue
		}
		revenue += o.TotalAmount
		count++
	}
	return revenue, count, nil
}

func percentChange(previous, current float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

// GetSalesReport renvoie la série journalière commandes / CA sur N jours
func GetSalesReport(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 90 {
			days = n
		}
	}

	list, err := orders.ListRecent(5000)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur agrégation ventes"})
		return
	}

	start := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))
	byDay := map[string]*models.SalesPoint{}
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		byDay[date] = &models.SalesPoint{Date: date}
	}

	for _, o := range list {
		if o.Status == orders.StatusCancelled {
			continue
		}
		point, ok := byDay[o.CreatedAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		point.Orders++
		point.Revenue += o.TotalAmount
	}

	series := make([]models.SalesPoint, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, *byDay[date])
	}

	c.JSON(http.StatusOK, gin.H{"sales": series, "days": days})
}
