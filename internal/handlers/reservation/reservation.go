package reservation

import (
	"net/http"
	"sort"
	"time"

	"mesob_back_end/internal/database"
	"mesob_back_end/internal/events"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

var validReservationStatus = map[string]bool{
	"pending": true, "confirmed": true, "seated": true,
	"completed": true, "cancelled": true, "no_show": true,
}

// ListReservations renvoie les réservations d'une date (défaut aujourd'hui)
func ListReservations(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`
		SELECT id, customer_name, customer_phone, party_size, date, time, table_number,
		       status, notes, created_at, updated_at
		FROM reservations_by_date WHERE date = ?`, date).Iter()

	list := []models.Reservation{}
	var r models.Reservation
	for iter.Scan(&r.ID, &r.CustomerName, &r.CustomerPhone, &r.PartySize, &r.Date, &r.Time,
		&r.TableNumber, &r.Status, &r.Notes, &r.CreatedAt, &r.UpdatedAt) {
		list = append(list, r)
		r = models.Reservation{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération réservations"})
		return
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Time < list[j].Time })

	c.JSON(http.StatusOK, gin.H{"reservations": list, "date": date, "count": len(list)})
}

// CreateReservation enregistre une demande de table
func CreateReservation(c *gin.Context) {
	var input struct {
		CustomerName  string `json:"customer_name" binding:"required"`
		CustomerPhone string `json:"customer_phone" binding:"required"`
		PartySize     int    `json:"party_size" binding:"required,min=1,max=30"`
		Date          string `json:"date" binding:"required"`
		Time          string `json:"time" binding:"required"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date invalide (format AAAA-MM-JJ)"})
		return
	}
	if _, err := time.Parse("15:04", input.Time); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Heure invalide (format HH:MM)"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	now := time.Now()
	r := models.Reservation{
		ID:            gocql.TimeUUID(),
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		PartySize:     input.PartySize,
		Date:          input.Date,
		Time:          input.Time,
		Status:        "pending",
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := session.Query(`
		INSERT INTO reservations_by_date (date, id, customer_name, customer_phone,
			party_size, time, table_number, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Date, r.ID, r.CustomerName, r.CustomerPhone, r.PartySize, r.Time,
		r.TableNumber, r.Status, r.Notes, r.CreatedAt, r.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création réservation"})
		return
	}

	events.Publish(events.KindReservationUpdate, r)
	c.JSON(http.StatusCreated, gin.H{"message": "Réservation enregistrée", "reservation": r})
}

// UpdateReservationStatus fait évoluer une réservation (confirmation,
// installation, no-show...) et assigne éventuellement une table
func UpdateReservationStatus(c *gin.Context) {
	resID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID réservation invalide"})
		return
	}

	var input struct {
		Date        string `json:"date" binding:"required"`
		Status      string `json:"status" binding:"required"`
		TableNumber int    `json:"table_number"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if !validReservationStatus[input.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query(`
		UPDATE reservations_by_date SET status = ?, table_number = ?, updated_at = ?
		WHERE date = ? AND id = ?`,
		input.Status, input.TableNumber, time.Now(), input.Date, resID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour réservation"})
		return
	}

	events.Publish(events.KindReservationUpdate, gin.H{
		"id":           resID.String(),
		"status":       input.Status,
		"table_number": input.TableNumber,
	})
	utils.LogStaffAction(c, "update_status", "reservation", resID.String(), gin.H{"status": input.Status})

	c.JSON(http.StatusOK, gin.H{"message": "Réservation mise à jour"})
}
