package table

import (
	"net/http"
	"os"
	"sort"
	"time"

	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

var validStates = map[string]bool{"free": true, "occupied": true, "reserved": true}

const sessionTTL = 4 * time.Hour

func publicBaseURL() string {
	if base := os.Getenv("PUBLIC_BASE_URL"); base != "" {
		return base
	}
	return "https://mesob.et"
}

// ListTables renvoie le plan de salle trié par numéro
func ListTables(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`
		SELECT id, number, seats, state, waiter_id, created_at, updated_at FROM tables`).Iter()

	list := []models.Table{}
	var t models.Table
	for iter.Scan(&t.ID, &t.Number, &t.Seats, &t.State, &t.WaiterID, &t.CreatedAt, &t.UpdatedAt) {
		list = append(list, t)
		t = models.Table{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération tables"})
		return
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })

	c.JSON(http.StatusOK, gin.H{"tables": list, "count": len(list)})
}

// CreateTable ajoute une table au plan de salle
func CreateTable(c *gin.Context) {
	var input struct {
		Number int `json:"number" binding:"required,min=1"`
		Seats  int `json:"seats" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Numéro et places requis"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	now := time.Now()
	t := models.Table{
		ID:        gocql.TimeUUID(),
		Number:    input.Number,
		Seats:     input.Seats,
		State:     "free",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := session.Query(`
		INSERT INTO tables (id, number, seats, state, waiter_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Number, t.Seats, t.State, t.WaiterID, t.CreatedAt, t.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création table"})
		return
	}

	utils.LogStaffAction(c, "create", "table", t.ID.String(), gin.H{"number": t.Number})
	c.JSON(http.StatusCreated, gin.H{"message": "Table créée", "table": t})
}

// SetTableState change l'état d'une table et assigne un serveur
func SetTableState(c *gin.Context) {
	tableID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID table invalide"})
		return
	}

	var input struct {
		State    string `json:"state" binding:"required"`
		WaiterID string `json:"waiter_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if !validStates[input.State] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "État inconnu"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query(`
		UPDATE tables SET state = ?, waiter_id = ?, updated_at = ? WHERE id = ?`,
		input.State, input.WaiterID, time.Now(), tableID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour table"})
		return
	}

	utils.LogStaffAction(c, "set_state", "table", tableID.String(), gin.H{"state": input.State})
	c.JSON(http.StatusOK, gin.H{"message": "Table mise à jour", "state": input.State})
}

// AssignWaiter affecte un serveur à une table sans toucher à son état
func AssignWaiter(c *gin.Context) {
	tableID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID table invalide"})
		return
	}

	var input struct {
		WaiterID string `json:"waiter_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID serveur requis"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query(`
		UPDATE tables SET waiter_id = ?, updated_at = ? WHERE id = ?`,
		input.WaiterID, time.Now(), tableID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur affectation serveur"})
		return
	}

	utils.LogStaffAction(c, "assign_waiter", "table", tableID.String(), gin.H{"waiter_id": input.WaiterID})
	c.JSON(http.StatusOK, gin.H{"message": "Serveur affecté", "waiter_id": input.WaiterID})
}

// TableQRCode génère le QR code imprimé sur la table, qui pointe vers
// la carte avec le numéro de table pré-rempli
func TableQRCode(c *gin.Context) {
	tableID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID table invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var number int
	if err := session.Query(`SELECT number FROM tables WHERE id = ?`, tableID).Scan(&number); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table introuvable"})
		return
	}

	url := publicBaseURL() + "/t/" + tableID.String()
	png, err := qrcode.Encode(url, qrcode.Medium, 512)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR code"})
		return
	}

	c.Header("Content-Disposition", `inline; filename="table-qr.png"`)
	c.Data(http.StatusOK, "image/png", png)
}

// ScanTable ouvre une session de table après scan du QR code : le
// client reçoit l'URL de la carte avec le numéro de table attaché
func ScanTable(c *gin.Context) {
	tableID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID table invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var number int
	if err := session.Query(`SELECT number FROM tables WHERE id = ?`, tableID).Scan(&number); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table introuvable"})
		return
	}

	ts := models.TableSession{
		ID:          uuid.NewString(),
		TableID:     tableID.String(),
		TableNumber: number,
		MenuURL:     publicBaseURL() + "/menu?table=" + tableID.String(),
		CreatedAt:   time.Now(),
	}

	if err := session.Query(`
		INSERT INTO table_sessions (id, table_id, table_number, created_at)
		VALUES (?, ?, ?, ?) USING TTL ?`,
		ts.ID, ts.TableID, ts.TableNumber, ts.CreatedAt, int(sessionTTL.Seconds())).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ouverture session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": ts})
}
