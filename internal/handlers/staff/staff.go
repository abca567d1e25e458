package staff

import (
	"log"
	"net/http"
	"time"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/events"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

var validRoles = map[string]bool{
	"manager": true, "waiter": true, "chef": true, "cashier": true, "host": true,
}

// ListStaff renvoie l'équipe du restaurant
func ListStaff(c *gin.Context) {
	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`
		SELECT id, name, email, phone, role, shift_start, shift_end, is_active,
		       created_at, updated_at FROM staff`).Iter()

	list := []models.Staff{}
	var s models.Staff
	for iter.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Role, &s.ShiftStart,
		&s.ShiftEnd, &s.IsActive, &s.CreatedAt, &s.UpdatedAt) {
		list = append(list, s)
		s = models.Staff{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération équipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": list, "count": len(list)})
}

// CreateStaff embauche un membre (manager uniquement)
func CreateStaff(c *gin.Context) {
	var input struct {
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Phone      string `json:"phone"`
		Role       string `json:"role" binding:"required"`
		Password   string `json:"password" binding:"required,min=8"`
		ShiftStart string `json:"shift_start"`
		ShiftEnd   string `json:"shift_end"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if !validRoles[input.Role] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle inconnu"})
		return
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	// Unicité de l'e-mail
	var existing string
	if err := session.Query(`SELECT email FROM staff_by_email WHERE email = ?`,
		input.Email).Scan(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte existe déjà avec cet e-mail"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur hachage mot de passe"})
		return
	}

	now := time.Now()
	s := models.Staff{
		ID:         gocql.TimeUUID(),
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Role:       input.Role,
		Password:   hash,
		ShiftStart: input.ShiftStart,
		ShiftEnd:   input.ShiftEnd,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := insertStaff(session, &s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création membre"})
		return
	}

	events.Publish(events.KindStaffUpdate, gin.H{"id": s.ID.String(), "action": "created"})
	utils.LogStaffAction(c, "create", "staff", s.ID.String(), gin.H{"role": s.Role})
	log.Printf("👥 Membre ajouté : %s (%s)", s.Name, s.Role)

	c.JSON(http.StatusCreated, gin.H{"message": "Membre ajouté", "staff": s})
}

func insertStaff(session *gocql.Session, s *models.Staff) error {
	if err := session.Query(`
		INSERT INTO staff (id, name, email, phone, role, password, shift_start,
			shift_end, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Email, s.Phone, s.Role, s.Password, s.ShiftStart,
		s.ShiftEnd, s.IsActive, s.CreatedAt, s.UpdatedAt).Exec(); err != nil {
		return err
	}
	return session.Query(`
		INSERT INTO staff_by_email (email, id, name, phone, role, password,
			is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Email, s.ID, s.Name, s.Phone, s.Role, s.Password,
		s.IsActive, s.CreatedAt, s.UpdatedAt).Exec()
}

// UpdateStaff modifie rôle, horaires ou statut actif
func UpdateStaff(c *gin.Context) {
	staffID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID membre invalide"})
		return
	}

	var input struct {
		Name       string `json:"name"`
		Phone      string `json:"phone"`
		Role       string `json:"role"`
		ShiftStart string `json:"shift_start"`
		ShiftEnd   string `json:"shift_end"`
		IsActive   *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Role != "" && !validRoles[input.Role] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle inconnu"})
		return
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var s models.Staff
	if err := session.Query(`
		SELECT id, name, email, phone, role, password, shift_start, shift_end,
		       is_active, created_at, updated_at FROM staff WHERE id = ?`, staffID).Scan(
		&s.ID, &s.Name, &s.Email, &s.Phone, &s.Role, &s.Password, &s.ShiftStart,
		&s.ShiftEnd, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membre introuvable"})
		return
	}

	if input.Name != "" {
		s.Name = input.Name
	}
	if input.Phone != "" {
		s.Phone = input.Phone
	}
	if input.Role != "" {
		s.Role = input.Role
	}
	if input.ShiftStart != "" {
		s.ShiftStart = input.ShiftStart
	}
	if input.ShiftEnd != "" {
		s.ShiftEnd = input.ShiftEnd
	}
	if input.IsActive != nil {
		s.IsActive = *input.IsActive
	}
	s.UpdatedAt = time.Now()

	if err := insertStaff(session, &s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour membre"})
		return
	}

	cache.InvalidateAuthCache(s.Email)
	events.Publish(events.KindStaffUpdate, gin.H{"id": s.ID.String(), "action": "updated"})
	utils.LogStaffAction(c, "update", "staff", s.ID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Membre mis à jour", "staff": s})
}

// DeactivateStaff coupe l'accès d'un membre sans effacer son historique
func DeactivateStaff(c *gin.Context) {
	staffID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID membre invalide"})
		return
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var email string
	if err := session.Query(`SELECT email FROM staff WHERE id = ?`, staffID).Scan(&email); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membre introuvable"})
		return
	}

	now := time.Now()
	if err := session.Query(`UPDATE staff SET is_active = false, updated_at = ? WHERE id = ?`,
		now, staffID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désactivation"})
		return
	}
	session.Query(`UPDATE staff_by_email SET is_active = false, updated_at = ? WHERE email = ?`,
		now, email).Exec()

	cache.InvalidateAuthCache(email)
	cache.DeleteRefreshToken(staffID.String())
	events.Publish(events.KindStaffUpdate, gin.H{"id": staffID.String(), "action": "deactivated"})
	utils.LogStaffAction(c, "deactivate", "staff", staffID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Membre désactivé"})
}
