package menu

import (
	"net/http"
	"sort"
	"time"

	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListCategories renvoie les catégories de la carte, triées par position
func ListCategories(c *gin.Context) {
	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`SELECT id, name, description, position, created_at FROM menu_categories`).Iter()

	list := []models.MenuCategory{}
	var cat models.MenuCategory
	for iter.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Position, &cat.CreatedAt) {
		list = append(list, cat)
		cat = models.MenuCategory{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération catégories"})
		return
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })

	c.JSON(http.StatusOK, gin.H{"categories": list})
}

// CreateCategory ajoute une catégorie à la carte (manager uniquement)
func CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Position    int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom de catégorie requis"})
		return
	}

	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	cat := models.MenuCategory{
		ID:          gocql.TimeUUID(),
		Name:        input.Name,
		Description: input.Description,
		Position:    input.Position,
		CreatedAt:   time.Now(),
	}

	if err := session.Query(`
		INSERT INTO menu_categories (id, name, description, position, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Description, cat.Position, cat.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie"})
		return
	}

	utils.LogStaffAction(c, "create", "menu_category", cat.ID.String(), gin.H{"name": cat.Name})
	c.JSON(http.StatusCreated, gin.H{"message": "Catégorie créée", "category": cat})
}

// UpdateCategory modifie nom, description ou position
func UpdateCategory(c *gin.Context) {
	catID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Position    int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query(`
		UPDATE menu_categories SET name = ?, description = ?, position = ? WHERE id = ?`,
		input.Name, input.Description, input.Position, catID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour catégorie"})
		return
	}

	utils.LogStaffAction(c, "update", "menu_category", catID.String(), gin.H{"name": input.Name})
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie mise à jour"})
}

// DeleteCategory supprime une catégorie vide
func DeleteCategory(c *gin.Context) {
	catID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var count int
	if err := session.Query(`
		SELECT COUNT(*) FROM menu_items WHERE category_id = ? ALLOW FILTERING`, catID).Scan(&count); err == nil && count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "La catégorie contient encore des plats"})
		return
	}

	if err := session.Query(`DELETE FROM menu_categories WHERE id = ?`, catID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression catégorie"})
		return
	}

	utils.LogStaffAction(c, "delete", "menu_category", catID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}
