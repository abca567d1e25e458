package menu

import (
	"log"
	"net/http"
	"time"

	"mesob_back_end/internal/cache"
	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/service"
	"mesob_back_end/internal/services"
	"mesob_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// ListItems renvoie la carte, filtrable par catégorie. Les clients ne
// voient que les plats disponibles, le staff voit tout.
func ListItems(c *gin.Context) {
	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	query := `SELECT id, category_id, name, description, price, image_url, tags,
	          available, created_at, updated_at FROM menu_items`
	var iter *gocql.Iter
	if cat := c.Query("category_id"); cat != "" {
		catID, err := gocql.ParseUUID(cat)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
			return
		}
		iter = session.Query(query+` WHERE category_id = ? ALLOW FILTERING`, catID).Iter()
	} else {
		iter = session.Query(query).Iter()
	}

	staffView := c.GetString("role") != "" && c.GetString("role") != "customer"

	list := []models.MenuItem{}
	var item models.MenuItem
	for iter.Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price,
		&item.ImageURL, &item.Tags, &item.Available, &item.CreatedAt, &item.UpdatedAt) {
		if item.Available || staffView {
			list = append(list, item)
		}
		item = models.MenuItem{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération carte"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

// GetItem récupère un plat (cache Redis, repli ScyllaDB)
func GetItem(c *gin.Context) {
	item, err := cache.GetMenuItemFromCache(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}
	c.JSON(http.StatusOK, item)
}

type itemInput struct {
	CategoryID  string   `json:"category_id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Tags        []string `json:"tags"`
	Available   *bool    `json:"available"`
}

// CreateItem ajoute un plat à la carte et l'indexe pour la recherche
func CreateItem(c *gin.Context) {
	var input itemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	catID, err := gocql.ParseUUID(input.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	now := time.Now()
	item := models.MenuItem{
		ID:          gocql.TimeUUID(),
		CategoryID:  catID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Tags:        input.Tags,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Available != nil {
		item.Available = *input.Available
	}

	if err := session.Query(`
		INSERT INTO menu_items (id, category_id, name, description, price, image_url,
			tags, available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.CategoryID, item.Name, item.Description, item.Price, item.ImageURL,
		item.Tags, item.Available, item.CreatedAt, item.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création plat"})
		return
	}

	go service.IndexMenuItem(item)
	utils.LogStaffAction(c, "create", "menu_item", item.ID.String(), gin.H{"name": item.Name})

	c.JSON(http.StatusCreated, gin.H{"message": "Plat ajouté à la carte", "item": item})
}

// UpdateItem modifie un plat et rafraîchit cache et index
func UpdateItem(c *gin.Context) {
	itemID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID plat invalide"})
		return
	}

	var input itemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	catID, err := gocql.ParseUUID(input.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	item, err := cache.GetMenuItemFromCache(itemID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plat introuvable"})
		return
	}

	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	item.CategoryID = catID
	item.Name = input.Name
	item.Description = input.Description
	item.Price = input.Price
	item.Tags = input.Tags
	if input.Available != nil {
		item.Available = *input.Available
	}
	item.UpdatedAt = time.Now()

	if err := session.Query(`
		UPDATE menu_items SET category_id = ?, name = ?, description = ?, price = ?,
			tags = ?, available = ?, updated_at = ? WHERE id = ?`,
		item.CategoryID, item.Name, item.Description, item.Price,
		item.Tags, item.Available, item.UpdatedAt, item.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour plat"})
		return
	}

	cache.InvalidateMenuItemCache(item.ID.String())
	go service.IndexMenuItem(*item)
	utils.LogStaffAction(c, "update", "menu_item", item.ID.String(), gin.H{"name": item.Name})

	c.JSON(http.StatusOK, gin.H{"message": "Plat mis à jour", "item": item})
}

// SetAvailability bascule la disponibilité d'un plat (rupture en cuisine)
func SetAvailability(c *gin.Context) {
	itemID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID plat invalide"})
		return
	}

	var input struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ available requis"})
		return
	}

	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query(`
		UPDATE menu_items SET available = ?, updated_at = ? WHERE id = ?`,
		*input.Available, time.Now(), itemID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour disponibilité"})
		return
	}

	cache.InvalidateMenuItemCache(itemID.String())
	utils.LogStaffAction(c, "set_availability", "menu_item", itemID.String(), gin.H{"available": *input.Available})

	c.JSON(http.StatusOK, gin.H{"message": "Disponibilité mise à jour", "available": *input.Available})
}

// DeleteItem retire un plat de la carte
func DeleteItem(c *gin.Context) {
	itemID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID plat invalide"})
		return
	}

	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query(`DELETE FROM menu_items WHERE id = ?`, itemID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression plat"})
		return
	}

	cache.InvalidateMenuItemCache(itemID.String())
	go service.RemoveMenuItemFromIndex(itemID.String())
	utils.LogStaffAction(c, "delete", "menu_item", itemID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Plat supprimé"})
}

// UploadItemImage attache une photo à un plat via MinIO
func UploadItemImage(c *gin.Context) {
	itemID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID plat invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier image requis"})
		return
	}

	url, err := services.UploadMenuImage(file)
	if err != nil {
		log.Println("❌ Erreur upload MinIO:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur stockage image"})
		return
	}

	session, err := database.GetMenuSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query(`
		UPDATE menu_items SET image_url = ?, updated_at = ? WHERE id = ?`,
		url, time.Now(), itemID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement image"})
		return
	}

	cache.InvalidateMenuItemCache(itemID.String())
	c.JSON(http.StatusOK, gin.H{"message": "Image enregistrée", "image_url": url})
}

// SearchItems interroge Elasticsearch en plein texte
func SearchItems(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q requis"})
		return
	}

	results, err := service.SearchMenuItems(query)
	if err != nil {
		log.Println("❌ Erreur recherche Elastic:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recherche indisponible"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
