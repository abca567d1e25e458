package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes chaudes (menu public, file cuisine)
	stmtGetMenuItem       *gocql.Query
	stmtListMenuItems     *gocql.Query
	stmtGetAccountByPhone *gocql.Query
	stmtUpdateOrderStatus *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		menuSession, err := GetMenuSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
			return
		}

		// La fiche article, lue à chaque ajout au panier
		stmtGetMenuItem = menuSession.Query(`SELECT item_id, category_id, name, description, price, image_url, tags, available
			FROM menu_items WHERE item_id = ?`)

		// La carte entière, affichée sur chaque page publique
		stmtListMenuItems = menuSession.Query(`SELECT item_id, category_id, name, description, price, image_url, tags, available
			FROM menu_items`)

		if accountsSession, err := GetAccountsSession(); err == nil {
			stmtGetAccountByPhone = accountsSession.Query("SELECT account_id FROM accounts_by_phone WHERE phone_number = ?")
		}

		if ordersSession, err := GetOrdersSession(); err == nil {
			stmtUpdateOrderStatus = ordersSession.Query("UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?")
		}

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedGetMenuItem() *gocql.Query {
	return stmtGetMenuItem
}

func GetPreparedListMenuItems() *gocql.Query {
	return stmtListMenuItems
}

func GetPreparedGetAccountByPhone() *gocql.Query {
	return stmtGetAccountByPhone
}

func GetPreparedUpdateOrderStatus() *gocql.Query {
	return stmtUpdateOrderStatus
}
