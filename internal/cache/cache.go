package cache

import (
	"context"
	"encoding/json"
	"time"

	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const (
	MenuItemCacheTTL = 10 * time.Minute
	AccountCacheTTL  = 5 * time.Minute
)

// GetMenuItemFromCache récupère un article de la carte depuis Redis,
// avec repli sur ScyllaDB et remise en cache
func GetMenuItemFromCache(itemID string) (*models.MenuItem, error) {
	ctx := context.Background()
	key := "menu_item:" + itemID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var item models.MenuItem
		if json.Unmarshal([]byte(data), &item) == nil {
			return &item, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetMenuSession()
	if err != nil {
		return nil, err
	}

	iid, err := uuid.Parse(itemID)
	if err != nil {
		return nil, err
	}

	var item models.MenuItem
	item.ID = gocql.UUID(iid)
	err = session.Query(`SELECT category_id, name, description, price, image_url, tags, available
		FROM menu_items WHERE item_id = ?`, gocql.UUID(iid)).Scan(
		&item.CategoryID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.Tags, &item.Available)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(item)
	database.Redis.Set(ctx, key, jsonData, MenuItemCacheTTL)

	return &item, nil
}

// InvalidateMenuItemCache invalide le cache d'un article
func InvalidateMenuItemCache(itemID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "menu_item:"+itemID)
}

// GetAccountFromCache récupère un compte client, Redis d'abord
func GetAccountFromCache(accountID string) (*models.Account, error) {
	ctx := context.Background()
	key := "account:" + accountID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var acc models.Account
		if json.Unmarshal([]byte(data), &acc) == nil {
			return &acc, nil
		}
	}

	session, err := database.GetAccountsSession()
	if err != nil {
		return nil, err
	}

	aid, err := uuid.Parse(accountID)
	if err != nil {
		return nil, err
	}

	acc := models.Account{ID: accountID}
	err = session.Query(`SELECT phone_number, name, email, balance, loyalty_points, created_at, updated_at
		FROM accounts WHERE account_id = ?`, gocql.UUID(aid)).Scan(
		&acc.PhoneNumber, &acc.Name, &acc.Email, &acc.Balance, &acc.LoyaltyPoints, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	jsonData, _ := json.Marshal(acc)
	database.Redis.Set(ctx, key, jsonData, AccountCacheTTL)

	return &acc, nil
}

// InvalidateAccountCache invalide le cache d'un compte
func InvalidateAccountCache(accountID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "account:"+accountID)
}
