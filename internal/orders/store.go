package orders

import (
	"errors"
	"time"

	"mesob_back_end/internal/database"
	"mesob_back_end/internal/models"

	"github.com/gocql/gocql"
)

var ErrNotFound = errors.New("commande introuvable")

// FindByID lit une commande complète depuis ScyllaDB
func FindByID(orderID gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var o models.Order
	var itemsJSON string
	err = session.Query(`
		SELECT id, account_id, status, order_type, table_number, customer_name,
		       customer_phone, delivery_address, notes, items, sub_total, service_fee,
		       delivery_fee, tax, total_amount, payment_id, created_at, updated_at
		FROM orders WHERE id = ?`, orderID).Scan(
		&o.ID, &o.AccountID, &o.Status, &o.OrderType, &o.TableNumber, &o.CustomerName,
		&o.CustomerPhone, &o.DeliveryAddress, &o.Notes, &itemsJSON, &o.SubTotal,
		&o.ServiceFee, &o.DeliveryFee, &o.Tax, &o.TotalAmount, &o.PaymentID,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	o.Items = models.DecodeOrderItems(itemsJSON)
	return &o, nil
}

// Insert écrit la commande dans la table principale et la vue par compte
func Insert(o *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON := models.EncodeOrderItems(o.Items)

	if err := session.Query(`
		INSERT INTO orders (id, account_id, status, order_type, table_number,
			customer_name, customer_phone, delivery_address, notes, items, sub_total,
			service_fee, delivery_fee, tax, total_amount, payment_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.AccountID, o.Status, o.OrderType, o.TableNumber,
		o.CustomerName, o.CustomerPhone, o.DeliveryAddress, o.Notes, itemsJSON,
		o.SubTotal, o.ServiceFee, o.DeliveryFee, o.Tax, o.TotalAmount,
		o.PaymentID, o.CreatedAt, o.UpdatedAt).Exec(); err != nil {
		return err
	}

	if o.AccountID == "" {
		return nil
	}

	return session.Query(`
		INSERT INTO orders_by_account (account_id, id, status, order_type, table_number,
			items, sub_total, service_fee, delivery_fee, tax, total_amount, payment_id,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.AccountID, o.ID, o.Status, o.OrderType, o.TableNumber,
		itemsJSON, o.SubTotal, o.ServiceFee, o.DeliveryFee, o.Tax, o.TotalAmount,
		o.PaymentID, o.CreatedAt, o.UpdatedAt).Exec()
}

// SetStatus applique le nouveau statut dans les deux tables
func SetStatus(o *models.Order, status string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		status, now, o.ID).Exec(); err != nil {
		return err
	}

	if o.AccountID != "" {
		if err := session.Query(`
			UPDATE orders_by_account SET status = ?, updated_at = ?
			WHERE account_id = ? AND id = ?`,
			status, now, o.AccountID, o.ID).Exec(); err != nil {
			return err
		}
	}

	o.Status = status
	o.UpdatedAt = now
	return nil
}

// ListByStatus retourne les commandes d'un statut donné, pour la cuisine
func ListByStatus(status string, limit int) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT id, account_id, status, order_type, table_number, customer_name,
		       customer_phone, delivery_address, notes, items, sub_total, service_fee,
		       delivery_fee, tax, total_amount, payment_id, created_at, updated_at
		FROM orders_by_status WHERE status = ? LIMIT ?`, status, limit).Iter()

	return collect(iter)
}

// ListRecent parcourt les commandes les plus récentes toutes catégories
func ListRecent(limit int) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT id, account_id, status, order_type, table_number, customer_name,
		       customer_phone, delivery_address, notes, items, sub_total, service_fee,
		       delivery_fee, tax, total_amount, payment_id, created_at, updated_at
		FROM orders LIMIT ?`, limit).Iter()

	return collect(iter)
}

func collect(iter *gocql.Iter) ([]models.Order, error) {
	list := []models.Order{}
	var o models.Order
	var itemsJSON string
	for iter.Scan(&o.ID, &o.AccountID, &o.Status, &o.OrderType, &o.TableNumber,
		&o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress, &o.Notes, &itemsJSON,
		&o.SubTotal, &o.ServiceFee, &o.DeliveryFee, &o.Tax, &o.TotalAmount,
		&o.PaymentID, &o.CreatedAt, &o.UpdatedAt) {
		o.Items = models.DecodeOrderItems(itemsJSON)
		list = append(list, o)
		o = models.Order{}
		itemsJSON = ""
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return list, nil
}
