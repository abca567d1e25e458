package payement

import (
	"log"

	"mesob_back_end/internal/handlers/account"
	"mesob_back_end/internal/models"
	"mesob_back_end/internal/orders"

	"github.com/gocql/gocql"
)

// findAndConfirm passe une commande pending en confirmed. Renvoie nil
// sans erreur si la commande n'est plus dans un état confirmable.
func findAndConfirm(orderID gocql.UUID) (*models.Order, error) {
	order, err := orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if !orders.CanTransition(order.Status, orders.StatusConfirmed) {
		return nil, nil
	}
	if err := orders.SetStatus(order, orders.StatusConfirmed); err != nil {
		return nil, err
	}

	// Points de fidélité : 1 point par tranche de 10 Br
	go func(o models.Order) {
		if err := account.EarnLoyaltyPoints(o.AccountID, o.ID.String(), o.TotalAmount); err != nil {
			log.Println("⚠️ Crédit points fidélité échoué:", err)
		}
	}(*order)

	return order, nil
}
