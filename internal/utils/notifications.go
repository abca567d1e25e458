package utils

import (
	"fmt"

	"mesob_back_end/internal/models"
)

// SendOrderStatusEmail prévient le client d'un changement de statut
func SendOrderStatusEmail(order models.Order, email, newStatus string) error {
	subject := statusEmailSubject(newStatus)
	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>%s</h2>
	<p>Commande <strong>%s</strong> — %s</p>
	<p>%s</p>
</body>
</html>`, subject, order.ID.String(), order.CustomerName, statusMessage(newStatus))

	return SendConfirmationEmail(email, subject, html, nil)
}

func statusEmailSubject(status string) string {
	switch status {
	case "confirmed":
		return "Commande confirmée ✅"
	case "preparing":
		return "Votre commande est en cuisine 👨‍🍳"
	case "ready":
		return "Votre commande est prête 🛎"
	case "delivered":
		return "Commande livrée 🎉"
	case "cancelled":
		return "Commande annulée"
	default:
		return "Mise à jour de votre commande"
	}
}

func statusMessage(status string) string {
	switch status {
	case "confirmed":
		return "Nous avons bien reçu votre commande, la cuisine s'en occupe très vite."
	case "preparing":
		return "Nos cuisiniers préparent vos plats en ce moment."
	case "ready":
		return "Votre commande vous attend, bon appétit !"
	case "delivered":
		return "Merci pour votre visite, à bientôt chez Mesob."
	case "cancelled":
		return "Votre commande a été annulée. Contactez-nous si ce n'était pas prévu."
	default:
		return "Le statut de votre commande a changé."
	}
}
