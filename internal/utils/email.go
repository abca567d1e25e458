package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"mesob_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendConfirmationEmail envoie un e-mail HTML, avec reçu PDF en pièce
// jointe si fourni
func SendConfirmationEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@mesob.et"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("recu_mesob.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande
func GenerateOrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f Br</td>
				<td>%.2f Br</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Merci pour votre commande, %s !</h2>
	<p>Votre commande <strong>%s</strong> est confirmée.</p>
	<table border="0" cellpadding="6" style="border-collapse: collapse; width: 100%%;">
		<tr style="background: #f4f4f4;">
			<th align="left">Article</th><th align="left">Qté</th><th align="left">Prix</th><th align="left">Total</th>
		</tr>
		%s
	</table>
	<p>Sous-total : %.2f Br<br>
	Frais de service : %.2f Br<br>
	Livraison : %.2f Br<br>
	TVA : %.2f Br<br>
	<strong>Total : %.2f Br</strong></p>
	<p>À très bientôt chez Mesob 🍽</p>
</body>
</html>`, order.CustomerName, order.ID.String(), itemsHTML,
		order.SubTotal, order.ServiceFee, order.DeliveryFee, order.Tax, order.TotalAmount)
}
