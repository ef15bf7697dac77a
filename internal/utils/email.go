package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

// SendLowStockAlert prévient par e-mail que le stock d'une variante est passé
// sous le seuil du produit. Best-effort : sans configuration SMTP l'envoi est
// simplement ignoré, et une erreur d'envoi est loggée puis avalée.
func SendLowStockAlert(productTitle, sku string, stockQty, threshold int) {
	host := os.Getenv("SMTP_HOST")
	to := os.Getenv("ALERT_EMAIL")
	if host == "" || to == "" {
		return
	}

	msg := mail.NewMsg()
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@papeterie.local"
	}
	if err := msg.From(from); err != nil {
		log.Printf("⚠️ Alerte stock: expéditeur invalide: %v", err)
		return
	}
	if err := msg.To(to); err != nil {
		log.Printf("⚠️ Alerte stock: destinataire invalide: %v", err)
		return
	}

	msg.Subject(fmt.Sprintf("⚠️ Stock faible : %s", productTitle))
	msg.SetBodyString(mail.TypeTextHTML, lowStockHTML(productTitle, sku, stockQty, threshold))

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		log.Printf("⚠️ Alerte stock: client SMTP: %v", err)
		return
	}

	log.Println("📤 Envoi de l'alerte stock à", to)
	if err := client.DialAndSend(msg); err != nil {
		log.Printf("⚠️ Alerte stock: envoi impossible: %v", err)
	}
}

func lowStockHTML(productTitle, sku string, stockQty, threshold int) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Alerte de stock faible</h2>
		<p>Le produit <strong>%s</strong> (SKU %s) est passé à <strong>%d</strong> unité(s),
		sous le seuil configuré de %d.</p>
		<p>Pensez à réapprovisionner depuis l'interface d'administration.</p>
	</div>
</body>
</html>`, productTitle, sku, stockQty, threshold)
}
