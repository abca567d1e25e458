package payments

import (
	"context"
	"errors"
	"log"
	"time"
)

// Statuts de paiement
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// ErrDeadline : le paiement est resté en attente trop longtemps.
// Le sondage s'arrête toujours, jamais de boucle infinie.
var ErrDeadline = errors.New("paiement toujours en attente après le délai maximum")

// IsTerminal indique si un statut de paiement ne changera plus
func IsTerminal(status string) bool {
	switch status {
	case StatusPaid, StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// IsSuccessful : le paiement a abouti
func IsSuccessful(status string) bool {
	return status == StatusPaid || status == StatusCompleted
}

// StatusFetcher relit le statut courant d'un paiement
type StatusFetcher func(ctx context.Context, paymentID string) (string, error)

// WaitForTerminal sonde le statut à intervalle fixe jusqu'à un statut
// terminal, l'échéance ou l'annulation du contexte. Une erreur de
// lecture ponctuelle n'interrompt pas le sondage.
func WaitForTerminal(ctx context.Context, paymentID string, fetch StatusFetcher, interval, deadline time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := fetch(ctx, paymentID)
		if err != nil {
			log.Printf("⚠️ Sondage paiement %s: %v", paymentID, err)
		} else if IsTerminal(status) {
			return status, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return StatusPending, ErrDeadline
			}
			return StatusPending, ctx.Err()
		case <-ticker.C:
		}
	}
}
