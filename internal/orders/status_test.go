package orders

import (
	"testing"

	"mesob_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// Chemin nominal
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusConfirmed, StatusPreparing))
	assert.True(t, CanTransition(StatusPreparing, StatusReady))
	assert.True(t, CanTransition(StatusReady, StatusDelivered))

	// Annulation possible uniquement avant la préparation
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusConfirmed, StatusCancelled))
	assert.False(t, CanTransition(StatusPreparing, StatusCancelled))
	assert.False(t, CanTransition(StatusReady, StatusCancelled))

	// Pas de retour en arrière ni de saut
	assert.False(t, CanTransition(StatusReady, StatusPreparing))
	assert.False(t, CanTransition(StatusPending, StatusReady))
	assert.False(t, CanTransition(StatusDelivered, StatusPending))

	// Statut inconnu : tout est refusé
	assert.False(t, CanTransition("n_importe_quoi", StatusConfirmed))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusDelivered))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusReady))
}

func TestComputeTotals(t *testing.T) {
	items := []models.CartItem{
		{ItemID: "p1", Price: 10, Quantity: 2},
	}

	// Sur place : 20 + 10 de service, TVA 15% sur 30
	got := ComputeTotals(items, false)
	assert.InDelta(t, 20.0, got.SubTotal, 0.001)
	assert.InDelta(t, 10.0, got.ServiceFee, 0.001)
	assert.Zero(t, got.DeliveryFee)
	assert.InDelta(t, 4.5, got.Tax, 0.001)
	assert.InDelta(t, 34.5, got.Total, 0.001)

	// Livraison : +50 de frais, TVA sur 80
	got = ComputeTotals(items, true)
	assert.InDelta(t, 50.0, got.DeliveryFee, 0.001)
	assert.InDelta(t, 12.0, got.Tax, 0.001)
	assert.InDelta(t, 92.0, got.Total, 0.001)
}
