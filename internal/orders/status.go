package orders

// Statuts du cycle de vie d'une commande. Les transitions sont
// validées côté serveur : le client observe, il ne décide jamais.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

var validNext = map[string]map[string]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing: {StatusReady: true},
	StatusReady:     {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition indique si le passage from → to est autorisé
func CanTransition(from, to string) bool {
	return validNext[from][to]
}

// IsTerminal indique si une commande ne bougera plus
func IsTerminal(status string) bool {
	return len(validNext[status]) == 0
}

// IsActive : commande encore dans le flux cuisine
func IsActive(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady:
		return true
	}
	return false
}

// ETAMinutes donne l'estimation d'attente restante selon le statut
func ETAMinutes(status string) int {
	switch status {
	case StatusPending:
		return 30
	case StatusConfirmed:
		return 25
	case StatusPreparing:
		return 15
	case StatusReady:
		return 5
	default:
		return 0
	}
}
