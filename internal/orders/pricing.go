package orders

import (
	"math"

	"mesob_back_end/internal/models"
)

// Barème fixe appliqué au checkout, en birrs
const (
	ServiceFee  = 10.0
	DeliveryFee = 50.0
	VATRate     = 0.15
)

type Totals struct {
	SubTotal    float64 `json:"sub_total"`
	ServiceFee  float64 `json:"service_fee"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// ComputeTotals calcule le montant final d'une commande :
// articles + frais de service + livraison éventuelle + 15% de TVA
func ComputeTotals(items []models.CartItem, delivery bool) Totals {
	sub := 0.0
	for _, it := range items {
		sub += it.Price * float64(it.Quantity)
	}

	t := Totals{
		SubTotal:   round2(sub),
		ServiceFee: ServiceFee,
	}
	if delivery {
		t.DeliveryFee = DeliveryFee
	}
	t.Tax = round2((t.SubTotal + t.ServiceFee + t.DeliveryFee) * VATRate)
	t.Total = round2(t.SubTotal + t.ServiceFee + t.DeliveryFee + t.Tax)
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
