package cart

import "mesob_back_end/internal/models"

// Opérations pures sur le contenu d'un panier. Les handlers gèrent
// Redis et le pub/sub, ici on ne touche qu'à la liste d'articles.
// Invariant : aucune entrée avec une quantité ≤ 0 n'est conservée.

// Add incrémente la quantité si l'article est déjà présent, sinon l'ajoute
func Add(items []models.CartItem, item models.CartItem) []models.CartItem {
	if item.Quantity <= 0 {
		return items
	}
	for i := range items {
		if items[i].ItemID == item.ItemID {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

// Remove supprime un article du panier
func Remove(items []models.CartItem, itemID string) ([]models.CartItem, bool) {
	out := items[:0]
	found := false
	for _, it := range items {
		if it.ItemID == itemID {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}

// SetQuantity fixe la quantité d'un article ; ≤ 0 équivaut à une suppression
func SetQuantity(items []models.CartItem, itemID string, qty int) ([]models.CartItem, bool) {
	out := items[:0]
	found := false
	for _, it := range items {
		if it.ItemID == itemID {
			found = true
			if qty <= 0 {
				continue
			}
			it.Quantity = qty
		}
		out = append(out, it)
	}
	return out, found
}

// Total calcule le montant du panier (hors frais et TVA)
func Total(items []models.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Count est la somme des quantités, pas le nombre de lignes
func Count(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
