package ledger

import "github.com/jhoicas/Inventario-hotel/internal/domain/entity"

// VisibleItems une la capa transitoria (artículos recién creados) con la colección
// autoritativa. Si un id está en ambas gana la capa. Se conserva el orden autoritativo
// y los artículos solo presentes en la capa van al final.
func VisibleItems(overlay, authoritative []entity.InventoryItem) []entity.InventoryItem {
	byID := make(map[string]entity.InventoryItem, len(overlay))
	for _, it := range overlay {
		byID[it.ID] = it
	}
	out := make([]entity.InventoryItem, 0, len(authoritative)+len(overlay))
	used := make(map[string]struct{}, len(overlay))
	for _, it := range authoritative {
		if o, ok := byID[it.ID]; ok {
			out = append(out, o)
			used[it.ID] = struct{}{}
			continue
		}
		out = append(out, it)
	}
	for _, it := range overlay {
		if _, ok := used[it.ID]; ok {
			continue
		}
		used[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// MergeOverlay inserta o reemplaza item en la capa transitoria.
func MergeOverlay(overlay []entity.InventoryItem, item entity.InventoryItem) []entity.InventoryItem {
	for i := range overlay {
		if overlay[i].ID == item.ID {
			overlay[i] = item
			return overlay
		}
	}
	return append(overlay, item)
}
