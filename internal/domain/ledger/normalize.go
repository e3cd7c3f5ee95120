package ledger

import (
	"strings"

	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// NormalizeName clave de comparación de nombres: recorta, colapsa espacios, aplica
// NFKC (ancho completo de teclados CJK) y case folding.
func NormalizeName(name string) string {
	s := norm.NFKC.String(name)
	s = strings.Join(strings.Fields(s), " ")
	return folder.String(s)
}

// FindByName primer artículo cuyo nombre normalizado coincide exactamente.
func FindByName(items []entity.InventoryItem, name string) (entity.InventoryItem, bool) {
	key := NormalizeName(name)
	for _, it := range items {
		if NormalizeName(it.Name) == key {
			return it, true
		}
	}
	return entity.InventoryItem{}, false
}

// SearchByName artículos cuyo nombre normalizado contiene el texto buscado.
// Un texto vacío devuelve todos.
func SearchByName(items []entity.InventoryItem, text string) []entity.InventoryItem {
	key := NormalizeName(text)
	out := make([]entity.InventoryItem, 0)
	for _, it := range items {
		if key == "" || strings.Contains(NormalizeName(it.Name), key) {
			out = append(out, it)
		}
	}
	return out
}
