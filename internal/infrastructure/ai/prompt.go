package ai

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Inventario-hotel/internal/application/ports"
)

// analysisSystemPrompt rol y formato del informe, común a todos los proveedores.
const analysisSystemPrompt = `Eres un experto en gestión de inventarios hoteleros.
Analiza el inventario y los movimientos recientes que te envían y redacta un informe ejecutivo breve en Markdown, en español, con exactamente estas secciones:

## Alertas críticas
Artículos agotados o por debajo de su stock mínimo, del más urgente al menos urgente.

## Recomendaciones de reposición
Qué pedir y en qué cantidad aproximada, justificándolo con el stock mínimo y el consumo reciente.

## Observaciones de uso
Patrones en las entradas y salidas recientes.

## Consejo de optimización
Un único consejo accionable.

No inventes artículos que no estén en los datos. Responde solo con el informe.`

// buildAnalysisPrompt serializa el inventario y los movimientos como texto tabular.
func buildAnalysisPrompt(snap ports.InventorySnapshot) string {
	var b strings.Builder
	b.WriteString("Inventario (nombre | cantidad | mínimo | unidad | categoría):\n")
	for _, it := range snap.Items {
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n",
			it.Name, it.Quantity.String(), it.MinStockLevel.String(), nonEmpty(it.Unit, "-"), nonEmpty(it.Category, "-"))
	}
	if len(snap.Recent) == 0 {
		b.WriteString("\nSin movimientos recientes.\n")
		return b.String()
	}
	b.WriteString("\nÚltimos movimientos (fecha | tipo | artículo | cantidad | usuario):\n")
	for _, tx := range snap.Recent {
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n",
			tx.Timestamp.Format("2006-01-02 15:04"), tx.Type, tx.ItemName, tx.Quantity.String(), nonEmpty(tx.User, "-"))
	}
	return b.String()
}

// stripFences quita un bloque ```markdown ... ``` que envuelva toda la respuesta.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.IndexByte(text, '\n'); nl != -1 {
		text = text[nl+1:]
	} else {
		return ""
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
