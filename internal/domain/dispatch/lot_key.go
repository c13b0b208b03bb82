package dispatch

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LotKey identifica el lote (fecha, ubicación normalizada, técnico) que decide
// la posición "principal" vs "adicional" del pago, independiente del lote de envío.
type LotKey struct {
	ServiceDate  string // formato 2006-01-02
	Location     string // ya normalizada
	TechnicianID string
}

// locationFolder quita marcas diacríticas (NFD + borrar categoría Mn).
var locationFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeLocation reduce la ubicación a su forma canónica: sin tildes,
// minúsculas, espacios colapsados. Es la ÚNICA función de normalización;
// tanto el lote por envío como la evaluación de línea individual deben pasar
// por aquí para que ambos caminos calculen la misma clave.
func NormalizeLocation(location string) string {
	folded, _, err := transform.String(locationFolder, location)
	if err != nil {
		folded = location
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// LotKeyFor construye la clave de lote para una fecha, ubicación y técnico.
func LotKeyFor(serviceDate time.Time, location, technicianID string) LotKey {
	return LotKey{
		ServiceDate:  serviceDate.Format("2006-01-02"),
		Location:     NormalizeLocation(location),
		TechnicianID: technicianID,
	}
}
