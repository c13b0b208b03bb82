package dispatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/dispatch"
)

// TestNormalizeLocation: tildes, mayúsculas y espacios no deben cambiar la clave.
func TestNormalizeLocation(t *testing.T) {
	cases := map[string]string{
		"Bogotá":             "bogota",
		"  MEDELLÍN  ":       "medellin",
		"San  José   Centro": "san jose centro",
		"cúcuta norte":       "cucuta norte",
		"":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, dispatch.NormalizeLocation(in), "normalización de %q", in)
	}
}

// TestLotKeyFor_VariantesMismaClave: la misma visita escrita distinto debe
// producir la misma clave de lote.
func TestLotKeyFor_VariantesMismaClave(t *testing.T) {
	date := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	k1 := dispatch.LotKeyFor(date, "Bogotá Chapinero", "tech-1")
	k2 := dispatch.LotKeyFor(date, "  bogota   CHAPINERO ", "tech-1")
	assert.Equal(t, k1, k2)
	assert.Equal(t, "2025-03-10", k1.ServiceDate)
	assert.Equal(t, "bogota chapinero", k1.Location)
}

// TestLotKeyFor_ComponentesDistintos: cambiar fecha, ubicación o técnico
// produce claves distintas.
func TestLotKeyFor_ComponentesDistintos(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	base := dispatch.LotKeyFor(date, "Cali", "tech-1")

	assert.NotEqual(t, base, dispatch.LotKeyFor(date.AddDate(0, 0, 1), "Cali", "tech-1"))
	assert.NotEqual(t, base, dispatch.LotKeyFor(date, "Palmira", "tech-1"))
	assert.NotEqual(t, base, dispatch.LotKeyFor(date, "Cali", "tech-2"))
}
