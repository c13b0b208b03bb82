// Package money centraliza la aritmética monetaria del núcleo.
//
// Regla: los valores viajan como decimal.Decimal con precisión intermedia
// ilimitada; el redondeo a 2 decimales (mitad hacia arriba) ocurre solo en
// las fronteras de serialización (persistencia, presentación). Nunca float.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
)

// Parse convierte un string decimal a valor monetario exacto.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: "amount", Reason: fmt.Sprintf("monto no parseable: %q", s)}
	}
	return d, nil
}

// MustParse es Parse con panic; para constantes de test y seeds.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Format serializa a la forma canónica de 2 decimales, redondeo mitad hacia
// arriba (StringFixed redondea mitad lejos de cero; equivalente para los
// montos no negativos que produce este núcleo).
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// CheckRoundTrip verifica que serializar y re-parsear el valor sea identidad,
// es decir que el valor ya esté expresado en ≤2 decimales al llegar a una
// frontera de persistencia. Una violación es un bug de lógica, no una
// condición de runtime: retorna ErrArithmeticInvariant.
func CheckRoundTrip(d decimal.Decimal) error {
	back, err := decimal.NewFromString(Format(d))
	if err != nil {
		return fmt.Errorf("%w: re-parse de %q", domain.ErrArithmeticInvariant, Format(d))
	}
	if !back.Equal(d) {
		return fmt.Errorf("%w: %s pierde precisión al serializar como %s", domain.ErrArithmeticInvariant, d.String(), Format(d))
	}
	return nil
}
