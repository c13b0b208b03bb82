package money_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/fieldservice-pro/internal/domain"
	"github.com/tu-usuario/fieldservice-pro/internal/domain/money"
)

// TestRoundTrip_Identidad: serializar y re-parsear cualquier valor de ≤2
// decimales debe devolver exactamente el valor original.
func TestRoundTrip_Identidad(t *testing.T) {
	for _, s := range []string{"0.00", "0.01", "0.10", "1.00", "19.99", "120.00", "99999999.99", "0.05"} {
		d, err := money.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, money.Format(d), "round-trip debe ser identidad para %s", s)
	}
}

// TestSumaSinDeriva: sumar 1.000 valores de 0.10 debe dar exactamente 100.00.
// Con float binario esta suma deriva; con decimal es exacta.
func TestSumaSinDeriva(t *testing.T) {
	dime := money.MustParse("0.10")
	total := decimal.Zero
	for i := 0; i < 1000; i++ {
		total = total.Add(dime)
	}
	assert.Equal(t, "100.00", money.Format(total))
	assert.True(t, total.Equal(money.MustParse("100.00")))
}

// TestFormat_RedondeoMitadArriba: el redondeo a 2 decimales es mitad hacia arriba.
func TestFormat_RedondeoMitadArriba(t *testing.T) {
	cases := map[string]string{
		"1.005":  "1.01",
		"1.004":  "1.00",
		"2.675":  "2.68",
		"10.999": "11.00",
	}
	for in, want := range cases {
		d := money.MustParse(in)
		assert.Equal(t, want, money.Format(d), "redondeo de %s", in)
	}
}

// TestParse_Invalido: entrada no numérica produce ValidationError.
func TestParse_Invalido(t *testing.T) {
	_, err := money.Parse("no-es-dinero")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "amount", vErr.Field)
}

// TestCheckRoundTrip: un valor con más de 2 decimales en una frontera de
// persistencia es un bug de lógica y debe señalar ErrArithmeticInvariant.
func TestCheckRoundTrip(t *testing.T) {
	require.NoError(t, money.CheckRoundTrip(money.MustParse("42.50")))

	tercio := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	err := money.CheckRoundTrip(tercio)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrArithmeticInvariant)
}
