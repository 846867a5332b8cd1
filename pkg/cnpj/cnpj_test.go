package cnpj_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ldtnet/pdv-api/pkg/cnpj"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"06.270.840/0001-50", "06270840000150"},
		{"06270840000150", "06270840000150"},
		{" 06 270 840 0001 50 ", "06270840000150"},
		{"06.270.840/0001-5099", "06270840000150"},
		{"abc", ""},
		{"11.222", "11222"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cnpj.Normalize(tc.in), "entrada %q", tc.in)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, cnpj.IsValid("06.270.840/0001-50"))
	assert.True(t, cnpj.IsValid("11222333000181"))
	assert.True(t, cnpj.IsValid("33.000.167/0001-01"))

	assert.False(t, cnpj.IsValid("11222333000182"), "dígito verificador incorrecto")
	assert.False(t, cnpj.IsValid("00000000000000"), "secuencia repetida")
	assert.False(t, cnpj.IsValid("1122233300018"), "13 dígitos")
}

func TestIsComplete(t *testing.T) {
	assert.True(t, cnpj.IsComplete("11.222.333/0001-81"))
	assert.False(t, cnpj.IsComplete("11.222.333/0001-8"))
}

func TestFormat_Progresivo(t *testing.T) {
	assert.Equal(t, "06.270.840/0001-50", cnpj.Format("06270840000150"))
	assert.Equal(t, "06.270.840/0001-50", cnpj.Format("06.270.840/0001-50"))
	assert.Equal(t, "06.27", cnpj.Format("0627"))
	assert.Equal(t, "06.270.840/0", cnpj.Format("062708400"))
	assert.Equal(t, "", cnpj.Format(""))
}

func TestRoot(t *testing.T) {
	assert.Equal(t, "06270840", cnpj.Root("06.270.840/0001-50"))
	assert.Equal(t, "1234", cnpj.Root("1234"))
}

func TestFormatCEP(t *testing.T) {
	assert.Equal(t, "59020-265", cnpj.FormatCEP("59020265"))
	assert.Equal(t, "59020-265", cnpj.FormatCEP("59020-2659"))
	assert.Equal(t, "5902", cnpj.FormatCEP("5902"))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(84) 3222-1234", cnpj.FormatPhone("8432221234"))
	assert.Equal(t, "(84) 99876-5432", cnpj.FormatPhone("84998765432"))
	assert.Equal(t, "849", cnpj.FormatPhone("(84) 9"))
}

func TestNormalizeUF(t *testing.T) {
	assert.Equal(t, "RN", cnpj.NormalizeUF("rn"))
	assert.Equal(t, "SA", cnpj.NormalizeUF(" sao paulo"), "trunca a dos letras")
	assert.Equal(t, "", cnpj.NormalizeUF("12"))
}
