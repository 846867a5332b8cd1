package licensing

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ldtnet/pdv-api/pkg/cnpj"
)

const (
	keyPrefix     = "LDT-NET"
	keyAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	keySuffixSize = 6
)

// KeyGenerator genera claves de activación LDT-NET-<8 dígitos>-<ms base36>-<6 aleatorios>.
// Rand nil usa crypto/rand.
type KeyGenerator struct {
	Rand io.Reader
}

// Generate construye la clave para el identificador (CNPJ o id interno de la empresa).
func (g KeyGenerator) Generate(identifier string, now time.Time) (string, error) {
	r := g.Rand
	if r == nil {
		r = rand.Reader
	}
	suffix := make([]byte, keySuffixSize)
	alphabetLen := big.NewInt(int64(len(keyAlphabet)))
	for i := range suffix {
		n, err := rand.Int(r, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generar sufijo aleatorio: %w", err)
		}
		suffix[i] = keyAlphabet[n.Int64()]
	}
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	return fmt.Sprintf("%s-%s-%s-%s", keyPrefix, identifierPrefix(identifier), ts, suffix), nil
}

// identifierPrefix toma la raíz del CNPJ (8 primeros dígitos); si el identificador tiene
// menos de 8 dígitos (ej. un UUID poco numérico) usa los 8 primeros alfanuméricos en mayúsculas.
func identifierPrefix(identifier string) string {
	if root := cnpj.Root(identifier); len(root) == 8 {
		return root
	}
	var alnum strings.Builder
	for _, r := range identifier {
		if r > unicode.MaxASCII || alnum.Len() == 8 {
			continue
		}
		if unicode.IsDigit(r) || unicode.IsLetter(r) {
			alnum.WriteRune(unicode.ToUpper(r))
		}
	}
	return alnum.String()
}
