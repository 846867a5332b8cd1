package receipt

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/ldtnet/pdv-api/pkg/cnpj"
)

// WhatsAppLink arma el enlace wa.me con el cupom como texto. El teléfono se
// normaliza a dígitos y se antepone el código de país 55.
func WhatsAppLink(phone, text string) string {
	q := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/55" + cnpj.Digits(phone) + "?text=" + q
}

// EncodeCP850 convierte el cupom a la página de códigos de las impresoras térmicas (CP850).
// Los caracteres sin representación se reemplazan.
func EncodeCP850(text string) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(charmap.CodePage850.NewEncoder())
	out, err := enc.String(text)
	if err != nil {
		return nil, fmt.Errorf("codificar cupom CP850: %w", err)
	}
	return []byte(out), nil
}
