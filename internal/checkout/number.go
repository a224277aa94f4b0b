package checkout

import (
	"crypto/rand"
	"math/big"
)

// Alphabet without look-alike characters (0/O, 1/I/L).
const orderNumberAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// OrderNumberLength is the random portion of an order number.
const OrderNumberLength = 10

// NewOrderNumber generates an unguessable order number of the form
// <prefix><10 random alphanumerics>. Uniqueness is enforced by the
// database; callers regenerate on a unique-constraint conflict.
func NewOrderNumber(prefix string) (string, error) {
	buf := make([]byte, OrderNumberLength)
	max := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = orderNumberAlphabet[n.Int64()]
	}
	return prefix + string(buf), nil
}
