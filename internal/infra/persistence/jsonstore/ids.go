package jsonstore

import (
	"math/big"
	"strings"
	"unicode"
)

// Id prefixes per collection. Users carry bare numbers.
const (
	ProductIDPrefix      = "p"
	OrderIDPrefix        = "o"
	SubscriptionIDPrefix = "s"
	TransactionIDPrefix  = "t"
	DeliveryIDPrefix     = "d"
)

// NextID returns one more than the largest numeric value found in ids, as a
// decimal string without prefix. Non-digit characters are stripped before
// parsing, so "p3" counts as 3. Values are not bounded by any integer width.
// An empty list yields "1". Ids with no usable number are returned in skipped
// so callers can log them.
func NextID(ids []string) (next string, skipped []string) {
	highest := new(big.Int)
	n := new(big.Int)
	for _, id := range ids {
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) && r <= unicode.MaxASCII {
				return r
			}

			return -1
		}, id)

		if _, ok := n.SetString(digits, 10); !ok {
			skipped = append(skipped, id)
			continue
		}
		if n.Cmp(highest) > 0 {
			highest.Set(n)
		}
	}

	return highest.Add(highest, big.NewInt(1)).String(), skipped
}
