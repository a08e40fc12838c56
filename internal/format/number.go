package format

import (
	"fmt"
	"math/big"
	"strings"
)

// HexDisplayEdges is the number of hex digits kept on each side of a
// truncated value.
const HexDisplayEdges = 40

// FormatNumberString inserts thousand separators into a decimal string with
// an optional leading minus sign.
func FormatNumberString(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	b.Grow(n + n/3 + 1)
	if neg {
		b.WriteByte('-')
	}
	head := n % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatHex returns x in hexadecimal with a 0x prefix. When full is false
// and the value has more than 2*HexDisplayEdges digits, the middle is
// replaced by an ellipsis and the number of elided digits.
func FormatHex(x *big.Int, full bool) string {
	if x == nil {
		return "<nil>"
	}
	sign := ""
	if x.Sign() < 0 {
		sign = "-"
	}
	digits := new(big.Int).Abs(x).Text(16)
	if full || len(digits) <= 2*HexDisplayEdges {
		return sign + "0x" + digits
	}
	hidden := len(digits) - 2*HexDisplayEdges
	return fmt.Sprintf("%s0x%s…(%d digits)…%s", sign, digits[:HexDisplayEdges], hidden, digits[len(digits)-HexDisplayEdges:])
}

// FormatLimbs describes the size of x as "<limbs> limbs (<bits> bits)".
func FormatLimbs(x *big.Int) string {
	if x == nil {
		return "0 limbs (0 bits)"
	}
	return fmt.Sprintf("%s limbs (%s bits)",
		FormatNumberString(fmt.Sprint(len(x.Bits()))),
		FormatNumberString(fmt.Sprint(x.BitLen())))
}
