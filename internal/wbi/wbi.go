// Package wbi implements the platform's WBI request-signing scheme:
// every signed call carries a wts timestamp and a w_rid digest computed
// over the sorted, specially-encoded query parameters plus a mixing key
// derived from two rotating key fragments.
package wbi

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// mixinKeyEncTab is the public permutation applied to the concatenated
// key fragments to derive the 32-character mixing key.
var mixinKeyEncTab = [64]int{
	46, 47, 18, 2, 53, 8, 23, 32, 15, 50, 10, 31, 58, 3, 45, 35, 27, 43, 5, 49,
	33, 9, 42, 19, 29, 28, 14, 39, 12, 38, 41, 13, 37, 48, 7, 16, 24, 55, 40, 61,
	26, 17, 0, 1, 60, 51, 30, 4, 22, 25, 54, 21, 56, 59, 6, 63, 57, 62, 11, 36,
	20, 34, 44, 52,
}

// Keys are the two rotating key fragments, img first, sub second.
type Keys struct {
	Img string
	Sub string
}

// Param is one query parameter. Signing works on an ordered pair list
// because the w_rid entry must stay last after the lexicographic sort.
type Param struct {
	Key   string
	Value string
}

// MixinKey derives the 32-character mixing key from the concatenated
// fragments via the permutation table.
func MixinKey(keys Keys) string {
	orig := keys.Img + keys.Sub
	var b strings.Builder
	b.Grow(32)
	for _, i := range mixinKeyEncTab[:32] {
		b.WriteByte(orig[i])
	}
	return b.String()
}

// encodeComponent percent-encodes a parameter key or value the way the
// platform's signer expects: ASCII alphanumerics and -_.~ pass through,
// the characters !'()* are dropped entirely, everything else is encoded
// byte-wise as uppercase %XX.
func encodeComponent(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		case c == '!', c == '\'', c == '(', c == ')', c == '*':
			// stripped, not escaped
		default:
			b.WriteString("%")
			b.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
		}
	}
	return b.String()
}

// Sign augments params with wts=<timestamp>, sorts the pairs by key and
// appends the w_rid digest. The returned slice is ready to serialize as
// a query string; the input slice is not modified.
func Sign(params []Param, keys Keys, timestamp int64) []Param {
	signed := make([]Param, len(params), len(params)+2)
	copy(signed, params)
	signed = append(signed, Param{"wts", strconv.FormatInt(timestamp, 10)})
	sort.Slice(signed, func(i, j int) bool {
		return signed[i].Key < signed[j].Key
	})
	var query strings.Builder
	for i, p := range signed {
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(encodeComponent(p.Key))
		query.WriteByte('=')
		query.WriteString(encodeComponent(p.Value))
	}
	query.WriteString(MixinKey(keys))
	sum := md5.Sum([]byte(query.String()))
	return append(signed, Param{"w_rid", hex.EncodeToString(sum[:])})
}

// EncodeQuery serializes a signed pair list as a raw query string,
// preserving pair order.
func EncodeQuery(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(encodeComponent(p.Key))
		b.WriteByte('=')
		b.WriteString(encodeComponent(p.Value))
	}
	return b.String()
}
