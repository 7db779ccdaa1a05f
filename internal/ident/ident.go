// Package ident generates prefixed identifiers that combine a millisecond
// timestamp with a random token, e.g. "cart_1718000000000_3f9a1c2b7".
package ident

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// tokenLen is the number of random hex characters appended to an identifier.
const tokenLen = 9

// New returns "<prefix>_<unix millis>_<token>".
func New(prefix string, now time.Time) string {
	var b strings.Builder
	b.Grow(len(prefix) + 1 + 13 + 1 + tokenLen)
	b.WriteString(prefix)
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('_')
	b.WriteString(Token())
	return b.String()
}

// Token returns a short random hex token.
func Token() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:tokenLen]
}
