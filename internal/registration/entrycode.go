package registration

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	codeAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	timeDigits    = 6
	randomSuffix  = 4
	codeSuffixLen = timeDigits + randomSuffix
)

// CodeGenerator mints entry codes of the form
// <prefix><last 6 digits of epoch millis><4 random base36 chars>.
// Codes are not checked against storage and are not guaranteed unique.
type CodeGenerator struct {
	Now  func() time.Time
	IntN func(n int) int
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{Now: time.Now, IntN: rand.IntN}
}

func (g *CodeGenerator) Generate(prefix string) string {
	millis := strconv.FormatInt(g.Now().UnixMilli(), 10)
	if len(millis) < timeDigits {
		millis = "000000"[:timeDigits-len(millis)] + millis
	}

	buf := make([]byte, 0, len(prefix)+codeSuffixLen)
	buf = append(buf, prefix...)
	buf = append(buf, millis[len(millis)-timeDigits:]...)
	for i := 0; i < randomSuffix; i++ {
		buf = append(buf, codeAlphabet[g.IntN(len(codeAlphabet))])
	}
	return string(buf)
}

// GenerateEntryCode uses the wall clock and the process-wide random source.
func GenerateEntryCode(prefix string) string {
	return NewCodeGenerator().Generate(prefix)
}
