package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with a JSON error body.
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

const randomAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString returns n characters from an unambiguous upper-case alphabet.
func GenerateRandomString(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(randomAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("failed to read random bytes")
		}
		out[i] = randomAlphabet[idx.Int64()]
	}
	return string(out)
}
