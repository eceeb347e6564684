package utils

import (
	"math/rand"
)

const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateShortID returns a random public identifier of the given length,
// used for the qid/aid fields exposed by the API.
func GenerateShortID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = shortIDAlphabet[rand.Intn(len(shortIDAlphabet))]
	}
	return string(b)
}
