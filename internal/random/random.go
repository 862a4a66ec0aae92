package random

import (
	"crypto/rand"
	"math/big"

	"github.com/myrjola/reaksi/internal/errors"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns n cryptographically random ASCII letters.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	upperBound := big.NewInt(int64(len(allowedLetters)))
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, upperBound)
		if err != nil {
			return "", errors.Wrap(err, "random int")
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}
