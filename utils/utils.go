package utils

import (
	"fmt"
	"github.com/twmb/murmur3"
)

func HashBytes(bytes ...[]byte) uint64 {
	hash := murmur3.New64()
	for _, b := range bytes {
		_, err := hash.Write(b)
		if err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}

// Fingerprint computes a stable identity for a source document so that
// re-deliveries of the same bytes can be recognized downstream.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", HashBytes(data))
}

func RecoverWithError(err *error) {
	if rv := recover(); rv != nil {
		*err = fmt.Errorf("got panic: %v", rv)
	}
}
