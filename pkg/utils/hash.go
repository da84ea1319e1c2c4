package utils

import (
	"crypto/md5"
	"fmt"
)

// HashString produces a stable cache key; md5 is fine for non-adversarial use.
func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}
