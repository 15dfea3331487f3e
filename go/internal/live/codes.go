package live

import "crypto/rand"

const (
	// CodeLength is the fixed length of a session code.
	CodeLength = 8

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// codeRetries bounds how many codes Create will try before
	// giving up with ErrCodeExhausted.
	codeRetries = 5
)

// CodeGenerator produces candidate session codes. Injectable so tests can
// force collisions.
type CodeGenerator func() string

// randomCode returns a CodeLength string of uppercase letters and digits.
func randomCode() string {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
