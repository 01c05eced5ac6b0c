package nidlogin

import (
	"crypto/rsa"
	"encoding/hex"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// maxComponentLen is the longest component a one character length
// prefix can describe
const maxComponentLen = 255

// credentialPayload builds the plaintext for encpw: each component is
// prefixed with the character whose code point is its length in
// characters, then the whole string is UTF-8 encoded.
func credentialPayload(components ...string) ([]byte, error) {
	var out strings.Builder
	for _, k := range components {
		n := utf8.RuneCountInString(k)
		if n > maxComponentLen {
			return nil, &CryptoError{Op: "build payload", Err: errors.Errorf("component of %d characters is longer than %d", n, maxComponentLen)}
		}
		out.WriteRune(rune(n))
		out.WriteString(k)
	}
	return []byte(out.String()), nil
}

// encryptCredentials returns the hex RSA PKCS#1 v1.5 ciphertext of the
// session key, id and secret
func encryptCredentials(random io.Reader, pub *rsa.PublicKey, sessionKey, id, secret string) (string, error) {
	payload, err := credentialPayload(sessionKey, id, secret)
	if err != nil {
		return "", err
	}
	ciphertext, err := rsa.EncryptPKCS1v15(random, pub, payload)
	if err != nil {
		return "", &CryptoError{Op: "encrypt", Err: err}
	}
	return hex.EncodeToString(ciphertext), nil
}
