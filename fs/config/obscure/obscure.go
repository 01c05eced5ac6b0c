// Package obscure hides passwords and session cookies stored in the
// config file from casual inspection.
//
// This is obfuscation, not encryption: the key is compiled in.
package obscure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log"
	"sync"

	"github.com/pkg/errors"
)

var (
	cryptKey = []byte{
		0x4e, 0x49, 0x44, 0x2d, 0x6d, 0x79, 0x62, 0x6f,
		0x78, 0x2f, 0x8a, 0x13, 0xd7, 0x5c, 0x21, 0xe0,
		0x37, 0xb4, 0x6f, 0x90, 0x0c, 0xa1, 0x5e, 0xf2,
		0x68, 0x3d, 0xc9, 0x02, 0x7b, 0xe6, 0x44, 0x19,
	}
	cryptOnce  sync.Once
	cryptBlock cipher.Block
	cryptErr   error
	cryptRand  io.Reader = rand.Reader
)

// crypt transforms in to out using iv under AES-CTR.
//
// in and out may be the same buffer. Encryption and decryption are the
// same operation.
func crypt(out, in, iv []byte) error {
	cryptOnce.Do(func() {
		cryptBlock, cryptErr = aes.NewCipher(cryptKey)
	})
	if cryptErr != nil {
		return cryptErr
	}
	stream := cipher.NewCTR(cryptBlock, iv)
	stream.XORKeyStream(out, in)
	return nil
}

// Obscure a value
func Obscure(x string) (string, error) {
	plaintext := []byte(x)
	ciphertext := make([]byte, aes.BlockSize+len(plaintext))
	iv := ciphertext[:aes.BlockSize]
	if _, err := io.ReadFull(cryptRand, iv); err != nil {
		return "", errors.Wrap(err, "failed to read iv")
	}
	if err := crypt(ciphertext[aes.BlockSize:], plaintext, iv); err != nil {
		return "", errors.Wrap(err, "encrypt failed")
	}
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// MustObscure obscures a value, exiting with a fatal error if it failed
func MustObscure(x string) string {
	out, err := Obscure(x)
	if err != nil {
		log.Fatalf("Obscure failed: %v", err)
	}
	return out
}

// Reveal an obscured value
func Reveal(x string) (string, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(x)
	if err != nil {
		return "", errors.Wrap(err, "base64 decode failed when revealing value - is it obscured?")
	}
	if len(ciphertext) < aes.BlockSize {
		return "", errors.New("input too short when revealing value - is it obscured?")
	}
	buf := ciphertext[aes.BlockSize:]
	iv := ciphertext[:aes.BlockSize]
	if err := crypt(buf, buf, iv); err != nil {
		return "", errors.Wrap(err, "decrypt failed when revealing value - is it obscured?")
	}
	return string(buf), nil
}

// MustReveal reveals an obscured value, exiting with a fatal error if it failed
func MustReveal(x string) string {
	out, err := Reveal(x)
	if err != nil {
		log.Fatalf("Reveal failed: %v", err)
	}
	return out
}
