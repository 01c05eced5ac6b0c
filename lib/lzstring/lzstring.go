// Package lzstring implements the URI safe flavour of the LZ-String
// compression format used by browser fingerprinting scripts.
//
// Compression works on UTF-16 code units, exactly as the JavaScript
// library does, so the output matches what a browser would send.
package lzstring

import (
	"strings"
	"unicode/utf16"

	"github.com/pkg/errors"
)

// uriAlphabet is the 6 bit alphabet of the URI safe encoding
const uriAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+-$"

// ErrCorrupt is returned when a compressed string can't be decoded
var ErrCorrupt = errors.New("lzstring: corrupt input")

// bitWriter packs bits MSB first into characters of bitsPerChar bits
type bitWriter struct {
	out         strings.Builder
	val         int
	pos         int
	bitsPerChar int
	alphabet    string
}

// writeBit adds one bit, returning true if a character was emitted
func (b *bitWriter) writeBit(bit int) bool {
	b.val = b.val<<1 | bit
	if b.pos == b.bitsPerChar-1 {
		b.pos = 0
		b.out.WriteByte(b.alphabet[b.val])
		b.val = 0
		return true
	}
	b.pos++
	return false
}

// writeBits writes the low n bits of value, least significant first
func (b *bitWriter) writeBits(value, n int) {
	for i := 0; i < n; i++ {
		b.writeBit(value & 1)
		value >>= 1
	}
}

// flush pads the final character with zero bits
func (b *bitWriter) flush() {
	for !b.writeBit(0) {
	}
}

// phrase identifies a dictionary entry as a known entry extended by
// one code unit
type phrase struct {
	prefix int
	c      uint16
}

// compressor holds the state of one compression run
type compressor struct {
	bitWriter
	chars     map[uint16]int  // single code unit entries
	phrases   map[phrase]int  // longer entries
	toCreate  map[uint16]bool // code units not yet sent as literals
	dictSize  int
	numBits   int
	enlargeIn int
}

// grow accounts for one more dictionary code, widening codes when needed
func (c *compressor) grow() {
	c.enlargeIn--
	if c.enlargeIn == 0 {
		c.enlargeIn = 1 << uint(c.numBits)
		c.numBits++
	}
}

// emit outputs the phrase w, which is the single code unit ch if single
func (c *compressor) emit(w int, ch uint16, single bool) {
	if single && c.toCreate[ch] {
		if ch < 256 {
			c.writeBits(0, c.numBits)
			c.writeBits(int(ch), 8)
		} else {
			c.writeBits(1, c.numBits)
			c.writeBits(int(ch), 16)
		}
		c.grow()
		delete(c.toCreate, ch)
	} else {
		c.writeBits(w, c.numBits)
	}
	c.grow()
}

func compress(units []uint16, bitsPerChar int, alphabet string) string {
	c := &compressor{
		bitWriter: bitWriter{bitsPerChar: bitsPerChar, alphabet: alphabet},
		chars:     make(map[uint16]int),
		phrases:   make(map[phrase]int),
		toCreate:  make(map[uint16]bool),
		dictSize:  3,
		numBits:   2,
		enlargeIn: 2,
	}
	w := -1
	var wChar uint16
	wSingle := false
	for _, ch := range units {
		if _, ok := c.chars[ch]; !ok {
			c.chars[ch] = c.dictSize
			c.dictSize++
			c.toCreate[ch] = true
		}
		if w < 0 {
			w, wChar, wSingle = c.chars[ch], ch, true
			continue
		}
		if code, ok := c.phrases[phrase{w, ch}]; ok {
			w, wSingle = code, false
			continue
		}
		c.emit(w, wChar, wSingle)
		c.phrases[phrase{w, ch}] = c.dictSize
		c.dictSize++
		w, wChar, wSingle = c.chars[ch], ch, true
	}
	if w >= 0 {
		c.emit(w, wChar, wSingle)
	}
	// End of stream marker
	c.writeBits(2, c.numBits)
	c.flush()
	return c.out.String()
}

// CompressToEncodedURIComponent compresses s into a string which is
// safe to use in a URL without further escaping.
func CompressToEncodedURIComponent(s string) string {
	return compress(utf16.Encode([]rune(s)), 6, uriAlphabet)
}

// bitReader unpacks bits MSB first from characters
type bitReader struct {
	values     []int
	val        int
	position   int
	resetValue int
	index      int
}

func (r *bitReader) next() int {
	if r.index < len(r.values) {
		v := r.values[r.index]
		r.index++
		return v
	}
	r.index++
	return 0
}

// readBits reads n bits, least significant first
func (r *bitReader) readBits(n int) int {
	bits := 0
	for power := 0; power < n; power++ {
		if r.val&r.position != 0 {
			bits |= 1 << uint(power)
		}
		r.position >>= 1
		if r.position == 0 {
			r.position = r.resetValue
			r.val = r.next()
		}
	}
	return bits
}

func decompress(values []int, resetValue int) ([]uint16, error) {
	r := &bitReader{values: values, resetValue: resetValue, position: resetValue}
	r.val = r.next()

	dictionary := [][]uint16{nil, nil, nil}
	enlargeIn, numBits := 4, 3

	var w []uint16
	switch r.readBits(2) {
	case 0:
		w = []uint16{uint16(r.readBits(8))}
	case 1:
		w = []uint16{uint16(r.readBits(16))}
	case 2:
		return nil, nil
	default:
		return nil, ErrCorrupt
	}
	dictionary = append(dictionary, w)
	result := append([]uint16(nil), w...)

	for {
		if r.index > len(values) {
			return nil, ErrCorrupt
		}
		code := r.readBits(numBits)
		switch code {
		case 0, 1:
			width := 8
			if code == 1 {
				width = 16
			}
			dictionary = append(dictionary, []uint16{uint16(r.readBits(width))})
			code = len(dictionary) - 1
			enlargeIn--
		case 2:
			return result, nil
		}
		if enlargeIn == 0 {
			enlargeIn = 1 << uint(numBits)
			numBits++
		}

		var entry []uint16
		switch {
		case code < len(dictionary):
			entry = dictionary[code]
		case code == len(dictionary):
			entry = append(append([]uint16(nil), w...), w[0])
		default:
			return nil, ErrCorrupt
		}
		result = append(result, entry...)

		added := make([]uint16, 0, len(w)+1)
		added = append(append(added, w...), entry[0])
		dictionary = append(dictionary, added)
		enlargeIn--
		w = entry

		if enlargeIn == 0 {
			enlargeIn = 1 << uint(numBits)
			numBits++
		}
	}
}

// DecompressFromEncodedURIComponent reverses CompressToEncodedURIComponent.
//
// Spaces are read as "+" since form decoding turns one into the other.
func DecompressFromEncodedURIComponent(s string) (string, error) {
	if s == "" {
		return "", ErrCorrupt
	}
	s = strings.Replace(s, " ", "+", -1)
	values := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		v := strings.IndexByte(uriAlphabet, s[i])
		if v < 0 {
			return "", errors.Wrapf(ErrCorrupt, "invalid character %q at %d", s[i], i)
		}
		values[i] = v
	}
	units, err := decompress(values, 32)
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}
