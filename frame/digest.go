package frame

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Digest returns the BLAKE2b-256 hash of the logical RGBA pixels.
// Buffers with equal logical content hash identically whatever their storage order.
func (b *Buffer) Digest() [blake2b.Size256]byte {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(b.Width))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(b.Height))
	h.Write(hdr[:])

	row := make([]byte, b.Width*Channels*4)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.RGBAAt(x, y)
			for i, v := range c {
				binary.LittleEndian.PutUint32(row[(x*Channels+i)*4:], math.Float32bits(v))
			}
		}
		h.Write(row)
	}

	var sum [blake2b.Size256]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// DigestHex returns Digest as a hex string.
func (b *Buffer) DigestHex() string {
	d := b.Digest()
	return hex.EncodeToString(d[:])
}
