package osc

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	bit32Size = 4
	bit64Size = 8
)

var byteOrder = binary.BigEndian

////
// De/Encoding functions
////

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}

// paddedStringLen returns the number of bytes str occupies as an OSC-string.
func paddedStringLen(str string) int {
	n := len(str) + 1
	return n + padBytesNeeded(n)
}

// appendPadding appends the NUL bytes needed to align an element of length n.
func appendPadding(b []byte, n int) []byte {
	for i := padBytesNeeded(n); i > 0; i-- {
		b = append(b, 0)
	}
	return b
}

// appendPaddedString appends str as an OSC-string: the UTF-8 bytes, a NUL
// terminator, and padding up to the next multiple of 4. Padding is computed on
// the byte length, so multi-byte code points are measured correctly.
func appendPaddedString(b []byte, str string) []byte {
	b = append(b, str...)
	b = append(b, 0)
	return appendPadding(b, len(str)+1)
}

// parsePaddedString reads an OSC-string from the start of data. It returns the
// string and the number of bytes consumed including the terminator and padding.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, errors.Wrap(ErrMalformedPacket, "string is not NUL terminated")
	}

	n := pos + 1
	n += padBytesNeeded(n)
	if n > len(data) {
		return "", 0, errors.Wrapf(ErrMalformedPacket, "string padding runs past end of buffer (%d > %d)", n, len(data))
	}

	return string(data[:pos]), n, nil
}

// appendBlob appends data as an OSC-blob: a big-endian length, the raw bytes,
// and zero padding so the framed length is a multiple of 4.
func appendBlob(b []byte, data []byte) []byte {
	b = byteOrder.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	return appendPadding(b, len(data))
}

// parseBlob reads an OSC-blob from the start of data. The returned slice is a
// copy and never aliases data. Padding bytes are consumed but not returned.
func parseBlob(data []byte) ([]byte, int, error) {
	if len(data) < bit32Size {
		return nil, 0, errors.Wrap(ErrTruncatedBuffer, "blob length prefix")
	}

	blobLen := uint64(byteOrder.Uint32(data))
	data = data[bit32Size:]
	if blobLen > uint64(len(data)) {
		return nil, 0, errors.Wrapf(ErrTruncatedBuffer, "blob length %d exceeds remaining %d bytes", blobLen, len(data))
	}

	n := int(blobLen)
	pad := padBytesNeeded(n)
	if n+pad > len(data) {
		return nil, 0, errors.Wrapf(ErrTruncatedBuffer, "blob padding runs past end of buffer")
	}

	blob := make([]byte, n)
	copy(blob, data)

	return blob, bit32Size + n + pad, nil
}

// parseUint32 reads one big-endian 32-bit word from the start of data.
func parseUint32(data []byte, what string) (uint32, error) {
	if len(data) < bit32Size {
		return 0, errors.Wrapf(ErrTruncatedBuffer, "%s needs %d bytes, %d left", what, bit32Size, len(data))
	}
	return byteOrder.Uint32(data), nil
}
