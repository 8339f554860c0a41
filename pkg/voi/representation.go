package voi

import (
	"fmt"
	"math"
)

// Representation describes how stored sample bytes are reinterpreted. It packs
// bits allocated and signedness so tags outside the supported set can still be
// reported precisely.
type Representation uint64

// Supported representations
const (
	Uint16 Representation = 16 << 1
	Int16  Representation = 16<<1 | 1
	Uint32 Representation = 32 << 1
	Int32  Representation = 32<<1 | 1
)

// RepresentationOf builds a tag from DICOM Bits Allocated (0028,0100) and
// Pixel Representation (0028,0103): 0 = unsigned, 1 = signed. Negative bit
// counts read as 0 and counts past 32 bits saturate; both are unsupported.
func RepresentationOf(bitsAllocated, pixelRepresentation int) Representation {
	bits := uint64(min(max(int64(bitsAllocated), 0), math.MaxUint32))
	r := Representation(bits << 1)
	if pixelRepresentation == 1 {
		r |= 1
	}
	return r
}

// Bits returns the bits allocated per sample.
func (r Representation) Bits() int {
	return int(r >> 1)
}

// Signed reports whether samples are two's complement.
func (r Representation) Signed() bool {
	return r&1 == 1
}

// Supported reports whether Ingest can reinterpret this tag.
func (r Representation) Supported() bool {
	switch r {
	case Uint16, Int16, Uint32, Int32:
		return true
	}
	return false
}

// BytesPerSample returns the stored size of one sample, 0 when unsupported.
func (r Representation) BytesPerSample() int {
	if !r.Supported() {
		return 0
	}
	return r.Bits() / 8
}

func (r Representation) String() string {
	sign := "unsigned"
	if r.Signed() {
		sign = "signed"
	}
	return fmt.Sprintf("%d-bit %s", r.Bits(), sign)
}
