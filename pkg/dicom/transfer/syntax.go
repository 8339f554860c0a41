// Package transfer defines DICOM Transfer Syntaxes
package transfer

// Syntax represents a DICOM Transfer Syntax UID
type Syntax string

// Standard Transfer Syntaxes
const (
	ImplicitVRLittleEndian    Syntax = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian    Syntax = "1.2.840.10008.1.2.1"
	ExplicitVRLittleEndianExt Syntax = "1.2.840.10008.1.2.1.64"
	DeflatedExplicitVR        Syntax = "1.2.840.10008.1.2.1.99"
	ExplicitVRBigEndian       Syntax = "1.2.840.10008.1.2.2"

	JPEGBaseline           Syntax = "1.2.840.10008.1.2.4.50"
	JPEGExtended           Syntax = "1.2.840.10008.1.2.4.51"
	JPEGLossless           Syntax = "1.2.840.10008.1.2.4.57"
	JPEGLosslessFirstOrder Syntax = "1.2.840.10008.1.2.4.70"
	JPEGLSLossless         Syntax = "1.2.840.10008.1.2.4.80"
	JPEGLSNearLossless     Syntax = "1.2.840.10008.1.2.4.81"
	JPEG2000Lossless       Syntax = "1.2.840.10008.1.2.4.90"
	JPEG2000               Syntax = "1.2.840.10008.1.2.4.91"
	RLELossless            Syntax = "1.2.840.10008.1.2.5"
)

var names = map[Syntax]string{
	ImplicitVRLittleEndian:    "Implicit VR Little Endian",
	ExplicitVRLittleEndian:    "Explicit VR Little Endian",
	ExplicitVRLittleEndianExt: "Explicit VR Little Endian Extended",
	DeflatedExplicitVR:        "Deflated Explicit VR Little Endian",
	ExplicitVRBigEndian:       "Explicit VR Big Endian (Retired)",
	JPEGBaseline:              "JPEG Baseline (Process 1)",
	JPEGExtended:              "JPEG Extended (Process 2 & 4)",
	JPEGLossless:              "JPEG Lossless (Process 14)",
	JPEGLosslessFirstOrder:    "JPEG Lossless First-Order (Process 14, SV1)",
	JPEGLSLossless:            "JPEG-LS Lossless",
	JPEGLSNearLossless:        "JPEG-LS Near-Lossless",
	JPEG2000Lossless:          "JPEG 2000 Lossless",
	JPEG2000:                  "JPEG 2000",
	RLELossless:               "RLE Lossless",
}

// IsExplicitVR returns true if this transfer syntax uses explicit VR
func (s Syntax) IsExplicitVR() bool {
	return s != ImplicitVRLittleEndian
}

// IsLittleEndian returns true if this transfer syntax uses little endian byte order
func (s Syntax) IsLittleEndian() bool {
	return s != ExplicitVRBigEndian
}

// IsEncapsulated returns true if pixel data is encapsulated (compressed)
func (s Syntax) IsEncapsulated() bool {
	switch s {
	case ImplicitVRLittleEndian, ExplicitVRLittleEndian, ExplicitVRLittleEndianExt, ExplicitVRBigEndian, DeflatedExplicitVR:
		return false
	}
	return true
}

// IsNative reports whether pixel data can be read as plain little-endian
// samples without any decompression.
func (s Syntax) IsNative() bool {
	switch s {
	case ImplicitVRLittleEndian, ExplicitVRLittleEndian, ExplicitVRLittleEndianExt:
		return true
	}
	return false
}

// Name returns a human-readable name for the transfer syntax
func (s Syntax) Name() string {
	if n, ok := names[s]; ok {
		return n
	}
	return string(s)
}
