package dicom

import (
	"bytes"
	"encoding/binary"

	"github.com/jpfielding/voi.go/pkg/dicom/tag"
	"github.com/jpfielding/voi.go/pkg/dicom/transfer"
)

// part10 assembles synthetic Part 10 streams for tests
type part10 struct {
	meta     bytes.Buffer
	body     bytes.Buffer
	explicit bool
}

func newPart10(syntax transfer.Syntax) *part10 {
	p := &part10{explicit: syntax.IsExplicitVR()}
	writeExplicit(&p.meta, tag.TransferSyntaxUID, "UI", pad([]byte(syntax), 0))
	return p
}

func pad(b []byte, with byte) []byte {
	if len(b)%2 == 1 {
		return append(b, with)
	}
	return b
}

func writeTag(w *bytes.Buffer, t tag.Tag) {
	binary.Write(w, binary.LittleEndian, t.Group)
	binary.Write(w, binary.LittleEndian, t.Element)
}

func writeExplicit(w *bytes.Buffer, t tag.Tag, vr string, value []byte) {
	writeTag(w, t)
	w.WriteString(vr)
	if isLongVR(vr) {
		w.Write([]byte{0, 0})
		binary.Write(w, binary.LittleEndian, uint32(len(value)))
	} else {
		binary.Write(w, binary.LittleEndian, uint16(len(value)))
	}
	w.Write(value)
}

func (p *part10) element(t tag.Tag, vr string, value []byte) *part10 {
	if p.explicit {
		writeExplicit(&p.body, t, vr, value)
		return p
	}
	writeTag(&p.body, t)
	binary.Write(&p.body, binary.LittleEndian, uint32(len(value)))
	p.body.Write(value)
	return p
}

func (p *part10) str(t tag.Tag, vr, s string) *part10 {
	return p.element(t, vr, pad([]byte(s), ' '))
}

func (p *part10) us(t tag.Tag, v uint16) *part10 {
	return p.element(t, "US", binary.LittleEndian.AppendUint16(nil, v))
}

// undefined writes a tag with undefined length and returns the body to
// append its contents to.
func (p *part10) undefined(t tag.Tag, vr string) *bytes.Buffer {
	writeTag(&p.body, t)
	if p.explicit {
		p.body.WriteString(vr)
		p.body.Write([]byte{0, 0})
	}
	binary.Write(&p.body, binary.LittleEndian, uint32(undefinedLength))
	return &p.body
}

func item(w *bytes.Buffer, t tag.Tag, length uint32) {
	writeTag(w, t)
	binary.Write(w, binary.LittleEndian, length)
}

func (p *part10) bytes(withGroupLength bool) []byte {
	var out bytes.Buffer
	out.Write(make([]byte, 128))
	out.WriteString(Magic)
	if withGroupLength {
		writeExplicit(&out, tag.FileMetaInformationGroupLength, "UL",
			binary.LittleEndian.AppendUint32(nil, uint32(p.meta.Len())))
	}
	out.Write(p.meta.Bytes())
	out.Write(p.body.Bytes())
	return out.Bytes()
}

func int16Pixels(vals ...int16) []byte {
	out := make([]byte, 0, len(vals)*2)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint16(out, uint16(v))
	}
	return out
}

// ctImage builds a 2x2 signed CT slice with rescale, window and spacing
func ctImage(syntax transfer.Syntax) *part10 {
	return newPart10(syntax).
		str(tag.Modality, "CS", "CT").
		us(tag.SamplesPerPixel, 1).
		us(tag.Rows, 2).
		us(tag.Columns, 2).
		str(tag.PixelSpacing, "DS", `0.5\0.25`).
		us(tag.BitsAllocated, 16).
		us(tag.BitsStored, 12).
		us(tag.PixelRepresentation, 1).
		str(tag.WindowCenter, "DS", `40\-600`).
		str(tag.WindowWidth, "DS", `400\1500`).
		str(tag.RescaleIntercept, "DS", "-1024").
		str(tag.RescaleSlope, "DS", "1")
}
