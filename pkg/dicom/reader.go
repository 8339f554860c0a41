package dicom

import (
	"compress/flate"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jpfielding/voi.go/pkg/dicom/tag"
	"github.com/jpfielding/voi.go/pkg/dicom/transfer"
)

var (
	// ErrNotDICOM is returned when the stream lacks the Part 10 preamble and magic
	ErrNotDICOM = errors.New("not a DICOM Part 10 stream")
	// ErrMalformed is returned for structurally invalid element streams
	ErrMalformed = errors.New("malformed DICOM stream")
)

const undefinedLength = 0xFFFFFFFF

// countingReader tracks the stream offset so the meta group can be bounded
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Reader reads DICOM Part 10 streams
type Reader struct {
	src        *countingReader
	r          io.Reader
	syntax     transfer.Syntax
	explicitVR bool
	order      binary.ByteOrder
	inMeta     bool
	metaEnd    int64
	tagBuf     [4]byte
	buf        [4]byte
}

// NewReader creates a new DICOM reader
func NewReader(r io.Reader) *Reader {
	src := &countingReader{r: r}
	return &Reader{
		src:        src,
		r:          src,
		explicitVR: true,
		order:      binary.LittleEndian,
		inMeta:     true,
	}
}

// Parse reads a complete DICOM stream
func Parse(r io.Reader) (*Dataset, error) {
	return NewReader(r).ReadDataset()
}

// ReadDataset reads the complete dataset
func (r *Reader) ReadDataset() (*Dataset, error) {
	var header [132]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: reading preamble: %w", ErrNotDICOM, err)
	}
	if string(header[128:]) != "DICM" {
		return nil, fmt.Errorf("%w: missing DICM magic", ErrNotDICOM)
	}

	ds := &Dataset{Elements: make(map[tag.Tag]*Element)}
	for {
		if r.inMeta && r.metaEnd > 0 && r.src.n >= r.metaEnd {
			r.beginDataset()
		}

		t, err := r.readTag()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tag: %w", err)
		}

		// meta group without a group length, switch on the first other tag
		if r.inMeta && !t.IsFileMeta() {
			if r.syntax == transfer.DeflatedExplicitVR {
				return nil, fmt.Errorf("%w: deflated stream without meta group length", ErrMalformed)
			}
			r.beginDataset()
			t = r.decodeTag(r.tagBuf[:])
		}

		elem, err := r.readElement(t)
		if err != nil {
			return nil, fmt.Errorf("reading element %v: %w", t, err)
		}
		ds.Elements[t] = elem

		switch t {
		case tag.FileMetaInformationGroupLength:
			if n, ok := elem.GetInt(); ok {
				r.metaEnd = r.src.n + int64(n)
			}
		case tag.TransferSyntaxUID:
			if s, ok := elem.GetString(); ok {
				r.syntax = transfer.Syntax(s)
			}
		}
	}
	if r.inMeta {
		r.beginDataset()
	}
	ds.TransferSyntax = r.syntax
	return ds, nil
}

// beginDataset applies the transfer syntax once the meta group is done
func (r *Reader) beginDataset() {
	r.inMeta = false
	if r.syntax == "" {
		r.syntax = transfer.ImplicitVRLittleEndian
	}
	r.explicitVR = r.syntax.IsExplicitVR()
	if r.syntax.IsLittleEndian() {
		r.order = binary.LittleEndian
	} else {
		r.order = binary.BigEndian
	}
	if r.syntax == transfer.DeflatedExplicitVR {
		r.r = flate.NewReader(r.r)
	}
}

func (r *Reader) decodeTag(b []byte) tag.Tag {
	return tag.New(r.order.Uint16(b[0:2]), r.order.Uint16(b[2:4]))
}

func (r *Reader) readTag() (tag.Tag, error) {
	if _, err := io.ReadFull(r.r, r.tagBuf[:]); err != nil {
		return tag.Tag{}, err
	}
	return r.decodeTag(r.tagBuf[:]), nil
}

func (r *Reader) readUint16() (uint16, error) {
	if _, err := io.ReadFull(r.r, r.buf[:2]); err != nil {
		return 0, err
	}
	return r.order.Uint16(r.buf[:2]), nil
}

func (r *Reader) readUint32() (uint32, error) {
	if _, err := io.ReadFull(r.r, r.buf[:4]); err != nil {
		return 0, err
	}
	return r.order.Uint32(r.buf[:4]), nil
}

// readHeader reads the VR and value length following a tag
func (r *Reader) readHeader(t tag.Tag) (string, uint32, error) {
	if !r.explicitVR {
		vl, err := r.readUint32()
		return tag.ImplicitVR(t), vl, err
	}
	if _, err := io.ReadFull(r.r, r.buf[:2]); err != nil {
		return "", 0, err
	}
	vr := string(r.buf[:2])
	if !isLongVR(vr) {
		vl, err := r.readUint16()
		return vr, uint32(vl), err
	}
	if _, err := io.ReadFull(r.r, r.buf[:2]); err != nil { // reserved
		return "", 0, err
	}
	vl, err := r.readUint32()
	return vr, vl, err
}

func (r *Reader) readElement(t tag.Tag) (*Element, error) {
	vr, vl, err := r.readHeader(t)
	if err != nil {
		return nil, err
	}

	var value any
	switch {
	case vl == undefinedLength && t == tag.PixelData:
		value, err = r.readEncapsulated()
	case vl == undefinedLength:
		err = r.skipSequence()
	default:
		data := make([]byte, vl)
		if _, err = io.ReadFull(r.r, data); err != nil {
			break
		}
		if t == tag.PixelData {
			value = &PixelData{Native: data}
		} else {
			value = parseValue(vr, data, r.order)
		}
	}
	if err != nil {
		return nil, err
	}
	return &Element{Tag: t, VR: vr, Value: value}, nil
}

// skipSequence discards an undefined length sequence up to its delimiter
func (r *Reader) skipSequence() error {
	for {
		t, err := r.readTag()
		if err != nil {
			return fmt.Errorf("reading sequence item tag: %w", err)
		}

		if t.IsDelimiter() {
			vl, err := r.readUint32()
			if err != nil {
				return fmt.Errorf("reading delimiter length: %w", err)
			}
			switch t {
			case tag.SequenceDelimitationItem:
				return nil
			case tag.Item:
				if vl != undefinedLength && vl > 0 {
					if _, err := io.CopyN(io.Discard, r.r, int64(vl)); err != nil {
						return fmt.Errorf("skipping item: %w", err)
					}
				}
			}
			continue
		}

		_, vl, err := r.readHeader(t)
		if err != nil {
			return fmt.Errorf("reading nested header %v: %w", t, err)
		}
		if vl == undefinedLength {
			if err := r.skipSequence(); err != nil {
				return err
			}
			continue
		}
		if _, err := io.CopyN(io.Discard, r.r, int64(vl)); err != nil {
			return fmt.Errorf("skipping nested value %v: %w", t, err)
		}
	}
}

// readEncapsulated reads the fragments of compressed pixel data
func (r *Reader) readEncapsulated() (*PixelData, error) {
	pd := &PixelData{Encapsulated: true}
	first := true
	for {
		t, err := r.readTag()
		if err != nil {
			return nil, err
		}
		vl, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		if t == tag.SequenceDelimitationItem {
			return pd, nil
		}
		if t != tag.Item || vl == undefinedLength {
			return nil, fmt.Errorf("%w: unexpected %v in encapsulated pixel data", ErrMalformed, t)
		}

		data := make([]byte, vl)
		if _, err := io.ReadFull(r.r, data); err != nil {
			return nil, err
		}
		if first { // Basic Offset Table, frames are located by fragment order
			first = false
			continue
		}
		pd.Fragments = append(pd.Fragments, data)
	}
}

// isLongVR returns true if VR uses a 4-byte value length in explicit VR
func isLongVR(vr string) bool {
	switch vr {
	case "OB", "OD", "OF", "OL", "OV", "OW", "SQ", "SV", "UC", "UR", "UT", "UN", "UV":
		return true
	}
	return false
}

// parseValue converts raw bytes to a typed value based on VR
func parseValue(vr string, data []byte, order binary.ByteOrder) any {
	switch vr {
	case "AE", "AS", "CS", "DA", "DS", "DT", "IS", "LO", "LT", "PN", "SH", "ST", "TM", "UC", "UI", "UR", "UT":
		end := len(data)
		for end > 0 && (data[end-1] == 0 || data[end-1] == ' ') {
			end--
		}
		return string(data[:end])
	case "US":
		vals := make([]uint16, len(data)/2)
		for i := range vals {
			vals[i] = order.Uint16(data[i*2:])
		}
		if len(vals) == 1 {
			return vals[0]
		}
		return vals
	case "UL":
		vals := make([]uint32, len(data)/4)
		for i := range vals {
			vals[i] = order.Uint32(data[i*4:])
		}
		if len(vals) == 1 {
			return vals[0]
		}
		return vals
	case "SS":
		if len(data) == 2 {
			return int16(order.Uint16(data))
		}
	case "SL":
		if len(data) == 4 {
			return int32(order.Uint32(data))
		}
	case "FL":
		vals := make([]float32, len(data)/4)
		for i := range vals {
			vals[i] = math.Float32frombits(order.Uint32(data[i*4:]))
		}
		if len(vals) == 1 {
			return vals[0]
		}
		return vals
	case "FD":
		vals := make([]float64, len(data)/8)
		for i := range vals {
			vals[i] = math.Float64frombits(order.Uint64(data[i*8:]))
		}
		if len(vals) == 1 {
			return vals[0]
		}
		return vals
	}
	return data
}
