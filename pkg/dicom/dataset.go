package dicom

import (
	"strconv"
	"strings"

	"github.com/jpfielding/voi.go/pkg/dicom/tag"
	"github.com/jpfielding/voi.go/pkg/dicom/transfer"
)

// Dataset represents a parsed DICOM dataset
type Dataset struct {
	Elements       map[tag.Tag]*Element
	TransferSyntax transfer.Syntax
}

// Element represents a single DICOM element
type Element struct {
	Tag   tag.Tag
	VR    string // Value Representation
	Value any    // Parsed value
}

// PixelData holds the (7FE0,0010) value, native or encapsulated
type PixelData struct {
	Encapsulated bool
	Native       []byte   // raw samples, all frames back to back
	Fragments    [][]byte // compressed items after the Basic Offset Table
}

// Find returns an element by tag
func (ds *Dataset) Find(t tag.Tag) (*Element, bool) {
	if ds == nil {
		return nil, false
	}
	elem, ok := ds.Elements[t]
	return elem, ok
}

// String returns the string value of a tag
func (ds *Dataset) String(t tag.Tag) (string, bool) {
	elem, ok := ds.Find(t)
	if !ok {
		return "", false
	}
	return elem.GetString()
}

// Int returns the first integer value of a tag
func (ds *Dataset) Int(t tag.Tag) (int, bool) {
	elem, ok := ds.Find(t)
	if !ok {
		return 0, false
	}
	return elem.GetInt()
}

// Floats returns all numeric values of a tag
func (ds *Dataset) Floats(t tag.Tag) ([]float64, bool) {
	elem, ok := ds.Find(t)
	if !ok {
		return nil, false
	}
	return elem.GetFloats()
}

// Float returns the first numeric value of a tag
func (ds *Dataset) Float(t tag.Tag) (float64, bool) {
	vals, ok := ds.Floats(t)
	if !ok || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// PixelData returns the pixel data element's value
func (ds *Dataset) PixelData() (*PixelData, bool) {
	elem, ok := ds.Find(tag.PixelData)
	if !ok {
		return nil, false
	}
	pd, ok := elem.Value.(*PixelData)
	return pd, ok
}

// GetString returns a string value from an element
func (elem *Element) GetString() (string, bool) {
	if s, ok := elem.Value.(string); ok {
		return s, true
	}
	return "", false
}

// GetInt returns an int value from an element, the first one if multi-valued
func (elem *Element) GetInt() (int, bool) {
	switch v := elem.Value.(type) {
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case []uint16:
		if len(v) > 0 {
			return int(v[0]), true
		}
	case []uint32:
		if len(v) > 0 {
			return int(v[0]), true
		}
	case string:
		first, _, _ := strings.Cut(v, `\`)
		if i, err := strconv.Atoi(strings.TrimSpace(first)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// GetFloats returns the numeric values of an element. Decimal strings are
// split on the backslash value delimiter.
func (elem *Element) GetFloats() ([]float64, bool) {
	switch v := elem.Value.(type) {
	case string:
		return parseDecimals(v)
	case float32:
		return []float64{float64(v)}, true
	case float64:
		return []float64{v}, true
	case []float32:
		res := make([]float64, len(v))
		for i, val := range v {
			res[i] = float64(val)
		}
		return res, true
	case []float64:
		return v, true
	}
	if i, ok := elem.GetInt(); ok {
		return []float64{float64(i)}, true
	}
	return nil, false
}

func parseDecimals(s string) ([]float64, bool) {
	parts := strings.Split(s, `\`)
	res := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		res = append(res, f)
	}
	return res, len(res) > 0
}
