// Package tag defines the DICOM tags the windowing pipeline reads
package tag

import "fmt"

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// IsFileMeta returns true if this tag is in the File Meta Information group
func (t Tag) IsFileMeta() bool {
	return t.Group == 0x0002
}

// IsDelimiter returns true for item and sequence delimitation tags (FFFE,xxxx)
func (t Tag) IsDelimiter() bool {
	return t.Group == 0xFFFE
}

func (t Tag) String() string {
	if name, ok := names[t]; ok {
		return fmt.Sprintf("(%04X,%04X) %s", t.Group, t.Element, name)
	}
	return fmt.Sprintf("(%04X,%04X)", t.Group, t.Element)
}

// File Meta Information (Group 0002)
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
)

// Identification
var (
	SOPClassUID    = Tag{0x0008, 0x0016}
	SOPInstanceUID = Tag{0x0008, 0x0018}
	Modality       = Tag{0x0008, 0x0060}
)

// Acquisition
var (
	ImagerPixelSpacing = Tag{0x0018, 0x1164}
)

// Image Pixel Module and Modality/VOI LUT Modules (Group 0028)
var (
	SamplesPerPixel           = Tag{0x0028, 0x0002}
	PhotometricInterpretation = Tag{0x0028, 0x0004}
	NumberOfFrames            = Tag{0x0028, 0x0008}
	Rows                      = Tag{0x0028, 0x0010}
	Columns                   = Tag{0x0028, 0x0011}
	PixelSpacing              = Tag{0x0028, 0x0030}
	BitsAllocated             = Tag{0x0028, 0x0100}
	BitsStored                = Tag{0x0028, 0x0101}
	HighBit                   = Tag{0x0028, 0x0102}
	PixelRepresentation       = Tag{0x0028, 0x0103}
	WindowCenter              = Tag{0x0028, 0x1050}
	WindowWidth               = Tag{0x0028, 0x1051}
	RescaleIntercept          = Tag{0x0028, 0x1052}
	RescaleSlope              = Tag{0x0028, 0x1053}
	RescaleType               = Tag{0x0028, 0x1054}
)

// Pixel Data
var (
	PixelData = Tag{0x7FE0, 0x0010}
)

// Delimiters
var (
	Item                     = Tag{0xFFFE, 0xE000}
	ItemDelimitationItem     = Tag{0xFFFE, 0xE00D}
	SequenceDelimitationItem = Tag{0xFFFE, 0xE0DD}
)

var names = map[Tag]string{
	TransferSyntaxUID:         "TransferSyntaxUID",
	SOPClassUID:               "SOPClassUID",
	Modality:                  "Modality",
	ImagerPixelSpacing:        "ImagerPixelSpacing",
	SamplesPerPixel:           "SamplesPerPixel",
	PhotometricInterpretation: "PhotometricInterpretation",
	NumberOfFrames:            "NumberOfFrames",
	Rows:                      "Rows",
	Columns:                   "Columns",
	PixelSpacing:              "PixelSpacing",
	BitsAllocated:             "BitsAllocated",
	BitsStored:                "BitsStored",
	PixelRepresentation:       "PixelRepresentation",
	WindowCenter:              "WindowCenter",
	WindowWidth:               "WindowWidth",
	RescaleIntercept:          "RescaleIntercept",
	RescaleSlope:              "RescaleSlope",
	PixelData:                 "PixelData",
}

// vrs is the implicit VR dictionary for the tags above
var vrs = map[Tag]string{
	FileMetaInformationGroupLength: "UL",
	MediaStorageSOPClassUID:        "UI",
	TransferSyntaxUID:              "UI",
	SOPClassUID:                    "UI",
	SOPInstanceUID:                 "UI",
	Modality:                       "CS",
	ImagerPixelSpacing:             "DS",
	SamplesPerPixel:                "US",
	PhotometricInterpretation:      "CS",
	NumberOfFrames:                 "IS",
	Rows:                           "US",
	Columns:                        "US",
	PixelSpacing:                   "DS",
	BitsAllocated:                  "US",
	BitsStored:                     "US",
	HighBit:                        "US",
	PixelRepresentation:            "US",
	WindowCenter:                   "DS",
	WindowWidth:                    "DS",
	RescaleIntercept:               "DS",
	RescaleSlope:                   "DS",
	RescaleType:                    "LO",
	PixelData:                      "OW",
}

// ImplicitVR returns the VR used when the transfer syntax does not encode
// one, "UN" for tags outside the dictionary.
func ImplicitVR(t Tag) string {
	if vr, ok := vrs[t]; ok {
		return vr
	}
	if t.Element == 0x0000 {
		return "UL" // group length
	}
	return "UN"
}
