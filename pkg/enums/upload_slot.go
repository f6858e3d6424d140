package enums

import "fmt"

// UploadSlot identifies where an uploaded file will be used, which decides
// the accepted mime types and size cap.
type UploadSlot string

const (
	UploadSlotGallery    UploadSlot = "gallery"
	UploadSlotAttachment UploadSlot = "attachment"
)

var validUploadSlots = []UploadSlot{UploadSlotGallery, UploadSlotAttachment}

// String returns the literal string for the slot.
func (s UploadSlot) String() string {
	return string(s)
}

// IsValid reports whether the slot is known.
func (s UploadSlot) IsValid() bool {
	for _, candidate := range validUploadSlots {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseUploadSlot converts raw input into an UploadSlot.
func ParseUploadSlot(value string) (UploadSlot, error) {
	for _, candidate := range validUploadSlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upload slot %q", value)
}
