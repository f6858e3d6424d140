package car

import (
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
)

// Draft is the editable in-memory form of a car record. Every mutation returns
// a new Draft; siblings of the touched entry are never modified in place.
type Draft struct {
	Details []DetailDraft
	Photos  []PhotoDraft
}

// DetailDraft is one collapsible detail section.
type DetailDraft struct {
	ShortTitle  string
	FullTitle   string
	Description string
	Images      []string
	SubDetails  []SubDetailDraft
}

// SubDetailDraft is a nested key-point row inside a detail section.
type SubDetailDraft struct {
	Title       string
	Description string
}

// PhotoDraft is one gallery entry.
type PhotoDraft struct {
	URL       string
	IsPrimary bool
	SortOrder int
	IsHidden  bool
}

// Detail field names accepted by SetDetailField.
const (
	DetailFieldShortTitle  = "short_title"
	DetailFieldFullTitle   = "full_title"
	DetailFieldDescription = "description"
)

// Sub-detail field names accepted by SetSubDetailField.
const (
	SubDetailFieldTitle       = "title"
	SubDetailFieldDescription = "description"
)

// NewDraft returns an empty draft seeded with one blank detail section that
// carries one blank sub-detail, matching what the editor opens with.
func NewDraft() Draft {
	return Draft{
		Details: []DetailDraft{
			{SubDetails: []SubDetailDraft{{}}},
		},
	}
}

func indexError(what string, index, length int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, what+" index out of range").
		WithDetails(map[string]int{"index": index, "length": length})
}

func (d Draft) cloneDetails() []DetailDraft {
	out := make([]DetailDraft, len(d.Details))
	copy(out, d.Details)
	return out
}

func (d Draft) clonePhotos() []PhotoDraft {
	out := make([]PhotoDraft, len(d.Photos))
	copy(out, d.Photos)
	return out
}

// deepCopy detaches the inner slices so edits cannot leak into prior drafts.
func (dd DetailDraft) deepCopy() DetailDraft {
	out := dd
	out.Images = make([]string, len(dd.Images))
	copy(out.Images, dd.Images)
	out.SubDetails = make([]SubDetailDraft, len(dd.SubDetails))
	copy(out.SubDetails, dd.SubDetails)
	return out
}

// AddDetail appends a blank detail section with one blank sub-detail.
func (d Draft) AddDetail() Draft {
	next := d
	next.Details = append(d.cloneDetails(), DetailDraft{SubDetails: []SubDetailDraft{{}}})
	return next
}

// RemoveDetail drops the detail section at index.
func (d Draft) RemoveDetail(index int) (Draft, error) {
	if index < 0 || index >= len(d.Details) {
		return d, indexError("detail", index, len(d.Details))
	}
	details := d.cloneDetails()
	next := d
	next.Details = append(details[:index], details[index+1:]...)
	return next, nil
}

// SetDetailField sets one scalar field on the detail section at index.
func (d Draft) SetDetailField(index int, field, value string) (Draft, error) {
	if index < 0 || index >= len(d.Details) {
		return d, indexError("detail", index, len(d.Details))
	}
	detail := d.Details[index].deepCopy()
	switch field {
	case DetailFieldShortTitle:
		detail.ShortTitle = value
	case DetailFieldFullTitle:
		detail.FullTitle = value
	case DetailFieldDescription:
		detail.Description = value
	default:
		return d, pkgerrors.New(pkgerrors.CodeValidation, "unknown detail field").
			WithDetails(map[string]string{"field": field})
	}
	details := d.cloneDetails()
	details[index] = detail
	next := d
	next.Details = details
	return next, nil
}

// AddDetailImage appends an image URL to the detail section at index.
func (d Draft) AddDetailImage(index int, url string) (Draft, error) {
	if index < 0 || index >= len(d.Details) {
		return d, indexError("detail", index, len(d.Details))
	}
	detail := d.Details[index].deepCopy()
	detail.Images = append(detail.Images, url)
	details := d.cloneDetails()
	details[index] = detail
	next := d
	next.Details = details
	return next, nil
}

// RemoveDetailImage drops one image from the detail section at index.
func (d Draft) RemoveDetailImage(index, imageIndex int) (Draft, error) {
	if index < 0 || index >= len(d.Details) {
		return d, indexError("detail", index, len(d.Details))
	}
	detail := d.Details[index].deepCopy()
	if imageIndex < 0 || imageIndex >= len(detail.Images) {
		return d, indexError("detail image", imageIndex, len(detail.Images))
	}
	detail.Images = append(detail.Images[:imageIndex], detail.Images[imageIndex+1:]...)
	details := d.cloneDetails()
	details[index] = detail
	next := d
	next.Details = details
	return next, nil
}

// SetDetailImage replaces one image URL on the detail section at index.
func (d Draft) SetDetailImage(index, imageIndex int, url string) (Draft, error) {
	if index < 0 || index >= len(d.Details) {
		return d, indexError("detail", index, len(d.Details))
	}
	detail := d.Details[index].deepCopy()
	if imageIndex < 0 || imageIndex >= len(detail.Images) {
		return d, indexError("detail image", imageIndex, len(detail.Images))
	}
	detail.Images[imageIndex] = url
	details := d.cloneDetails()
	details[index] = detail
	next := d
	next.Details = details
	return next, nil
}

// AddSubDetail appends a blank sub-detail row to the detail section at index.
func (d Draft) AddSubDetail(index int) (Draft, error) {
	if index < 0 || index >= len(d.Details) {
		return d, indexError("detail", index, len(d.Details))
	}
	detail := d.Details[index].deepCopy()
	detail.SubDetails = append(detail.SubDetails, SubDetailDraft{})
	details := d.cloneDetails()
	details[index] = detail
	next := d
	next.Details = details
	return next, nil
}

// RemoveSubDetail drops the sub-detail row at subIndex.
func (d Draft) RemoveSubDetail(index, subIndex int) (Draft, error) {
	if index < 0 || index >= len(d.Details) {
		return d, indexError("detail", index, len(d.Details))
	}
	detail := d.Details[index].deepCopy()
	if subIndex < 0 || subIndex >= len(detail.SubDetails) {
		return d, indexError("sub-detail", subIndex, len(detail.SubDetails))
	}
	detail.SubDetails = append(detail.SubDetails[:subIndex], detail.SubDetails[subIndex+1:]...)
	details := d.cloneDetails()
	details[index] = detail
	next := d
	next.Details = details
	return next, nil
}

// SetSubDetailField sets one scalar field on the sub-detail row at subIndex.
func (d Draft) SetSubDetailField(index, subIndex int, field, value string) (Draft, error) {
	if index < 0 || index >= len(d.Details) {
		return d, indexError("detail", index, len(d.Details))
	}
	detail := d.Details[index].deepCopy()
	if subIndex < 0 || subIndex >= len(detail.SubDetails) {
		return d, indexError("sub-detail", subIndex, len(detail.SubDetails))
	}
	sub := detail.SubDetails[subIndex]
	switch field {
	case SubDetailFieldTitle:
		sub.Title = value
	case SubDetailFieldDescription:
		sub.Description = value
	default:
		return d, pkgerrors.New(pkgerrors.CodeValidation, "unknown sub-detail field").
			WithDetails(map[string]string{"field": field})
	}
	detail.SubDetails[subIndex] = sub
	details := d.cloneDetails()
	details[index] = detail
	next := d
	next.Details = details
	return next, nil
}

// AddPhoto appends a gallery entry. The first photo becomes primary and each
// new photo takes the next sort_order slot.
func (d Draft) AddPhoto(url string) Draft {
	photos := d.clonePhotos()
	photos = append(photos, PhotoDraft{
		URL:       url,
		IsPrimary: len(photos) == 0,
		SortOrder: len(photos),
	})
	next := d
	next.Photos = photos
	return next
}

// RemovePhoto drops the gallery entry at index and re-normalizes the list.
func (d Draft) RemovePhoto(index int) (Draft, error) {
	if index < 0 || index >= len(d.Photos) {
		return d, indexError("photo", index, len(d.Photos))
	}
	photos := d.clonePhotos()
	photos = append(photos[:index], photos[index+1:]...)
	next := d
	next.Photos = NormalizePhotos(photos)
	return next, nil
}

// SetPhoto replaces the URL of the gallery entry at index.
func (d Draft) SetPhoto(index int, url string) (Draft, error) {
	if index < 0 || index >= len(d.Photos) {
		return d, indexError("photo", index, len(d.Photos))
	}
	photos := d.clonePhotos()
	photos[index].URL = url
	next := d
	next.Photos = photos
	return next, nil
}
