package car

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftSeedsBlankDetail(t *testing.T) {
	d := NewDraft()
	require.Len(t, d.Details, 1)
	assert.Empty(t, d.Details[0].ShortTitle)
	require.Len(t, d.Details[0].SubDetails, 1)
	assert.Empty(t, d.Details[0].SubDetails[0].Title)
	assert.Empty(t, d.Photos)
}

func TestAddPhotoFirstBecomesPrimary(t *testing.T) {
	d := NewDraft().AddPhoto("a.jpg").AddPhoto("b.jpg").AddPhoto("c.jpg")

	require.Len(t, d.Photos, 3)
	assert.True(t, d.Photos[0].IsPrimary)
	assert.False(t, d.Photos[1].IsPrimary)
	assert.False(t, d.Photos[2].IsPrimary)
	for i, p := range d.Photos {
		assert.Equal(t, i, p.SortOrder)
	}
}

func TestRemovePrimaryPhotoPromotesNext(t *testing.T) {
	d := NewDraft().AddPhoto("a.jpg").AddPhoto("b.jpg").AddPhoto("c.jpg")

	d, err := d.RemovePhoto(0)
	require.NoError(t, err)

	require.Len(t, d.Photos, 2)
	assert.Equal(t, "b.jpg", d.Photos[0].URL)
	assert.True(t, d.Photos[0].IsPrimary)
	assert.False(t, d.Photos[1].IsPrimary)
	assert.Equal(t, 0, d.Photos[0].SortOrder)
	assert.Equal(t, 1, d.Photos[1].SortOrder)
}

func TestRemoveNonPrimaryPhotoKeepsPrimary(t *testing.T) {
	d := NewDraft().AddPhoto("a.jpg").AddPhoto("b.jpg").AddPhoto("c.jpg")

	d, err := d.RemovePhoto(1)
	require.NoError(t, err)

	require.Len(t, d.Photos, 2)
	assert.Equal(t, "a.jpg", d.Photos[0].URL)
	assert.True(t, d.Photos[0].IsPrimary)
	assert.Equal(t, "c.jpg", d.Photos[1].URL)
	assert.Equal(t, 1, d.Photos[1].SortOrder)
}

func TestSetPhotoReplacesURLOnly(t *testing.T) {
	d := NewDraft().AddPhoto("a.jpg").AddPhoto("b.jpg")

	next, err := d.SetPhoto(1, "b2.jpg")
	require.NoError(t, err)

	assert.Equal(t, "b2.jpg", next.Photos[1].URL)
	assert.Equal(t, "b.jpg", d.Photos[1].URL, "prior draft must be untouched")
}

func TestPhotoIndexOutOfRange(t *testing.T) {
	d := NewDraft().AddPhoto("a.jpg")

	_, err := d.RemovePhoto(5)
	require.Error(t, err)
	_, err = d.SetPhoto(-1, "x.jpg")
	require.Error(t, err)
}

func TestRemoveDetailPreservesSiblings(t *testing.T) {
	d := NewDraft().AddDetail().AddDetail()
	var err error
	d, err = d.SetDetailField(0, DetailFieldShortTitle, "Engine")
	require.NoError(t, err)
	d, err = d.SetDetailField(1, DetailFieldShortTitle, "Interior")
	require.NoError(t, err)
	d, err = d.SetDetailField(2, DetailFieldShortTitle, "Exterior")
	require.NoError(t, err)
	d, err = d.AddDetailImage(2, "ext.jpg")
	require.NoError(t, err)

	d, err = d.RemoveDetail(1)
	require.NoError(t, err)

	require.Len(t, d.Details, 2)
	assert.Equal(t, "Engine", d.Details[0].ShortTitle)
	assert.Equal(t, "Exterior", d.Details[1].ShortTitle)
	assert.Equal(t, []string{"ext.jpg"}, d.Details[1].Images)
}

func TestSetDetailFieldDoesNotMutateOriginal(t *testing.T) {
	d := NewDraft()
	next, err := d.SetDetailField(0, DetailFieldDescription, "updated")
	require.NoError(t, err)

	assert.Equal(t, "updated", next.Details[0].Description)
	assert.Empty(t, d.Details[0].Description)
}

func TestSetDetailFieldRejectsUnknownField(t *testing.T) {
	_, err := NewDraft().SetDetailField(0, "title_typo", "x")
	require.Error(t, err)
}

func TestDetailImageOperations(t *testing.T) {
	d := NewDraft()
	var err error
	d, err = d.AddDetailImage(0, "one.jpg")
	require.NoError(t, err)
	d, err = d.AddDetailImage(0, "two.jpg")
	require.NoError(t, err)

	d, err = d.SetDetailImage(0, 1, "two-b.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"one.jpg", "two-b.jpg"}, d.Details[0].Images)

	d, err = d.RemoveDetailImage(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"two-b.jpg"}, d.Details[0].Images)

	_, err = d.RemoveDetailImage(0, 9)
	require.Error(t, err)
}

func TestSubDetailOperations(t *testing.T) {
	d := NewDraft()
	var err error
	d, err = d.AddSubDetail(0)
	require.NoError(t, err)
	require.Len(t, d.Details[0].SubDetails, 2)

	d, err = d.SetSubDetailField(0, 0, SubDetailFieldTitle, "Serviced")
	require.NoError(t, err)
	d, err = d.SetSubDetailField(0, 1, SubDetailFieldDescription, "New tires")
	require.NoError(t, err)

	assert.Equal(t, "Serviced", d.Details[0].SubDetails[0].Title)
	assert.Equal(t, "New tires", d.Details[0].SubDetails[1].Description)

	d, err = d.RemoveSubDetail(0, 0)
	require.NoError(t, err)
	require.Len(t, d.Details[0].SubDetails, 1)
	assert.Equal(t, "New tires", d.Details[0].SubDetails[0].Description)

	_, err = d.SetSubDetailField(0, 4, SubDetailFieldTitle, "x")
	require.Error(t, err)
}

func TestNormalizePhotosPicksSinglePrimary(t *testing.T) {
	photos := []PhotoDraft{
		{URL: "a.jpg", SortOrder: 7},
		{URL: "b.jpg", IsPrimary: true, SortOrder: 3},
		{URL: "c.jpg", IsPrimary: true, SortOrder: 5},
	}

	out := NormalizePhotos(photos)

	assert.False(t, out[0].IsPrimary)
	assert.True(t, out[1].IsPrimary, "first flagged primary wins")
	assert.False(t, out[2].IsPrimary)
	for i, p := range out {
		assert.Equal(t, i, p.SortOrder)
	}
	assert.Equal(t, 7, photos[0].SortOrder, "input must not be mutated")
}

func TestNormalizePhotosPromotesFirstWhenNonePrimary(t *testing.T) {
	out := NormalizePhotos([]PhotoDraft{{URL: "a.jpg"}, {URL: "b.jpg"}})
	assert.True(t, out[0].IsPrimary)
	assert.False(t, out[1].IsPrimary)
}

func TestNormalizePhotosEmpty(t *testing.T) {
	assert.Empty(t, NormalizePhotos(nil))
}
