package item

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

const movieJSON = `{
	"Name": "Bocchi the Rock!",
	"Id": "3f2a",
	"Type": "Series",
	"ImageTags": {"Primary": "p1", "Logo": "l1"},
	"BackdropImageTags": ["b0", "b1"],
	"ParentBackdropImageTags": null,
	"ParentBackdropItemId": "9a",
	"ImageBlurHashes": {
		"Primary": {"p1": "LEHV6nWB2yk8pyo0adR*.7kCMdnj"},
		"Backdrop": {"b1": "L6PZfSi_.AyE_3t7t7R**0o#DgR4"},
		"Thumb": null
	},
	"People": [
		{"Name": "Hitori Gotoh", "Id": "77", "Role": "Guitar", "Type": "Actor", "PrimaryImageTag": "h1"}
	],
	"UserData": {"Played": false, "PlayCount": 0}
}`

func TestDecodeSubject_Media(t *testing.T) {
	s, err := UnmarshalSubject([]byte(movieJSON))
	require.NoError(t, err)
	require.Equal(t, KindMedia, s.Kind())

	m, ok := s.(*Media)
	require.True(t, ok)

	assert.Equal(t, "3f2a", m.ItemID())
	assert.Equal(t, "Series", m.Type)
	assert.Equal(t, map[ImageType]string{ImageTypePrimary: "p1", ImageTypeLogo: "l1"}, m.ImageTags)
	assert.Equal(t, []string{"b0", "b1"}, m.BackdropImageTags)
	assert.Nil(t, m.ParentBackdropImageTags)
	assert.Equal(t, "9a", m.ParentBackdropItemID)

	hash, ok := m.BlurHashes().Lookup(ImageTypeBackdrop, "b1")
	assert.True(t, ok)
	assert.Equal(t, "L6PZfSi_.AyE_3t7t7R**0o#DgR4", hash)
	assert.NotContains(t, m.ImageBlurHashes, ImageTypeThumb)

	require.Len(t, m.People, 1)
	assert.Equal(t, &Person{ID: "77", Name: "Hitori Gotoh", Role: "Guitar", Type: "Actor", PrimaryImageTag: "h1"}, m.People[0])
}

func TestDecodeSubject_Person(t *testing.T) {
	s, err := UnmarshalSubject([]byte(`{"Id":"77","Role":"Guitar","PrimaryImageTag":"h1","ImageBlurHashes":{"Primary":{"h1":"hash"}}}`))
	require.NoError(t, err)
	require.Equal(t, KindPerson, s.Kind())

	p := s.(*Person)
	assert.Equal(t, "h1", p.PrimaryImageTag)

	hash, ok := p.BlurHashes().Lookup(ImageTypePrimary, "h1")
	assert.True(t, ok)
	assert.Equal(t, "hash", hash)
}

func TestDecodeSubject_EmptyRoleIsMedia(t *testing.T) {
	s, err := UnmarshalSubject([]byte(`{"Id":"1","Role":"","PrimaryImageTag":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, KindMedia, s.Kind())
}

func TestDecodeSubject_Invalid(t *testing.T) {
	tests := []string{
		`[]`,
		`"item"`,
		`{"Id": 5}`,
		`{"ImageTags": {"Primary": 1}}`,
		`{"BackdropImageTags": "b0"}`,
		`{"Id": "1"`,
	}

	for _, data := range tests {
		_, err := UnmarshalSubject([]byte(data))
		assert.Error(t, err, data)
	}
}

func TestBlurHashes_Lookup(t *testing.T) {
	var nilHashes BlurHashes
	_, ok := nilHashes.Lookup(ImageTypePrimary, "t")
	assert.False(t, ok)

	hashes := BlurHashes{ImageTypePrimary: {"t": "", "u": "hash"}}
	_, ok = hashes.Lookup(ImageTypePrimary, "t")
	assert.False(t, ok, "empty hashes are absent")

	hash, ok := hashes.Lookup(ImageTypePrimary, "u")
	assert.True(t, ok)
	assert.Equal(t, "hash", hash)
}
