package item

import (
	"golang.org/x/text/cases"
)

// ImageType is a type of image slot of an item, named as the media server names it.
type ImageType string

const (
	// ImageTypePrimary is the primary art of an item, such as a poster or a person's avatar.
	ImageTypePrimary ImageType = "Primary"
	// ImageTypeArt is a clear art image type.
	ImageTypeArt ImageType = "Art"
	// ImageTypeBackdrop is a background image type, an item may have several.
	ImageTypeBackdrop ImageType = "Backdrop"
	// ImageTypeBanner is a wide banner image type.
	ImageTypeBanner ImageType = "Banner"
	// ImageTypeLogo is a transparent logo image type.
	ImageTypeLogo ImageType = "Logo"
	// ImageTypeThumb is a landscape thumbnail image type.
	ImageTypeThumb ImageType = "Thumb"
	// ImageTypeDisc is a disc art image type.
	ImageTypeDisc ImageType = "Disc"
	// ImageTypeBox is a box front image type.
	ImageTypeBox ImageType = "Box"
	// ImageTypeScreenshot is a screenshot image type.
	ImageTypeScreenshot ImageType = "Screenshot"
	// ImageTypeMenu is a menu image type.
	ImageTypeMenu ImageType = "Menu"
	// ImageTypeChapter is a chapter image type.
	ImageTypeChapter ImageType = "Chapter"
	// ImageTypeBoxRear is a box rear image type.
	ImageTypeBoxRear ImageType = "BoxRear"
	// ImageTypeProfile is a user profile image type.
	ImageTypeProfile ImageType = "Profile"
)

var (
	imageTypes = []ImageType{
		ImageTypePrimary,
		ImageTypeArt,
		ImageTypeBackdrop,
		ImageTypeBanner,
		ImageTypeLogo,
		ImageTypeThumb,
		ImageTypeDisc,
		ImageTypeBox,
		ImageTypeScreenshot,
		ImageTypeMenu,
		ImageTypeChapter,
		ImageTypeBoxRear,
		ImageTypeProfile,
	}

	imageTypesByFolded = make(map[string]ImageType, len(imageTypes))
)

func init() {
	caser := cases.Fold()
	for _, t := range imageTypes {
		imageTypesByFolded[caser.String(string(t))] = t
	}
}

// ImageTypes returns all known image types.
func ImageTypes() []ImageType {
	types := make([]ImageType, len(imageTypes))
	copy(types, imageTypes)

	return types
}

// ParseImageType parses an image type name case-insensitively, such as "backdrop" or "BoxRear".
func ParseImageType(s string) (ImageType, error) {
	if t, ok := imageTypesByFolded[cases.Fold().String(s)]; ok {
		return t, nil
	}

	return "", &ErrUnknownImageType{Name: s}
}

// String returns the image type name.
func (it ImageType) String() string {
	return string(it)
}
