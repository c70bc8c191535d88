package resolver

import (
	"github.com/katana-project/artwork/item"
	"golang.org/x/exp/slices"
)

// excludedBlurHashTypes are the image types that never expose a blurhash, regardless of data presence.
var excludedBlurHashTypes = []item.ImageType{item.ImageTypeLogo}

// ImageTag returns the tag of the subject's image of the supplied type,
// index selects the backdrop image and is ignored for other types.
func ImageTag(subject item.Subject, type_ item.ImageType, index int) (string, bool) {
	switch s := subject.(type) {
	case *item.Media:
		if s == nil {
			return "", false
		}
		if tag := s.ImageTags[type_]; tag != "" {
			return tag, true
		}
		if type_ == item.ImageTypeBackdrop && index >= 0 && index < len(s.BackdropImageTags) {
			if tag := s.BackdropImageTags[index]; tag != "" {
				return tag, true
			}
		}
	case *item.Person:
		if s == nil {
			return "", false
		}
		if type_ == item.ImageTypePrimary && s.PrimaryImageTag != "" {
			return s.PrimaryImageTag, true
		}
	}

	return "", false
}

// CanBlurHash checks whether the subject carries a blurhash for its image of the supplied type.
// Logo images are never blurhashed.
func CanBlurHash(subject item.Subject, type_ item.ImageType, index int) bool {
	if slices.Contains(excludedBlurHashTypes, type_) {
		return false
	}

	tag, ok := ImageTag(subject, type_, index) // also rejects nil subjects
	if !ok {
		return false
	}

	hashes := subject.BlurHashes()
	if hashes == nil {
		return false
	}

	switch subject.Kind() {
	case item.KindMedia:
		// the tag of a backdrop is the one at index, so it keys the backdrop map as well
		_, ok = hashes.Lookup(type_, tag)
	case item.KindPerson:
		_, ok = hashes.Lookup(item.ImageTypePrimary, tag)
	default:
		ok = false
	}

	return ok
}

// BlurHash returns the blurhash of the subject's image of the supplied type.
func BlurHash(subject item.Subject, type_ item.ImageType, index int) (string, bool) {
	tag, ok := ImageTag(subject, type_, index)
	if !ok || !CanBlurHash(subject, type_, index) {
		return "", false
	}

	hashes := subject.BlurHashes()
	switch subject.Kind() {
	case item.KindMedia:
		return hashes.Lookup(type_, tag)
	case item.KindPerson:
		return hashes.Lookup(item.ImageTypePrimary, tag)
	}

	return "", false
}
