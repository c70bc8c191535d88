package item

import (
	"github.com/go-faster/jx"
	"github.com/katana-project/artwork/internal/errors"
)

// record is the union of the Media and Person JSON fields.
type record struct {
	id, name, type_, role   string
	primaryImageTag         string
	parentBackdropItemID    string
	imageTags               map[ImageType]string
	backdropImageTags       []string
	parentBackdropImageTags []string
	imageBlurHashes         BlurHashes
	people                  []*Person
}

// DecodeSubject decodes a media server item object, a *Person is returned if the object has a non-empty role.
func DecodeSubject(d *jx.Decoder) (Subject, error) {
	r, err := decodeRecord(d)
	if err != nil {
		return nil, err
	}
	if r.role != "" {
		return r.person(), nil
	}

	return r.media(), nil
}

// DecodeMedia decodes a media server item object as a *Media, regardless of its role.
func DecodeMedia(d *jx.Decoder) (*Media, error) {
	r, err := decodeRecord(d)
	if err != nil {
		return nil, err
	}

	return r.media(), nil
}

// DecodePerson decodes a media server person object as a *Person.
func DecodePerson(d *jx.Decoder) (*Person, error) {
	r, err := decodeRecord(d)
	if err != nil {
		return nil, err
	}

	return r.person(), nil
}

// UnmarshalSubject decodes a JSON item object with DecodeSubject.
func UnmarshalSubject(data []byte) (Subject, error) {
	return DecodeSubject(jx.DecodeBytes(data))
}

func (r *record) media() *Media {
	return &Media{
		ID:                      r.id,
		Name:                    r.name,
		Type:                    r.type_,
		ImageTags:               r.imageTags,
		BackdropImageTags:       r.backdropImageTags,
		ParentBackdropImageTags: r.parentBackdropImageTags,
		ParentBackdropItemID:    r.parentBackdropItemID,
		ImageBlurHashes:         r.imageBlurHashes,
		People:                  r.people,
	}
}

func (r *record) person() *Person {
	return &Person{
		ID:              r.id,
		Name:            r.name,
		Role:            r.role,
		Type:            r.type_,
		PrimaryImageTag: r.primaryImageTag,
		ImageBlurHashes: r.imageBlurHashes,
	}
}

func decodeRecord(d *jx.Decoder) (*record, error) {
	if d.Next() != jx.Object {
		return nil, errors.Errorf("expected item object, got %s", d.Next())
	}

	r := &record{}
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) (err error) {
		switch string(key) {
		case "Id":
			r.id, err = optStr(d)
		case "Name":
			r.name, err = optStr(d)
		case "Type":
			r.type_, err = optStr(d)
		case "Role":
			r.role, err = optStr(d)
		case "PrimaryImageTag":
			r.primaryImageTag, err = optStr(d)
		case "ParentBackdropItemId":
			r.parentBackdropItemID, err = optStr(d)
		case "ImageTags":
			r.imageTags, err = decodeImageTags(d)
		case "BackdropImageTags":
			r.backdropImageTags, err = optStrArr(d)
		case "ParentBackdropImageTags":
			r.parentBackdropImageTags, err = optStrArr(d)
		case "ImageBlurHashes":
			r.imageBlurHashes, err = decodeBlurHashes(d)
		case "People":
			r.people, err = decodePeople(d)
		default:
			return d.Skip()
		}

		if err != nil {
			return errors.Wrapf(err, "failed to decode field %s", key)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode item")
	}

	return r, nil
}

func decodeImageTags(d *jx.Decoder) (map[ImageType]string, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}

	tags := make(map[ImageType]string)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		tag, err := optStr(d)
		if err != nil {
			return err
		}

		tags[ImageType(key)] = tag
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tags, nil
}

func decodeBlurHashes(d *jx.Decoder) (BlurHashes, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}

	hashes := make(BlurHashes)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if d.Next() == jx.Null {
			return d.Null()
		}

		hashesByTag := make(map[string]string)
		err := d.ObjBytes(func(d *jx.Decoder, tag []byte) error {
			hash, err := optStr(d)
			if err != nil {
				return err
			}

			hashesByTag[string(tag)] = hash
			return nil
		})
		if err != nil {
			return err
		}

		hashes[ImageType(key)] = hashesByTag
		return nil
	})
	if err != nil {
		return nil, err
	}

	return hashes, nil
}

func decodePeople(d *jx.Decoder) ([]*Person, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}

	var people []*Person
	err := d.Arr(func(d *jx.Decoder) error {
		p, err := DecodePerson(d)
		if err != nil {
			return err
		}

		people = append(people, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return people, nil
}

// optStr decodes a nullable string, null is decoded as an empty string.
func optStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}

	return d.Str()
}

func optStrArr(d *jx.Decoder) ([]string, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}

	var values []string
	err := d.Arr(func(d *jx.Decoder) error {
		v, err := optStr(d)
		if err != nil {
			return err
		}

		values = append(values, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}
