package item

// Kind is the discriminant of a Subject.
type Kind uint

const (
	// KindMedia is the kind of a Media subject.
	KindMedia Kind = iota
	// KindPerson is the kind of a Person subject.
	KindPerson
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMedia:
		return "media"
	case KindPerson:
		return "person"
	}

	return "unknown"
}

// BlurHashes is a mapping of image types to blurhashes keyed by image tags.
type BlurHashes map[ImageType]map[string]string

// Lookup returns the non-empty blurhash of an image with the supplied type and tag.
func (bh BlurHashes) Lookup(type_ ImageType, tag string) (string, bool) {
	hash, ok := bh[type_][tag]
	if !ok || hash == "" {
		return "", false
	}

	return hash, true
}

// Subject is an item whose images can be resolved, either a *Media or a *Person.
type Subject interface {
	// Kind returns the discriminant of the subject.
	Kind() Kind
	// ItemID returns the ID of the subject on the media server, can be empty.
	ItemID() string
	// BlurHashes returns the blurhashes of the subject's images, can be nil.
	BlurHashes() BlurHashes
}

// Media is a media item, such as a movie, series, episode or album.
type Media struct {
	// ID is the ID of the item.
	ID string
	// Name is the display name of the item.
	Name string
	// Type is the server-side item type, such as "Movie" or "Episode".
	Type string
	// ImageTags are the tags of the item's images, keyed by their type.
	ImageTags map[ImageType]string
	// BackdropImageTags are the tags of the item's backdrop images, in order.
	BackdropImageTags []string
	// ParentBackdropImageTags are the tags of the backdrop images of the item's parent.
	ParentBackdropImageTags []string
	// ParentBackdropItemID is the ID of the parent owning ParentBackdropImageTags.
	ParentBackdropItemID string
	// ImageBlurHashes are the blurhashes of the item's images.
	ImageBlurHashes BlurHashes
	// People are the people involved with the item, such as actors.
	People []*Person
}

func (m *Media) Kind() Kind {
	return KindMedia
}
func (m *Media) ItemID() string {
	return m.ID
}
func (m *Media) BlurHashes() BlurHashes {
	return m.ImageBlurHashes
}

// Person is a person related to a media item, only carrying a primary image.
type Person struct {
	// ID is the ID of the person.
	ID string
	// Name is the name of the person.
	Name string
	// Role is the role of the person in the related item, such as a character name.
	Role string
	// Type is the kind of involvement, such as "Actor" or "Director".
	Type string
	// PrimaryImageTag is the tag of the person's primary image.
	PrimaryImageTag string
	// ImageBlurHashes are the blurhashes of the person's images, only the primary ones are used.
	ImageBlurHashes BlurHashes
}

func (p *Person) Kind() Kind {
	return KindPerson
}
func (p *Person) ItemID() string {
	return p.ID
}
func (p *Person) BlurHashes() BlurHashes {
	return p.ImageBlurHashes
}
