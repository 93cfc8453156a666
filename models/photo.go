package models

// PhotoOrigin tags where a photo lives
type PhotoOrigin string

const (
	PhotoExisting PhotoOrigin = "existing" // persisted, identified by its server URL
	PhotoNew      PhotoOrigin = "new"      // local only, pending upload
)

// PhotoRef is a classified reference to one photo. An existing photo carries
// the authoritative server URL used for later deletion; a new photo carries an
// ephemeral handle (a multipart part name or a device URI) that is meaningless
// to the server until the upload happens. Use the constructors: an unclassified
// PhotoRef cannot be built.
type PhotoRef struct {
	Origin PhotoOrigin `json:"origin"`
	URL    string      `json:"url,omitempty"`
	Handle string      `json:"handle,omitempty"`
}

// ExistingPhoto builds a reference to a persisted photo
func ExistingPhoto(url string) PhotoRef {
	return PhotoRef{Origin: PhotoExisting, URL: url}
}

// NewPhoto builds a reference to a not-yet-uploaded photo
func NewPhoto(handle string) PhotoRef {
	return PhotoRef{Origin: PhotoNew, Handle: handle}
}

// Ref returns whichever identifier the photo carries
func (p PhotoRef) Ref() string {
	if p.Origin == PhotoExisting {
		return p.URL
	}
	return p.Handle
}
