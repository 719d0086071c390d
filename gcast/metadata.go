package gcast

// MediaMetadata represents a generic media artifact.
//
// Ref: https://developers.google.com/cast/docs/reference/messages#GenericMediaMetadata
type MediaMetadata map[string]interface{}

// Title returns the descriptive title of the content.
func (m MediaMetadata) Title() string {
	return m.str("title")
}

// Subtitle returns the descriptive subtitle of the content.
func (m MediaMetadata) Subtitle() string {
	return m.str("subtitle")
}

func (m MediaMetadata) str(key string) string {
	s, _ := m[key].(string)
	return s
}
