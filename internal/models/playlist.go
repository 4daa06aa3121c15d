package models

// Playlist is an ordered list of catalog references generated for a mood.
// ID stays empty until a store persists the playlist.
type Playlist struct {
	ID        string   `json:"id" bson:"-"`
	Mood      Mood     `json:"mood" bson:"mood"`
	TrackURIs []string `json:"trackUris" bson:"trackUris"`
}

// Persisted reports whether a store has assigned an identifier.
func (p Playlist) Persisted() bool {
	return p.ID != ""
}
