package lastfm

// Session represents an authenticated session from auth.getMobileSession.
type Session struct {
	Name       string `json:"name"`       // Last.fm username
	Key        string `json:"key"`        // Session key for authenticated requests
	Subscriber int    `json:"subscriber"` // Whether the user is a subscriber
}

// TrackInfo represents the response from track.getInfo.
type TrackInfo struct {
	Name   string `json:"name"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album *AlbumInfo `json:"album"`
}

// AlbumInfo is the album portion of a track.getInfo response.
type AlbumInfo struct {
	Artist string      `json:"artist"`
	Title  string      `json:"title"`
	Images []AlbumImage `json:"images"`
}

// AlbumImage is a single artwork entry, available in several sizes.
type AlbumImage struct {
	Size string `json:"size"`
	URL  string `json:"url"`
}

// LargeImageURL returns the URL of the "large" album image, or an empty
// string when the track has no album or no image of that size.
func (t *TrackInfo) LargeImageURL() string {
	if t == nil || t.Album == nil {
		return ""
	}
	for _, img := range t.Album.Images {
		if img.Size == "large" {
			return img.URL
		}
	}
	return ""
}
