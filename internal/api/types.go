package api

// CapsuleRequest is the body of POST /api/capsules. MediaURL is sent as null when empty.
type CapsuleRequest struct {
	CreatorEmail string  `json:"creator_email"`
	Title        string  `json:"title"`
	Message      string  `json:"message"`
	MediaURL     *string `json:"media_url"`
	OpenDate     string  `json:"open_date"`
}

type CapsuleResponse struct {
	CapsuleID string `json:"capsule_id"`
}

type GiftRequest struct {
	SenderName     string `json:"sender_name"`
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	CardTemplate   string `json:"card_template"`
	Message        string `json:"message"`
}

type GiftResponse struct {
	ViewLink string `json:"view_link"`
}

// Jar is a music jar category.
type Jar struct {
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Label is the "<emoji> <name>" form shown next to songs.
func (j Jar) Label() string {
	if j.Emoji == "" {
		return j.Name
	}
	return j.Emoji + " " + j.Name
}

// Music is a song stored in a jar.
type Music struct {
	ID         int64  `json:"id"`
	JarType    string `json:"jar_type,omitempty"`
	SongName   string `json:"song_name"`
	ArtistName string `json:"artist_name"`
	YouTubeURL string `json:"youtube_url"`
	PlayCount  int64  `json:"play_count"`
}

type MusicRequest struct {
	JarType    string `json:"jar_type"`
	SongName   string `json:"song_name"`
	ArtistName string `json:"artist_name"`
	YouTubeURL string `json:"youtube_url"`
	AddedBy    string `json:"added_by"`
}
