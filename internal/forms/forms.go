// Package forms validates user input and turns it into API requests.
package forms

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"keepsake/internal/api"
	"keepsake/internal/youtube"
)

const DefaultAddedBy = "Anonymous"

var (
	ErrMissingField            = errors.New("required field is empty")
	ErrInvalidEmail            = errors.New("invalid email address")
	ErrOpenDateNotInFuture     = errors.New("open date must be in the future")
	ErrUnknownTemplate         = errors.New("unknown card template")
	ErrInvalidYouTubeReference = errors.New("enter a valid YouTube URL (e.g. https://www.youtube.com/watch?v=VIDEO_ID or https://youtu.be/VIDEO_ID)")
)

// OpenDateLayouts are accepted by ParseOpenDate, tried in order.
var OpenDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

type CapsuleForm struct {
	CreatorEmail string
	Title        string
	Message      string
	MediaURL     string
	OpenDate     time.Time
}

// Validate checks the form against now. The open date must be strictly later.
func (f CapsuleForm) Validate(now time.Time) error {
	if err := required(
		field{"creator_email", f.CreatorEmail},
		field{"title", f.Title},
		field{"message", f.Message},
	); err != nil {
		return err
	}
	if err := validEmail(f.CreatorEmail); err != nil {
		return err
	}
	if !f.OpenDate.After(now) {
		return ErrOpenDateNotInFuture
	}
	return nil
}

func (f CapsuleForm) Request() api.CapsuleRequest {
	req := api.CapsuleRequest{
		CreatorEmail: strings.TrimSpace(f.CreatorEmail),
		Title:        strings.TrimSpace(f.Title),
		Message:      f.Message,
		OpenDate:     f.OpenDate.UTC().Format(time.RFC3339),
	}
	if media := strings.TrimSpace(f.MediaURL); media != "" {
		req.MediaURL = &media
	}
	return req
}

type GiftForm struct {
	SenderName     string
	RecipientName  string
	RecipientEmail string
	CardTemplate   string
	Message        string
}

// Validate requires every field. When templates is non-empty the card template
// must be one of them.
func (f GiftForm) Validate(templates []string) error {
	if err := required(
		field{"sender_name", f.SenderName},
		field{"recipient_name", f.RecipientName},
		field{"recipient_email", f.RecipientEmail},
		field{"card_template", f.CardTemplate},
		field{"message", f.Message},
	); err != nil {
		return err
	}
	if err := validEmail(f.RecipientEmail); err != nil {
		return err
	}
	if len(templates) > 0 && !slices.Contains(templates, strings.TrimSpace(f.CardTemplate)) {
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownTemplate, f.CardTemplate, strings.Join(templates, ", "))
	}
	return nil
}

func (f GiftForm) Request() api.GiftRequest {
	return api.GiftRequest{
		SenderName:     strings.TrimSpace(f.SenderName),
		RecipientName:  strings.TrimSpace(f.RecipientName),
		RecipientEmail: strings.TrimSpace(f.RecipientEmail),
		CardTemplate:   strings.TrimSpace(f.CardTemplate),
		Message:        f.Message,
	}
}

type MusicForm struct {
	JarType    string
	SongName   string
	ArtistName string
	YouTubeURL string
	AddedBy    string
}

func (f MusicForm) Validate() error {
	if err := required(
		field{"jar_type", f.JarType},
		field{"song_name", f.SongName},
		field{"artist_name", f.ArtistName},
	); err != nil {
		return err
	}
	if !youtube.IsValidReference(f.YouTubeURL) {
		return ErrInvalidYouTubeReference
	}
	return nil
}

func (f MusicForm) Request() api.MusicRequest {
	addedBy := strings.TrimSpace(f.AddedBy)
	if addedBy == "" {
		addedBy = DefaultAddedBy
	}
	return api.MusicRequest{
		JarType:    strings.TrimSpace(f.JarType),
		SongName:   strings.TrimSpace(f.SongName),
		ArtistName: strings.TrimSpace(f.ArtistName),
		YouTubeURL: strings.TrimSpace(f.YouTubeURL),
		AddedBy:    addedBy,
	}
}

// CapsuleViewLink is the shareable page for a created capsule.
func CapsuleViewLink(webBase, capsuleID string) string {
	return strings.TrimRight(webBase, "/") + "/view-capsule.html?id=" + url.QueryEscape(capsuleID)
}

// ParseOpenDate reads a date in one of OpenDateLayouts. Layouts without a zone
// are read in loc.
func ParseOpenDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range OpenDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse open date %q (use RFC3339 or 2006-01-02 15:04)", s)
}

// FormatOpenDate renders the date the way the success message shows it.
func FormatOpenDate(t time.Time) string {
	return t.Format("2 January 2006 15:04")
}

type field struct {
	name  string
	value string
}

// required reports the first blank field.
func required(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s: %w", f.name, ErrMissingField)
		}
	}
	return nil
}

func validEmail(email string) error {
	if !govalidator.IsEmail(strings.TrimSpace(email)) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}
