package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// SongID uniquely identifies a song within a queue.
type SongID string

// NewSongID generates a random SongID.
func NewSongID() SongID {
	return SongID(uuid.NewString())
}

// AudioSource is an opaque playable handle understood by the transport
// (for Lavalink, the encoded track).
type AudioSource string

// Requester identifies the user who queued a song.
type Requester struct {
	ID        snowflake.ID
	Name      string
	AvatarURL string
}

// volumeUnset marks a song that has never been played.
const volumeUnset Volume = -1

// Song represents one queued track. Everything except the volume is fixed at
// construction.
type Song struct {
	ID           SongID
	Title        string
	URL          string
	ThumbnailURL string
	SourceName   string
	Owner        Requester
	Duration     time.Duration
	EnqueuedAt   time.Time

	audio  AudioSource
	volume Volume
}

// SongMetadata holds the display fields of a song.
type SongMetadata struct {
	Title        string
	URL          string
	ThumbnailURL string
	SourceName   string
	Duration     time.Duration
}

// NewSong creates a song with a fresh ID.
func NewSong(meta SongMetadata, owner Requester, audio AudioSource) *Song {
	duration := meta.Duration
	if duration < 0 {
		duration = 0
	}
	return &Song{
		ID:           NewSongID(),
		Title:        meta.Title,
		URL:          meta.URL,
		ThumbnailURL: meta.ThumbnailURL,
		SourceName:   meta.SourceName,
		Owner:        owner,
		Duration:     duration,
		EnqueuedAt:   time.Now(),
		audio:        audio,
		volume:       volumeUnset,
	}
}

// Audio returns the song's playable handle.
func (s *Song) Audio() AudioSource {
	return s.audio
}

// Volume returns the last volume applied to this song and whether one was
// ever applied.
func (s *Song) Volume() (Volume, bool) {
	return s.volume, s.volume != volumeUnset
}

// SetVolume records the volume applied to this song.
func (s *Song) SetVolume(v Volume) {
	s.volume = v.Clamp()
}

// Source returns the parsed TrackSource for this song.
func (s *Song) Source() TrackSource {
	return ParseTrackSource(s.SourceName)
}

// Snapshot returns a copy safe to hand to other goroutines.
func (s *Song) Snapshot() Song {
	return *s
}
