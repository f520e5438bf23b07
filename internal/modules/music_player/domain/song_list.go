package domain

import "github.com/samber/lo"

// RemoveStatus classifies the effect of a removal on playback.
type RemoveStatus int

const (
	// RemoveNone means the list changed but the playback position did not.
	RemoveNone RemoveStatus = iota
	// RemoveSkip means the current song was removed and a later song exists.
	RemoveSkip
	// RemovePrevious is reserved for moving playback back a song; SongList
	// never reports it.
	RemovePrevious
	// RemoveDestroyed means the current song was removed and nothing follows it.
	RemoveDestroyed
)

func (s RemoveStatus) String() string {
	switch s {
	case RemoveSkip:
		return "skip"
	case RemovePrevious:
		return "previous"
	case RemoveDestroyed:
		return "destroyed"
	default:
		return "none"
	}
}

// SongList is an ordered list of songs with a cursor on the current one.
//
// currentIndex may sit one past the end after a skip from the last song; in
// that state there is no current song.
type SongList struct {
	songs        []*Song
	currentIndex int
}

// NewSongList creates an empty SongList.
func NewSongList() SongList {
	return SongList{songs: make([]*Song, 0)}
}

// Len returns the number of songs.
func (l *SongList) Len() int {
	return len(l.songs)
}

// IsEmpty returns true if the list has no songs.
func (l *SongList) IsEmpty() bool {
	return len(l.songs) == 0
}

// CurrentIndex returns the cursor position.
func (l *SongList) CurrentIndex() int {
	return l.currentIndex
}

func (l *SongList) isValidIndex(index int) bool {
	return 0 <= index && index < len(l.songs)
}

// Current returns the song under the cursor, or nil.
func (l *SongList) Current() *Song {
	return l.At(l.currentIndex)
}

// At returns the song at index, or nil if out of range.
func (l *SongList) At(index int) *Song {
	if !l.isValidIndex(index) {
		return nil
	}
	return l.songs[index]
}

// IsExhausted reports whether the cursor has run past the last song.
func (l *SongList) IsExhausted() bool {
	return !l.isValidIndex(l.currentIndex)
}

// HasNext reports whether a song follows the current one.
func (l *SongList) HasNext() bool {
	return l.currentIndex+1 < len(l.songs)
}

// IndexOf returns the position of the song with id, or -1.
func (l *SongList) IndexOf(id SongID) int {
	_, index, ok := lo.FindIndexOf(l.songs, func(s *Song) bool { return s.ID == id })
	if !ok {
		return -1
	}
	return index
}

// Snapshot returns copies of every song in order.
func (l *SongList) Snapshot() []Song {
	return lo.Map(l.songs, func(s *Song, _ int) Song { return s.Snapshot() })
}

// Append adds songs to the end and recomputes the cursor.
func (l *SongList) Append(songs ...*Song) {
	current := l.Current()
	l.songs = append(l.songs, songs...)
	l.recompute(current)
}

// Remove deletes the song with id and reports how playback is affected.
// Removing an unknown id changes nothing.
func (l *SongList) Remove(id SongID) (*Song, RemoveStatus) {
	index := l.IndexOf(id)
	if index < 0 {
		return nil, RemoveNone
	}

	current := l.Current()
	removed := l.songs[index]
	l.songs = append(l.songs[:index], l.songs[index+1:]...)
	l.recompute(current)

	if current == nil || current.ID != id {
		return removed, RemoveNone
	}
	if index >= len(l.songs) {
		return removed, RemoveDestroyed
	}
	return removed, RemoveSkip
}

// recompute points the cursor back at previous, or at 0 if previous is gone.
// Without a previous current song the cursor stays parked (at most one past
// the end), so an exhausted list resumes on the first appended entry.
func (l *SongList) recompute(previous *Song) {
	if previous == nil {
		l.currentIndex = min(l.currentIndex, len(l.songs))
		return
	}
	index := l.IndexOf(previous.ID)
	if index < 0 {
		index = 0
	}
	l.currentIndex = index
}

// Select moves the cursor to index. It returns false and leaves the cursor
// untouched when index has no song.
func (l *SongList) Select(index int) bool {
	if !l.isValidIndex(index) {
		return false
	}
	l.currentIndex = index
	return true
}

// Advance moves the cursor forward one song. When no song follows, the cursor
// is parked one past the end and false is returned.
func (l *SongList) Advance() bool {
	if l.HasNext() {
		l.currentIndex++
		return true
	}
	l.currentIndex = len(l.songs)
	return false
}

// Clear removes every song and resets the cursor.
func (l *SongList) Clear() {
	l.songs = make([]*Song, 0)
	l.currentIndex = 0
}
