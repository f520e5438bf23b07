package domain

// Volume is the queue volume level.
type Volume int

const (
	MinVolume     Volume = 0
	MaxVolume     Volume = 10
	DefaultVolume Volume = MaxVolume
)

// Clamp limits v to [MinVolume, MaxVolume].
func (v Volume) Clamp() Volume {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// Valid reports whether v is within bounds.
func (v Volume) Valid() bool {
	return v >= MinVolume && v <= MaxVolume
}

// Scalar maps the level onto the transport's 0.0..1.0 gain in 0.1 steps.
func (v Volume) Scalar() float64 {
	return float64(v.Clamp()) / float64(MaxVolume)
}

// VolumeMode selects how volume is carried across songs.
type VolumeMode string

const (
	// VolumeModeQueue reapplies the queue volume to every selected song.
	VolumeModeQueue VolumeMode = "queue"
	// VolumeModeSong lets a song keep the volume it was last played at.
	VolumeModeSong VolumeMode = "song"
)

// ParseVolumeMode converts a string to a VolumeMode.
func ParseVolumeMode(s string) (VolumeMode, bool) {
	switch VolumeMode(s) {
	case VolumeModeQueue:
		return VolumeModeQueue, true
	case VolumeModeSong:
		return VolumeModeSong, true
	default:
		return "", false
	}
}

// EffectiveVolume returns the volume to play a song at under mode, given the
// queue volume.
func (m VolumeMode) EffectiveVolume(song *Song, queueVolume Volume) Volume {
	if m == VolumeModeSong {
		if v, ok := song.Volume(); ok {
			return v
		}
	}
	return queueVolume
}
