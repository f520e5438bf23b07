package usecases

import (
	"github.com/Sebola3461/fortlev/internal/modules/music_player/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// Song is an alias for domain.Song.
type Song = domain.Song

// Requester is an alias for domain.Requester.
type Requester = domain.Requester

// Actor is an alias for domain.Actor.
type Actor = domain.Actor

// Capabilities is an alias for domain.Capabilities.
type Capabilities = domain.Capabilities

// Volume is an alias for domain.Volume.
type Volume = domain.Volume

// Capability flags, re-exported for mapping member permissions.
const (
	CapabilityMuteMembers    = domain.CapabilityMuteMembers
	CapabilityDeafenMembers  = domain.CapabilityDeafenMembers
	CapabilityManageChannels = domain.CapabilityManageChannels
	CapabilityAdministrator  = domain.CapabilityAdministrator
)
