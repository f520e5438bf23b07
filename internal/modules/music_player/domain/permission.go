package domain

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
)

// Capabilities is a set of moderation capabilities an actor holds in a guild.
type Capabilities uint8

const (
	CapabilityMuteMembers Capabilities = 1 << iota
	CapabilityDeafenMembers
	CapabilityManageChannels
	CapabilityAdministrator
)

// ModerationCapabilities is the set any one of which grants queue control.
const ModerationCapabilities = CapabilityMuteMembers |
	CapabilityDeafenMembers |
	CapabilityManageChannels |
	CapabilityAdministrator

// HasAny reports whether c shares at least one capability with mask.
func (c Capabilities) HasAny(mask Capabilities) bool {
	return c&mask != 0
}

// Actor is a user attempting to control a queue.
type Actor struct {
	ID           snowflake.ID
	Capabilities Capabilities
}

// Occupancy describes who is around the queue when a control is attempted.
type Occupancy struct {
	// CurrentOwner is the requester of the current song, nil when there is none.
	CurrentOwner *snowflake.ID
	// Occupants are the users in the queue's voice channel, bot included.
	Occupants []snowflake.ID
}

// aloneWithBot reports whether actor shares the channel with only the bot.
func (o Occupancy) aloneWithBot(actor snowflake.ID) bool {
	return len(o.Occupants) == 2 && lo.Contains(o.Occupants, actor)
}

// ownerLeft reports whether the current song's requester is no longer in the
// channel. Unknown occupancy never counts as left.
func (o Occupancy) ownerLeft() bool {
	return len(o.Occupants) > 0 && !lo.Contains(o.Occupants, *o.CurrentOwner)
}

// CanManage reports whether actor may control playback (skip, pause, volume,
// remove). The requester of the current song always may, and once the
// requester has left the channel anyone may.
func CanManage(o Occupancy, actor Actor) bool {
	if o.CurrentOwner == nil || o.aloneWithBot(actor.ID) || o.ownerLeft() {
		return true
	}
	if *o.CurrentOwner == actor.ID {
		return true
	}
	return actor.Capabilities.HasAny(ModerationCapabilities)
}

// CanAdminister reports whether actor may perform admin-level controls such
// as looping or disconnecting. Ownership of the current song does not count.
func CanAdminister(o Occupancy, actor Actor) bool {
	if o.CurrentOwner == nil || o.aloneWithBot(actor.ID) {
		return true
	}
	return actor.Capabilities.HasAny(ModerationCapabilities)
}
