package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// globalPrefix starts the custom ID of every status message control.
const globalPrefix = "global"

// GlobalAction is a control on the status message.
type GlobalAction string

const (
	ActionPrevious   GlobalAction = "previousSong"
	ActionPause      GlobalAction = "pauseSong"
	ActionLoop       GlobalAction = "loopSong"
	ActionNext       GlobalAction = "nextSong"
	ActionQueue      GlobalAction = "queue"
	ActionTime       GlobalAction = "time"
	ActionVolumeUp   GlobalAction = "volumeUp"
	ActionVolumeDown GlobalAction = "volumeDown"
)

var globalActions = map[GlobalAction]struct{}{
	ActionPrevious:   {},
	ActionPause:      {},
	ActionLoop:       {},
	ActionNext:       {},
	ActionQueue:      {},
	ActionTime:       {},
	ActionVolumeUp:   {},
	ActionVolumeDown: {},
}

// List navigation directions.
const (
	directionBack = "back"
	directionNext = "next"
)

var errInvalidCustomID = errors.New("invalid custom ID")

// componentID is a parsed button custom ID. Exactly one of Action or Token is set.
type componentID struct {
	Action GlobalAction

	Token string
	Page  int
}

func globalCustomID(action GlobalAction) string {
	return globalPrefix + "," + string(action)
}

func listCustomID(token, direction string, page int) string {
	return fmt.Sprintf("%s,%s,%d", token, direction, page)
}

// parseCustomID parses `global,<action>` and `<token>,back|next,<page>`.
func parseCustomID(customID string) (componentID, error) {
	parts := strings.Split(customID, ",")

	if len(parts) == 2 && parts[0] == globalPrefix {
		action := GlobalAction(parts[1])
		if _, ok := globalActions[action]; !ok {
			return componentID{}, fmt.Errorf("%w: unknown action %q", errInvalidCustomID, parts[1])
		}
		return componentID{Action: action}, nil
	}

	if len(parts) != 3 || parts[0] == "" {
		return componentID{}, fmt.Errorf("%w: %q", errInvalidCustomID, customID)
	}
	if parts[1] != directionBack && parts[1] != directionNext {
		return componentID{}, fmt.Errorf("%w: unknown direction %q", errInvalidCustomID, parts[1])
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil || page < 0 {
		return componentID{}, fmt.Errorf("%w: bad page %q", errInvalidCustomID, parts[2])
	}
	return componentID{Token: parts[0], Page: page}, nil
}
