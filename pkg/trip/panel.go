package trip

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Panel selects which view the client shows next to the trip controls
type Panel string

const (
	PanelNone         Panel = ""
	PanelAddTravelLog Panel = "ADD_TRAVEL_LOG"
	PanelTravelLog    Panel = "TRAVEL_LOG"
	PanelUserMap      Panel = "USER_MAP"
)

// DefaultPanel is selected when an active session is restored without a stored panel
const DefaultPanel = PanelAddTravelLog

// Panels lists every selectable panel
func Panels() []Panel {
	return []Panel{PanelAddTravelLog, PanelTravelLog, PanelUserMap}
}

// ParsePanel accepts a panel name in any case, with - or _ separators
func ParsePanel(s string) (Panel, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	if norm == "" || norm == "NONE" {
		return PanelNone, nil
	}
	for _, p := range Panels() {
		if string(p) == norm {
			return p, nil
		}
	}
	return PanelNone, errors.Errorf("unknown panel %q", s)
}

func (p Panel) String() string {
	if p == PanelNone {
		return "none"
	}
	return string(p)
}
