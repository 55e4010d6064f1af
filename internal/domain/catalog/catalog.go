package catalog

import (
	"fmt"
	"strings"
)

// Position is the canonical squad slot for a player.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// PositionFromID maps the upstream element_type (1..4) to a Position.
func PositionFromID(id int) (Position, bool) {
	switch id {
	case 1:
		return PositionGoalkeeper, true
	case 2:
		return PositionDefender, true
	case 3:
		return PositionMidfielder, true
	case 4:
		return PositionForward, true
	default:
		return "", false
	}
}

// PositionFromName resolves textual position variants.
func PositionFromName(name string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "GK", "GKP", "GOALKEEPER":
		return PositionGoalkeeper, true
	case "DEF", "D", "DEFENDER":
		return PositionDefender, true
	case "MID", "M", "MIDFIELDER":
		return PositionMidfielder, true
	case "FWD", "FW", "F", "ST", "FORWARD", "STRIKER", "ATTACKER":
		return PositionForward, true
	default:
		return "", false
	}
}

// Event is a gameweek entry from the bootstrap catalog.
type Event struct {
	ID        int
	Name      string
	IsCurrent bool
	Finished  bool
}

type Team struct {
	ID        int
	Name      string
	ShortName string
}

type Element struct {
	ID       int
	WebName  string
	TeamID   int
	Position Position
}

// Catalog is the reference data every enrichment step resolves against.
// The maps are built once per fetch and treated as immutable afterwards.
type Catalog struct {
	Events   []Event
	Teams    map[int]Team
	Elements map[int]Element
}

// CurrentGameweek resolves the active gameweek: the event flagged current,
// else the first unfinished event, else the first event, else 1.
func (c *Catalog) CurrentGameweek() int {
	if c == nil || len(c.Events) == 0 {
		return 1
	}
	for _, ev := range c.Events {
		if ev.IsCurrent {
			return ev.ID
		}
	}
	for _, ev := range c.Events {
		if !ev.Finished {
			return ev.ID
		}
	}
	return c.Events[0].ID
}

// FinishedGameweeks lists the ids of all completed events in catalog order.
func (c *Catalog) FinishedGameweeks() []int {
	if c == nil {
		return nil
	}
	out := make([]int, 0, len(c.Events))
	for _, ev := range c.Events {
		if ev.Finished {
			out = append(out, ev.ID)
		}
	}
	return out
}

// PlayerName returns the element's display name, or a placeholder when the
// element is unknown.
func (c *Catalog) PlayerName(id int) string {
	if c != nil {
		if el, ok := c.Elements[id]; ok && el.WebName != "" {
			return el.WebName
		}
	}
	return fmt.Sprintf("Player %d", id)
}

// TeamLabel returns the team's short name, else full name, else a
// placeholder.
func (c *Catalog) TeamLabel(id int) string {
	if c != nil {
		if team, ok := c.Teams[id]; ok {
			if team.ShortName != "" {
				return team.ShortName
			}
			if team.Name != "" {
				return team.Name
			}
		}
	}
	return fmt.Sprintf("Team %d", id)
}
