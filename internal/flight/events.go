package flight

import (
	"github.com/san-kum/rocketsim/internal/event"
	"github.com/san-kum/rocketsim/internal/models"
)

const (
	EventSnapshot     event.Type = "snapshot"
	EventStateChanged event.Type = "state_changed"
	EventDamage       event.Type = "damage"
)

// Reasons for a state change.
const (
	ReasonLanded    = "landed"
	ReasonCrashed   = "crashed"
	ReasonImpact    = "impact"
	ReasonLiftoff   = "liftoff"
	ReasonSeparated = "separated"
	ReasonMissing   = "missing_body"
	ReasonReset     = "reset"
	ReasonPlaced    = "placed"
)

type SnapshotEvent struct {
	Snapshot
}

func (SnapshotEvent) EventType() event.Type { return EventSnapshot }

type StateChange struct {
	Time   float64            `json:"time"`
	From   models.FlightState `json:"from"`
	To     models.FlightState `json:"to"`
	Body   string             `json:"body,omitempty"`
	Reason string             `json:"reason"`
}

func (StateChange) EventType() event.Type { return EventStateChanged }

type DamageEvent struct {
	Time   float64 `json:"time"`
	Body   string  `json:"body"`
	Impact float64 `json:"impact"`
	Amount float64 `json:"amount"`
	Health float64 `json:"health"`
}

func (DamageEvent) EventType() event.Type { return EventDamage }
