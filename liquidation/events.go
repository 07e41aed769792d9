// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"fmt"
	"sync"

	"github.com/vechain/subnetd/thor"
)

// EventKind is the type of an engine event.
type EventKind uint8

const (
	EventLiquidationStarted EventKind = iota + 1
	EventPhaseCompleted
	EventLiquidationCompleted
	EventEmergencyFinalized
	EventDistributionDust
	EventLpDissolutionFailed
	EventProtocolLpClearFailed
	EventCursorOverflow
)

var eventNames = map[EventKind]string{
	EventLiquidationStarted:    "LiquidationStarted",
	EventPhaseCompleted:        "PhaseCompleted",
	EventLiquidationCompleted:  "LiquidationCompleted",
	EventEmergencyFinalized:    "EmergencyFinalized",
	EventDistributionDust:      "DistributionDust",
	EventLpDissolutionFailed:   "LpDissolutionFailed",
	EventProtocolLpClearFailed: "ProtocolLpClearFailed",
	EventCursorOverflow:        "CursorOverflow",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// IsWarning reports whether the event signals a degraded teardown.
func (k EventKind) IsWarning() bool {
	switch k {
	case EventDistributionDust, EventLpDissolutionFailed, EventProtocolLpClearFailed,
		EventCursorOverflow, EventEmergencyFinalized:
		return true
	}
	return false
}

// Event is an observable side effect of the engine. Events are diagnostic only.
type Event struct {
	Kind   EventKind
	NetUID thor.NetUID
	Phase  Tag
	Amount uint64
	Detail string
}

func (e Event) String() string {
	return fmt.Sprintf("%v{netuid=%v phase=%v amount=%d detail=%q}", e.Kind, e.NetUID, e.Phase, e.Amount, e.Detail)
}

// Emitter receives the events of committed invocations.
type Emitter interface {
	Emit(events ...Event) error
}

// Recorder is an Emitter keeping events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(events ...Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

// Events returns every recorded event.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Filter returns the recorded events of the given kind.
func (r *Recorder) Filter(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
