package tournament

import (
	"github.com/rxtech-lab/argo-arena/internal/types"
)

// OnTickCallback is called after every tick that evaluated agents.
type OnTickCallback func(result TickResult)

// OnTradeCallback is called for every executed trade, in registration order.
type OnTradeCallback func(agentID string, trade types.Trade)

// OnAgentErrorCallback is called when an agent's evaluation failed and was treated as a hold.
type OnAgentErrorCallback func(agentID string, err error)

// OnPriceUnavailableCallback is called when a tick is aborted because no price could be obtained.
type OnPriceUnavailableCallback func(err error)

// OnStatusChangeCallback is called when the scheduler starts or stops.
type OnStatusChangeCallback func(status types.EngineStatus)

// Callbacks holds the engine's event hooks.
// All fields are pointers - nil means no callback will be invoked.
// Callbacks run on the ticking goroutine and must not call Tick.
type Callbacks struct {
	OnTick             *OnTickCallback
	OnTrade            *OnTradeCallback
	OnAgentError       *OnAgentErrorCallback
	OnPriceUnavailable *OnPriceUnavailableCallback
	OnStatusChange     *OnStatusChangeCallback
}
