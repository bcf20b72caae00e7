package types

import (
	"fmt"
	"sort"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// The router is a map from port identifier to the IBCModule
// which contains all the module-defined callbacks required by ICS-26
type Router struct {
	routes   map[string]IBCModule
	handlers []MsgHandler
	sealed   bool
}

// MsgHandler executes an application message dispatched through core IBC.
// It returns false when the message type does not belong to the application.
type MsgHandler func(ctx sdk.Context, msg exported.Msg) (bool, error)

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]IBCModule),
	}
}

// Seal prevents the Router from any subsequent route handlers to be registered.
// Seal will panic if called more than once.
func (rtr *Router) Seal() {
	if rtr.sealed {
		panic("router already sealed")
	}
	rtr.sealed = true
}

// Sealed returns a boolean signifying if the Router is sealed or not.
func (rtr Router) Sealed() bool {
	return rtr.sealed
}

// AddRoute adds IBCModule for a given port. It returns the Router
// so AddRoute calls can be linked. It will panic if the Router is sealed.
func (rtr *Router) AddRoute(portID string, cbs IBCModule) *Router {
	if rtr.sealed {
		panic(fmt.Sprintf("router sealed; cannot register %s route callbacks", portID))
	}
	if !sdk.IsAlphaNumeric(portID) {
		panic("route expressions can only contain alphanumeric characters")
	}
	if err := host.PortIdentifierValidator(portID); err != nil {
		panic(err)
	}
	if rtr.HasRoute(portID) {
		panic(fmt.Sprintf("route %s has already been registered", portID))
	}

	rtr.routes[portID] = cbs
	return rtr
}

// AddMsgHandler registers an application message handler. It will panic if the
// Router is sealed.
func (rtr *Router) AddMsgHandler(handler MsgHandler) *Router {
	if rtr.sealed {
		panic("router sealed; cannot register message handler")
	}
	rtr.handlers = append(rtr.handlers, handler)
	return rtr
}

// HandleMsg passes msg to the registered handlers in registration order and
// stops at the first one that accepts it.
func (rtr *Router) HandleMsg(ctx sdk.Context, msg exported.Msg) (bool, error) {
	for _, handler := range rtr.handlers {
		if handled, err := handler(ctx, msg); handled {
			return true, err
		}
	}
	return false, nil
}

// HasRoute returns true if the Router has a module registered for the port
// or false otherwise.
func (rtr *Router) HasRoute(portID string) bool {
	_, ok := rtr.routes[portID]
	return ok
}

// GetRoute returns a IBCModule for a given port.
func (rtr *Router) GetRoute(portID string) (IBCModule, bool) {
	if !rtr.HasRoute(portID) {
		return nil, false
	}
	return rtr.routes[portID], true
}

// Route returns the IBCModule bound to the port, failing with ErrInvalidPort
// for unknown ports.
func (rtr *Router) Route(portID string) (IBCModule, error) {
	cbs, ok := rtr.GetRoute(portID)
	if !ok {
		return nil, sdkerrors.Wrapf(ErrInvalidPort, "no application bound to port %s", portID)
	}
	return cbs, nil
}

// Ports returns the sorted identifiers of every bound port.
func (rtr *Router) Ports() []string {
	ports := make([]string, 0, len(rtr.routes))
	for portID := range rtr.routes {
		ports = append(ports, portID)
	}
	sort.Strings(ports)
	return ports
}
