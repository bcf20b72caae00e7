package types

import (
	"fmt"

	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// IBC client events
const (
	AttributeKeyClientID          = "client_id"
	AttributeKeyClientType        = "client_type"
	AttributeKeyConsensusHeight   = "consensus_height"
	AttributeKeyConsensusHeights  = "consensus_heights"
	AttributeKeyFrozenHeight      = "frozen_height"
	AttributeKeyUpgradePlanHeight = "upgrade_plan_height"
)

// IBC client events vars
var (
	EventTypeCreateClient       = "create_client"
	EventTypeUpdateClient       = "update_client"
	EventTypeUpgradeClient      = "upgrade_client"
	EventTypeSubmitMisbehaviour = "client_misbehaviour"
	EventTypeScheduleUpgrade    = "schedule_client_upgrade"
	EventTypeUpgradeChain       = "upgrade_chain"

	AttributeValueCategory = fmt.Sprintf("%s_%s", exported.ModuleName, SubModuleName)
)
