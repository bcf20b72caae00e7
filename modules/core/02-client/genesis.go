package client

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ComposableFi/ibc-core/modules/core/02-client/keeper"
	"github.com/ComposableFi/ibc-core/modules/core/02-client/types"
)

// InitGenesis initializes the ibc client submodule's state from a provided genesis
// state.
func InitGenesis(ctx sdk.Context, k keeper.Keeper, gs types.GenesisState) {
	k.SetParams(ctx, gs.Params)

	for _, client := range gs.Clients {
		k.SetClientState(ctx, client.ClientId, client.ClientState)
	}

	for _, cs := range gs.ClientsConsensus {
		for _, consState := range cs.ConsensusStates {
			k.SetClientConsensusState(ctx, cs.ClientId, consState.Height, consState.ConsensusState)
		}
	}

	k.SetNextClientSequence(ctx, gs.NextClientSequence)
}

// ExportGenesis returns the ibc client submodule's exported genesis.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) types.GenesisState {
	clientsConsensus := make(map[string][]types.ConsensusStateWithHeight)
	var clientIDs []string
	k.IterateConsensusStates(ctx, func(clientID string, cs types.ConsensusStateWithHeight) bool {
		if _, ok := clientsConsensus[clientID]; !ok {
			clientIDs = append(clientIDs, clientID)
		}
		clientsConsensus[clientID] = append(clientsConsensus[clientID], cs)
		return false
	})

	consensus := make([]types.ClientConsensusStates, 0, len(clientIDs))
	for _, clientID := range clientIDs {
		consensus = append(consensus, types.ClientConsensusStates{
			ClientId:        clientID,
			ConsensusStates: clientsConsensus[clientID],
		})
	}

	return types.GenesisState{
		Clients:            k.GetAllClients(ctx),
		ClientsConsensus:   consensus,
		Params:             k.GetParams(ctx),
		NextClientSequence: k.GetNextClientSequence(ctx),
	}
}
