package types

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"

	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
)

// StoreProvider encapsulates the IBC core store key and hands out the
// isolated prefix stores used by light clients.
type StoreProvider struct {
	storeKey sdk.StoreKey
}

// NewStoreProvider creates and returns a new StoreProvider.
func NewStoreProvider(storeKey sdk.StoreKey) StoreProvider {
	return StoreProvider{
		storeKey: storeKey,
	}
}

// ClientStore returns isolated prefix store for each client so they can read/write in separate namespaces.
func (s StoreProvider) ClientStore(ctx sdk.Context, clientID string) sdk.KVStore {
	clientPrefix := []byte(fmt.Sprintf("%s/%s/", host.KeyClientStorePrefix, clientID))
	return prefix.NewStore(ctx.KVStore(s.storeKey), clientPrefix)
}
