package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TokenLedger is the host token accounting used by the transfer application.
// Escrowed funds are held by the per-channel escrow address; vouchers are minted
// to and burned from user accounts.
type TokenLedger interface {
	// Escrow moves coin from the sender into the escrow account.
	Escrow(ctx sdk.Context, sender, escrow sdk.AccAddress, coin sdk.Coin) error
	// Unescrow releases coin from the escrow account to the receiver.
	Unescrow(ctx sdk.Context, escrow, receiver sdk.AccAddress, coin sdk.Coin) error
	// Mint creates coin and credits it to the receiver.
	Mint(ctx sdk.Context, receiver sdk.AccAddress, coin sdk.Coin) error
	// Burn debits coin from the owner and destroys it.
	Burn(ctx sdk.Context, owner sdk.AccAddress, coin sdk.Coin) error
	// GetBalance returns the balance of addr for denom.
	GetBalance(ctx sdk.Context, addr sdk.AccAddress, denom string) sdk.Coin
}
