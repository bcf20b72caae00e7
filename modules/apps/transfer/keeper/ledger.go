package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/ibc-core/modules/apps/transfer/types"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
)

var _ types.TokenLedger = BankLedger{}

// BankLedger implements the TokenLedger on top of the x/bank keeper. Minting and
// burning go through the transfer module account, which must hold the Minter
// and Burner permissions.
type BankLedger struct {
	bankKeeper types.BankKeeper
	moduleName string
}

// NewBankLedger creates a TokenLedger backed by bankKeeper. The account keeper
// is used to make sure the module account exists.
func NewBankLedger(authKeeper types.AccountKeeper, bankKeeper types.BankKeeper) BankLedger {
	// ensure ibc transfer module account is set
	if addr := authKeeper.GetModuleAddress(types.ModuleName); addr == nil {
		panic("the IBC transfer module account has not been set")
	}

	return BankLedger{
		bankKeeper: bankKeeper,
		moduleName: types.ModuleName,
	}
}

// Escrow implements TokenLedger.
func (l BankLedger) Escrow(ctx sdk.Context, sender, escrow sdk.AccAddress, coin sdk.Coin) error {
	// escrow source tokens. It fails if balance insufficient.
	if err := l.bankKeeper.SendCoins(ctx, sender, escrow, sdk.NewCoins(coin)); err != nil {
		return sdkerrors.Wrapf(err, "escrow %s", coin)
	}
	return nil
}

// Unescrow implements TokenLedger.
func (l BankLedger) Unescrow(ctx sdk.Context, escrow, receiver sdk.AccAddress, coin sdk.Coin) error {
	if l.bankKeeper.BlockedAddr(receiver) {
		return sdkerrors.Wrapf(ibcerrors.ErrUnauthorized, "%s is not allowed to receive funds", receiver)
	}

	// unescrow tokens. It fails if the escrow holds less than coin.
	if err := l.bankKeeper.SendCoins(ctx, escrow, receiver, sdk.NewCoins(coin)); err != nil {
		// NOTE: this error is only expected to occur given an unexpected bug or a malicious
		// counterparty module. The bug may occur in bank or any part of the code that allows
		// the escrow address to be drained. A malicious counterparty module could drain the
		// escrow address by allowing more tokens to be sent back then were escrowed.
		return sdkerrors.Wrap(err, "unable to unescrow tokens")
	}
	return nil
}

// Mint implements TokenLedger.
func (l BankLedger) Mint(ctx sdk.Context, receiver sdk.AccAddress, coin sdk.Coin) error {
	if l.bankKeeper.BlockedAddr(receiver) {
		return sdkerrors.Wrapf(ibcerrors.ErrUnauthorized, "%s is not allowed to receive funds", receiver)
	}

	coins := sdk.NewCoins(coin)
	if err := l.bankKeeper.MintCoins(ctx, l.moduleName, coins); err != nil {
		return sdkerrors.Wrap(err, "failed to mint IBC tokens")
	}

	// send to receiver
	if err := l.bankKeeper.SendCoinsFromModuleToAccount(ctx, l.moduleName, receiver, coins); err != nil {
		return sdkerrors.Wrapf(err, "failed to send coins to receiver %s", receiver.String())
	}
	return nil
}

// Burn implements TokenLedger.
func (l BankLedger) Burn(ctx sdk.Context, owner sdk.AccAddress, coin sdk.Coin) error {
	coins := sdk.NewCoins(coin)

	// transfer the coins to the module account and burn them
	if err := l.bankKeeper.SendCoinsFromAccountToModule(ctx, owner, l.moduleName, coins); err != nil {
		return err
	}

	if err := l.bankKeeper.BurnCoins(ctx, l.moduleName, coins); err != nil {
		// NOTE: should not happen as the module account was
		// retrieved on the step above and it has enough balace
		// to burn.
		panic(fmt.Sprintf("cannot burn coins after a successful send to a module account: %v", err))
	}
	return nil
}

// GetBalance implements TokenLedger.
func (l BankLedger) GetBalance(ctx sdk.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return l.bankKeeper.GetBalance(ctx, addr, denom)
}
