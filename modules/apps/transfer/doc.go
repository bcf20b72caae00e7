/*
Package transfer implements the packet data structure, state machine handling logic,
and encoding details for the transfer of fungible tokens over an IBC channel between
two modules on separate chains.
This implementation is based off the ICS 20 specification
(https://github.com/cosmos/ibc/blob/main/spec/app/ics-020-fungible-token-transfer)
*/
package transfer
