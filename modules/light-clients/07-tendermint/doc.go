/*
Package tendermint implements a concrete ClientState, ConsensusState,
Header and Misbehaviour types for the Tendermint consensus light client.
Headers are verified with the tendermint light client verification rules
against trusted consensus states stored in the client's isolated store.
*/
package tendermint
