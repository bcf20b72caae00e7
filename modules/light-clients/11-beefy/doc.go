/*
Package beefy implements a concrete ClientState, ConsensusState and Header
for a light client tracking a substrate parachain through the BEEFY finality
gadget of its relay chain.

Relay chain authorities sign commitments to the root of a Merkle Mountain
Range (MMR). Each MMR leaf commits to the heads of every parachain at a relay
chain block, so a parachain header is finalized once its leaf is proven
against a signed MMR root. Consensus states are keyed by parachain block
number and commit to the parachain state trie root.
*/
package beefy
