// Package rest serves read-only queries over the IBC state of in-process
// chains.
package rest

import (
	"fmt"
	"net/http"
	"sync"

	sdkrest "github.com/cosmos/cosmos-sdk/types/rest"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	hex "github.com/tmthrgd/go-hex"

	ibc "github.com/ComposableFi/ibc-core/modules/core"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	RestChainID      = "chain-id"
	RestClientID     = "client-id"
	RestConnectionID = "connection-id"
	RestPortID       = "port-id"
	RestChannelID    = "channel-id"
	RestSequence     = "sequence"
)

// ChainInfo is the summary returned for every chain.
type ChainInfo struct {
	ChainID string `json:"chain_id"`
	Height  uint64 `json:"height"`
}

// CommitmentResponse holds a packet commitment.
type CommitmentResponse struct {
	PortID     string `json:"port_id"`
	ChannelID  string `json:"channel_id"`
	Sequence   uint64 `json:"sequence"`
	Commitment string `json:"commitment"`
}

type server struct {
	// guards the chain stores, which are not safe for concurrent use
	mu     sync.Mutex
	chains map[string]*ibctesting.TestChain
}

// RegisterRoutes registers the query routes for chains on r.
func RegisterRoutes(r *mux.Router, chains ...*ibctesting.TestChain) {
	s := &server{chains: make(map[string]*ibctesting.TestChain, len(chains))}
	for _, chain := range chains {
		s.chains[chain.ChainID] = chain
	}

	r.HandleFunc("/chains", s.chainsHandler).Methods("GET")
	r.HandleFunc(fmt.Sprintf("/chains/{%s}/genesis", RestChainID), s.withChain(s.genesisHandler)).Methods("GET")
	r.HandleFunc(fmt.Sprintf("/chains/{%s}/clients/{%s}", RestChainID, RestClientID), s.withChain(s.clientHandler)).Methods("GET")
	r.HandleFunc(fmt.Sprintf("/chains/{%s}/connections/{%s}", RestChainID, RestConnectionID), s.withChain(s.connectionHandler)).Methods("GET")
	r.HandleFunc(fmt.Sprintf("/chains/{%s}/channels/{%s}/{%s}", RestChainID, RestPortID, RestChannelID), s.withChain(s.channelHandler)).Methods("GET")
	r.HandleFunc(
		fmt.Sprintf("/chains/{%s}/channels/{%s}/{%s}/commitments/{%s}", RestChainID, RestPortID, RestChannelID, RestSequence),
		s.withChain(s.commitmentHandler),
	).Methods("GET")
}

type chainHandlerFunc func(w http.ResponseWriter, r *http.Request, chain *ibctesting.TestChain)

// withChain resolves the chain named in the route and holds the lock for the
// duration of the handler.
func (s *server) withChain(h chainHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chainID := mux.Vars(r)[RestChainID]

		s.mu.Lock()
		defer s.mu.Unlock()

		chain, ok := s.chains[chainID]
		if !ok {
			sdkrest.WriteErrorResponse(w, http.StatusNotFound, fmt.Sprintf("chain %s not found", chainID))
			return
		}

		h(w, r, chain)
	}
}

func (s *server) chainsHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]ChainInfo, 0, len(s.chains))
	for i := 1; i <= len(s.chains); i++ {
		chain, ok := s.chains[ibctesting.GetChainID(i)]
		if !ok {
			continue
		}
		infos = append(infos, ChainInfo{ChainID: chain.ChainID, Height: chain.LastHeader.GetHeight().GetRevisionHeight()})
	}

	writeJSON(w, nil, infos)
}

func (s *server) genesisHandler(w http.ResponseWriter, _ *http.Request, chain *ibctesting.TestChain) {
	writeJSON(w, chain, ibc.ExportGenesis(chain.GetContext(), chain.App.IBCKeeper))
}

func (s *server) clientHandler(w http.ResponseWriter, r *http.Request, chain *ibctesting.TestChain) {
	clientID := mux.Vars(r)[RestClientID]

	clientState, found := chain.App.IBCKeeper.ClientKeeper.GetClientState(chain.GetContext(), clientID)
	if !found {
		sdkrest.WriteErrorResponse(w, http.StatusNotFound, fmt.Sprintf("client %s not found", clientID))
		return
	}

	writeJSON(w, chain, clientState)
}

func (s *server) connectionHandler(w http.ResponseWriter, r *http.Request, chain *ibctesting.TestChain) {
	connectionID := mux.Vars(r)[RestConnectionID]

	connection, found := chain.App.IBCKeeper.ConnectionKeeper.GetConnection(chain.GetContext(), connectionID)
	if !found {
		sdkrest.WriteErrorResponse(w, http.StatusNotFound, fmt.Sprintf("connection %s not found", connectionID))
		return
	}

	writeJSON(w, chain, connection)
}

func (s *server) channelHandler(w http.ResponseWriter, r *http.Request, chain *ibctesting.TestChain) {
	vars := mux.Vars(r)
	portID, channelID := vars[RestPortID], vars[RestChannelID]

	channel, found := chain.App.IBCKeeper.ChannelKeeper.GetChannel(chain.GetContext(), portID, channelID)
	if !found {
		sdkrest.WriteErrorResponse(w, http.StatusNotFound, fmt.Sprintf("channel %s/%s not found", portID, channelID))
		return
	}

	writeJSON(w, chain, channel)
}

func (s *server) commitmentHandler(w http.ResponseWriter, r *http.Request, chain *ibctesting.TestChain) {
	vars := mux.Vars(r)
	portID, channelID := vars[RestPortID], vars[RestChannelID]

	sequence, ok := sdkrest.ParseUint64OrReturnBadRequest(w, vars[RestSequence])
	if !ok {
		return
	}

	commitment := chain.App.IBCKeeper.ChannelKeeper.GetPacketCommitment(chain.GetContext(), portID, channelID, sequence)
	if len(commitment) == 0 {
		sdkrest.WriteErrorResponse(w, http.StatusNotFound, fmt.Sprintf("packet commitment %s/%s/%d not found", portID, channelID, sequence))
		return
	}

	writeJSON(w, chain, CommitmentResponse{
		PortID:     portID,
		ChannelID:  channelID,
		Sequence:   sequence,
		Commitment: hex.EncodeToString(commitment),
	})
}

// writeJSON encodes obj with the chain's amino codec so that interface values
// carry their registered type names. A nil chain uses the default codec.
func writeJSON(w http.ResponseWriter, chain *ibctesting.TestChain, obj interface{}) {
	var (
		bz  []byte
		err error
	)
	if chain != nil {
		bz, err = chain.Codec.MarshalJSON(obj)
	} else {
		bz, err = json.Marshal(obj)
	}
	if err != nil {
		sdkrest.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(bz)
}
