// Package loadbalance provides load balancing strategies for distributing
// RPC calls across multiple statically-configured peer addresses.
//
// Three strategies are implemented:
//   - RoundRobin:      Stateless services, equal-capacity peers
//   - WeightedRandom:  Heterogeneous peers (different CPU/memory)
//   - ConsistentHash:  Stateful services requiring cache affinity
package loadbalance

// Peer is one RPC endpoint a Balancer can pick. Unlike the dynamic
// service-discovery instance this was originally modeled on, uRPC has no
// runtime registry: the peer list is supplied once by the caller (from
// static configuration) and handed to Pick on every call.
type Peer struct {
	Addr   string
	Weight int
}

// Balancer is the interface for load balancing strategies.
// The client calls Pick() before each RPC to select a target peer.
type Balancer interface {
	// Pick selects one peer from the available list.
	// Called on every RPC call — must be goroutine-safe.
	Pick(peers []Peer) (*Peer, error)

	// Name returns the strategy name (for logging/debugging).
	Name() string
}
