// Pool maintains one multiplexed Conn per statically-configured peer and
// hands callers the one a loadbalance.Balancer currently picks — each peer
// still only ever gets one underlying net.Conn (Conn already multiplexes
// many in-flight calls over it), so Pool's job is purely which peer a given
// Get() should land on, not how many sockets to keep open per peer.
package transport

import (
	"sync"
	"time"

	"urpc/loadbalance"
)

// Pool picks a peer via bal on every Get and returns (dialing lazily, then
// caching) the Conn multiplexing calls to it.
type Pool struct {
	network string
	peers   []loadbalance.Peer
	bal     loadbalance.Balancer
	retries int
	backoff time.Duration

	mu    sync.Mutex
	conns map[string]*Conn
}

// NewPool creates a Pool that dials peers over network, selecting among them
// with bal. peers is read-only after this call: Pool never discovers peers
// at runtime, only chooses among the ones supplied here.
func NewPool(network string, peers []loadbalance.Peer, bal loadbalance.Balancer) *Pool {
	return &Pool{
		network: network,
		peers:   peers,
		bal:     bal,
		retries: 3,
		backoff: 20 * time.Millisecond,
		conns:   make(map[string]*Conn),
	}
}

// Get picks a peer via bal.Pick and returns its Conn, dialing and caching
// one on first use. Concurrent callers may race to dial the same peer; the
// loser's connection is closed and the winner's is reused, so Get never
// leaks a redundant socket.
func (p *Pool) Get() (*Conn, error) {
	peer, err := p.bal.Pick(p.peers)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if c, ok := p.conns[peer.Addr]; ok {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	netConn, err := DialRetry(p.network, peer.Addr, p.retries, p.backoff)
	if err != nil {
		return nil, err
	}
	c := NewConn(netConn)

	p.mu.Lock()
	if existing, ok := p.conns[peer.Addr]; ok {
		p.mu.Unlock()
		c.Close()
		return existing, nil
	}
	p.conns[peer.Addr] = c
	p.mu.Unlock()
	return c, nil
}

// Close closes every cached Conn. A Pool is not usable after Close.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	for addr, c := range p.conns {
		if e := c.Close(); e != nil {
			err = e
		}
		delete(p.conns, addr)
	}
	return err
}
