package transport

import "time"

// Keepalive starts a goroutine that calls ping at interval until c closes.
// Unlike the original heartbeat frame (a dedicated MsgType with no business
// meaning), uRPC's wire format has no frame type byte to spare for one: the
// only application-visible activity is a real RPC call, so keepalive here
// is simply a periodic real Ping call supplied by the caller. Stop the
// goroutine by closing c.
func (c *Conn) Keepalive(interval time.Duration, ping func() error) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			if err := ping(); err != nil {
				return
			}
		}
	}()
}
