package ledger

import (
	"errors"
	"sync"

	"github.com/rubblelabs/ripple/websockets"

	"github.com/0xMailMan/violette-easya-sub000/log"
)

// connection errors
var (
	ErrNoEndpoints  = errors.New("no ledger api endpoints configured")
	ErrDisconnected = errors.New("ledger connection is down")
)

// State is the typed connection state of a Conn.
type State uint8

// connection states
const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "Connected"
	}
	return "Disconnected"
}

// Conn is an explicit connection handle over the configured ledger
// websocket endpoints. All gateway traffic goes through one Conn so
// the connection lifecycle is visible to the caller instead of
// hiding behind package globals.
type Conn struct {
	mu        sync.Mutex
	endpoints []string
	remote    *websockets.Remote
	state     State
}

// NewConn create a handle in Disconnected state.
// Call EnsureConnected before use.
func NewConn(endpoints []string) *Conn {
	return &Conn{endpoints: endpoints}
}

// State current connection state
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetEndpoints replace the endpoint list. The current session is
// dropped so the next call dials the new list.
func (c *Conn) SetEndpoints(endpoints []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints = endpoints
	c.closeLocked()
}

// EnsureConnected dial the configured endpoints in order until one
// succeeds. Returns an error instead of panicking so callers decide
// how to surface connectivity loss.
func (c *Conn) EnsureConnected() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureConnectedLocked()
}

func (c *Conn) ensureConnectedLocked() error {
	if c.state == Connected && c.remote != nil {
		return nil
	}
	if len(c.endpoints) == 0 {
		return ErrNoEndpoints
	}
	var err error
	for _, endpoint := range c.endpoints {
		var remote *websockets.Remote
		remote, err = websockets.NewRemote(endpoint)
		if err != nil || remote == nil {
			log.Warn("cannot connect to ledger api", "endpoint", endpoint, "err", err)
			continue
		}
		log.Info("connected to ledger api", "endpoint", endpoint)
		c.remote = remote
		c.state = Connected
		return nil
	}
	c.state = Disconnected
	if err == nil {
		err = ErrDisconnected
	}
	return err
}

// Remote the underlying session, dialing first if needed
func (c *Conn) Remote() (*websockets.Remote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureConnectedLocked(); err != nil {
		return nil, err
	}
	return c.remote, nil
}

// Drop mark the session dead after a request error so the next call
// redials
func (c *Conn) Drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// Close shut the session down
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Conn) closeLocked() {
	if c.remote != nil {
		c.remote.Close()
		c.remote = nil
	}
	c.state = Disconnected
}
