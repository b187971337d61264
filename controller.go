// Copyright 2026 The Sprockets Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sprockets

import (
	"fmt"
	"sync"
	"time"
)

// State is a controller lifecycle state.
//
//	Created -> Starting -> Running -> Stopping -> Stopped
//
// Failed is terminal, reachable from Starting or Running.  Once a
// controller is Stopped or Failed it cannot be restarted; the process is
// expected to exit.
type State int

const (
	Created State = iota
	Starting
	Running
	Stopping
	Stopped
	Failed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// loop is the variant specific serving loop behind a Controller.  The
// controller promises not to call these methods concurrently; acquire is
// called exactly once before serve, and release exactly once on every
// exit path, including after a failed acquire (so release must tolerate
// partially acquired resources).  release must unblock a blocked serve.
type loop interface {
	// acquire obtains the serving resource: bind the socket, open the
	// broker connection.  No resource may be held before acquire.
	acquire() error

	// serve runs the loop until release is called or the loop fails.
	// A nil return means the loop ended because it was released.
	serve() error

	// release closes whatever acquire opened.
	release()
}

// Controller drives one serving loop through its lifecycle.  Exactly one
// controller exists per process invocation, owned by the Launcher.
// Controller methods are safe for concurrent use.
type Controller struct {
	kind     ControllerKind
	desc     *Descriptor
	lp       loop
	mlog     *MultiLogger
	mx       sync.Mutex
	state    State
	err      error
	released bool
	started  time.Time
	done     chan struct{}
	waiter   sync.WaitGroup
}

func newController(kind ControllerKind, desc *Descriptor, mlog *MultiLogger) *Controller {
	return &Controller{
		kind: kind,
		desc: desc,
		mlog: mlog,
		done: make(chan struct{}),
	}
}

// Kind returns the controller kind this instance was built for.
func (c *Controller) Kind() ControllerKind {
	return c.kind
}

// Descriptor returns the application descriptor the controller runs.
func (c *Controller) Descriptor() *Descriptor {
	return c.desc
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mx.Lock()
	rv := c.state
	c.mx.Unlock()
	return rv
}

// Err returns the failure cause, if the controller has failed.
func (c *Controller) Err() error {
	c.mx.Lock()
	rv := c.err
	c.mx.Unlock()
	return rv
}

// StartedAt returns the time the controller entered Running, or the zero
// time if it never did.
func (c *Controller) StartedAt() time.Time {
	c.mx.Lock()
	rv := c.started
	c.mx.Unlock()
	return rv
}

// Done returns a channel that is closed when the serving loop exits for
// any reason.  The launcher selects on this alongside the termination
// signals.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Start acquires the serving resource and launches the loop.  On success
// the controller is Running and Start returns nil.  On acquisition
// failure the controller is Failed, partially acquired resources are
// released, and the error is returned.  Start may be called only once,
// from Created.
func (c *Controller) Start() error {
	c.mx.Lock()
	if c.state != Created {
		c.mx.Unlock()
		return ErrBadState
	}
	c.state = Starting
	c.mx.Unlock()

	c.logf("Starting %s controller for %s", c.kind, c.desc.Name())
	if e := c.lp.acquire(); e != nil {
		c.mx.Lock()
		c.state = Failed
		c.err = fmt.Errorf("starting %s controller for %s: %w",
			c.kind, c.desc.Name(), e)
		c.releaseLocked()
		c.mx.Unlock()
		c.logf("Failed to start %s: %v", c.desc.Name(), e)
		return c.Err()
	}

	c.mx.Lock()
	c.state = Running
	c.started = time.Now()
	c.mx.Unlock()
	c.logf("Running %s for %s", c.kind, c.desc.Name())

	c.waiter.Add(1)
	go c.run()
	return nil
}

// run hosts the serving loop in its own goroutine, so that Start can
// return once the controller is Running.
func (c *Controller) run() {
	e := c.lp.serve()
	c.mx.Lock()
	switch c.state {
	case Stopping, Stopped:
		// Expected exit; Stop owns the release.
	default:
		if e == nil {
			e = fmt.Errorf("%s loop for %s terminated unexpectedly",
				c.kind, c.desc.Name())
		}
		c.state = Failed
		c.err = e
		c.releaseLocked()
	}
	c.mx.Unlock()
	if e != nil {
		c.logf("Serving loop for %s failed: %v", c.desc.Name(), e)
	}
	c.waiter.Done()
	close(c.done)
}

// Stop terminates the serving loop and releases the resources it held.
// Stop blocks until the loop has drained.  It is safe to call from any
// state, any number of times; resources are released exactly once.
func (c *Controller) Stop() {
	c.mx.Lock()
	switch c.state {
	case Running, Starting:
		c.state = Stopping
		c.releaseLocked()
		c.mx.Unlock()
		c.waiter.Wait()
		c.mx.Lock()
		c.state = Stopped
		c.logf("Stopped %s for %s", c.kind, c.desc.Name())
	case Failed:
		// Failure paths release eagerly; this is a no-op unless the
		// failure left something behind.
		c.releaseLocked()
	case Created:
		c.state = Stopped
	}
	c.mx.Unlock()
}

// releaseLocked releases the loop's resources if they have not been
// released already.  Call with the lock held.
func (c *Controller) releaseLocked() {
	if !c.released {
		c.released = true
		c.lp.release()
	}
}

func (c *Controller) logf(format string, v ...interface{}) {
	if c.mlog != nil {
		c.mlog.Infof(format, v...)
	}
}
