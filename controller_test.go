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
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	. "github.com/smartystreets/goconvey/convey"
)

type testLog struct {
	t *testing.T
}

func (tl *testLog) Write(p []byte) (int, error) {
	tl.t.Log(strings.Trim(string(p), "\n"))
	return len(p), nil
}

func testLogger(t *testing.T) *MultiLogger {
	m := NewMultiLogger()
	m.AddLogger(log.New(&testLog{t: t}, "", 0))
	m.SetVerbosity(Debug)
	return m
}

// testWebApp supports only the http controller.
type testWebApp struct {
	name string
	h    http.Handler
}

func (a *testWebApp) Name() string        { return a.name }
func (a *testWebApp) Description() string { return "Test web app" }

func (a *testWebApp) HTTPHandler() http.Handler {
	if a.h != nil {
		return a.h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})
}

// testWorkerApp supports only the amqp controller.
type testWorkerApp struct {
	name   string
	handle func(amqp.Delivery) error
}

func (a *testWorkerApp) Name() string        { return a.name }
func (a *testWorkerApp) Description() string { return "Test worker app" }
func (a *testWorkerApp) Queue() string       { return "test.queue" }

func (a *testWorkerApp) HandleDelivery(d amqp.Delivery) error {
	if a.handle != nil {
		return a.handle(d)
	}
	return nil
}

// testDualApp supports both controllers, and has an alias.
type testDualApp struct {
	testWebApp
}

func (a *testDualApp) Queue() string                        { return "dual.queue" }
func (a *testDualApp) HandleDelivery(d amqp.Delivery) error { return nil }
func (a *testDualApp) Aliases() []string                    { return []string{"dual-alias"} }

// testInertApp supports no controller at all.
type testInertApp struct{}

func (a *testInertApp) Name() string        { return "inert" }
func (a *testInertApp) Description() string { return "Unrunnable" }

// testLoop is a controllable fake serving loop.
type testLoop struct {
	mx         sync.Mutex
	acquires   int
	releases   int
	acquireErr error
	stopc      chan struct{}
	failc      chan error
}

func newTestLoop() *testLoop {
	return &testLoop{
		stopc: make(chan struct{}),
		failc: make(chan error, 1),
	}
}

func (l *testLoop) acquire() error {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.acquires++
	return l.acquireErr
}

func (l *testLoop) serve() error {
	select {
	case e := <-l.failc:
		return e
	case <-l.stopc:
		return nil
	}
}

func (l *testLoop) release() {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.releases++
	select {
	case <-l.stopc:
	default:
		close(l.stopc)
	}
}

func (l *testLoop) released() int {
	l.mx.Lock()
	defer l.mx.Unlock()
	return l.releases
}

func (l *testLoop) fail(e error) {
	l.failc <- e
}

func newTestController(t *testing.T, lp loop) *Controller {
	d := newDescriptor(&testWebApp{name: "web"})
	c := newController(HTTP, d, testLogger(t))
	c.lp = lp
	return c
}

func TestControllerLifecycle(t *testing.T) {
	Convey("Given a controller over a healthy loop", t, func() {
		lp := newTestLoop()
		c := newTestController(t, lp)
		So(c.State(), ShouldEqual, Created)

		Convey("Start moves it to Running", func() {
			So(c.Start(), ShouldBeNil)
			So(c.State(), ShouldEqual, Running)
			So(c.StartedAt().IsZero(), ShouldBeFalse)
			So(c.Err(), ShouldBeNil)

			Convey("Start cannot be called twice", func() {
				So(c.Start(), ShouldEqual, ErrBadState)
				c.Stop()
			})

			Convey("Stop drains the loop and releases once", func() {
				c.Stop()
				So(c.State(), ShouldEqual, Stopped)
				So(lp.released(), ShouldEqual, 1)

				select {
				case <-c.Done():
				case <-time.After(time.Second):
					t.Fatal("loop did not drain")
				}

				Convey("And Stop again is a no-op", func() {
					c.Stop()
					So(lp.released(), ShouldEqual, 1)
					So(c.State(), ShouldEqual, Stopped)
				})
			})
		})

		Convey("Stop from Created acquires nothing", func() {
			c.Stop()
			So(c.State(), ShouldEqual, Stopped)
			So(lp.released(), ShouldEqual, 0)
		})
	})
}

func TestControllerStartupFailure(t *testing.T) {
	Convey("Given a loop whose acquisition fails", t, func() {
		cause := errors.New("bind refused")
		lp := newTestLoop()
		lp.acquireErr = cause
		c := newTestController(t, lp)

		e := c.Start()
		So(e, ShouldNotBeNil)
		So(errors.Is(e, cause), ShouldBeTrue)
		So(c.State(), ShouldEqual, Failed)
		So(errors.Is(c.Err(), cause), ShouldBeTrue)

		Convey("Partial resources were released exactly once", func() {
			So(lp.released(), ShouldEqual, 1)
			c.Stop()
			c.Stop()
			So(lp.released(), ShouldEqual, 1)
		})
	})
}

func TestControllerRuntimeFailure(t *testing.T) {
	Convey("Given a running controller whose loop fails", t, func() {
		lp := newTestLoop()
		c := newTestController(t, lp)
		So(c.Start(), ShouldBeNil)

		cause := errors.New("broker went away")
		lp.fail(cause)

		select {
		case <-c.Done():
		case <-time.After(time.Second):
			t.Fatal("failure not observed")
		}

		So(c.State(), ShouldEqual, Failed)
		So(errors.Is(c.Err(), cause), ShouldBeTrue)
		So(lp.released(), ShouldEqual, 1)

		Convey("Stop after failure does not release twice", func() {
			c.Stop()
			So(lp.released(), ShouldEqual, 1)
		})
	})
}

func TestControllerUnexpectedExit(t *testing.T) {
	Convey("A loop returning nil while Running still fails", t, func() {
		lp := newTestLoop()
		c := newTestController(t, lp)
		So(c.Start(), ShouldBeNil)

		// Simulate the serve loop just returning.
		lp.failc <- nil

		select {
		case <-c.Done():
		case <-time.After(time.Second):
			t.Fatal("exit not observed")
		}
		So(c.State(), ShouldEqual, Failed)
		So(c.Err(), ShouldNotBeNil)
	})
}
