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
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sprockets/sprockets/rest"
)

// httpShutdownTime bounds how long Stop waits for in-flight requests.
const httpShutdownTime = 10 * time.Second

// httpLoop serves an HTTPApplication.  The listener is bound in acquire,
// not at construction, so a controller that is never started holds no
// socket.  The application handler is mounted at the root; the management
// routes sit under /_sprockets/.
type httpLoop struct {
	app  HTTPApplication
	addr string
	src  rest.Source
	ln   net.Listener
	srv  *http.Server
}

func newHTTPLoop(app HTTPApplication, cfg HTTPConfig) *httpLoop {
	addr := cfg.Addr
	if addr == "" {
		addr = defaultHTTPAddr
	}
	return &httpLoop{app: app, addr: addr}
}

func (l *httpLoop) acquire() error {
	ln, e := net.Listen("tcp", l.addr)
	if e != nil {
		return e
	}
	r := mux.NewRouter()
	if l.src != nil {
		r.PathPrefix("/_sprockets/").Handler(rest.NewHandler(l.src))
	}
	r.PathPrefix("/").Handler(l.app.HTTPHandler())
	l.ln = ln
	l.srv = &http.Server{Handler: r}
	return nil
}

func (l *httpLoop) serve() error {
	e := l.srv.Serve(l.ln)
	if e == http.ErrServerClosed {
		return nil
	}
	return e
}

func (l *httpLoop) release() {
	if l.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(),
			httpShutdownTime)
		l.srv.Shutdown(ctx)
		cancel()
		l.srv = nil
		return
	}
	if l.ln != nil {
		l.ln.Close()
		l.ln = nil
	}
}

// mgmtSource adapts a running controller and the launcher's ring buffer
// log to the management API.
type mgmtSource struct {
	c   *Controller
	log *Log
}

func (s *mgmtSource) Status() rest.Status {
	st := rest.Status{
		Application: s.c.Descriptor().Name(),
		Kind:        s.c.Kind().String(),
		State:       s.c.State().String(),
		Version:     Version,
	}
	if t := s.c.StartedAt(); !t.IsZero() {
		st.StartedAt = t
		st.Uptime = time.Since(t).Round(time.Second).String()
	}
	return st
}

func (s *mgmtSource) Log() []rest.Record {
	recs, _ := s.log.Records()
	rv := make([]rest.Record, 0, len(recs))
	for _, r := range recs {
		rv = append(rv, rest.Record{ID: r.ID, Time: r.Time, Text: r.Text})
	}
	return rv
}
