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

// Factory builds the controller variant an invocation asked for.  Build
// allocates only; sockets and broker connections are acquired later, by
// Controller.Start.
type Factory struct {
	mlog   *MultiLogger
	logbuf *Log
}

// NewFactory returns a factory whose controllers log through mlog and
// expose logbuf via the management API.
func NewFactory(mlog *MultiLogger, logbuf *Log) *Factory {
	return &Factory{mlog: mlog, logbuf: logbuf}
}

// Build constructs a controller of the given kind for the application the
// descriptor names.  It returns ErrUnsupported if the application cannot
// run under that kind.
func (f *Factory) Build(kind ControllerKind, d *Descriptor, cfg *LaunchConfig) (*Controller, error) {
	if !d.Supports(kind) {
		return nil, ErrUnsupported
	}
	c := newController(kind, d, f.mlog)
	switch kind {
	case HTTP:
		hl := newHTTPLoop(d.Application().(HTTPApplication), cfg.HTTP)
		hl.src = &mgmtSource{c: c, log: f.logbuf}
		c.lp = hl
	case AMQP:
		c.lp = newAMQPLoop(d.Application().(AMQPApplication), cfg.AMQP, f.mlog)
	default:
		return nil, ErrBadKind
	}
	return c, nil
}
