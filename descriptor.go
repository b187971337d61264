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
	"strings"
)

// ControllerKind selects which controller variant runs an application.
type ControllerKind string

const (
	// HTTP runs the application under a web server loop.
	HTTP ControllerKind = "http"

	// AMQP runs the application under a message consumer loop.
	AMQP ControllerKind = "amqp"
)

func (k ControllerKind) String() string {
	return string(k)
}

// ParseKind maps a command line subcommand to a ControllerKind.  It
// returns ErrBadKind for anything other than "http" or "amqp".
func ParseKind(s string) (ControllerKind, error) {
	switch ControllerKind(s) {
	case HTTP:
		return HTTP, nil
	case AMQP:
		return AMQP, nil
	}
	return "", ErrBadKind
}

// Descriptor is the static record of an installed application: its name,
// its entry point, and the set of controller kinds that can run it.
// Descriptors are created at registration time and never change; they are
// owned by the Registry for the life of the process.
type Descriptor struct {
	name    string
	desc    string
	aliases []string
	app     Application
	kinds   map[ControllerKind]bool
}

// newDescriptor derives a descriptor from an application.  The supported
// kind set is computed from which controller interfaces the entry point
// implements.
func newDescriptor(app Application) *Descriptor {
	d := &Descriptor{
		name:  app.Name(),
		desc:  app.Description(),
		app:   app,
		kinds: make(map[ControllerKind]bool),
	}
	if _, ok := app.(HTTPApplication); ok {
		d.kinds[HTTP] = true
	}
	if _, ok := app.(AMQPApplication); ok {
		d.kinds[AMQP] = true
	}
	if a, ok := app.(Aliaser); ok {
		d.aliases = append([]string{}, a.Aliases()...)
	}
	return d
}

// Name returns the primary registry name.
func (d *Descriptor) Name() string {
	return d.name
}

// Description returns the human readable description.
func (d *Descriptor) Description() string {
	return d.desc
}

// Aliases returns any additional names the application resolves under.
func (d *Descriptor) Aliases() []string {
	return append([]string{}, d.aliases...)
}

// Application returns the entry point the descriptor was built from.
func (d *Descriptor) Application() Application {
	return d.app
}

// Supports reports whether the given controller kind can run this
// application.
func (d *Descriptor) Supports(k ControllerKind) bool {
	return d.kinds[k]
}

// Kinds returns the supported controller kinds in display order.
func (d *Descriptor) Kinds() []ControllerKind {
	rv := make([]ControllerKind, 0, len(d.kinds))
	for _, k := range []ControllerKind{HTTP, AMQP} {
		if d.kinds[k] {
			rv = append(rv, k)
		}
	}
	return rv
}

// kindsLabel renders the supported kinds for the --list table.
func (d *Descriptor) kindsLabel() string {
	names := make([]string, 0, 2)
	for _, k := range d.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ",")
}
