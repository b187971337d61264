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
	"sort"
)

// Registry holds the descriptors for every installed application.  It is
// populated exactly once, at construction, and is read only thereafter,
// so no locking is needed -- the launcher resolves names against it before
// any controller starts.  Rather than an ambient process global, a Registry
// is built explicitly and handed to the Launcher.
type Registry struct {
	byName  map[string]*Descriptor
	byAlias map[string]*Descriptor
	names   []string
}

// NewRegistry builds a registry from the given applications.  Registering
// two applications under the same primary name is a programmer mistake,
// and panics.  An application implementing neither controller interface
// panics as well, since nothing could ever run it.
func NewRegistry(apps ...Application) *Registry {
	r := &Registry{
		byName:  make(map[string]*Descriptor),
		byAlias: make(map[string]*Descriptor),
	}
	for _, app := range apps {
		d := newDescriptor(app)
		if len(d.kinds) == 0 {
			panic("Application " + d.Name() +
				" supports no controller")
		}
		if _, dup := r.byName[d.Name()]; dup {
			panic("Application " + d.Name() +
				" registered twice")
		}
		r.byName[d.Name()] = d
		r.names = append(r.names, d.Name())
		for _, a := range d.aliases {
			if _, dup := r.byAlias[a]; !dup {
				r.byAlias[a] = d
			}
		}
	}
	sort.Strings(r.names)
	return r
}

// Resolve looks up an application by name.  Primary names win over
// aliases.  It returns ErrNotFound if nothing matches.
func (r *Registry) Resolve(name string) (*Descriptor, error) {
	if d, ok := r.byName[name]; ok {
		return d, nil
	}
	if d, ok := r.byAlias[name]; ok {
		return d, nil
	}
	return nil, ErrNotFound
}

// List returns all descriptors, ordered by name.  The order is stable so
// that --list output is reproducible.
func (r *Registry) List() []*Descriptor {
	rv := make([]*Descriptor, 0, len(r.names))
	for _, n := range r.names {
		rv = append(rv, r.byName[n])
	}
	return rv
}

// Len returns the number of installed applications.
func (r *Registry) Len() int {
	return len(r.names)
}
