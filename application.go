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
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Application is the contract every runnable sprockets application
// satisfies.  An application declares which controllers can run it by
// additionally implementing HTTPApplication, AMQPApplication, or both.
// Implementing neither is a registration error.
type Application interface {
	// Name returns the registry name of the application.  Names may
	// include alpha numerics, underscores, and dashes.  The name is
	// what users pass on the command line.
	Name() string

	// Description returns a short human readable description, shown
	// by the --list output.  Try to keep it under 48 characters.
	Description() string
}

// HTTPApplication is implemented by applications that can run under the
// http controller.  The returned handler is mounted at the root of the
// controller's router and serves every request the process receives,
// apart from the management routes.
type HTTPApplication interface {
	Application

	// HTTPHandler returns the handler serving the application.  It is
	// called once, at controller start.
	HTTPHandler() http.Handler
}

// AMQPApplication is implemented by applications that can run under the
// amqp controller.  Deliveries are dispatched one at a time; a nil return
// acknowledges the delivery, an error return requeues it.
type AMQPApplication interface {
	Application

	// Queue returns the queue the controller consumes from, unless the
	// user overrides it on the command line.
	Queue() string

	// HandleDelivery processes one delivery.
	HandleDelivery(d amqp.Delivery) error
}

// Aliaser may be implemented by applications that want to be resolvable
// under additional names, the way a package can install short aliases
// for itself.  Aliases never shadow a primary name.
type Aliaser interface {
	Aliases() []string
}
