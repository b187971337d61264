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

// Command sprockets runs an installed sprockets application under either
// the http or the amqp controller.  This binary links in two demo
// applications; real deployments build their own main that registers
// their applications instead.
package main

import (
	"io"
	"log"
	"net/http"
	"os"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sprockets/sprockets"
)

// echoApp answers every HTTP request with its own request body, or the
// request path when the body is empty.
type echoApp struct{}

func (a *echoApp) Name() string        { return "echo" }
func (a *echoApp) Description() string { return "Echoes requests back" }

func (a *echoApp) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) == 0 {
			body = []byte(r.URL.Path)
		}
		w.Write(body)
	})
}

// relayApp logs AMQP deliveries, and answers HTTP as well.  It
// demonstrates an application supporting both controllers.
type relayApp struct{}

func (a *relayApp) Name() string        { return "relay" }
func (a *relayApp) Description() string { return "Logs relayed messages" }
func (a *relayApp) Aliases() []string   { return []string{"message-relay"} }

func (a *relayApp) Queue() string { return "sprockets.relay" }

func (a *relayApp) HandleDelivery(d amqp.Delivery) error {
	log.Printf("relay: %s", d.Body)
	return nil
}

func (a *relayApp) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("relay: %s %s", r.Method, r.URL.Path)
		w.Write([]byte("relay\n"))
	})
}

func main() {
	reg := sprockets.NewRegistry(&echoApp{}, &relayApp{})
	os.Exit(sprockets.NewLauncher(reg).Run(os.Args[1:]))
}
