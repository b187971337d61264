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

// Package sprockets provides a launcher for web and messaging applications.
// Applications link against this package and register themselves with a
// Registry; the sprockets command line then runs exactly one application
// under one of two controllers -- an HTTP server loop, or an AMQP consumer
// loop -- for the lifetime of the process.
//
// The launcher owns argument parsing, application resolution, controller
// construction, and process lifecycle concerns (daemonization, syslog
// redirection, verbosity).  Everything the application actually does once
// requests or deliveries arrive is the application's own business.
//
// A minimal binary looks like this:
//
//	func main() {
//		reg := sprockets.NewRegistry(&myApp{})
//		os.Exit(sprockets.NewLauncher(reg).Run(os.Args[1:]))
//	}
package sprockets
