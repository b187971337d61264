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

//go:build !windows

package sprockets

import (
	"os"
	"os/exec"
	"syscall"
)

// daemonEnv marks the re-executed child so it does not fork again.
const daemonEnv = "SPROCKETS_DAEMONIZED"

// Daemonize detaches the process from the controlling terminal by
// re-executing the binary in a new session with the standard streams
// dropped.  The parent exits once the child is spawned; only the child
// ever returns from this function.  It is the default -d collaborator and
// is invoked exactly once, before the controller starts, with no feedback
// into controller state.
func Daemonize() error {
	if os.Getenv(daemonEnv) != "" {
		return nil
	}
	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Env = append(os.Environ(), daemonEnv+"=1")
	cmd.Dir = "/"
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if e := cmd.Start(); e != nil {
		return e
	}
	os.Exit(0)
	return nil // not reached
}
