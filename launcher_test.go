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
	"bytes"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func newTestLauncher(t *testing.T) (*Launcher, *bytes.Buffer, *bytes.Buffer) {
	reg := NewRegistry(
		&testWebApp{name: "echo"},
		&testDualApp{testWebApp{name: "relay"}},
	)
	l := NewLauncher(reg)
	out := &bytes.Buffer{}
	errw := &bytes.Buffer{}
	l.SetOutput(out)
	l.SetError(errw)
	l.SetLogWriter(&testLog{t: t})
	return l, out, errw
}

func TestLauncherList(t *testing.T) {
	Convey("sprockets --list", t, func() {
		l, out, _ := newTestLauncher(t)
		So(l.Run([]string{"--list"}), ShouldEqual, 0)
		So(out.String(), ShouldContainSubstring, "echo")
		So(out.String(), ShouldContainSubstring, "relay")
		So(out.String(), ShouldContainSubstring, "http,amqp")

		Convey("And -l is the same, regardless of other args", func() {
			l, out, _ := newTestLauncher(t)
			So(l.Run([]string{"-l", "http", "nonsense"}),
				ShouldEqual, 0)
			So(out.String(), ShouldContainSubstring, "echo")
		})

		Convey("Names are listed in order", func() {
			s := out.String()
			So(strings.Index(s, "echo"),
				ShouldBeLessThan, strings.Index(s, "relay"))
		})
	})
}

func TestLauncherVersion(t *testing.T) {
	Convey("sprockets --version", t, func() {
		l, out, _ := newTestLauncher(t)
		So(l.Run([]string{"--version"}), ShouldEqual, 0)
		So(out.String(), ShouldEqual, "sprockets v"+Version+"\n")
	})
}

func TestLauncherUsageErrors(t *testing.T) {
	Convey("Malformed invocations exit 2", t, func() {
		Convey("No arguments at all", func() {
			l, _, errw := newTestLauncher(t)
			So(l.Run(nil), ShouldEqual, 2)
			So(errw.String(), ShouldContainSubstring, "usage:")
		})

		Convey("Unknown flag", func() {
			l, _, _ := newTestLauncher(t)
			So(l.Run([]string{"-x"}), ShouldEqual, 2)
		})

		Convey("Unknown controller subcommand", func() {
			l, _, errw := newTestLauncher(t)
			So(l.Run([]string{"smtp", "echo"}), ShouldEqual, 2)
			So(errw.String(), ShouldContainSubstring, "smtp")
		})

		Convey("Missing application", func() {
			l, _, errw := newTestLauncher(t)
			So(l.Run([]string{"http"}), ShouldEqual, 2)
			So(errw.String(), ShouldContainSubstring,
				"application not specified")
		})
	})

	Convey("-h prints help and exits 0", t, func() {
		l, _, errw := newTestLauncher(t)
		So(l.Run([]string{"-h"}), ShouldEqual, 0)
		So(errw.String(), ShouldContainSubstring, "usage:")
	})
}

func TestLauncherNotFound(t *testing.T) {
	Convey("An unknown application exits nonzero, distinct from 2", t, func() {
		l, _, errw := newTestLauncher(t)
		So(l.Run([]string{"http", "unknown_app"}), ShouldEqual, 1)
		So(errw.String(), ShouldContainSubstring, "No such application")
	})
}

func TestLauncherUnsupported(t *testing.T) {
	Convey("A kind the app cannot run under exits nonzero", t, func() {
		l, _, errw := newTestLauncher(t)
		So(l.Run([]string{"amqp", "echo"}), ShouldEqual, 1)
		So(errw.String(), ShouldContainSubstring,
			"Controller not supported")
	})
}

func TestLauncherStartupFailure(t *testing.T) {
	Convey("A failed startup exits nonzero", t, func() {
		ln, e := net.Listen("tcp", "127.0.0.1:0")
		So(e, ShouldBeNil)
		defer ln.Close()

		l, _, errw := newTestLauncher(t)
		code := l.Run([]string{"http", "-a", ln.Addr().String(), "echo"})
		So(code, ShouldEqual, 1)
		So(errw.String(), ShouldContainSubstring, "error:")
	})
}

func TestLauncherSignalStop(t *testing.T) {
	Convey("A termination signal stops the controller, exit 0", t, func() {
		l, _, _ := newTestLauncher(t)
		sigs := make(chan os.Signal, 1)
		l.SetSignals(sigs)

		result := make(chan int, 1)
		go func() {
			result <- l.Run([]string{"-v", "http",
				"-a", "127.0.0.1:0", "echo"})
		}()
		sigs <- syscall.SIGTERM

		select {
		case code := <-result:
			So(code, ShouldEqual, 0)
		case <-time.After(5 * time.Second):
			t.Fatal("launcher did not stop")
		}
	})
}

func TestLauncherCollaborators(t *testing.T) {
	Convey("The -d and -s collaborators are invoked", t, func() {
		l, _, _ := newTestLauncher(t)
		sigs := make(chan os.Signal, 1)
		l.SetSignals(sigs)

		daemonized := false
		l.SetDaemonize(func() error {
			daemonized = true
			return nil
		})
		syslogged := &bytes.Buffer{}
		l.SetSyslog(func() (io.Writer, error) {
			return syslogged, nil
		})

		result := make(chan int, 1)
		go func() {
			result <- l.Run([]string{"-d", "-s", "-v", "http",
				"-a", "127.0.0.1:0", "echo"})
		}()
		sigs <- syscall.SIGTERM

		select {
		case code := <-result:
			So(code, ShouldEqual, 0)
			So(daemonized, ShouldBeTrue)
			So(syslogged.Len(), ShouldBeGreaterThan, 0)
		case <-time.After(5 * time.Second):
			t.Fatal("launcher did not stop")
		}
	})

	Convey("A failing daemonize aborts the launch", t, func() {
		l, _, errw := newTestLauncher(t)
		l.SetDaemonize(func() error {
			return os.ErrPermission
		})
		code := l.Run([]string{"-d", "http", "-a", "127.0.0.1:0",
			"echo"})
		So(code, ShouldEqual, 1)
		So(errw.String(), ShouldContainSubstring, "daemonize")
	})

	Convey("A failing syslog open aborts the launch", t, func() {
		l, _, errw := newTestLauncher(t)
		l.SetSyslog(func() (io.Writer, error) {
			return nil, ErrNoSyslog
		})
		code := l.Run([]string{"-s", "http", "-a", "127.0.0.1:0",
			"echo"})
		So(code, ShouldEqual, 1)
		So(errw.String(), ShouldContainSubstring, "syslog")
	})
}
