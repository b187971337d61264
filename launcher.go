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
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// Launcher parses the command line, resolves the named application
// against its Registry, builds the requested controller, and drives it to
// completion or until a termination signal arrives.  The process-level
// side effects -- forking to the background and opening the system log --
// are injected collaborators, replaceable for tests.
type Launcher struct {
	reg       *Registry
	mlog      *MultiLogger
	logbuf    *Log
	console   *log.Logger
	out       io.Writer
	errw      io.Writer
	daemonize func() error
	syslog    func() (io.Writer, error)
	sigc      chan os.Signal
	name      string
}

// NewLauncher returns a launcher for the given registry, logging to
// stderr and using the platform daemonize and syslog collaborators.
func NewLauncher(reg *Registry) *Launcher {
	l := &Launcher{
		reg:       reg,
		mlog:      NewMultiLogger(),
		logbuf:    NewLog(),
		out:       os.Stdout,
		errw:      os.Stderr,
		daemonize: Daemonize,
		syslog:    sysLogWriter,
		name:      "sprockets",
	}
	l.console = log.New(os.Stderr, "", log.LstdFlags)
	l.mlog.AddLogger(l.console)
	l.mlog.AddLogger(log.New(l.logbuf, "", 0))
	return l
}

// SetOutput redirects normal output (--list, --version).
func (l *Launcher) SetOutput(w io.Writer) {
	l.out = w
}

// SetError redirects error and usage output.
func (l *Launcher) SetError(w io.Writer) {
	l.errw = w
}

// SetLogWriter replaces the console log destination.
func (l *Launcher) SetLogWriter(w io.Writer) {
	l.mlog.DelLogger(l.console)
	l.console = log.New(w, "", log.LstdFlags)
	l.mlog.AddLogger(l.console)
}

// SetDaemonize replaces the -d collaborator.
func (l *Launcher) SetDaemonize(fn func() error) {
	l.daemonize = fn
}

// SetSyslog replaces the -s collaborator.
func (l *Launcher) SetSyslog(fn func() (io.Writer, error)) {
	l.syslog = fn
}

// SetSignals injects the termination signal channel.  When set, the
// launcher does not register with the OS; whatever is sent on the channel
// stops the controller.
func (l *Launcher) SetSignals(ch chan os.Signal) {
	l.sigc = ch
}

// Run evaluates the command line and performs the invocation.  It
// returns the process exit code: 0 for success (including help, list and
// version), 2 for a usage error, and 1 for any launch or runtime failure.
func (l *Launcher) Run(args []string) int {
	cfg := &LaunchConfig{}
	var verbose countValue
	var list, version bool

	fs := flag.NewFlagSet(l.name, flag.ContinueOnError)
	fs.SetOutput(l.errw)
	fs.Usage = func() { l.printUsage(fs) }
	fs.BoolVar(&list, "l", false, "list installed sprockets apps")
	fs.BoolVar(&list, "list", false, "list installed sprockets apps")
	fs.BoolVar(&cfg.Daemonize, "d", false, "fork to background")
	fs.BoolVar(&cfg.Daemonize, "daemonize", false, "fork to background")
	fs.BoolVar(&cfg.Syslog, "s", false, "log to syslog")
	fs.BoolVar(&cfg.Syslog, "syslog", false, "log to syslog")
	fs.Var(&verbose, "v", "verbose logging output, repeat for debug")
	fs.Var(&verbose, "verbose", "verbose logging output, repeat for debug")
	fs.BoolVar(&version, "version", false, "print version and exit")

	if e := fs.Parse(args); e != nil {
		if e == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if version {
		fmt.Fprintf(l.out, "%s v%s\n", l.name, Version)
		return 0
	}
	if list {
		// The list command prevents any other processing of args.
		l.printList()
		return 0
	}

	pos := fs.Args()
	if len(pos) == 0 {
		fmt.Fprintln(l.errw, "error: controller not specified")
		fs.Usage()
		return 2
	}
	kind, e := ParseKind(pos[0])
	if e != nil {
		fmt.Fprintf(l.errw, "error: %s: %v\n", pos[0], e)
		fs.Usage()
		return 2
	}
	cfg.Kind = kind

	// Each controller kind contributes its own flag set, the way
	// applications expect to tune the loop that runs them.
	sub := flag.NewFlagSet(l.name+" "+kind.String(), flag.ContinueOnError)
	sub.SetOutput(l.errw)
	switch kind {
	case HTTP:
		sub.StringVar(&cfg.HTTP.Addr, "a", defaultHTTPAddr,
			"listen address")
	case AMQP:
		sub.StringVar(&cfg.AMQP.URL, "u", defaultAMQPURL,
			"broker URL")
		sub.StringVar(&cfg.AMQP.Queue, "q", "",
			"queue to consume (defaults to the application's)")
		sub.IntVar(&cfg.AMQP.Prefetch, "n", defaultPrefetch,
			"prefetch count")
	}
	if e := sub.Parse(pos[1:]); e != nil {
		if e == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if sub.NArg() < 1 {
		fmt.Fprintln(l.errw, "error: application not specified")
		fs.Usage()
		return 2
	}
	cfg.Application = sub.Arg(0)
	cfg.Verbose = int(verbose)
	l.mlog.SetVerbosity(cfg.Verbose)

	return l.launch(cfg)
}

// launch performs the resolved invocation: resolve, build, apply the
// lifecycle options, start, and wait.
func (l *Launcher) launch(cfg *LaunchConfig) int {
	d, e := l.reg.Resolve(cfg.Application)
	if e != nil {
		fmt.Fprintf(l.errw, "error: %s: %v\n", cfg.Application, e)
		return 1
	}

	c, e := NewFactory(l.mlog, l.logbuf).Build(cfg.Kind, d, cfg)
	if e != nil {
		fmt.Fprintf(l.errw, "error: cannot run %s under %s: %v\n",
			d.Name(), cfg.Kind, e)
		return 1
	}

	if cfg.Daemonize {
		if e := l.daemonize(); e != nil {
			fmt.Fprintf(l.errw, "error: daemonize: %v\n", e)
			return 1
		}
	}
	if cfg.Syslog {
		w, e := l.syslog()
		if e != nil {
			fmt.Fprintf(l.errw, "error: syslog: %v\n", e)
			return 1
		}
		l.mlog.AddLogger(log.New(w, "", 0))
	}

	if e := c.Start(); e != nil {
		fmt.Fprintf(l.errw, "error: %v\n", e)
		c.Stop()
		return 1
	}

	sigs := l.sigc
	if sigs == nil {
		sigs = make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)
	}

	select {
	case sig := <-sigs:
		l.mlog.Infof("Received %v, stopping %s", sig, d.Name())
		c.Stop()
		return 0
	case <-c.Done():
		c.Stop()
		fmt.Fprintf(l.errw, "error: %v\n", c.Err())
		return 1
	}
}

func (l *Launcher) printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(l.errw,
		"usage: %s [-h] [-l] [-d] [-s] [-v] [--version] "+
			"{http,amqp} ... application\n", l.name)
	fs.PrintDefaults()
}

func (l *Launcher) printList() {
	fmt.Fprintf(l.out, "Installed sprockets apps\n\n")
	fmt.Fprintf(l.out, "%-20s %-12s %s\n",
		"NAME", "CONTROLLERS", "DESCRIPTION")
	fmt.Fprintln(l.out, strings.Repeat("-", 51))
	for _, d := range l.reg.List() {
		fmt.Fprintf(l.out, "%-20s %-12s %s\n",
			d.Name(), d.kindsLabel(), d.Description())
	}
}
