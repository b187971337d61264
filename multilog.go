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
	"log"
	"strings"
	"sync"
)

// Verbosity levels for the MultiLogger.  Warnings always pass; Infof needs
// -v, Debugf needs -v -v.
const (
	Quiet = iota
	Info
	Debug
)

// MultiLogger fans log lines out to a set of destination loggers: the
// console, the in-memory ring buffer serving the management API, and,
// when --syslog is given, the system log.  It implements io.Writer, so a
// single log.Logger front end splits lines across every destination,
// each of which may carry its own prefix and flags.
type MultiLogger struct {
	log     *log.Logger
	loggers []*log.Logger
	level   int
	lock    sync.Mutex
}

// Write delivers each line to every registered logger.  The input is
// expected to be newline delimited text, a whole line at a time, which is
// the semantic log.Logger conforms to.
func (l *MultiLogger) Write(b []byte) (int, error) {
	lines := strings.Split(strings.Trim(string(b), "\n"), "\n")
	l.lock.Lock()
	for _, line := range lines {
		for _, logger := range l.loggers {
			logger.Println(line)
		}
	}
	l.lock.Unlock()
	return len(b), nil
}

// AddLogger adds a destination.  Once called, all new entries fan out to
// this logger as well.  A logger can only be added once.
func (l *MultiLogger) AddLogger(logger *log.Logger) {
	l.lock.Lock()
	defer l.lock.Unlock()
	for _, x := range l.loggers {
		if x == logger {
			return
		}
	}
	l.loggers = append(l.loggers, logger)
}

// DelLogger removes a destination from the fan out set.
func (l *MultiLogger) DelLogger(logger *log.Logger) {
	l.lock.Lock()
	defer l.lock.Unlock()

	for i, x := range l.loggers {
		if x == logger {
			l.loggers = append(l.loggers[:i], l.loggers[i+1:]...)
			break
		}
	}
}

// SetVerbosity sets the level below which Infof and Debugf are dropped.
func (l *MultiLogger) SetVerbosity(v int) {
	l.lock.Lock()
	l.level = v
	l.lock.Unlock()
}

func (l *MultiLogger) verbosity() int {
	l.lock.Lock()
	rv := l.level
	l.lock.Unlock()
	return rv
}

// Warnf logs unconditionally.
func (l *MultiLogger) Warnf(format string, v ...interface{}) {
	l.log.Printf(format, v...)
}

// Infof logs when verbosity is at least Info (-v).
func (l *MultiLogger) Infof(format string, v ...interface{}) {
	if l.verbosity() >= Info {
		l.log.Printf(format, v...)
	}
}

// Debugf logs when verbosity is at least Debug (-v -v).
func (l *MultiLogger) Debugf(format string, v ...interface{}) {
	if l.verbosity() >= Debug {
		l.log.Printf(format, v...)
	}
}

// Logger returns the front end logger feeding the fan out.
func (l *MultiLogger) Logger() *log.Logger {
	return l.log
}

func NewMultiLogger() *MultiLogger {
	m := &MultiLogger{}
	m.log = log.New(m, "", 0)
	return m
}
