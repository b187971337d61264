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
	"sync"
	"time"
)

const (
	// MaxLogRecords bounds the in-memory log kept for the management
	// API.  Older records are overwritten.
	MaxLogRecords = 1000
)

// LogRecord is one captured log line.
type LogRecord struct {
	ID   int64     `json:"id,string"`
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

// Log is a ring buffer of recent log lines.  It implements io.Writer so
// it can be registered with the MultiLogger, and the management API reads
// it back out with Records.
type Log struct {
	records    []LogRecord
	numRecords int
	maxRecords int
	id         int64
	mx         sync.Mutex
}

// Write implements the Writer interface consumed by Logger.
func (l *Log) Write(b []byte) (int, error) {
	str := strings.Trim(string(b), "\n")
	l.mx.Lock()
	for _, line := range strings.Split(str, "\n") {
		idx := l.numRecords % l.maxRecords
		l.id++
		l.records[idx].Text = line
		l.records[idx].ID = l.id
		l.records[idx].Time = time.Now()
		// numRecords can exceed maxRecords; it really tracks the
		// next slot, not the population.
		l.numRecords++
	}
	l.mx.Unlock()
	return len(b), nil
}

// Records returns the retained records, oldest first, along with the ID
// of the newest record.  The ID is monotone per Log instance and is
// suitable for use as an ETag.
func (l *Log) Records() ([]LogRecord, int64) {
	l.mx.Lock()
	cnt := l.numRecords
	if cnt > l.maxRecords {
		cnt = l.maxRecords
	}
	recs := make([]LogRecord, 0, cnt)
	index := l.numRecords - cnt
	for j := 0; j < cnt; j++ {
		recs = append(recs, l.records[index%l.maxRecords])
		index++
	}
	id := l.id
	l.mx.Unlock()
	return recs, id
}

// Clear discards the retained records.
func (l *Log) Clear() {
	l.mx.Lock()
	l.numRecords = 0
	// Restart IDs from the clock so stale ETags cannot match.
	l.id = time.Now().UnixNano()
	l.mx.Unlock()
}

// NewLog returns an empty ring buffer log.
func NewLog() *Log {
	return &Log{
		maxRecords: MaxLogRecords,
		records:    make([]LogRecord, MaxLogRecords),
		id:         time.Now().UnixNano(),
	}
}
