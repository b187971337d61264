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
	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpLoop serves an AMQPApplication by consuming from one queue.  Like
// the http loop, nothing is dialed until acquire.  Each delivery is
// dispatched synchronously; a nil handler return acks it, an error return
// requeues it.  A dropped broker connection fails the controller -- there
// is no reconnect policy.
type amqpLoop struct {
	app        AMQPApplication
	cfg        AMQPConfig
	mlog       *MultiLogger
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
	closed     chan *amqp.Error
}

func newAMQPLoop(app AMQPApplication, cfg AMQPConfig, mlog *MultiLogger) *amqpLoop {
	if cfg.URL == "" {
		cfg.URL = defaultAMQPURL
	}
	if cfg.Queue == "" {
		cfg.Queue = app.Queue()
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = defaultPrefetch
	}
	return &amqpLoop{app: app, cfg: cfg, mlog: mlog}
}

func (l *amqpLoop) acquire() error {
	conn, e := amqp.Dial(l.cfg.URL)
	if e != nil {
		return e
	}
	l.conn = conn

	ch, e := conn.Channel()
	if e != nil {
		return e
	}
	l.ch = ch

	if e = ch.Qos(l.cfg.Prefetch, 0, false); e != nil {
		return e
	}

	deliveries, e := ch.Consume(l.cfg.Queue,
		"sprockets-"+l.app.Name(), // consumer tag
		false,                     // manual ack
		false, false, false, nil)
	if e != nil {
		return e
	}
	l.deliveries = deliveries
	l.closed = conn.NotifyClose(make(chan *amqp.Error, 1))
	return nil
}

func (l *amqpLoop) serve() error {
	for d := range l.deliveries {
		l.dispatch(d)
	}
	// The delivery channel closed: either release closed the
	// connection, or the broker went away.
	if l.closed != nil {
		select {
		case e, ok := <-l.closed:
			if ok && e != nil {
				return e
			}
		default:
		}
	}
	return nil
}

func (l *amqpLoop) dispatch(d amqp.Delivery) {
	if e := l.app.HandleDelivery(d); e != nil {
		if l.mlog != nil {
			l.mlog.Warnf("Requeueing delivery %d for %s: %v",
				d.DeliveryTag, l.app.Name(), e)
		}
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}

func (l *amqpLoop) release() {
	if l.ch != nil {
		l.ch.Close()
		l.ch = nil
	}
	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
	}
}
