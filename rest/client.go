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

package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// Client is a minimal consumer of the management routes, handy for
// health checks and for poking at a daemonized launcher.
type Client struct {
	base   string
	client *http.Client
}

// NewClient returns a client rooted at base, e.g. "http://127.0.0.1:8000".
func NewClient(base string) *Client {
	return &Client{base: base, client: &http.Client{}}
}

func (c *Client) get(ctx context.Context, url string, v interface{}) error {
	req, e := http.NewRequestWithContext(ctx, "GET", url, nil)
	if e != nil {
		return e
	}
	res, e := c.client.Do(req)
	if e != nil {
		return e
	}
	defer res.Body.Close()
	body, e := io.ReadAll(res.Body)
	if e != nil {
		return e
	}
	if res.StatusCode != http.StatusOK {
		return &Error{Code: res.StatusCode, Message: string(body)}
	}
	return json.Unmarshal(body, v)
}

// Status fetches the controller status.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	st := &Status{}
	if e := c.get(ctx, c.base+"/_sprockets/status", st); e != nil {
		return nil, e
	}
	return st, nil
}

// Log fetches the retained log records.
func (c *Client) Log(ctx context.Context) ([]Record, error) {
	var recs []Record
	if e := c.get(ctx, c.base+"/_sprockets/log", &recs); e != nil {
		return nil, e
	}
	return recs, nil
}
