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
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// Source supplies the data the management routes expose.  The sprockets
// package adapts the running controller and its ring buffer log to this.
type Source interface {
	Status() Status
	Log() []Record
}

// Handler serves the management routes.  It implements http.Handler and
// is mounted by the http controller under /_sprockets/.
type Handler struct {
	src Source
	r   *mux.Router
}

func (h *Handler) internalError(w http.ResponseWriter, e error) {
	http.Error(w, e.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJson(w http.ResponseWriter, v interface{}) {
	if b, e := json.Marshal(v); e != nil {
		h.internalError(w, e)
	} else {
		w.Header().Set("Content-Type", mimeJson)
		w.Write(b)
	}
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJson(w, h.src.Status())
}

func (h *Handler) getLog(w http.ResponseWriter, r *http.Request) {
	h.writeJson(w, h.src.Log())
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.r.ServeHTTP(w, req)
}

// NewHandler wraps a Source in the management routes.
func NewHandler(src Source) *Handler {
	r := mux.NewRouter()
	h := &Handler{src: src, r: r}
	r.HandleFunc("/_sprockets/status", h.getStatus).Methods("GET")
	r.HandleFunc("/_sprockets/log", h.getLog).Methods("GET")
	return h
}
