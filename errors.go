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
	"errors"
)

var (
	ErrNotFound    = errors.New("No such application")
	ErrUnsupported = errors.New("Controller not supported by application")
	ErrBadKind     = errors.New("Unknown controller kind")
	ErrBadState    = errors.New("Invalid controller state")
	ErrNoSyslog    = errors.New("Syslog not available")
)
