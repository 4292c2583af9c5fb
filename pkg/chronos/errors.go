// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chronos

import (
	"strings"

	"chronos-toolkit/pkg/validation"

	"github.com/pkg/errors"
)

var (
	ErrInvalidJobConfig = errors.New("invalid chronos job config")
	ErrInvalidPattern   = errors.New("invalid regex pattern")
	ErrTooManyJobs      = errors.New("too many matching chronos jobs")
	ErrUnexpectedStatus = errors.New("unexpected chronos response status")
)

// InvalidJobConfigError carries every diagnostic that stopped a payload from
// being built.
type InvalidJobConfigError struct {
	Service     string
	Job         string
	Diagnostics validation.Diagnostics
}

func (e *InvalidJobConfigError) Error() string {
	return strings.Join(e.Diagnostics.Messages(), "\n")
}

func (e *InvalidJobConfigError) Is(target error) bool {
	return target == ErrInvalidJobConfig
}
