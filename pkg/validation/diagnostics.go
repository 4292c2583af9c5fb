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

// Package validation holds the structured diagnostics produced when checking
// authored job configuration.
package validation

import (
	"errors"
	"strings"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Severity ranks a diagnostic. Every diagnostic, whatever its severity,
// fails validation.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single problem found in a configuration field.
type Diagnostic struct {
	Field    string
	Type     field.ErrorType
	Severity Severity
	Message  string
}

func (d Diagnostic) Error() string {
	return d.Message
}

// Invalid reports a value that is present but malformed.
func Invalid(path *field.Path, msg string) Diagnostic {
	return Diagnostic{Field: path.String(), Type: field.ErrorTypeInvalid, Message: msg}
}

// Required reports a value that must be present.
func Required(path *field.Path, msg string) Diagnostic {
	return Diagnostic{Field: path.String(), Type: field.ErrorTypeRequired, Message: msg}
}

// NotSupported reports a key with no recognised meaning.
func NotSupported(path *field.Path, msg string) Diagnostic {
	return Diagnostic{Field: path.String(), Type: field.ErrorTypeNotSupported, Message: msg}
}

// Warning reports a value the scheduler tolerates but which is still rejected.
func Warning(path *field.Path, msg string) Diagnostic {
	return Diagnostic{Field: path.String(), Type: field.ErrorTypeInvalid, Severity: SeverityWarning, Message: msg}
}

// Diagnostics is the aggregate result of a validation pass.
type Diagnostics []Diagnostic

// Valid reports whether no diagnostics were accumulated.
func (ds Diagnostics) Valid() bool {
	return len(ds) == 0
}

// Messages returns the human-readable message of every diagnostic in order.
func (ds Diagnostics) Messages() []string {
	msgs := make([]string, 0, len(ds))
	for _, d := range ds {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

// ForField returns the diagnostics whose field is name or nested under it.
func (ds Diagnostics) ForField(name string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Field == name || strings.HasPrefix(d.Field, name+".") || strings.HasPrefix(d.Field, name+"[") {
			out = append(out, d)
		}
	}
	return out
}

// OfType returns the diagnostics of the given field error type.
func (ds Diagnostics) OfType(t field.ErrorType) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// ToAggregate folds the diagnostics into a single error, or nil when valid.
func (ds Diagnostics) ToAggregate() error {
	if ds.Valid() {
		return nil
	}
	errs := make([]error, 0, len(ds))
	for _, d := range ds {
		errs = append(errs, errors.New(d.Message))
	}
	return utilerrors.NewAggregate(errs)
}
