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

// Package chronos validates authored Chronos job configuration and turns it
// into the versioned job payloads the Chronos scheduler API accepts. It also
// filters the jobs Chronos reports back by name pattern.
//
// Everything here except HTTPClient is a pure function of its inputs; reading
// configuration and talking to Chronos belong to the callers.
package chronos
