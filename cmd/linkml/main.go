// Copyright 2026 The LinkML-Go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command linkml is a thin front end over this module's schema, resolve,
// view, and validate/engine packages: load a schema, resolve it, and
// validate instance data against one of its classes. It is not a
// reimplementation of every capability the core exposes as a library; the
// core itself is the product, this is just enough surface to drive it from
// a shell (spec.md §1's non-goal: "CLI ... covered only as the capability
// set the core consumes").
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/linkml-io/linkml-go/cmd/linkml/cmd"
)

func main() {
	err := cmd.New().Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, cmd.ErrValidationFailed) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
