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

// Package cmd builds the linkml command tree, one newXCmd factory per
// subcommand in the style of cuelang.org/go/cmd/cue/cmd.
package cmd

import (
	"github.com/spf13/cobra"
)

// New returns the top-level linkml command with its subcommands attached.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "linkml",
		Short:         "validate instance data against LinkML schemas",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	for _, sub := range []*cobra.Command{
		newValidateCmd(),
		newResolveCmd(),
	} {
		root.AddCommand(sub)
	}

	return root
}
