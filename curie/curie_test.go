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

package curie_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/linkml-io/linkml-go/curie"
)

func TestExpand(t *testing.T) {
	r := curie.New()
	r.AddPrefix("ex", "http://example.org/")

	got, err := r.Expand("ex:Person")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, "http://example.org/Person"))

	got, err = r.Expand("http://example.org/Person")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, "http://example.org/Person"))

	r.SetDefaultPrefix("ex")
	got, err = r.Expand("Person")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, "http://example.org/Person"))
}

func TestExpandStrictUnknownPrefix(t *testing.T) {
	r := curie.New()
	r.SetStrict(true)
	_, err := r.Expand("nope:Thing")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestExpandNonStrictUnknownPrefixPassesThrough(t *testing.T) {
	r := curie.New()
	got, err := r.Expand("nope:Thing")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, "nope:Thing"))
}

func TestContract(t *testing.T) {
	r := curie.New()
	r.AddPrefix("ex", "http://example.org/")
	r.AddPrefix("schema", "http://schema.org/")

	qt.Assert(t, qt.Equals(r.Contract("http://example.org/Person"), "ex:Person"))

	// Longest, most-recently-registered base wins (I6).
	r.AddPrefix("ex_people", "http://example.org/people/")
	qt.Assert(t, qt.Equals(r.Contract("http://example.org/people/John"), "ex_people:John"))
}

func TestSameEntity(t *testing.T) {
	r := curie.New()
	r.AddPrefix("ex", "http://example.org/")

	same, err := r.SameEntity("ex:Person", "http://example.org/Person")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(same))

	same, err = r.SameEntity("ex:Person", "ex:Animal")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(same))
}

func TestContextLocalPrefixShadowsGlobal(t *testing.T) {
	r := curie.New()
	r.AddPrefix("global", "http://global.org/")

	ctx := curie.NewContext(r)
	ctx.AddLocalPrefix("local", "http://local.org/")

	got, err := ctx.Resolve("local:Thing")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, "http://local.org/Thing"))

	got, err = ctx.Resolve("global:Thing")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, "http://global.org/Thing"))
}

func TestContextChildIsolatesMutation(t *testing.T) {
	r := curie.New()
	ctx := curie.NewContext(r)
	ctx.AddLocalPrefix("a", "http://a.org/")

	child := ctx.Child()
	child.AddLocalPrefix("b", "http://b.org/")

	_, err := ctx.Resolve("b:X")
	qt.Assert(t, qt.IsNil(err)) // falls through to the global resolver, unresolved but no error

	got, err := child.Resolve("b:X")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, "http://b.org/X"))
}

func TestSplitAndMakeCURIE(t *testing.T) {
	prefix, local, ok := curie.SplitCURIE("ex:Person")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(prefix, "ex"))
	qt.Assert(t, qt.Equals(local, "Person"))
	qt.Assert(t, qt.Equals(curie.MakeCURIE(prefix, local), "ex:Person"))

	_, _, ok = curie.SplitCURIE("http://example.org/Person")
	qt.Assert(t, qt.IsFalse(ok))
}

func TestJoinURI(t *testing.T) {
	qt.Assert(t, qt.Equals(curie.JoinURI("http://example.org", "Person"), "http://example.org/Person"))
	qt.Assert(t, qt.Equals(curie.JoinURI("http://example.org/", "/Person"), "http://example.org/Person"))
	qt.Assert(t, qt.Equals(curie.JoinURI("http://example.org", "http://other.org/X"), "http://other.org/X"))
}
