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

// Package curie implements CURIE (Compact URI) expansion, URI contraction
// and same-entity comparison for LinkML schemas (spec.md §4.2).
package curie

import (
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	curieRe = regexp2.MustCompile(`^([a-zA-Z][a-zA-Z0-9_]*):([^:]*)$`, 0)
	uriRe   = regexp2.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*://.+|mailto:.+|urn:.+|data:.+|file:.+)`, 0)
)

func matches(re *regexp2.Regexp, s string) bool {
	ok, _ := re.MatchString(s)
	return ok
}

// builtinPrefixes are registered by New before any schema-declared prefix,
// so a schema-declared prefix of the same name always wins registration
// order (I6's "registered-later-wins" tie-break).
var builtinPrefixes = []struct{ prefix, uri string }{
	{"rdf", "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
	{"rdfs", "http://www.w3.org/2000/01/rdf-schema#"},
	{"xsd", "http://www.w3.org/2001/XMLSchema#"},
	{"owl", "http://www.w3.org/2002/07/owl#"},
	{"skos", "http://www.w3.org/2004/02/skos/core#"},
	{"dcterms", "http://purl.org/dc/terms/"},
	{"schema", "http://schema.org/"},
	{"linkml", "https://w3id.org/linkml/"},
	{"biolink", "https://w3id.org/biolink/"},
}

// Resolver expands CURIEs to URIs, contracts URIs to CURIEs, and resolves
// arbitrary identifiers (name, CURIE or URI) to a canonical URI (spec.md
// §4.2).
type Resolver struct {
	prefixes     map[string]string // prefix -> URI base
	uriToPrefix  map[string]string // URI base -> prefix (reverse index)
	order        []string          // registration order, for tie-breaking
	defaultPrefix string
	baseURI      string
	strict       bool
}

// New returns a Resolver seeded with the builtin semantic-web prefixes
// (rdf, rdfs, xsd, owl, skos, dcterms, schema, linkml, biolink).
func New() *Resolver {
	r := &Resolver{
		prefixes:    map[string]string{},
		uriToPrefix: map[string]string{},
	}
	for _, bp := range builtinPrefixes {
		r.AddPrefix(bp.prefix, bp.uri)
	}
	return r
}

// SetStrict controls whether Expand errors on an unknown prefix (true) or
// returns the CURIE unchanged (false, the default).
func (r *Resolver) SetStrict(strict bool) { r.strict = strict }

// SetDefaultPrefix sets the prefix used to expand a bare local name (one
// with no ":" in it).
func (r *Resolver) SetDefaultPrefix(prefix string) { r.defaultPrefix = prefix }

// SetBaseURI sets the URI used to expand a bare local name that has no
// default prefix, and to resolve any identifier that doesn't expand to a
// full URI on its own.
func (r *Resolver) SetBaseURI(uri string) { r.baseURI = uri }

// AddPrefix registers (or overrides) a prefix -> URI mapping. When two
// prefixes share the same URI base, Contract prefers whichever was added
// last (I6): registration order is tracked in r.order and Contract walks
// it in reverse.
func (r *Resolver) AddPrefix(prefix, uri string) {
	if _, exists := r.prefixes[prefix]; !exists {
		r.order = append(r.order, prefix)
	}
	r.prefixes[prefix] = uri
	r.uriToPrefix[uri] = prefix
}

// Prefixes returns the full prefix -> URI table, including builtins.
func (r *Resolver) Prefixes() map[string]string {
	out := make(map[string]string, len(r.prefixes))
	for k, v := range r.prefixes {
		out[k] = v
	}
	return out
}

// IsCURIE reports whether s has the lexical shape of a CURIE ("prefix:local").
func (r *Resolver) IsCURIE(s string) bool { return matches(curieRe, s) }

// IsURI reports whether s has the lexical shape of an absolute URI.
func (r *Resolver) IsURI(s string) bool {
	return matches(uriRe, s) || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Expand expands a CURIE to a full URI. If curie is already a URI it is
// returned unchanged. An unknown prefix in strict mode reports an error;
// in non-strict mode the CURIE is returned unchanged.
func (r *Resolver) Expand(curie string) (string, error) {
	if r.IsURI(curie) {
		return curie, nil
	}
	if m, err := curieRe.FindStringMatch(curie); err == nil && m != nil {
		groups := m.Groups()
		prefix := groups[1].String()
		local := groups[2].String()
		if base, ok := r.prefixes[prefix]; ok {
			return base + local, nil
		}
		if r.strict {
			return "", unknownPrefixError{prefix: prefix}
		}
		return curie, nil
	}
	if !strings.Contains(curie, ":") {
		if r.defaultPrefix != "" {
			if base, ok := r.prefixes[r.defaultPrefix]; ok {
				return base + curie, nil
			}
		}
		if r.baseURI != "" {
			return r.baseURI + curie, nil
		}
	}
	return curie, nil
}

// Contract contracts a URI to a CURIE using the longest registered URI
// base that is a prefix of uri; ties are broken in favor of the
// most-recently-registered prefix (I6).
func (r *Resolver) Contract(uri string) string {
	if r.IsCURIE(uri) && !r.IsURI(uri) {
		return uri
	}
	bestBase := ""
	bestPrefix := ""
	for i := len(r.order) - 1; i >= 0; i-- {
		prefix := r.order[i]
		base := r.prefixes[prefix]
		if base == "" || !strings.HasPrefix(uri, base) {
			continue
		}
		if len(base) > len(bestBase) {
			bestBase, bestPrefix = base, prefix
		}
	}
	if bestBase == "" {
		return uri
	}
	return bestPrefix + ":" + uri[len(bestBase):]
}

// Resolve expands identifier to a full URI, falling back to joining it
// against the base URI when the expansion is still not itself a URI.
func (r *Resolver) Resolve(identifier string) (string, error) {
	expanded, err := r.Expand(identifier)
	if err != nil {
		return "", err
	}
	if r.IsURI(expanded) {
		return expanded, nil
	}
	if r.baseURI != "" {
		return r.baseURI + "/" + expanded, nil
	}
	return expanded, nil
}

// Normalize resolves identifier to a URI and contracts it back to the
// Resolver's preferred CURIE form.
func (r *Resolver) Normalize(identifier string) (string, error) {
	uri, err := r.Resolve(identifier)
	if err != nil {
		return "", err
	}
	return r.Contract(uri), nil
}

// SameEntity reports whether id1 and id2 resolve to the same URI (spec.md
// §4.2 same_entity).
func (r *Resolver) SameEntity(id1, id2 string) (bool, error) {
	u1, err := r.Resolve(id1)
	if err != nil {
		return false, err
	}
	u2, err := r.Resolve(id2)
	if err != nil {
		return false, err
	}
	return u1 == u2, nil
}

type unknownPrefixError struct{ prefix string }

func (e unknownPrefixError) Error() string { return "unknown prefix: " + e.prefix }

// SplitCURIE splits s into its prefix and local parts, if s is a CURIE.
func SplitCURIE(s string) (prefix, local string, ok bool) {
	m, err := curieRe.FindStringMatch(s)
	if err != nil || m == nil {
		return "", "", false
	}
	groups := m.Groups()
	return groups[1].String(), groups[2].String(), true
}

// MakeCURIE joins a prefix and local part into a CURIE string.
func MakeCURIE(prefix, local string) string { return prefix + ":" + local }

// JoinURI joins a base URI with a relative reference. If relative is
// already absolute it is returned unchanged.
func JoinURI(base, relative string) string {
	if matches(uriRe, relative) || strings.HasPrefix(relative, "http://") || strings.HasPrefix(relative, "https://") {
		return relative
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(relative, "/")
}
