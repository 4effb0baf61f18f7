package router

// Routing tree over URL path segments. Patterns are decomposed at
// registration time into static, variable (`:name`) and wildcard
// (`*name`) segments; matching walks the tree depth-first with full
// backtracking so a static branch that dead-ends falls back to the
// variable and wildcard siblings at every ancestor level. Tie-break
// order is fixed: static > variable > wildcard.
//
// The tree is append-only during registration and frozen before serving;
// after the freeze it is read-only and shared across workers without
// synchronization.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/switchyard-http/switchyard/core/handler"
)

type segKind uint8

const (
	segStatic segKind = iota
	segParam
	segWildcard
)

// segment is one parsed component of a route pattern.
type segment struct {
	kind segKind
	text string // literal text, or the bound name for param/wildcard
}

// treeConfig carries the build-time matching options. Fixed at freeze.
type treeConfig struct {
	caseInsensitive bool
	strictSlash     bool
	noWildcards     bool
}

type node[C handler.Context] struct {
	// static children keyed by exact segment text
	// (lower-cased when matching case-insensitively)
	static map[string]*node[C]

	// at most one variable child per node; patterns disagreeing on the
	// variable name at the same position conflict at registration
	param    *node[C]
	paramKey string

	// optional terminal wildcard child, tried after static and variable
	wild    *node[C]
	wildKey string

	// endpoint is set when a pattern terminates at this node
	endpoint *endpoint[C]
}

// endpoint maps (method, optional content type) to a handler on a
// terminal node, plus the supported-method set used for Allow headers.
type endpoint[C handler.Context] struct {
	pattern string
	methods map[string]*methodHandlers[C]
}

type methodHandlers[C handler.Context] struct {
	// fallback handles requests whose Accept header matches none of the
	// registered content types; it is also the plain handler when no
	// content types were registered at all.
	fallback handler.HandlerFunc[C]

	byType map[string]handler.HandlerFunc[C]

	// registration order of byType keys; doubles as the server
	// preference order during negotiation
	types []string
}

type tree[C handler.Context] struct {
	root *node[C]
	cfg  treeConfig
}

func newTree[C handler.Context]() *tree[C] {
	return &tree[C]{root: &node[C]{}}
}

// parsePattern decomposes a route pattern into segments, validating the
// grammar. Violations panic: they are programmer errors at route
// definition time and must never reach request serving.
func (t *tree[C]) parsePattern(pattern string) []segment {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: %q must begin with '/'", ErrInvalidPattern, pattern))
	}

	raw := splitPath(pattern, t.cfg.strictSlash)
	segs := make([]segment, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for i, s := range raw {
		switch {
		case strings.HasPrefix(s, ":"):
			name := s[1:]
			if name == "" {
				panic(fmt.Errorf("%w: %q has an unnamed variable segment", ErrInvalidPattern, pattern))
			}
			if _, dup := seen[name]; dup {
				panic(fmt.Errorf("%w: %q binds %q twice", ErrDuplicateParam, pattern, name))
			}
			seen[name] = struct{}{}
			segs = append(segs, segment{kind: segParam, text: name})

		case strings.HasPrefix(s, "*"):
			if t.cfg.noWildcards {
				panic(fmt.Errorf("%w: %q", ErrWildcardNotAllowed, pattern))
			}
			name := s[1:]
			if name == "" {
				panic(fmt.Errorf("%w: %q has an unnamed wildcard segment", ErrInvalidPattern, pattern))
			}
			if i != len(raw)-1 {
				panic(fmt.Errorf("%w: %q", ErrWildcardPosition, pattern))
			}
			if _, dup := seen[name]; dup {
				panic(fmt.Errorf("%w: %q binds %q twice", ErrDuplicateParam, pattern, name))
			}
			segs = append(segs, segment{kind: segWildcard, text: name})

		default:
			text := s
			if t.cfg.caseInsensitive {
				text = strings.ToLower(text)
			}
			segs = append(segs, segment{kind: segStatic, text: text})
		}
	}

	return segs
}

// insert registers a handler for (pattern, method, contentType).
// An empty contentType registers the method's fallback handler.
// Re-registering the same (method, contentType) pair replaces the
// previous handler; the last registration wins.
func (t *tree[C]) insert(pattern, method, contentType string, h handler.HandlerFunc[C]) {
	segs := t.parsePattern(pattern)

	n := t.root
	for _, seg := range segs {
		switch seg.kind {
		case segStatic:
			if n.static == nil {
				n.static = make(map[string]*node[C])
			}
			child := n.static[seg.text]
			if child == nil {
				child = &node[C]{}
				n.static[seg.text] = child
			}
			n = child

		case segParam:
			if n.param == nil {
				n.param = &node[C]{}
				n.paramKey = seg.text
			} else if n.paramKey != seg.text {
				panic(fmt.Errorf("%w: variable %q vs %q at the same position in %q",
					ErrConflictingPattern, n.paramKey, seg.text, pattern))
			}
			n = n.param

		case segWildcard:
			if n.wild == nil {
				n.wild = &node[C]{}
				n.wildKey = seg.text
			} else if n.wildKey != seg.text {
				panic(fmt.Errorf("%w: wildcard %q vs %q at the same position in %q",
					ErrConflictingPattern, n.wildKey, seg.text, pattern))
			}
			n = n.wild
		}
	}

	n.setHandler(pattern, method, contentType, h)
}

func (n *node[C]) setHandler(pattern, method, contentType string, h handler.HandlerFunc[C]) {
	if n.endpoint == nil {
		n.endpoint = &endpoint[C]{
			pattern: pattern,
			methods: make(map[string]*methodHandlers[C]),
		}
	}

	mh := n.endpoint.methods[method]
	if mh == nil {
		mh = &methodHandlers[C]{}
		n.endpoint.methods[method] = mh
	}

	if contentType == "" {
		mh.fallback = h
		return
	}

	ct := strings.ToLower(contentType)
	if mh.byType == nil {
		mh.byType = make(map[string]handler.HandlerFunc[C])
	}
	if _, exists := mh.byType[ct]; !exists {
		mh.types = append(mh.types, ct)
	}
	mh.byType[ct] = h
}

// allowedMethods returns the endpoint's supported methods, sorted, for
// use in an Allow header.
func (e *endpoint[C]) allowedMethods() []string {
	allowed := make([]string, 0, len(e.methods))
	for m := range e.methods {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	return allowed
}

// resolve selects a handler for the method and Accept header.
// Returns ErrMethodNotAllowed when the method has no handlers, and
// ErrNotAcceptable when content negotiation fails with no fallback.
func (e *endpoint[C]) resolve(method, accept string) (handler.HandlerFunc[C], error) {
	mh := e.methods[method]
	if mh == nil {
		return nil, ErrMethodNotAllowed
	}

	if len(mh.types) == 0 {
		return mh.fallback, nil
	}

	if best := NegotiateMediaType(accept, mh.types); best != "" {
		return mh.byType[best], nil
	}

	if mh.fallback != nil {
		return mh.fallback, nil
	}

	return nil, ErrNotAcceptable
}

// routeParams collects variable bindings in pattern order during a match.
type routeParams struct {
	keys   []string
	values []string
}

// findRoute matches a request path against the tree and returns the
// terminal node together with the bound variables. A nil node means no
// registered pattern matches the path at all.
func (t *tree[C]) findRoute(path string) (*node[C], routeParams) {
	segs := splitPath(path, t.cfg.strictSlash)
	var rp routeParams
	n := t.root.match(segs, &rp, t.cfg.caseInsensitive)
	if n == nil {
		return nil, routeParams{}
	}
	return n, rp
}

// match walks the tree depth-first. When a static branch fails to yield
// a terminal node the variable sibling is tried, then the wildcard;
// variable bindings made on a failed branch are rolled back.
func (n *node[C]) match(segs []string, rp *routeParams, fold bool) *node[C] {
	if len(segs) == 0 {
		if n.endpoint != nil {
			return n
		}
		// A trailing wildcard may bind zero segments, but an exact
		// terminal elsewhere always wins over this continuation.
		if n.wild != nil && n.wild.endpoint != nil {
			rp.keys = append(rp.keys, n.wildKey)
			rp.values = append(rp.values, "")
			return n.wild
		}
		return nil
	}

	seg := segs[0]
	key := seg
	if fold {
		key = strings.ToLower(seg)
	}

	if child := n.static[key]; child != nil {
		if fin := child.match(segs[1:], rp, fold); fin != nil {
			return fin
		}
	}

	if n.param != nil {
		rp.keys = append(rp.keys, n.paramKey)
		rp.values = append(rp.values, seg)
		if fin := n.param.match(segs[1:], rp, fold); fin != nil {
			return fin
		}
		rp.keys = rp.keys[:len(rp.keys)-1]
		rp.values = rp.values[:len(rp.values)-1]
	}

	if n.wild != nil && n.wild.endpoint != nil {
		rp.keys = append(rp.keys, n.wildKey)
		rp.values = append(rp.values, strings.Join(segs, "/"))
		return n.wild
	}

	return nil
}

// walk visits every endpoint in the tree. Returning true stops the walk.
func (n *node[C]) walk(fn func(e *endpoint[C]) bool) bool {
	if n.endpoint != nil && fn(n.endpoint) {
		return true
	}
	for _, child := range n.static {
		if child.walk(fn) {
			return true
		}
	}
	if n.param != nil && n.param.walk(fn) {
		return true
	}
	if n.wild != nil && n.wild.walk(fn) {
		return true
	}
	return false
}

// routes lists the registered method/pattern pairs for introspection.
func (t *tree[C]) routes() []Route {
	var rts []Route
	t.root.walk(func(e *endpoint[C]) bool {
		for _, m := range e.allowedMethods() {
			rts = append(rts, Route{Method: m, Pattern: e.pattern})
		}
		return false
	})
	sort.Slice(rts, func(i, j int) bool {
		if rts[i].Pattern != rts[j].Pattern {
			return rts[i].Pattern < rts[j].Pattern
		}
		return rts[i].Method < rts[j].Method
	})
	return rts
}

// splitPath splits a URL path into segments. The leading slash and, in
// the default mode, a trailing slash are normalized away; the root path
// yields zero segments. In strict mode a trailing slash is kept as an
// empty final segment so "/a/" and "/a" stay distinct.
func splitPath(p string, strict bool) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}

	trailing := strings.HasSuffix(p, "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		// The path was all slashes, e.g. "//".
		if strict {
			return []string{""}
		}
		return nil
	}

	segs := strings.Split(p, "/")
	if strict && trailing {
		segs = append(segs, "")
	}
	return segs
}
