package network

import (
	"net/http"
	"strings"
)

// Params holds the values captured by {name} segments of a route
type Params map[string]string

type Handle func(w http.ResponseWriter, r *http.Request, p Params)

type route struct {
	method   string
	segs     []string
	literals int
	tail     bool // last segment is {name...}
	handle   Handle
}

// Router matches request paths segment by segment. Literal segments win
// over {name} segments, so "/databases" and "/{db}/tables" never
// shadow each other the way they would in a pattern mux.
type Router struct {
	routes   []*route
	NotFound http.Handler
}

func NewRouter() *Router {
	return &Router{NotFound: http.HandlerFunc(notFound)}
}

// Route registers h for method and pattern, e.g. "/{db}/tables/{table}"
func (mux *Router) Route(method, pattern string, h Handle) {
	rt := &route{method: method, handle: h, segs: splitPath(pattern)}
	for i, seg := range rt.segs {
		if !isParam(seg) {
			rt.literals++
			continue
		}
		if strings.HasSuffix(seg, "...}") {
			if i != len(rt.segs)-1 {
				panic("network: wildcard segment must be last in " + pattern)
			}
			rt.tail = true
		}
	}
	mux.routes = append(mux.routes, rt)
}

func (mux *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path)

	var best *route
	var bestParams Params
	pathMatched := false
	for _, rt := range mux.routes {
		p, ok := rt.match(parts)
		if !ok {
			continue
		}
		pathMatched = true
		if rt.method != r.Method {
			continue
		}
		if best == nil || rt.literals > best.literals {
			best, bestParams = rt, p
		}
	}

	if best == nil {
		if pathMatched {
			respondError(w, r, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		mux.NotFound.ServeHTTP(w, r)
		return
	}
	best.handle(w, r, bestParams)
}

func (rt *route) match(parts []string) (Params, bool) {
	if rt.tail {
		if len(parts) < len(rt.segs) {
			return nil, false
		}
	} else if len(parts) != len(rt.segs) {
		return nil, false
	}

	p := make(Params)
	for i, seg := range rt.segs {
		if !isParam(seg) {
			if parts[i] != seg {
				return nil, false
			}
			continue
		}
		name := strings.TrimSuffix(seg[1:len(seg)-1], "...")
		if rt.tail && i == len(rt.segs)-1 {
			p[name] = strings.Join(parts[i:], "/")
			break
		}
		if parts[i] == "" {
			return nil, false
		}
		p[name] = parts[i]
	}
	return p, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func isParam(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, "not found")
}
