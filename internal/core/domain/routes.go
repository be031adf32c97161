package domain

import (
	"sort"
	"strings"
)

const (
	PathRoot         = "/"
	PathLogin        = "/login"
	PathRegister     = "/register"
	PathUnauthorized = "/unauthorized"
)

// RouteAccess describes who may open a view.
type RouteAccess int

const (
	// AccessPublic views render without a session.
	AccessPublic RouteAccess = iota
	// AccessAuthenticated views require a session; AllowedRoles narrows it when non-empty.
	AccessAuthenticated
)

// View is one entry of the static route table.
type View struct {
	Path         string      `json:"path"`
	Name         string      `json:"name"`
	Access       RouteAccess `json:"-"`
	AllowedRoles []Role      `json:"allowedRoles,omitempty"`
}

// Shared views are open to every authenticated role.
var sharedViews = []View{
	{Path: "/profile", Name: "profile", Access: AccessAuthenticated},
	{Path: "/notifications", Name: "notifications", Access: AccessAuthenticated},
	{Path: "/settings", Name: "settings", Access: AccessAuthenticated},
	{Path: "/messages", Name: "messages", Access: AccessAuthenticated},
}

var publicViews = []View{
	{Path: PathLogin, Name: "login", Access: AccessPublic},
	{Path: PathRegister, Name: "register", Access: AccessPublic},
	{Path: PathUnauthorized, Name: "unauthorized", Access: AccessPublic},
}

// RouteTable indexes every view by path.
type RouteTable struct {
	views map[string]View
}

// NewRouteTable builds the table from the public views, each role's dashboard
// sub-tree (taken from its navigation entries) and the shared views.
func NewRouteTable() *RouteTable {
	t := &RouteTable{views: make(map[string]View)}
	for _, v := range publicViews {
		t.views[v.Path] = v
	}
	for _, v := range sharedViews {
		t.views[v.Path] = v
	}
	for _, role := range Roles {
		root, _ := DashboardPath(role)
		for _, entry := range navigation[role] {
			if !strings.HasPrefix(entry.Path, root) {
				continue
			}
			t.views[entry.Path] = View{
				Path:         entry.Path,
				Name:         viewName(entry.Path),
				Access:       AccessAuthenticated,
				AllowedRoles: []Role{role},
			}
		}
	}
	return t
}

// Lookup returns the view registered at path. Trailing slashes are ignored.
func (t *RouteTable) Lookup(path string) (View, bool) {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	v, ok := t.views[path]
	return v, ok
}

// Views returns all views sorted by path.
func (t *RouteTable) Views() []View {
	out := make([]View, 0, len(t.views))
	for _, v := range t.views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func viewName(path string) string {
	return strings.ReplaceAll(strings.Trim(path, "/"), "/", ".")
}

// SafeReturnPath reports whether from can be used as a post-login redirect:
// it must be a local absolute path that is not itself the login page.
// Control characters are refused because browsers strip tab and newline
// from URLs, which would turn "/\t/host" into "//host".
func SafeReturnPath(from string) bool {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.Contains(from, `\`) {
		return false
	}
	if strings.IndexFunc(from, isControl) >= 0 {
		return false
	}
	return from != PathLogin && !strings.HasPrefix(from, PathLogin+"?")
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
