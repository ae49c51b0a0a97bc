package adminserver

import (
	"net/http"
	"strings"

	"github.com/omenapps/adminsort/internal/adminindex"
	"github.com/omenapps/adminsort/internal/middleware"
)

// Handler serves the admin index and per-app pages. Handlers register a
// pending template response instead of rendering directly, so the
// middleware can transform the render context first.
type Handler struct {
	apps []adminindex.App
}

// NewHandler creates a handler serving the given app listing.
func NewHandler(apps []adminindex.App) *Handler {
	return &Handler{apps: apps}
}

// Routes returns the demo server's route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/", h.handleAdmin)
	return mux
}

// Resolver returns the route resolver matching Routes: the bare index
// resolves to "index", every app page to "app_list".
func (h *Handler) Resolver() *middleware.TableResolver {
	return middleware.NewTableResolver().
		Add("/admin/", middleware.Route{Namespace: middleware.AdminNamespace, Name: "index"}).
		Add("/admin/*", middleware.Route{Namespace: middleware.AdminNamespace, Name: "app_list"})
}

func (h *Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/admin/")
	if rest == "" {
		h.index(w, r)
		return
	}
	h.appIndex(w, r, strings.TrimSuffix(rest, "/"))
}

// index serves the admin homepage: the full app listing under "app_list".
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	// Listings are rebuilt per request; the middleware computes model
	// names in place and a shared slice would leak between requests.
	apps := cloneApps(h.apps)
	rc := adminindex.RenderContext{
		"title": "Site administration",
	}
	rc.SetAppList(adminindex.KeyAppList, apps)

	h.respond(w, r, rc)
}

// appIndex serves one app's page: the listing appears under
// "available_apps", the key admin sub-pages publish.
func (h *Handler) appIndex(w http.ResponseWriter, r *http.Request, label string) {
	var title string
	for _, app := range h.apps {
		if app.AppLabel == label {
			title = app.Name + " administration"
			break
		}
	}
	if title == "" {
		http.NotFound(w, r)
		return
	}

	rc := adminindex.RenderContext{
		"title": title,
	}
	rc.SetAppList(adminindex.KeyAvailableApps, cloneApps(h.apps))

	h.respond(w, r, rc)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, rc adminindex.RenderContext) {
	tr := &middleware.TemplateResponse{Context: rc}
	if !middleware.Respond(r, tr) {
		// Middleware not installed; render the default way ourselves.
		middleware.RenderJSON(w, tr)
	}
}

func cloneApps(apps []adminindex.App) []adminindex.App {
	out := make([]adminindex.App, len(apps))
	for i, app := range apps {
		out[i] = app.Clone()
	}
	return out
}
