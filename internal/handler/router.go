package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router groups the handlers served by the API.
type Router struct {
	Previews  *PreviewHandler
	Uploads   *UploadHandler
	Sync      *SyncHandler
	UploadDir string
	// Health reports backend readiness; nil means always healthy.
	Health func(r *http.Request) error
}

func (rt *Router) Build() *mux.Router {
	r := mux.NewRouter()

	// Health check — required by load balancers and Kubernetes liveness probes
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if rt.Health != nil {
			if err := rt.Health(r); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// API routes — versioned so the parent product can call /api/v1/* without conflicts
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/themes", rt.Previews.ListThemes).Methods("GET")
	api.HandleFunc("/themes/{theme}/default", rt.Previews.GetDefault).Methods("GET")
	api.HandleFunc("/themes/{theme}/previews", rt.Previews.CreatePreview).Methods("POST")
	api.HandleFunc("/themes/{theme}/previews/{id}", rt.Previews.GetPreview).Methods("GET")
	api.HandleFunc("/uploads", rt.Uploads.UploadImage).Methods("POST")
	api.HandleFunc("/uploads", rt.Uploads.DeleteImage).Methods("DELETE")
	api.HandleFunc("/sync/{session}", rt.Sync.Connect).Methods("GET")

	if rt.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(rt.UploadDir))),
		)
	}

	// Public pages last so they never shadow the API.
	r.HandleFunc("/{theme}/preview/{id}", rt.Previews.ViewPreview).Methods("GET")
	r.HandleFunc("/{theme}", rt.Previews.ViewDefault).Methods("GET")

	return r
}
