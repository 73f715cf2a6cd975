package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// avatar serves one file of the avatar directory. Names come from
// [store.AvatarStorage] and never contain a path separator.
func (h *Handler) avatar(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeNotFound(w, r)
		return
	}

	path := filepath.Join(h.avatarDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeNotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
