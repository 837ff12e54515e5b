// SPDX-License-Identifier: MIT

package api

import (
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	rlog "github.com/rishabh7g/rrishmusic/internal/log"
)

const indexPage = "index.html"

// spaHandler serves the single-page site. Assets come from the web dir
// override when configured (with full traversal and symlink containment
// checks), otherwise from the embedded bundle. Paths that resolve to no
// asset get index.html so client-side routes deep-link correctly.
func (s *Server) spaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := rlog.WithComponentFromContext(r.Context(), "web")

		if isAPIPath(r.URL.Path) {
			writeNotFound(w)
			return
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			recordWebRequestDenied("method_not_allowed")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Multiple URL-decode passes, unicode normalization and NUL
		// checks; hostile encodings get a 403 before any FS access.
		if isPathTraversal(r.URL.Path) {
			logger.Warn().
				Str("event", "web.denied").
				Str(rlog.FieldPath, r.URL.Path).
				Str("reason", "path_escape").
				Msg("detected traversal sequence")
			recordWebRequestDenied("path_escape")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" || name == "." {
			name = indexPage
		}

		cfg := s.config()
		if cfg.WebDir != "" {
			s.serveFromDir(w, r, cfg.WebDir, name)
			return
		}
		s.serveFromFS(w, r, name)
	}
}

// serveFromFS serves from the embedded bundle.
func (s *Server) serveFromFS(w http.ResponseWriter, r *http.Request, name string) {
	if s.webFS == nil {
		writeNotFound(w)
		return
	}

	info, err := fs.Stat(s.webFS, name)
	if err != nil || info.IsDir() {
		// Unknown path: the SPA shell owns it.
		name = indexPage
		recordWebIndexFallback()
	}

	setAssetCacheHeaders(w, name)
	http.ServeFileFS(w, r, s.webFS, name)
}

// serveFromDir serves from the on-disk override with the containment
// checks a user-supplied directory needs.
func (s *Server) serveFromDir(w http.ResponseWriter, r *http.Request, dir, name string) {
	logger := rlog.WithComponentFromContext(r.Context(), "web")

	absDir, err := filepath.Abs(dir)
	if err != nil {
		recordWebRequestDenied("internal_error")
		writeInternalError(w)
		return
	}
	realDir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		recordWebRequestDenied("internal_error")
		writeInternalError(w)
		return
	}

	serveIndex := func() {
		recordWebIndexFallback()
		setAssetCacheHeaders(w, indexPage)
		http.ServeFile(w, r, filepath.Join(realDir, indexPage))
	}

	fullPath := filepath.Join(absDir, filepath.FromSlash(name))
	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			serveIndex()
			return
		}
		recordWebRequestDenied("internal_error")
		writeInternalError(w)
		return
	}

	// Containment: the resolved path must stay inside the resolved dir,
	// symlinks included.
	rel, err := filepath.Rel(realDir, realPath)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		logger.Warn().
			Str("event", "web.denied").
			Str(rlog.FieldPath, name).
			Str("resolved_path", realPath).
			Str("reason", "path_escape").
			Msg("path escapes web directory")
		recordWebRequestDenied("path_escape")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	info, err := os.Stat(realPath)
	if err != nil || info.IsDir() {
		serveIndex()
		return
	}

	setAssetCacheHeaders(w, name)
	http.ServeFile(w, r, realPath)
}

// setAssetCacheHeaders sets cache control: hashed bundle assets are
// immutable, the shell revalidates on every load.
func setAssetCacheHeaders(w http.ResponseWriter, name string) {
	if name == indexPage {
		w.Header().Set("Cache-Control", "no-cache")
		return
	}
	if strings.HasPrefix(name, "assets/") {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/") ||
		p == "/healthz" || p == "/readyz" || p == "/metrics"
}

// isPathTraversal performs robust checks against path traversal attempts.
// It decodes the input multiple times to catch double-encoding, applies
// Unicode normalization, and searches for dangerous sequences including NULs.
func isPathTraversal(p string) bool {
	decoded := p
	// Multiple decode passes catch double/triple encodings.
	for i := 0; i < 3; i++ {
		prev := decoded
		if d, err := url.PathUnescape(decoded); err == nil {
			decoded = d
		} else if d2, err2 := url.QueryUnescape(decoded); err2 == nil {
			decoded = d2
		}
		if decoded == prev {
			break
		}
	}

	lower := strings.ToLower(decoded)
	dangerSubstrings := []string{
		"..",        // parent traversal
		"..\\",      // windows-style backslash
		"%00",       // encoded NUL
		"%c0%ae",    // overlong UTF-8 for '.'
		"%e0%80%ae", // another overlong variant
	}
	for _, pat := range dangerSubstrings {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	if strings.IndexByte(decoded, 0x00) >= 0 {
		return true
	}

	// Normalize and check again for dot-dot.
	normalized := strings.ToLower(norm.NFC.String(decoded))
	return strings.Contains(normalized, "..")
}
