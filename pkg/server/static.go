package server

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"webdesk/pkg/logging"
)

// StaticFileHandler serves the desktop front end with caching and MIME types.
type StaticFileHandler struct {
	dir          string
	cacheControl string
	indexFiles   []string
	useETag      bool
}

// NewStaticFileHandler creates a new static file handler.
func NewStaticFileHandler(dir string) *StaticFileHandler {
	return &StaticFileHandler{
		dir:          dir,
		cacheControl: "public, max-age=3600",
		indexFiles:   []string{"index.html", "index.htm"},
		useETag:      true,
	}
}

// SetCacheControl sets the Cache-Control header value.
func (h *StaticFileHandler) SetCacheControl(value string) {
	h.cacheControl = value
}

// SetIndexFiles sets the files to try when serving a directory.
func (h *StaticFileHandler) SetIndexFiles(files []string) {
	h.indexFiles = files
}

// EnableETag enables or disables ETag generation.
func (h *StaticFileHandler) EnableETag(enabled bool) {
	h.useETag = enabled
}

// ServeHTTP implements http.Handler interface.
func (h *StaticFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	path, err := ValidatePath(h.dir, r.URL.Path)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.internalError(w, r, err)
		return
	}

	if fi.IsDir() {
		for _, indexFile := range h.indexFiles {
			indexPath := filepath.Join(path, indexFile)
			if fi, err := os.Stat(indexPath); err == nil && !fi.IsDir() {
				h.serveFile(w, r, indexPath)
				return
			}
		}
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	h.serveFile(w, r, path)
}

func (h *StaticFileHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.WithContext(r.Context()).Error("static file error",
		logging.String("path", r.URL.Path),
		logging.Err(err),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// serveFile serves a single file. http.ServeContent handles conditional
// requests, HEAD and byte ranges.
func (h *StaticFileHandler) serveFile(w http.ResponseWriter, r *http.Request, path string) {
	file, err := os.Open(path)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	defer file.Close()

	fi, err := file.Stat()
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ContentType(path))
	if h.cacheControl != "" {
		w.Header().Set("Cache-Control", h.cacheControl)
	}
	if h.useETag {
		if sum, err := fileHash(file); err == nil {
			w.Header().Set("ETag", `"`+sum+`"`)
		}
	}

	http.ServeContent(w, r, fi.Name(), fi.ModTime(), file)
}

// fileHash computes a short hash of the file for ETag and rewinds it.
func fileHash(file *os.File) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)[:8]), nil
}

// MimeTypes overrides the system MIME table for the front end's assets.
var MimeTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".htm":   "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".mjs":   "application/javascript; charset=utf-8",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".txt":   "text/plain; charset=utf-8",
	".md":    "text/markdown",
	".wasm":  "application/wasm",
}

// ContentType returns the MIME type served for path.
func ContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := MimeTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ValidatePath resolves requestedPath under root and rejects anything that
// escapes it.
func ValidatePath(root, requestedPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.New("invalid root")
	}

	// Cleaning a rooted path drops every leading "..".
	cleanPath := filepath.Clean("/" + requestedPath)
	absPath := filepath.Join(absRoot, cleanPath)

	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", errors.New("path outside root directory")
	}
	return absPath, nil
}
