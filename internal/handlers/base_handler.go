package handlers

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/config"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/logging"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/provider"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/css/*.css
var assetsFS embed.FS

// BaseHandler contains common handler functionality
type BaseHandler struct {
	tmpl          *template.Template
	Provider      provider.Provider
	RuntimeConfig *config.RuntimeConfig
	logger        zerolog.Logger
	cssETag       string // Cached ETag for CSS file
	cssContent    []byte // Cached CSS file content
}

// NewBaseHandler creates a common base handler with shared components
func NewBaseHandler(runtimeCfg *config.RuntimeConfig, dataProvider provider.Provider) (*BaseHandler, error) {
	logger := logging.GetLogger("base-handler")
	logger.Debug().Msg("Parsing templates")

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"js": func(v interface{}) template.JS {
			a, _ := json.Marshal(v)
			return template.JS(a)
		},
	}

	// Parse only layout.html initially; page templates are parsed into a
	// clone per render
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse templates")
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Pre-load and cache the CSS file with its ETag
	css, err := assetsFS.ReadFile("assets/css/app.css")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read CSS for ETag calculation")
		return nil, fmt.Errorf("failed to read CSS file: %w", err)
	}
	hash := sha256.Sum256(css)
	etag := fmt.Sprintf("%q", hex.EncodeToString(hash[:]))

	return &BaseHandler{
		tmpl:          tmpl,
		Provider:      dataProvider,
		RuntimeConfig: runtimeCfg,
		logger:        logger,
		cssETag:       etag,
		cssContent:    css,
	}, nil
}

// DisplayLocation resolves the configured display timezone. A timezone that
// no longer loads falls back to UTC rather than failing the request.
func (h *BaseHandler) DisplayLocation() *time.Location {
	timezone := h.RuntimeConfig.Display().Timezone
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		h.logger.Warn().Err(err).Str("timezone", timezone).Msg("Falling back to UTC")
		return time.UTC
	}
	return loc
}

// RenderTemplate renders a page template inside the layout
func (h *BaseHandler) RenderTemplate(w http.ResponseWriter, name string, data interface{}) {
	h.logger.Debug().Str("template_name", name).Msg("Executing template")

	tmpl, err := h.tmpl.Clone()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to clone template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	_, err = tmpl.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to parse page template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to execute template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// RegisterStaticRoutes registers static asset routes
func (h *BaseHandler) RegisterStaticRoutes() {
	http.HandleFunc("/static/css/app.css", h.serveCSS)
}

// serveCSS serves the embedded stylesheet with ETag support
func (h *BaseHandler) serveCSS(w http.ResponseWriter, r *http.Request) {
	if ifNoneMatch := r.Header.Get("If-None-Match"); ifNoneMatch != "" {
		if h.matchesETag(ifNoneMatch) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("ETag", h.cssETag)

	if _, err := w.Write(h.cssContent); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write CSS response")
	}
}

// matchesETag checks the If-None-Match header against the cached ETag.
// Handles comma-separated ETags and the '*' wildcard per RFC 7232.
func (h *BaseHandler) matchesETag(ifNoneMatch string) bool {
	if ifNoneMatch == "*" {
		return true
	}
	for _, part := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimSpace(part) == h.cssETag {
			return true
		}
	}
	return false
}

// BasePageData contains common data for all pages
type BasePageData struct {
	CurrentYear int
	CurrentPath string
	IsLoading   bool
}

// NewBasePageData creates a new BasePageData with common fields populated
func (h *BaseHandler) NewBasePageData(r *http.Request) BasePageData {
	return BasePageData{
		CurrentYear: time.Now().Year(),
		CurrentPath: r.URL.Path,
		IsLoading:   h.Provider.IsLoading(),
	}
}
