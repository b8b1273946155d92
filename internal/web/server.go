// Package web serves rendered graphics over HTTP.
package web

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Faultbox/wadgfx/internal/assets"
	"github.com/Faultbox/wadgfx/internal/config"
	"github.com/Faultbox/wadgfx/internal/logger"
	"github.com/Faultbox/wadgfx/pkg/gfx"
	"github.com/Faultbox/wadgfx/pkg/render"
	"github.com/Faultbox/wadgfx/pkg/wad"
)

var errBadParam = errors.New("web: bad query parameter")

// Server renders graphics from a shared asset manager on demand.
type Server struct {
	assets   *assets.Manager
	defaults config.RenderConfig
}

// New creates a server over the given asset manager. The render
// config supplies defaults that query parameters may override.
func New(m *assets.Manager, defaults config.RenderConfig) *Server {
	return &Server{assets: m, defaults: defaults}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/lumps", s.lumpsHandler).Methods("GET")
	r.HandleFunc("/textures", s.texturesHandler).Methods("GET")
	r.HandleFunc("/flats/{name}.png", s.flatHandler).Methods("GET")
	r.HandleFunc("/sprites/{name}.png", s.spriteHandler).Methods("GET")
	r.HandleFunc("/textures/{name}.png", s.textureHandler).Methods("GET")
	return handlers.CombinedLoggingHandler(os.Stdout, r)
}

// ListenAndServe runs the server until it fails.
func (s *Server) ListenAndServe(addr string) error {
	logger.Info("http server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Router())
}

// renderParams resolves palette, colormap and scale from the query
// string, falling back to the configured defaults.
func (s *Server) renderParams(r *http.Request) (*gfx.Palette, []byte, int, error) {
	scale := s.defaults.Scale
	paletteBank := s.defaults.Palette
	colormapBank := s.defaults.Colormap

	q := r.URL.Query()
	var err error
	if v := q.Get("scale"); v != "" {
		if scale, err = strconv.Atoi(v); err != nil || scale < 1 {
			return nil, nil, 0, fmt.Errorf("%w: scale %q", errBadParam, v)
		}
	}
	if v := q.Get("palette"); v != "" {
		if paletteBank, err = strconv.Atoi(v); err != nil {
			return nil, nil, 0, fmt.Errorf("%w: palette %q", errBadParam, v)
		}
	}
	if v := q.Get("colormap"); v != "" {
		if colormapBank, err = strconv.Atoi(v); err != nil {
			return nil, nil, 0, fmt.Errorf("%w: colormap %q", errBadParam, v)
		}
	}

	playpal, err := s.assets.Playpal()
	if err != nil {
		return nil, nil, 0, err
	}
	pal, err := playpal.Bank(paletteBank)
	if err != nil {
		return nil, nil, 0, err
	}

	colormaps, err := s.assets.Colormap()
	if err != nil {
		return nil, nil, 0, err
	}
	table, err := colormaps.Bank(colormapBank)
	if err != nil {
		return nil, nil, 0, err
	}

	return pal, table, scale, nil
}

func (s *Server) flatHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	pal, table, scale, err := s.renderParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := s.assets.Read(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	img, err := render.RenderFlat(data, render.FlatOptions{
		Palette:  pal,
		Colormap: table,
		Scale:    scale,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writePNG(w, r, img)
}

func (s *Server) spriteHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	pal, table, scale, err := s.renderParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := s.assets.Read(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	img, err := render.RenderSprite(data, render.SpriteOptions{
		Palette:    pal,
		Colormap:   table,
		Scale:      scale,
		Format:     render.FormatFull,
		Anamorphic: s.defaults.Anamorphic,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writePNG(w, r, img)
}

func (s *Server) textureHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	pal, table, scale, err := s.renderParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	tex, err := s.assets.FindTexture(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resolver, err := s.assets.Resolver(false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	composite, err := gfx.RenderTexture(tex, resolver)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	img, err := render.RenderSprite(composite, render.SpriteOptions{
		Palette:    pal,
		Colormap:   table,
		Scale:      scale,
		Format:     render.FormatFull,
		Anamorphic: s.defaults.Anamorphic,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writePNG(w, r, img)
}

func (s *Server) lumpsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for i, e := range s.assets.List() {
		fmt.Fprintf(w, "%5d %8d %s\n", i, e.Size, e.Name)
	}
}

func (s *Server) texturesHandler(w http.ResponseWriter, r *http.Request) {
	dirs, err := s.assets.TextureDirs()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, dir := range dirs {
		for _, tex := range dir.Textures {
			fmt.Fprintf(w, "%-8s %4d×%-4d %d patches\n", tex.Name, tex.Width, tex.Height, len(tex.Patches))
		}
	}
}

func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, img image.Image) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if err := png.Encode(w, img); err != nil {
		logger.Error("encoding png", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// fail maps render errors to status codes: unknown names are 404, bad
// query parameters 400, malformed assets and everything else 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, wad.ErrLumpNotFound), errors.Is(err, assets.ErrTextureNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadParam):
		status = http.StatusBadRequest
	}
	logger.Warn("request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	http.Error(w, err.Error(), status)
}
