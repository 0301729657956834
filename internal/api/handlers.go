package api

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/stringart/pkg/buildinfo"
	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/errors"
	"github.com/matzehuels/stringart/pkg/httputil"
	imageio "github.com/matzehuels/stringart/pkg/io"
	"github.com/matzehuels/stringart/pkg/nails"
	"github.com/matzehuels/stringart/pkg/pipeline"
	"github.com/matzehuels/stringart/pkg/raster"
	"github.com/matzehuels/stringart/pkg/render"
)

// Response headers of /v1/generate.
const (
	HeaderRun   = "X-Stringart-Run"
	HeaderPulls = "X-Stringart-Pulls"
	HeaderCache = "X-Stringart-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.limits.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.fail(w, r, uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "missing image field"))
		return
	}
	defer file.Close()

	if header.Filename != "" {
		if err := errors.ValidateImageFilename(header.Filename); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	opts, err := s.options(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	img, _, err := imageio.ReadImage(file)
	if err != nil {
		s.fail(w, r, uploadError(err))
		return
	}
	if err := s.checkImage(opts.Config, img.Bounds().Dx(), img.Bounds().Dy()); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), img, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := opts.Formats[0]
	cacheState := "miss"
	if res.CacheInfo.PlanHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set(HeaderRun, res.ID)
	w.Header().Set(HeaderPulls, strconv.Itoa(res.Stats.Pulls))
	w.Header().Set(HeaderCache, cacheState)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

// options builds pipeline options from the config field and query string.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	cfg := s.defaults
	if raw := strings.TrimSpace(r.FormValue("config")); raw != "" {
		if err := httputil.DecodeJSON(strings.NewReader(raw), &cfg); err != nil {
			return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config field")
		}
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	if err := s.checkLimits(cfg); err != nil {
		return pipeline.Options{}, err
	}

	format := pipeline.FormatPNG
	if f := r.URL.Query().Get("format"); f != "" {
		format = pipeline.NormalizeFormat(strings.ToLower(f))
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}

	showNails, _ := strconv.ParseBool(r.URL.Query().Get("nails"))
	return pipeline.Options{
		Config:    cfg,
		Formats:   []string{format},
		ShowNails: showNails,
		Logger:    s.logger,
	}, nil
}

// checkLimits rejects configurations whose optimizer or output work exceeds
// the server limits. The output check uses the stretched output dimensions.
func (s *Server) checkLimits(cfg config.Config) error {
	l := s.limits
	if l.MaxWorkingSize > 0 && cfg.WorkingSize > l.MaxWorkingSize {
		return errors.New(errors.ErrCodeInvalidConfig, "working_size %d exceeds the limit of %d", cfg.WorkingSize, l.MaxWorkingSize)
	}
	if w, h := render.Dimensions(cfg); l.MaxOutputSize > 0 && (w > l.MaxOutputSize || h > l.MaxOutputSize) {
		return errors.New(errors.ErrCodeInvalidConfig, "output %d×%d exceeds the limit of %d", w, h, l.MaxOutputSize)
	}
	if l.MaxPulls > 0 && cfg.Pulls > l.MaxPulls {
		return errors.New(errors.ErrCodeInvalidConfig, "pulls %d exceeds the limit of %d", cfg.Pulls, l.MaxPulls)
	}
	return nil
}

// checkImage applies MaxWorkingSize to the decoded image when the optimizer
// works at its raw size, which is the case for stretched frames.
func (s *Server) checkImage(cfg config.Config, w, h int) error {
	limit := s.limits.MaxWorkingSize
	if limit <= 0 || cfg.SquareCrop() {
		return nil
	}
	if w > limit || h > limit {
		return errors.New(errors.ErrCodeInvalidImage, "image %d×%d exceeds the working size limit of %d for stretched frames", w, h, limit)
	}
	return nil
}

// nailsResponse is the body of /v1/nails.
type nailsResponse struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Shape  config.Shape   `json:"shape"`
	Count  int            `json:"count"`
	Nails  []raster.Point `json:"nails"`
}

func (s *Server) handleNails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cfg := s.defaults

	w0, h0 := cfg.WorkingSize, cfg.WorkingSize
	var err error
	intParam := func(name string, dst *int) {
		if v := q.Get(name); v != "" && err == nil {
			if *dst, err = strconv.Atoi(v); err != nil {
				err = errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", name)
			}
		}
	}
	floatParam := func(name string, dst *float64) {
		if v := q.Get(name); v != "" && err == nil {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				err = errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", name)
			}
		}
	}
	intParam("width", &w0)
	intParam("height", &h0)
	floatParam("nail_step", &cfg.NailStep)
	floatParam("scale_x", &cfg.ScaleX)
	floatParam("scale_y", &cfg.ScaleY)
	if v := q.Get("shape"); v != "" && err == nil {
		if uerr := cfg.Shape.UnmarshalText([]byte(v)); uerr != nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, uerr, "shape")
		}
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := cfg.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if limit := s.limits.MaxWorkingSize; limit > 0 && (w0 > limit || h0 > limit) {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "dimensions exceed the limit of %d", limit))
		return
	}

	set, err := nails.Layout(w0, h0, cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nailsResponse{
		Width:  w0,
		Height: h0,
		Shape:  cfg.Shape,
		Count:  set.Len(),
		Nails:  set,
	})
}

// uploadError classifies body and decode failures.
func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "upload exceeds %d bytes", tooLarge.Limit)
	}
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed upload")
}

// fail writes err and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
}
