// Package server exposes the analysis pipeline over HTTP. It is thin glue:
// request parsing, temp file handling, and error-to-status mapping; all
// analytical content lives in the analysis package.
package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/modescope/modescope/analysis"
	"github.com/modescope/modescope/audio"
	"github.com/modescope/modescope/chroma"
	"github.com/modescope/modescope/logging"
	"github.com/modescope/modescope/render"
)

// Server is the HTTP front end of the analyzer
type Server struct {
	echo     *echo.Echo
	cfg      analysis.Config
	validate *validator.Validate
	log      logging.Logger
}

// analyzeRequest carries the form fields of an analysis request. The audio
// file itself arrives as a multipart part named "audio".
type analyzeRequest struct {
	Start float64  `form:"start" validate:"gte=0"`
	End   *float64 `form:"end" validate:"omitempty,gte=0"`
}

// New creates a server with the given pipeline configuration
func New(cfg analysis.Config, log logging.Logger) *Server {
	if log == nil {
		log = logging.GetGlobalLogger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:     e,
		cfg:      cfg,
		validate: validator.New(),
		log:      log,
	}

	e.POST("/analyze-mode", s.handleAnalyze)
	e.POST("/analyze-mode/", s.handleAnalyze)

	return s
}

// Handler exposes the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start runs the HTTP server until Shutdown is called
func (s *Server) Start(addr string) error {
	s.log.Info("server listening", logging.Fields{"addr": addr})
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleAnalyze accepts an audio upload plus segment bounds and returns the
// harmonic analysis report
func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request parameters")
	}
	if err := s.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request parameters: "+err.Error())
	}
	if req.End != nil && *req.End < req.Start {
		return echo.NewHTTPError(http.StatusBadRequest, "the 'end' time cannot be earlier than the 'start' time")
	}

	upload, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'audio' file upload")
	}
	s.log.Info("received analysis request", logging.Fields{"file": upload.Filename})

	// The reader needs a seekable source, so spool the upload to a temp file
	tmpPath, err := s.saveUpload(upload)
	if err != nil {
		s.log.Error(err, "saving upload")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store upload")
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			s.log.Warn("removing temp file", logging.Fields{"path": tmpPath, "error": err.Error()})
		}
	}()

	reader, err := audio.Open(tmpPath)
	if err != nil {
		s.log.Error(err, "opening audio")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not decode audio: "+err.Error())
	}
	defer reader.Close()

	end := -1.0
	if req.End != nil {
		end = *req.End
	}

	analyzer := analysis.NewAnalyzer(s.cfg, chroma.NewCQTDefault(), s.log)
	result, err := analyzer.Analyze(reader, req.Start, end)
	if err != nil {
		if analysis.IsValidation(err) {
			s.log.Warn("analysis validation error", logging.Fields{"error": err.Error()})
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.log.Error(err, "analysis failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "an internal error occurred")
	}

	resp, err := s.buildResponse(result)
	if err != nil {
		s.log.Error(err, "assembling response")
		return echo.NewHTTPError(http.StatusInternalServerError, "an internal error occurred")
	}

	return c.JSON(http.StatusOK, resp)
}

// saveUpload spools a multipart upload to a temp file and returns its path
func (s *Server) saveUpload(upload *multipart.FileHeader) (string, error) {
	src, err := upload.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "modescope-*"+filepath.Ext(upload.Filename))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// buildResponse assembles the wire response, rendering the segment visuals
func (s *Server) buildResponse(result *analysis.Result) (*ModeAnalysisResponse, error) {
	chromagram, err := render.ChromagramPNG(result.LocalChroma)
	if err != nil {
		return nil, fmt.Errorf("rendering chromagram: %w", err)
	}
	histogram, err := render.HistogramPNG(result.Summary)
	if err != nil {
		return nil, fmt.Errorf("rendering histogram: %w", err)
	}

	return &ModeAnalysisResponse{
		Global: GlobalAnalysis{
			KeySignature: result.Global.KeySignature,
			Mode:         result.Global.Mode,
			Tonic:        result.Global.Tonic,
			Confidence:   result.Global.Confidence,
		},
		Local: LocalAnalysis{
			SegmentStart:     result.SegmentStart,
			SegmentEnd:       result.SegmentEnd,
			Tonic:            result.Local.Tonic,
			KeySignature:     result.Local.KeySignature,
			Mode:             result.Local.Mode,
			MatchScore:       result.Local.Confidence,
			RegionType:       string(result.Region.Type),
			RegionConfidence: result.Region.Confidence,
		},
		Analysis: AnalysisDetails{
			ChromagramSummary: result.Summary[:],
			CadenceDetected:   result.Cadence.Detected,
			BorrowedTones:     result.Region.BorrowedTones,
			CadentialStrength: result.Cadence.Strength,
		},
		Visuals: []VisualizationItem{
			{
				Name:        "local_chromagram",
				Scope:       "local",
				ImageBase64: dataURI(chromagram),
			},
			{
				Name:        "local_histogram",
				Scope:       "local",
				ImageBase64: dataURI(histogram),
			},
		},
	}, nil
}

// dataURI wraps PNG bytes as a base64 data URI
func dataURI(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}
