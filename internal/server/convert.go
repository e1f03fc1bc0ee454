package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	rb "github.com/reoring/rulebridge"
	"github.com/reoring/rulebridge/convert"
	"github.com/reoring/rulebridge/docschema"
	logpkg "github.com/reoring/rulebridge/internal/logger"
	"github.com/reoring/rulebridge/internal/metrics"
	"github.com/reoring/rulebridge/source"
)

// Error codes of non-issue failures.
const (
	codeBadRequest    = "bad_request"
	codeTooLarge      = "payload_too_large"
	codeInternal      = "internal_error"
	codeVerifyFailure = "verify_failed"
)

// convert handles POST /v1/convert?from=<format>&to=<format>.
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	log := logpkg.FromContext(r.Context())

	from, err := convert.ParseFormat(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	to, err := convert.ParseFormat(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Limits.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read request body")
		return
	}

	doc, err := source.Decode(body, syntaxOf(r))
	if err != nil {
		s.writeIssues(w, http.StatusBadRequest, err)
		return
	}

	c := convert.Converter{
		Options:  rb.Options{MaxDepth: s.cfg.Limits.MaxDepth},
		Fragment: !s.cfg.Output.WithEnvelope(),
	}
	start := time.Now()
	out, err := c.Convert(doc, from, to)
	elapsed := time.Since(start)
	if err != nil {
		iss, _ := rb.AsIssues(err)
		codes := make([]string, 0, len(iss))
		for _, it := range iss {
			codes = append(codes, it.Code)
		}
		metrics.ObserveConversion(from.String(), to.String(), elapsed, true, codes...)
		log.Info("conversion rejected",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			logpkg.Issues(err),
		)
		s.writeIssues(w, http.StatusUnprocessableEntity, err)
		return
	}

	if to == convert.DocSchema && s.cfg.Output.Verify {
		if m, ok := out.(map[string]any); ok {
			if err := docschema.Verify(m); err != nil {
				metrics.ObserveConversion(from.String(), to.String(), elapsed, true)
				log.Error("emitted schema does not compile", zap.Error(err))
				writeError(w, http.StatusInternalServerError, codeVerifyFailure, err.Error())
				return
			}
		}
	}

	metrics.ObserveConversion(from.String(), to.String(), elapsed, false)
	log.Debug("conversion done",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Duration("elapsed", elapsed),
	)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) formats(w http.ResponseWriter, _ *http.Request) {
	fs := convert.Formats()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	writeJSON(w, http.StatusOK, map[string]any{"formats": names})
}

func syntaxOf(r *http.Request) source.Syntax {
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return source.YAML
	}
	return source.JSON
}
