package server

import (
	"net/http"

	rb "github.com/reoring/rulebridge"
	"github.com/reoring/rulebridge/i18n"
	"github.com/reoring/rulebridge/source"
)

// errorResponse is the body of non-issue failures.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// issueResponse is the JSON shape of one rb.Issue.
type issueResponse struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// issuesPayload shapes Issues for JSON responses, with messages in the
// language of tr.
func issuesPayload(iss rb.Issues, tr i18n.Translator) map[string]any {
	out := make([]issueResponse, 0, len(iss))
	for _, it := range iss.Localize(tr) {
		out = append(out, issueResponse{Path: it.Path, Code: it.Code, Message: it.Message, Params: it.Params})
	}
	return map[string]any{"issues": out}
}

func (s *Server) writeIssues(w http.ResponseWriter, status int, err error) {
	iss, ok := rb.AsIssues(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	writeJSON(w, status, issuesPayload(iss, s.tr))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := source.EncodeJSON(v, false)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"code":"internal_error","message":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
