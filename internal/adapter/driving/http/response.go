package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/spamwall/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// CommentPayload is the subset of a comment record the classifier reads.
type CommentPayload struct {
	Content     string `json:"comment_content" validate:"max=65525"`
	Author      string `json:"comment_author"`
	AuthorEmail string `json:"comment_author_email"`
	AuthorURL   string `json:"comment_author_url"`
}

// ModerateRequest is the JSON body for the moderation hook. The approval
// status may arrive as a JSON string or number.
type ModerateRequest struct {
	ApprovalStatus json.RawMessage `json:"approval_status" validate:"required"`
	Comment        *CommentPayload `json:"comment" validate:"required"`
}

// ModerateResponse carries the approval status to commit.
type ModerateResponse struct {
	ApprovalStatus json.RawMessage `json:"approval_status"`
}

// ClassifyRequest is the JSON body for the classify endpoint.
type ClassifyRequest struct {
	Comment *CommentPayload `json:"comment" validate:"required"`
}

// ClassifyResponse is the verdict for a single comment.
type ClassifyResponse struct {
	Verdict string `json:"verdict"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status               string `json:"status"`
	Time                 string `json:"time"`
	EncryptionEnabled    bool   `json:"encryption_enabled"`
	ClassifierConfigured bool   `json:"classifier_configured"`
}

var errApprovalStatusType = errors.New("approval_status must be a string or number")

// parseApprovalStatus accepts a JSON string or number. Numbers keep their
// literal text so 1 and "1" mean the same status.
func parseApprovalStatus(raw json.RawMessage) (model.ApprovalStatus, error) {
	if len(raw) == 0 {
		return "", errApprovalStatusType
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errApprovalStatusType
		}
		return model.ApprovalStatus(s), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", errApprovalStatusType
		}
		return model.ApprovalStatus(n.String()), nil
	default:
		return "", errApprovalStatusType
	}
}

// toComment converts the request payload to the domain comment.
func toComment(p *CommentPayload) model.Comment {
	return model.Comment{
		Content:     p.Content,
		Author:      p.Author,
		AuthorEmail: p.AuthorEmail,
		AuthorURL:   p.AuthorURL,
	}
}
