package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/dmitrymomot/standup/pkg/dispatch"
	"github.com/dmitrymomot/standup/pkg/logger"
)

type handlers struct {
	store        Store
	dispatcher   Dispatcher
	logger       *slog.Logger
	maxBodyBytes int64
}

type topicsResponse struct {
	Topics []string `json:"topics"`
	Size   int      `json:"size"`
}

type sizeResponse struct {
	Size int `json:"size"`
}

type appendRequest struct {
	Topics []string `json:"topics"`
}

type appendResponse struct {
	Added int `json:"added"`
}

type popResponse struct {
	dispatch.Outcome
	Error string `json:"error,omitempty"`
}

func (h *handlers) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.Load(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load topics", logger.Error(err))
		respondError(w, err)
		return
	}
	if topics == nil {
		topics = []string{}
	}
	respondOK(w, topicsResponse{Topics: topics, Size: len(topics)})
}

func (h *handlers) size(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Size(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to count topics", logger.Error(err))
		respondError(w, err)
		return
	}
	respondOK(w, sizeResponse{Size: n})
}

func (h *handlers) appendTopics(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			respondError(w, ErrUnsupportedMedia)
			return
		}
	}

	var req appendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, ErrPayloadTooLarge)
			return
		}
		respondError(w, fmt.Errorf("%w: invalid JSON body", ErrBadRequest))
		return
	}
	if len(req.Topics) == 0 {
		respondError(w, fmt.Errorf("%w: topics must not be empty", ErrBadRequest))
		return
	}

	added, err := h.store.Append(r.Context(), req.Topics)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to append topics", logger.Error(err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "topics appended", logger.Count(added))
	respondOK(w, appendResponse{Added: added})
}

// pop runs a dispatch detached from the request so a disconnecting client
// cannot abort it after the topic has been removed.
func (h *handlers) pop(w http.ResponseWriter, r *http.Request) {
	out := h.dispatcher.Dispatch(context.WithoutCancel(r.Context()))

	resp := popResponse{Outcome: out}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}

	status, msg := http.StatusOK, "topic sent"
	switch out.Status {
	case dispatch.StatusEmpty:
		msg = "no topics left"
	case dispatch.StatusNotifyFailed:
		status, msg = http.StatusBadGateway, "topic removed but not delivered"
	}
	writeJSON(w, status, Response{Code: string(out.Status), Message: msg, Data: resp})
}

func (h *handlers) storeCheck(ctx context.Context) error {
	_, err := h.store.Size(ctx)
	return err
}
