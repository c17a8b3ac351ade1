package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/api/middleware"
	"github.com/wildguard/console/internal/core/domain"
	"github.com/wildguard/console/internal/core/service"
	"github.com/wildguard/console/internal/metrics"
)

const heartbeatInterval = 15 * time.Second

// StreamHandler keeps a page mounted over Server-Sent Events: one poller per
// connection, stopped when the client goes away.
type StreamHandler struct {
	pages    *service.Catalogue
	role     domain.Role
	interval time.Duration
	log      zerolog.Logger
}

func NewStreamHandler(pages *service.Catalogue, role domain.Role, interval time.Duration, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		pages:    pages,
		role:     role,
		interval: interval,
		log:      log.With().Str("component", "stream").Logger(),
	}
}

// Stream emits a "snapshot" event per applied refresh. When the backend
// rejects the session it emits "session_expired" and closes.
//
// @Summary      Live page
// @Tags         pages
// @Produce      text/event-stream
// @Param        page  path  string  true  "Page name"
// @Success      200
// @Router       /admin/{page}/stream [get]
// @Router       /user/{page}/stream [get]
func (h *StreamHandler) Stream(c echo.Context) error {
	page, d := h.pages.Resolve(h.role, c.Param("page"))
	if !d.Allowed() {
		return middleware.Redirect(c, d)
	}
	hd, err := handle(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	params := service.ParamsFromQuery(c.QueryParams())
	poller := service.NewPoller[any](page.Key(), h.interval, func(ctx context.Context) (any, error) {
		return page.Load(ctx, hd.Backend, params)
	}, h.log)

	sub, unsubscribe := poller.Subscribe()
	defer unsubscribe()
	poller.Start(ctx)
	defer poller.Stop()

	metrics.ActiveStreams.WithLabelValues(page.Key()).Inc()
	defer metrics.ActiveStreams.WithLabelValues(page.Key()).Dec()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := writeEvent(w, "snapshot", streamSnapshot{Page: page.Key(), Loading: true}); err != nil {
		return nil
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case snap, ok := <-sub:
			if !ok {
				return nil
			}
			if errors.Is(snap.Err, domain.ErrUnauthorized) {
				_ = writeEvent(w, "session_expired", errorResponse{Error: "session expired", Redirect: domain.LandingPath})
				return nil
			}
			if err := writeEvent(w, "snapshot", toStreamSnapshot(page.Key(), snap)); err != nil {
				h.log.Debug().Err(err).Str("page", page.Key()).Msg("stream client gone")
				return nil
			}
		}
	}
}

func toStreamSnapshot(key string, s service.Snapshot[any]) streamSnapshot {
	out := streamSnapshot{
		Page:       key,
		Generation: s.Generation,
		Loading:    s.Loading(),
		Data:       s.Data,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.Err != nil {
		out.Error = publicMessage(s.Err)
	}
	return out
}

func writeEvent(w *echo.Response, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
