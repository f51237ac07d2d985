package sync

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gitvault/gitvault/internal/git"
	"github.com/gitvault/gitvault/internal/journal"
	"github.com/gitvault/gitvault/internal/server/validation"
	"github.com/gitvault/gitvault/internal/status"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type Handler struct {
	gitSvc     *git.Service
	session    *git.Session
	tracker    *status.Tracker
	journalSvc *journal.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	gitSvc *git.Service,
	session *git.Session,
	tracker *status.Tracker,
	journalSvc *journal.Service,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		gitSvc:     gitSvc,
		session:    session,
		tracker:    tracker,
		journalSvc: journalSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/sync")

	r.Use(h.errorsHandler)
	r.Post("/", h.run)
	r.Get("/status", h.status)
	r.Get("/status/stream", h.statusStream)
	r.Get("/history", h.history)
	r.Get("/commits", h.commits)
	r.Get("/changes", h.changes)
	r.Put("/credentials", validation.DecorateWithBodyEx(h.validator, h.putCredentials))
	r.Delete("/credentials", h.deleteCredentials)
	r.Post("/initialize", h.initialize)
}

func (h *Handler) run(c *fiber.Ctx) error {
	started := time.Now()

	outcome, err := h.gitSvc.Synchronize(c.Context())
	h.journalSvc.RecordRun(c.Context(), started, outcome, h.tracker.Snapshot(), err)

	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	return c.JSON(RunResponse{
		Outcome: outcome,
		Status:  h.tracker.Snapshot(),
	})
}

func (h *Handler) status(c *fiber.Ctx) error {
	return c.JSON(h.tracker.Snapshot())
}

const streamKeepAlive = 15 * time.Second

// statusStream pushes status snapshots over SSE, starting with the current
// one. The subscription is released when the client goes away.
func (h *Handler) statusStream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		h.pumpStatus(w, streamKeepAlive)
	}))

	return nil
}

// pumpStatus writes snapshots to w as SSE events until a write fails.
// Keep-alive comments are written while the status is idle, so a dead
// client is noticed within one interval instead of holding the
// subscription until the next snapshot.
func (h *Handler) pumpStatus(w *bufio.Writer, keepAlive time.Duration) {
	updates, cancel := h.tracker.Subscribe()
	defer cancel()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	send := func(snapshot status.Snapshot) bool {
		data, err := json.Marshal(snapshot)
		if err != nil {
			h.logger.Error("failed to encode status snapshot", zap.Error(err))
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return false
		}
		return w.Flush() == nil
	}

	if !send(h.tracker.Snapshot()) {
		return
	}

	for {
		select {
		case snapshot := <-updates:
			if !send(snapshot) {
				return
			}
		case <-ticker.C:
			if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func (h *Handler) history(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	entries, err := h.journalSvc.History(c.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	responses := lo.Map(entries, func(entry *journal.Entry, _ int) HistoryEntryResponse {
		return HistoryEntryResponse{
			ID:         entry.ID.String(),
			StartedAt:  entry.StartedAt,
			FinishedAt: entry.FinishedAt,
			Outcome:    entry.Outcome,
			Status:     entry.Snapshot,
			Error:      entry.Error,
		}
	})

	return c.JSON(responses)
}

func (h *Handler) commits(c *fiber.Ctx) error {
	messages, err := h.gitSvc.ListLocalCommits(c.Context())
	if err != nil {
		return fmt.Errorf("failed to list local commits: %w", err)
	}

	return c.JSON(CommitsResponse{Messages: messages})
}

func (h *Handler) changes(c *fiber.Ctx) error {
	paths, err := h.gitSvc.ListChangedFiles()
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}

	return c.JSON(ChangesResponse{Paths: paths})
}

func (h *Handler) putCredentials(c *fiber.Ctx, req *CredentialsRequest) error {
	h.session.SetCredentials(req.Username, req.Password)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) deleteCredentials(c *fiber.Ctx) error {
	h.session.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) initialize(c *fiber.Ctx) error {
	if err := h.gitSvc.ForceInitialize(c.Context()); err != nil {
		return fmt.Errorf("failed to initialize working directory: %w", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, git.ErrBusy), errors.Is(err, git.ErrAncestorNotFound):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, git.ErrAuthenticationRequired):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, git.ErrNotInitialized):
		return fiber.NewError(fiber.StatusPreconditionFailed, err.Error())
	case errors.Is(err, git.ErrMissingIdentity):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
