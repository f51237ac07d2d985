package records

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gitvault/gitvault/internal/records"
	"github.com/gitvault/gitvault/internal/server/validation"
	"github.com/gitvault/gitvault/internal/yamlstore"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	store *records.Store

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(store *records.Store, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		store: store,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/records")

	r.Use(h.errorsHandler)
	r.Get("/:label", h.index)
	r.Post("/:label", validation.DecorateWithBodyEx(h.validator, h.post))
	r.Get("/:label/uncommitted", h.uncommitted)
	r.Get("/:label/:id", h.get)
	r.Put("/:label/:id", validation.DecorateWithBodyEx(h.validator, h.put))
	r.Delete("/:label/:id", h.delete)
}

func (h *Handler) index(c *fiber.Ctx) error {
	index, err := h.store.Index(c.Context(), c.Params("label"))
	if err != nil {
		return fmt.Errorf("failed to index records: %w", err)
	}

	return c.JSON(IndexResponse(index))
}

func (h *Handler) post(c *fiber.Ctx, req *CreateRequest) error {
	label := c.Params("label")

	id, err := normalizeID(req.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	commit := records.CommitOptions{Enabled: req.Commit, Message: req.Message}
	if err := h.store.Create(c.Context(), label, id, req.Data, commit); err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	return c.Status(fiber.StatusCreated).JSON(RecordResponse{ID: id, Data: req.Data})
}

func (h *Handler) get(c *fiber.Ctx) error {
	record, err := h.store.Read(c.Context(), c.Params("label"), c.Params("id"))
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	return c.JSON(RecordResponse{ID: c.Params("id"), Data: record})
}

func (h *Handler) put(c *fiber.Ctx, req *UpdateRequest) error {
	label, id := c.Params("label"), c.Params("id")

	commit := records.CommitOptions{Enabled: req.Commit, Message: req.Message}
	if err := h.store.Update(c.Context(), label, id, req.Data, commit); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	return c.JSON(RecordResponse{ID: id, Data: req.Data})
}

func (h *Handler) delete(c *fiber.Ctx) error {
	commit := records.CommitOptions{
		Enabled: c.QueryBool("commit"),
		Message: c.Query("message"),
	}

	err := h.store.Delete(c.Context(), c.Params("label"), c.Params("id"), commit)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) uncommitted(c *fiber.Ctx) error {
	ids, err := h.store.IDsWithUncommittedChanges(c.Context(), c.Params("label"))
	if err != nil {
		return fmt.Errorf("failed to list uncommitted records: %w", err)
	}

	return c.JSON(UncommittedResponse{IDs: ids})
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, records.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, records.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, yamlstore.ErrDecode), errors.Is(err, yamlstore.ErrEncode):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}

// reservedIDs are path segments claimed by collection-level routes; a
// record with such an ID would be unreachable under /:label/:id.
var reservedIDs = map[string]struct{}{
	"uncommitted": {},
}

func normalizeID(id any) (string, error) {
	switch v := id.(type) {
	case string:
		if v == "" {
			return "", errors.New("record ID must not be empty")
		}
		if _, ok := reservedIDs[v]; ok {
			return "", fmt.Errorf("record ID %q is reserved", v)
		}
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("record ID must be a string or a number, got %T", id)
	}
}
