package server

import (
	"errors"
	"fmt"
	"net/http"

	"devroster/internal/model"
	"devroster/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type handler struct {
	store store.Store
	log   zerolog.Logger
}

// create handles POST crear/.
func (h *handler) create(c *gin.Context) {
	d, ok := bindDeveloper(c)
	if !ok {
		return
	}
	d, err := h.store.Create(c.Request.Context(), d)
	if err != nil {
		h.internal(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// update handles POST actualizar/:id.
func (h *handler) update(c *gin.Context) {
	id := model.ID(c.Param("id"))
	d, ok := bindDeveloper(c)
	if !ok {
		return
	}
	d, err := h.store.Update(c.Request.Context(), id, d)
	if errors.Is(err, store.ErrNotFound) {
		message(c, http.StatusNotFound, notFound(id))
		return
	}
	if err != nil {
		h.internal(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// list handles GET listado.
func (h *handler) list(c *gin.Context) {
	recs, err := h.store.List(c.Request.Context())
	if err != nil {
		h.internal(c, "list", err)
		return
	}
	if recs == nil {
		recs = []model.Developer{}
	}
	c.JSON(http.StatusOK, recs)
}

// delete handles DELETE eliminar/:id.
func (h *handler) delete(c *gin.Context) {
	id := model.ID(c.Param("id"))
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		message(c, http.StatusNotFound, notFound(id))
		return
	}
	if err != nil {
		h.internal(c, "delete", err)
		return
	}
	message(c, http.StatusOK, fmt.Sprintf("developer %s deleted", id))
}

func (h *handler) internal(c *gin.Context, op string, err error) {
	h.log.Error().Err(err).Str("op", op).Str("request_id", c.GetString(requestIDKey)).Msg("store failure")
	message(c, http.StatusInternalServerError, "internal server error")
}

// bindDeveloper decodes and validates the body, writing a 400 on failure.
// Any id in the body is ignored; the path or the store decides it.
func bindDeveloper(c *gin.Context) (model.Developer, bool) {
	var d model.Developer
	if err := c.ShouldBindJSON(&d); err != nil {
		invalid(c, "invalid request body", map[string]string{"body": err.Error()})
		return model.Developer{}, false
	}
	d.ID = ""
	if errs := model.Validate(model.FormFrom(d)); len(errs) > 0 {
		fields := make(map[string]string, len(errs))
		for _, fe := range errs {
			fields[fe.Field] = fe.Message
		}
		invalid(c, "validation failed", fields)
		return model.Developer{}, false
	}
	return d, true
}

func notFound(id model.ID) string {
	return fmt.Sprintf("developer %s not found", id)
}
