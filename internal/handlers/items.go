package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/ytakahashi/todo-api/internal/models"
	"github.com/ytakahashi/todo-api/internal/services"
)

type ItemHandler struct {
	store services.ItemStore
}

func NewItemHandler(store services.ItemStore) *ItemHandler {
	return &ItemHandler{
		store: store,
	}
}

func itemID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "item id must be an integer").SetInternal(err)
	}
	return id, nil
}

// bindItem decodes the JSON body into item. echo's Bind accepts an empty
// body as a zero value, so a missing body is rejected here.
func bindItem(c echo.Context, item *models.Item) error {
	if c.Request().ContentLength == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "request body is required")
	}
	return c.Bind(item)
}

// ListItems godoc
//
//	@Summary	List all items
//	@Tags		items
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{array}		models.Item
//	@Failure	401	{object}	echo.HTTPError
//	@Router		/items [get]
func (h *ItemHandler) ListItems(c echo.Context) error {
	items, err := h.store.NewSession().List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// CreateItem godoc
//
//	@Summary		Create an item
//	@Description	Rejects the item with 400 when its id is already stored.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			item	body		models.Item	true	"Item to create"
//	@Success		201		{object}	models.Item
//	@Header			201		{string}	Location	"/Items/{id}"
//	@Failure		400
//	@Failure		401	{object}	echo.HTTPError
//	@Router			/items [post]
func (h *ItemHandler) CreateItem(c echo.Context) error {
	var item models.Item
	if err := bindItem(c, &item); err != nil {
		return err
	}

	ctx := c.Request().Context()
	session := h.store.NewSession()

	_, err := session.Find(ctx, item.ID)
	if err == nil {
		log.Debug().Int("id", item.ID).Msg("item already exists")
		return c.NoContent(http.StatusBadRequest)
	}
	if !errors.Is(err, services.ErrItemNotFound) {
		return err
	}

	session.Add(&item)
	if err := session.Save(ctx); err != nil {
		return err
	}

	log.Info().Int("id", item.ID).Msg("item created")
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/Items/%d", item.ID))
	return c.JSON(http.StatusCreated, item)
}

// GetItem godoc
//
//	@Summary	Get an item
//	@Tags		items
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"Item id"
//	@Success	200	{object}	models.Item
//	@Failure	400
//	@Failure	401	{object}	echo.HTTPError
//	@Failure	404
//	@Router		/items/{id} [get]
func (h *ItemHandler) GetItem(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	item, err := h.store.NewSession().Find(c.Request().Context(), id)
	if errors.Is(err, services.ErrItemNotFound) {
		return c.NoContent(http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

// UpdateItem godoc
//
// A missing id answers 400, not 404, to stay compatible with existing clients.
//
//	@Summary		Update an item
//	@Description	Copies title and isCompleted onto the stored item and echoes the request body.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			id		path		int			true	"Item id"
//	@Param			item	body		models.Item	true	"New item state"
//	@Success		200		{object}	models.Item
//	@Failure		400
//	@Failure		401	{object}	echo.HTTPError
//	@Router			/items/{id} [put]
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	var payload models.Item
	if err := bindItem(c, &payload); err != nil {
		return err
	}

	ctx := c.Request().Context()
	session := h.store.NewSession()

	existing, err := session.Find(ctx, id)
	if errors.Is(err, services.ErrItemNotFound) {
		return c.NoContent(http.StatusBadRequest)
	}
	if err != nil {
		return err
	}

	session.Update(existing, payload.Title, payload.IsCompleted)
	if err := session.Save(ctx); err != nil {
		return err
	}

	log.Info().Int("id", id).Bool("isCompleted", payload.IsCompleted).Msg("item updated")
	return c.JSON(http.StatusOK, payload)
}

// DeleteItem godoc
//
//	@Summary	Delete an item
//	@Tags		items
//	@Security	Bearer
//	@Param		id	path	int	true	"Item id"
//	@Success	204
//	@Failure	400
//	@Failure	401	{object}	echo.HTTPError
//	@Router		/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id, err := itemID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	session := h.store.NewSession()

	existing, err := session.Find(ctx, id)
	if errors.Is(err, services.ErrItemNotFound) {
		return c.NoContent(http.StatusBadRequest)
	}
	if err != nil {
		return err
	}

	session.Remove(existing)
	if err := session.Save(ctx); err != nil {
		return err
	}

	log.Info().Int("id", id).Msg("item deleted")
	return c.NoContent(http.StatusNoContent)
}
