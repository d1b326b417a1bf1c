package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/comunidades/groups-api/internal/api/metrics"
	"github.com/comunidades/groups-api/internal/core/ports"
)

// GroupHandler handles HTTP requests for group operations.
type GroupHandler struct {
	service ports.GroupService
}

func NewGroupHandler(service ports.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// List handles GET /api/groups.
//
// @Summary      List groups visible to the caller
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Filter by category"
// @Param        city      query     string  false  "Filter by exact location_city"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Success      200       {object}  groupListEnvelope
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/groups [get]
func (h *GroupHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	res, err := h.service.ListGroups(c.Request().Context(), id, ports.ListGroupsInput{
		Category: c.QueryParam("category"),
		City:     c.QueryParam("city"),
		Page:     queryInt(c.QueryParam("page")),
		Limit:    queryInt(c.QueryParam("limit")),
	})
	if err != nil {
		return err
	}

	metrics.ListPageSize.Observe(float64(len(res.Items)))
	return c.JSON(http.StatusOK, toGroupListEnvelope(res))
}

// Create handles POST /api/groups.
//
// @Summary      Create a group
// @Description  The caller becomes the group's creator and first member.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      groupRequest  true  "Group details"
// @Success      201   {object}  groupEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/groups [post]
func (h *GroupHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	in := bindGroupInput(c)

	g, err := h.service.CreateGroup(c.Request().Context(), id, in)
	if err != nil {
		return err
	}

	metrics.GroupsCreatedTotal.WithLabelValues(string(g.Category)).Inc()
	return c.JSON(http.StatusCreated, groupEnvelope{Data: toGroupResponse(g)})
}

// Update handles PUT /api/groups/:id.
//
// @Summary      Update a group
// @Description  Partial update: absent fields are left untouched, null clears nullable fields.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Group id"
// @Param        body  body      groupRequest  true  "Fields to change"
// @Success      200   {object}  groupEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/groups/{id} [put]
func (h *GroupHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	in := bindGroupInput(c)

	g, err := h.service.UpdateGroup(c.Request().Context(), id, c.Param("id"), in)
	if err != nil {
		metrics.GroupUpdatesTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.GroupUpdatesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, groupEnvelope{Data: toGroupResponse(g)})
}

// bindGroupInput never fails: an undecodable body comes back as a Malformed
// input for the service to report in order.
func bindGroupInput(c echo.Context) ports.GroupInput {
	var raw map[string]json.RawMessage
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil {
		return ports.GroupInput{Malformed: true}
	}
	return toGroupInput(raw)
}
