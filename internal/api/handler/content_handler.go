package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/samaraworks/portal-api/internal/core/service"
)

// ContentHandler serves the public site catalogs.
type ContentHandler struct {
	catalog *service.Catalog
}

func NewContentHandler(catalog *service.Catalog) *ContentHandler {
	return &ContentHandler{catalog: catalog}
}

// Programs lists the organization's service programs.
//
// @Summary      List programs
// @Tags         content
// @Produce      json
// @Success      200  {array}  domain.Program
// @Router       /programs [get]
func (h *ContentHandler) Programs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Programs())
}

// Program returns a single program by id.
//
// @Summary      Get a program
// @Tags         content
// @Produce      json
// @Param        id   path      string  true  "Program id"
// @Success      200  {object}  domain.Program
// @Failure      404  {object}  map[string]string
// @Router       /programs/{id} [get]
func (h *ContentHandler) Program(c echo.Context) error {
	program := h.catalog.Program(c.Param("id"))
	if program == nil {
		return echo.NewHTTPError(http.StatusNotFound, "program not found")
	}
	return c.JSON(http.StatusOK, program)
}

// Board lists the board of directors.
//
// @Summary      List board members
// @Tags         content
// @Produce      json
// @Success      200  {array}  domain.BoardMember
// @Router       /board [get]
func (h *ContentHandler) Board(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Board())
}

// Sponsors lists supporting organizations.
//
// @Summary      List sponsors
// @Tags         content
// @Produce      json
// @Success      200  {array}  domain.Sponsor
// @Router       /sponsors [get]
func (h *ContentHandler) Sponsors(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Sponsors())
}

// About returns the organization's mission, vision, and impact content.
//
// @Summary      About the organization
// @Tags         content
// @Produce      json
// @Success      200  {object}  domain.AboutInfo
// @Router       /about [get]
func (h *ContentHandler) About(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.About())
}

// Contact returns the organization's contact block.
//
// @Summary      Contact information
// @Tags         content
// @Produce      json
// @Success      200  {object}  domain.ContactInfo
// @Router       /contact [get]
func (h *ContentHandler) Contact(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Contact())
}

// Giving returns donation options and the development contact.
//
// @Summary      Ways to give
// @Tags         content
// @Produce      json
// @Success      200  {object}  domain.GivingInfo
// @Router       /giving [get]
func (h *ContentHandler) Giving(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Giving())
}

// Gallery lists gallery items, optionally filtered by category.
//
// @Summary      List gallery items
// @Tags         content
// @Produce      json
// @Param        category  query  string  false  "families | programs | community | events"
// @Success      200  {array}  domain.GalleryItem
// @Router       /gallery [get]
func (h *ContentHandler) Gallery(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Gallery(c.QueryParam("category")))
}
