package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/samaraworks/portal-api/internal/api/middleware"
	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

// PortalHandler serves the role-scoped portal dashboards. Access control
// happens in the guard middleware; by the time a request lands here the
// caller's role has already been checked.
type PortalHandler struct {
	intake ports.IntakeService
}

func NewPortalHandler(intake ports.IntakeService) *PortalHandler {
	return &PortalHandler{intake: intake}
}

type portalResponse struct {
	Portal   string                  `json:"portal"`
	User     *domain.ApplicationUser `json:"user"`
	Sections []string                `json:"sections"`
}

type staffPortalResponse struct {
	portalResponse
	PendingIntake int64 `json:"pending_intake"`
}

// Family renders the family portal dashboard.
//
// @Summary      Family portal
// @Tags         portal
// @Produce      json
// @Success      200  {object}  portalResponse
// @Router       /portal/family [get]
func (h *PortalHandler) Family(c echo.Context) error {
	return c.JSON(http.StatusOK, portalResponse{
		Portal: "family",
		User:   middleware.CurrentUser(c),
		Sections: []string{
			"service_requests",
			"upcoming_events",
			"resources",
			"profile",
		},
	})
}

// Staff renders the staff portal dashboard with the intake review queue
// summary.
//
// @Summary      Staff portal
// @Tags         portal
// @Produce      json
// @Success      200  {object}  staffPortalResponse
// @Router       /portal/staff [get]
func (h *PortalHandler) Staff(c echo.Context) error {
	resp := staffPortalResponse{
		portalResponse: portalResponse{
			Portal: "staff",
			User:   middleware.CurrentUser(c),
			Sections: []string{
				"intake_queue",
				"case_management",
				"family_directory",
				"inventory",
			},
		},
	}

	result, err := h.intake.List(c.Request().Context(), ports.ListIntakeFilter{
		Status: domain.IntakeReceived,
		Limit:  1,
	})
	if err == nil {
		resp.PendingIntake = result.Total
	}
	return c.JSON(http.StatusOK, resp)
}

// Admin renders the admin portal dashboard.
//
// @Summary      Admin portal
// @Tags         portal
// @Produce      json
// @Success      200  {object}  staffPortalResponse
// @Router       /portal/admin [get]
func (h *PortalHandler) Admin(c echo.Context) error {
	resp := staffPortalResponse{
		portalResponse: portalResponse{
			Portal: "admin",
			User:   middleware.CurrentUser(c),
			Sections: []string{
				"intake_queue",
				"reporting",
				"user_management",
				"program_settings",
				"donations",
			},
		},
	}

	result, err := h.intake.List(c.Request().Context(), ports.ListIntakeFilter{
		Status: domain.IntakeReceived,
		Limit:  1,
	})
	if err == nil {
		resp.PendingIntake = result.Total
	}
	return c.JSON(http.StatusOK, resp)
}
