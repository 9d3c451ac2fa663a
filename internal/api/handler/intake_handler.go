package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/samaraworks/portal-api/internal/core/domain"
	"github.com/samaraworks/portal-api/internal/core/ports"
)

// IntakeEnqueuer accepts submissions for asynchronous persistence.
type IntakeEnqueuer interface {
	Enqueue(input ports.IntakeInput)
}

// IntakeHandler receives the public intake forms and exposes the staff
// review endpoints.
type IntakeHandler struct {
	queue   IntakeEnqueuer
	service ports.IntakeService
}

func NewIntakeHandler(queue IntakeEnqueuer, service ports.IntakeService) *IntakeHandler {
	return &IntakeHandler{queue: queue, service: service}
}

// --- Request types ---

type familySupportRequest struct {
	Name             string   `json:"name"              validate:"required"`
	Email            string   `json:"email"             validate:"required,email"`
	Phone            string   `json:"phone"             validate:"required"`
	Address          string   `json:"address"           validate:"required"`
	HouseholdSize    int      `json:"household_size"    validate:"required,gt=0"`
	ChildrenAges     string   `json:"children_ages"`
	Needs            []string `json:"needs"             validate:"required,min=1"`
	Situation        string   `json:"situation"         validate:"required"`
	PreferredContact string   `json:"preferred_contact" validate:"omitempty,oneof=email phone"`
}

type emergencyAssistanceRequest struct {
	Name        string   `json:"name"         validate:"required"`
	Email       string   `json:"email"        validate:"required,email"`
	Phone       string   `json:"phone"        validate:"required"`
	Address     string   `json:"address"      validate:"required"`
	Needs       []string `json:"needs"        validate:"required,min=1"`
	Urgency     string   `json:"urgency"      validate:"required,oneof=immediate within_48h this_week"`
	Description string   `json:"description"  validate:"required"`
}

type volunteerRequest struct {
	Name         string   `json:"name"          validate:"required"`
	Email        string   `json:"email"         validate:"required,email"`
	Phone        string   `json:"phone"         validate:"required"`
	Interests    []string `json:"interests"     validate:"required,min=1"`
	Availability string   `json:"availability"  validate:"required"`
	Experience   string   `json:"experience"`
}

type sponsorInquiryRequest struct {
	Name         string `json:"name"          validate:"required"`
	Email        string `json:"email"         validate:"required,email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"  validate:"required"`
	SponsorType  string `json:"sponsor_type"  validate:"required,oneof=financial in_kind partner"`
	Message      string `json:"message"`
}

type intakeAccepted struct {
	Status string `json:"status"`
	Kind   string `json:"kind"`
}

type updateIntakeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received in_review approved closed"`
}

// FamilySupport receives the Family Support Request form.
//
// @Summary      Submit a family support request
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      familySupportRequest  true  "Form fields"
// @Success      202   {object}  intakeAccepted
// @Failure      400   {object}  map[string]string
// @Router       /forms/family-support [post]
func (h *IntakeHandler) FamilySupport(c echo.Context) error {
	var req familySupportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	h.queue.Enqueue(ports.IntakeInput{
		Kind:    domain.IntakeFamilySupport,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Needs:   req.Needs,
		Details: map[string]string{
			"household_size":    strconv.Itoa(req.HouseholdSize),
			"children_ages":     req.ChildrenAges,
			"situation":         req.Situation,
			"preferred_contact": req.PreferredContact,
		},
	})
	return c.JSON(http.StatusAccepted, intakeAccepted{Status: "received", Kind: string(domain.IntakeFamilySupport)})
}

// EmergencyAssistance receives the Emergency Assistance Intake form.
//
// @Summary      Submit an emergency assistance request
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      emergencyAssistanceRequest  true  "Form fields"
// @Success      202   {object}  intakeAccepted
// @Failure      400   {object}  map[string]string
// @Router       /forms/emergency-assistance [post]
func (h *IntakeHandler) EmergencyAssistance(c echo.Context) error {
	var req emergencyAssistanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	h.queue.Enqueue(ports.IntakeInput{
		Kind:    domain.IntakeEmergencyAssistance,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Needs:   req.Needs,
		Details: map[string]string{
			"urgency":     req.Urgency,
			"description": req.Description,
		},
	})
	return c.JSON(http.StatusAccepted, intakeAccepted{Status: "received", Kind: string(domain.IntakeEmergencyAssistance)})
}

// Volunteer receives the Volunteer Application form.
//
// @Summary      Submit a volunteer application
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      volunteerRequest  true  "Form fields"
// @Success      202   {object}  intakeAccepted
// @Failure      400   {object}  map[string]string
// @Router       /forms/volunteer [post]
func (h *IntakeHandler) Volunteer(c echo.Context) error {
	var req volunteerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	h.queue.Enqueue(ports.IntakeInput{
		Kind:  domain.IntakeVolunteer,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Needs: req.Interests,
		Details: map[string]string{
			"availability": req.Availability,
			"experience":   req.Experience,
		},
	})
	return c.JSON(http.StatusAccepted, intakeAccepted{Status: "received", Kind: string(domain.IntakeVolunteer)})
}

// SponsorInquiry receives the Sponsor Inquiry form.
//
// @Summary      Submit a sponsor inquiry
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      sponsorInquiryRequest  true  "Form fields"
// @Success      202   {object}  intakeAccepted
// @Failure      400   {object}  map[string]string
// @Router       /forms/sponsor-inquiry [post]
func (h *IntakeHandler) SponsorInquiry(c echo.Context) error {
	var req sponsorInquiryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	h.queue.Enqueue(ports.IntakeInput{
		Kind:  domain.IntakeSponsorInquiry,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Details: map[string]string{
			"organization": req.Organization,
			"sponsor_type": req.SponsorType,
			"message":      req.Message,
		},
	})
	return c.JSON(http.StatusAccepted, intakeAccepted{Status: "received", Kind: string(domain.IntakeSponsorInquiry)})
}

// List returns intake submissions for staff review.
//
// @Summary      List intake submissions
// @Tags         intake
// @Produce      json
// @Param        kind    query  string  false  "Filter by form kind"
// @Param        status  query  string  false  "Filter by review status"
// @Param        page    query  int     false  "Page (1-based)"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  ports.ListIntakeResult
// @Router       /portal/staff/intake [get]
func (h *IntakeHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListIntakeFilter{
		Kind:   domain.IntakeKind(c.QueryParam("kind")),
		Status: domain.IntakeStatus(c.QueryParam("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateStatus moves a submission through the review workflow.
//
// @Summary      Update submission status
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Submission id"
// @Param        body  body  updateIntakeStatusRequest  true  "New status"
// @Success      204
// @Failure      404   {object}  map[string]string
// @Router       /portal/staff/intake/{id} [patch]
func (h *IntakeHandler) UpdateStatus(c echo.Context) error {
	var req updateIntakeStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.SetStatus(c.Request().Context(), c.Param("id"), domain.IntakeStatus(req.Status)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// bindAndValidate binds the request body and runs struct validation,
// translating failures into 400 responses.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
