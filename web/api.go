// ABOUTME: HTTP handlers for the JSON API
// ABOUTME: Parse path/query/body, call the domain services with an explicit now, and map errors at the edge
package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/harperreed/voss/crm"
	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/drafts"
	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/models"
)

func (s *Server) actionFeed(c echo.Context) error {
	asOf := s.Now()
	if raw := strings.TrimSpace(c.QueryParam("as_of")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid as_of: expected RFC3339")
		}
		asOf = parsed
	}
	feed, err := s.Feed.ActionFeed(c.Request().Context(), asOf)
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusOK, "", feed)
}

type followUpRequest struct {
	ContactID string `json:"contact_id"`
	DealID    string `json:"deal_id,omitempty"`
	Title     string `json:"title"`
	DueDate   string `json:"due_date"`
	DueTime   string `json:"due_time,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type snoozeRequest struct {
	DueDate string `json:"due_date"`
	DueTime string `json:"due_time,omitempty"`
}

type stageRequest struct {
	Stage string `json:"stage"`
}

func (s *Server) listFollowUps(c echo.Context) error {
	filter := db.FollowUpFilter{
		Status: strings.TrimSpace(c.QueryParam("status")),
		Limit:  parseIntDefault(c.QueryParam("limit"), 0),
	}
	if filter.Status != "" && filter.Status != models.FollowUpPending && filter.Status != models.FollowUpCompleted {
		return Error(c, http.StatusBadRequest, "status must be pending or completed")
	}
	if raw := c.QueryParam("contact_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid contact_id")
		}
		filter.ContactID = &id
	}

	list, err := db.NewFollowUpRepository(s.Database.Conn()).List(c.Request().Context(), filter)
	if err != nil {
		return s.RespondError(c, err)
	}
	if list == nil {
		list = []models.FollowUp{}
	}
	if group, _ := strconv.ParseBool(c.QueryParam("group")); group {
		today := models.DateOf(s.Now().In(s.Location))
		return Success(c, http.StatusOK, "", followups.Group(list, today))
	}
	return Success(c, http.StatusOK, "", list)
}

func (s *Server) createFollowUp(c echo.Context) error {
	var req followUpRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}
	in := followups.CreateInput{Title: req.Title, DueDate: req.DueDate, DueTime: req.DueTime, Notes: req.Notes}
	id, err := uuid.Parse(req.ContactID)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid contact_id")
	}
	in.ContactID = id
	if req.DealID != "" {
		dealID, err := uuid.Parse(req.DealID)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid deal_id")
		}
		in.DealID = &dealID
	}

	f, err := s.FollowUps.Create(c.Request().Context(), in, s.Now())
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusCreated, "follow-up created", f)
}

func (s *Server) completeFollowUp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid id")
	}
	f, err := s.FollowUps.Complete(c.Request().Context(), id, s.Now())
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusOK, "follow-up completed", f)
}

func (s *Server) snoozeFollowUp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid id")
	}
	var req snoozeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}
	f, err := s.FollowUps.Snooze(c.Request().Context(), id, req.DueDate, req.DueTime, s.Now())
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusOK, "follow-up snoozed", f)
}

func (s *Server) listContacts(c echo.Context) error {
	filter := db.ContactFilter{
		Query: strings.TrimSpace(c.QueryParam("q")),
		Stage: strings.TrimSpace(c.QueryParam("stage")),
		Limit: parseIntDefault(c.QueryParam("limit"), 50),
	}
	if raw := c.QueryParam("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid company_id")
		}
		filter.CompanyID = &id
	}
	list, err := s.CRM.FindContacts(c.Request().Context(), filter)
	if err != nil {
		return s.RespondError(c, err)
	}
	if list == nil {
		list = []models.Contact{}
	}
	return Success(c, http.StatusOK, "", list)
}

func (s *Server) addContact(c echo.Context) error {
	var in crm.ContactInput
	if err := c.Bind(&in); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}
	contact, err := s.CRM.AddContact(c.Request().Context(), in, s.Now())
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusCreated, "contact created", contact)
}

func (s *Server) updateContactStage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid id")
	}
	var req stageRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}
	contact, err := s.CRM.UpdateEngagementStage(c.Request().Context(), id, req.Stage, s.Now())
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusOK, "engagement stage updated", contact)
}

func (s *Server) archiveContact(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid id")
	}
	if err := s.CRM.ArchiveContact(c.Request().Context(), id, s.Now()); err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusOK, "contact archived", nil)
}

func (s *Server) listInteractions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid id")
	}
	list, err := s.CRM.ListInteractions(c.Request().Context(), id, parseIntDefault(c.QueryParam("limit"), 50))
	if err != nil {
		return s.RespondError(c, err)
	}
	if list == nil {
		list = []models.Interaction{}
	}
	return Success(c, http.StatusOK, "", list)
}

func (s *Server) addCompany(c echo.Context) error {
	var in models.Company
	if err := c.Bind(&in); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}
	company, err := s.CRM.AddCompany(c.Request().Context(), in, s.Now())
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusCreated, "company created", company)
}

func (s *Server) logInteraction(c echo.Context) error {
	var in crm.InteractionInput
	if err := c.Bind(&in); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}
	i, err := s.CRM.LogInteraction(c.Request().Context(), in, s.Now())
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusCreated, "interaction logged", i)
}

func (s *Server) createDeal(c echo.Context) error {
	var in crm.DealInput
	if err := c.Bind(&in); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}
	d, err := s.CRM.CreateDeal(c.Request().Context(), in, s.Now())
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusCreated, "deal created", d)
}

func (s *Server) updateDealStage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid id")
	}
	var req stageRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}
	d, err := s.CRM.UpdateDealStage(c.Request().Context(), id, req.Stage, s.Now())
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusOK, "deal stage updated", d)
}

func (s *Server) draftEmail(c echo.Context) error {
	if s.Drafts == nil {
		return s.RespondError(c, drafts.ErrNotConfigured)
	}
	var req drafts.Request
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}
	d, err := s.Drafts.Draft(c.Request().Context(), req)
	if err != nil {
		return s.RespondError(c, err)
	}
	return Success(c, http.StatusOK, "", d)
}

func parseIntDefault(raw string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v > 0 {
		return v
	}
	return def
}
