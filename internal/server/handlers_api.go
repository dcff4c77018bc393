package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sazzad018/deshbord-sub000/internal/domain"
)

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// writeDomainError maps domain sentinel errors to HTTP statuses.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, domain.ErrPaymentRequestNotFound):
		return jsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		return jsonError(c, http.StatusConflict, err.Error())
	default:
		slog.Error("Request failed", "path", c.Path(), "error", err)
		return jsonError(c, http.StatusInternalServerError, "internal error")
	}
}

func parseIDParam(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// parseClientFilter reads an optional ?clientId= query parameter.
func parseClientFilter(c echo.Context) (*uuid.UUID, error) {
	raw := c.QueryParam("clientId")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// --- Clients ---

func (s *Server) handleCreateClient(c echo.Context) error {
	var client domain.Client
	if err := c.Bind(&client); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if client.Name == "" || client.Email == "" {
		return jsonError(c, http.StatusBadRequest, "name and email are required")
	}
	if err := s.app.CreateClient(c.Request().Context(), &client); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, client)
}

func (s *Server) handleListClients(c echo.Context) error {
	clients, err := s.app.ListClients(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return c.JSON(http.StatusOK, clients)
}

func (s *Server) handleGetClient(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	client, err := s.app.GetClient(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (s *Server) handleUpdateClient(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	var client domain.Client
	if err := c.Bind(&client); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	client.ID = id
	if err := s.app.UpdateClient(c.Request().Context(), &client); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

func (s *Server) handleDeleteClient(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	if err := s.app.DeleteClient(c.Request().Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Projects ---

func (s *Server) handleCreateProject(c echo.Context) error {
	var project domain.Project
	if err := c.Bind(&project); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if project.Name == "" || project.ClientID == uuid.Nil {
		return jsonError(c, http.StatusBadRequest, "name and clientId are required")
	}
	if err := s.app.CreateProject(c.Request().Context(), &project); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, project)
}

func (s *Server) handleListProjects(c echo.Context) error {
	clientID, err := parseClientFilter(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid clientId")
	}
	projects, err := s.app.ListProjects(c.Request().Context(), clientID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleGetProject(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	project, err := s.app.GetProject(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	var project domain.Project
	if err := c.Bind(&project); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	project.ID = id
	if err := s.app.UpdateProject(c.Request().Context(), &project); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	if err := s.app.DeleteProject(c.Request().Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Invoices ---

func (s *Server) handleCreateInvoice(c echo.Context) error {
	var invoice domain.Invoice
	if err := c.Bind(&invoice); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if invoice.ClientID == uuid.Nil || invoice.ProjectID == uuid.Nil || invoice.Amount <= 0 {
		return jsonError(c, http.StatusBadRequest, "clientId, projectId and a positive amount are required")
	}
	if err := s.app.CreateInvoice(c.Request().Context(), &invoice); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, invoice)
}

func (s *Server) handleListInvoices(c echo.Context) error {
	clientID, err := parseClientFilter(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid clientId")
	}
	invoices, err := s.app.ListInvoices(c.Request().Context(), clientID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return c.JSON(http.StatusOK, invoices)
}

func (s *Server) handleGetInvoice(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	invoice, err := s.app.GetInvoice(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleUpdateInvoiceStatus(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status domain.InvoiceStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := s.app.UpdateInvoiceStatus(c.Request().Context(), id, body.Status); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": string(body.Status)})
}

func (s *Server) handleDeleteInvoice(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	if err := s.app.DeleteInvoice(c.Request().Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Payment requests ---

func (s *Server) handleCreatePaymentRequest(c echo.Context) error {
	var body struct {
		ClientID uuid.UUID `json:"clientId"`
		Amount   int64     `json:"amount"`
		Purpose  string    `json:"purpose"`
	}
	if err := c.Bind(&body); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if body.ClientID == uuid.Nil {
		return jsonError(c, http.StatusBadRequest, "clientId is required")
	}
	if body.Amount <= 0 {
		return jsonError(c, http.StatusBadRequest, "amount must be positive")
	}
	pr, err := s.app.CreatePaymentRequest(c.Request().Context(), body.ClientID, body.Amount, body.Purpose)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, pr)
}

func (s *Server) handleListPaymentRequests(c echo.Context) error {
	clientID, err := parseClientFilter(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid clientId")
	}
	requests, err := s.app.ListPaymentRequests(c.Request().Context(), clientID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if requests == nil {
		requests = []domain.PaymentRequest{}
	}
	return c.JSON(http.StatusOK, requests)
}

func (s *Server) handleGetPaymentRequest(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	pr, err := s.app.GetPaymentRequest(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, pr)
}

func (s *Server) handleApprovePaymentRequest(c echo.Context) error {
	return s.resolvePaymentRequest(c, s.app.ApprovePaymentRequest)
}

func (s *Server) handleRejectPaymentRequest(c echo.Context) error {
	return s.resolvePaymentRequest(c, s.app.RejectPaymentRequest)
}

func (s *Server) resolvePaymentRequest(c echo.Context, resolve func(ctx context.Context, id uuid.UUID, note string) (*domain.PaymentRequest, error)) error {
	id, err := parseIDParam(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Note string `json:"note"`
	}
	// Note is optional; an empty body is fine.
	_ = c.Bind(&body)

	pr, err := resolve(c.Request().Context(), id, body.Note)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, pr)
}
