package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hoocms/customers/internal/model"
	"github.com/hoocms/customers/internal/service"
	"github.com/labstack/echo/v4"
)

// DefaultPageLimit caps how many records a single list request fetches
// from the store before search filtering is applied
const DefaultPageLimit = 50

type health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type newCustomer struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

type updateCustomer struct {
	ID string `json:"-" param:"id"`
	newCustomer
}

// HealthHTTPHandler is http handler for health endpoint
type HealthHTTPHandler struct{}

// NewHealthHTTPHandler builds new HealthHTTPHandler
func NewHealthHTTPHandler() *HealthHTTPHandler {
	return &HealthHTTPHandler{}
}

// Health reports service liveness
// @Summary     Health check
// @Description Reports service status and current server time
// @Tags        health
// @Produce     json
// @Success     200    {object} health
// @Router      /api/health [get]
func (h *HealthHTTPHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, &health{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// CustomerHTTPHandler is http handler for customer endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// Get gets customer
// @Summary     Get single customer by id
// @Description Returns single customer with provided id
// @Tags        customers
// @Produce     json
// @Param       id     path 	string true "Customer id"
// @Success     200    {object} model.Customer
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	customer, err := h.customerSvc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

// GetAll gets customers page with optional search
// @Summary     Get customers
// @Description Returns one bounded page of customers, optionally filtered by
// @Description case-insensitive substring match on name or email
// @Tags        customers
// @Produce     json
// @Param       search query	string false "Substring to match against name or email"
// @Param       limit  query	int    false "Page size" default(50)
// @Success     200    {array}  model.Customer
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	limit := int64(DefaultPageLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	customers, err := h.customerSvc.FindAll(c.Request().Context(), c.QueryParam("search"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Post creates new customer
// @Summary     New customer
// @Description Creates new customer
// @Tags        customers
// @Accept		json
// @Produce     json
// @Param 		newCustomer body	 newCustomer true "Data for new customer"
// @Success     201    		{object} model.Customer
// @Failure     400    		{object} echo.HTTPError
// @Failure     500    		{object} echo.HTTPError
// @Router      /api/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var nc newCustomer
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), &model.Customer{
		Name:    nc.Name,
		Email:   nc.Email,
		Phone:   nc.Phone,
		Address: nc.Address,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

// Put updates customer
// @Summary     Update customer
// @Description Replaces name, email, phone and address of existing customer
// @Tags        customers
// @Accept		json
// @Produce     json
// @Param       id     		   path 	string 		   true "Customer id"
// @Param 		updateCustomer body	    newCustomer    true "Customer data"
// @Success     200    		   {object} model.Customer
// @Failure     400    		   {object} echo.HTTPError
// @Failure     404    		   {object} echo.HTTPError
// @Failure     500    		   {object} echo.HTTPError
// @Router      /api/customers/{id} [put]
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	var uc updateCustomer
	if err := c.Bind(&uc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// the path id addresses the record, an id in the body is ignored
	uc.ID = c.Param("id")

	if err := c.Validate(&uc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Update(c.Request().Context(), &model.Customer{
		ID:      uc.ID,
		Name:    uc.Name,
		Email:   uc.Email,
		Phone:   uc.Phone,
		Address: uc.Address,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteByID deletes customer
// @Summary     Delete customer by id
// @Description Deletes customer with provided id
// @Tags        customers
// @Param       id     path 	string true "Customer id"
// @Success     204    "Successful status code"
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	if err := h.customerSvc.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
