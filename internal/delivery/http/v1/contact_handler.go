package v1

import (
	"errors"
	"io"
	"net/http"
	"portfolio-contact-api/internal/delivery/http/response"
	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/pkg/apperror"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultSkip  = "0"
	defaultLimit = "50"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes. The admin routes carry no
// authentication.
func NewContactHandler(api *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	api.POST("/contact", handler.SubmitContact)

	contacts := api.Group("/contacts")
	{
		contacts.GET("", handler.ListContacts)
		contacts.GET("/:id", handler.GetContact)
		contacts.PATCH("/:id", handler.UpdateContactStatus)
		contacts.DELETE("/:id", handler.DeleteContact)
	}
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Stores a contact form submission, notifies the site owner and sends an acknowledgment to the submitter. Email delivery does not affect the response.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response{data=domain.ContactCreated}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	created, err := h.contactUC.Submit(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Thank you for your message! I'll get back to you soon.", created)
}

// ListContacts godoc
// @Summary      List contact submissions
// @Description  Returns submissions newest first with the total count of all submissions
// @Tags         contact
// @Produce      json
// @Param        skip   query     int  false  "Number of submissions to skip"  default(0)
// @Param        limit  query     int  false  "Page size"                      default(50)
// @Success      200    {object}  response.Response{data=domain.ContactPage}
// @Failure      400    {object}  response.Response
// @Failure      500    {object}  response.Response
// @Router       /contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	skip, err := strconv.ParseInt(c.DefaultQuery("skip", defaultSkip), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("skip must be an integer"))
		return
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", defaultLimit), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("limit must be an integer"))
		return
	}

	page, err := h.contactUC.List(c.Request.Context(), skip, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Contacts list", page)
}

// GetContact godoc
// @Summary      Get a contact submission
// @Tags         contact
// @Produce      json
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response.Response{data=domain.Contact}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /contacts/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.contactUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Contact details", contact)
}

// UpdateContactStatus godoc
// @Summary      Update contact status
// @Description  Partial update; only status can change. Setting the current value again is reported as 404.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "Contact ID"
// @Param        body  body      domain.ContactUpdateRequest  true  "Fields to update"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Router       /contacts/{id} [patch]
func (h *ContactHandler) UpdateContactStatus(c *gin.Context) {
	var req domain.ContactUpdateRequest
	// An empty body is the same as {}: nothing to change.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return
	}

	if err := h.contactUC.UpdateStatus(c.Request.Context(), c.Param("id"), &req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Contact status updated successfully", nil)
}

// DeleteContact godoc
// @Summary      Delete a contact submission
// @Tags         contact
// @Produce      json
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	if err := h.contactUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Contact deleted successfully", nil)
}
