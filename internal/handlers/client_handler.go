package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-scheduler/internal/httperr"
	"github.com/clinicdesk/clinic-scheduler/internal/httpresp"
	identity "github.com/clinicdesk/clinic-scheduler/internal/usecase/identity"
)

type ClientHandler struct {
	list *identity.ListClients
}

func NewClientHandler(list *identity.ListClients) *ClientHandler {
	return &ClientHandler{list: list}
}

// ======================================================
// LIST CLIENTS (CUSTOMERADMIN)
// ======================================================

// List returns the clients registered under the calling customeradmin,
// optionally filtered by a name/email/phone fragment.
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	clients, err := h.list.Execute(c.Request.Context(), actorID(c), query)
	if err != nil {
		httperr.Map(c, err)
		return
	}

	httpresp.List(c, clients)
}
