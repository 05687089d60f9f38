package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/httperr"
	"github.com/clinicdesk/clinic-scheduler/internal/httpresp"
	identity "github.com/clinicdesk/clinic-scheduler/internal/usecase/identity"
)

// ======================================================
// HANDLER
// ======================================================

type MeHandler struct {
	accounts identdomain.Repository
	update   *identity.UpdateProfile
	remove   *identity.DeleteAccount
}

func NewMeHandler(
	accounts identdomain.Repository,
	update *identity.UpdateProfile,
	remove *identity.DeleteAccount,
) *MeHandler {
	return &MeHandler{
		accounts: accounts,
		update:   update,
		remove:   remove,
	}
}

// --------- Requests ---------

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Birthday *string `json:"birthday"`
}

// ======================================================
// READ
// ======================================================

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.accounts.GetUserByID(c.Request.Context(), actorID(c))
	if err != nil {
		httperr.Map(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// ======================================================
// UPDATE
// ======================================================

func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := identity.UpdateProfileInput{
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	if req.Birthday != nil {
		birthday, err := parseOptionalDate(*req.Birthday)
		if err != nil {
			httperr.BadRequest(c, "invalid_birthday", "birthday must be YYYY-MM-DD")
			return
		}
		in.Birthday = birthday
	}

	user, err := h.update.Execute(c.Request.Context(), actorID(c), in)
	if err != nil {
		httperr.Map(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// ======================================================
// DELETE
// ======================================================

// DeleteMe removes the calling account. A customeradmin's clients survive
// and are detached from the vanished tenant.
func (h *MeHandler) DeleteMe(c *gin.Context) {
	if err := h.remove.Execute(c.Request.Context(), actorID(c)); err != nil {
		httperr.Map(c, err)
		return
	}

	httpresp.NoContent(c)
}
