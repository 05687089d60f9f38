package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// UpdateProfileInput carries the self-service fields. Email, role and
// tenant linkage are not part of a profile edit; the directory stays the
// sole writer of those.
type UpdateProfileInput struct {
	FullName *string
	Phone    *string
	Birthday *time.Time
}

type UpdateProfile struct {
	repo domain.Repository
}

func NewUpdateProfile(repo domain.Repository) *UpdateProfile {
	return &UpdateProfile{repo: repo}
}

func (uc *UpdateProfile) Execute(
	ctx context.Context,
	userID uuid.UUID,
	in UpdateProfileInput,
) (*models.User, error) {

	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Birthday != nil {
		user.Birthday = in.Birthday
	}

	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
