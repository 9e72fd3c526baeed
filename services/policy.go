package services

import "github.com/Dosada05/gameet/models"

type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

type ResourceKind string

const (
	ResourceEvent       ResourceKind = "event"
	ResourceReview      ResourceKind = "review"
	ResourceUser        ResourceKind = "user"
	ResourceGame        ResourceKind = "game"
	ResourceTag         ResourceKind = "tag"
	ResourcePhoto       ResourceKind = "photo"
	ResourceParticipant ResourceKind = "participant"
	ResourceDashboard   ResourceKind = "dashboard"
)

// Resource is what an actor acts upon: its kind, its owner and, for users, the target's admin flag.
type Resource struct {
	Kind         ResourceKind
	OwnerID      int
	OwnerIsAdmin bool
}

func eventResource(e *models.Event) Resource {
	return Resource{Kind: ResourceEvent, OwnerID: e.AuthorID}
}

func reviewResource(r *models.Review) Resource {
	return Resource{Kind: ResourceReview, OwnerID: r.UserID}
}

func userResource(u *models.User) Resource {
	return Resource{Kind: ResourceUser, OwnerID: u.ID, OwnerIsAdmin: u.IsAdmin}
}

func adminResource(kind ResourceKind) Resource {
	return Resource{Kind: kind}
}

// Authorize is the single capability check of the API. It returns ErrForbidden when
// actor may not perform action on res.
func Authorize(actor models.Actor, res Resource, action Action) error {
	if actor.ID <= 0 {
		return ErrForbidden
	}

	allowed := false
	switch res.Kind {
	case ResourceEvent, ResourceReview:
		allowed = actor.IsAdmin || actor.ID == res.OwnerID
	case ResourceUser:
		// admins cannot act on other admins
		allowed = actor.ID == res.OwnerID || (actor.IsAdmin && !res.OwnerIsAdmin)
	case ResourceGame, ResourceTag, ResourcePhoto, ResourceParticipant, ResourceDashboard:
		allowed = actor.IsAdmin
	}

	if !allowed {
		return ErrForbidden
	}
	return nil
}
