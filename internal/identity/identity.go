package identity

import "time"

// OwnerKind discriminates the polymorphic owner reference. The sidecar
// metadata spells these exactly as "User" and "Group".
type OwnerKind string

const (
	KindUser  OwnerKind = "User"
	KindGroup OwnerKind = "Group"
)

// User is a gallery account referenced by name from sidecar metadata.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Group is a named collection of users that can own notebooks.
type Group struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Owner is a tagged variant: exactly one of User or Group is set, selected by
// Kind. The zero value means "no owner".
type Owner struct {
	Kind  OwnerKind `bson:"kind" json:"kind"`
	User  *User     `bson:"user,omitempty" json:"user,omitempty"`
	Group *Group    `bson:"group,omitempty" json:"group,omitempty"`
}

func OwnUser(u *User) Owner   { return Owner{Kind: KindUser, User: u} }
func OwnGroup(g *Group) Owner { return Owner{Kind: KindGroup, Group: g} }

func (o Owner) IsZero() bool { return o.User == nil && o.Group == nil }

// Name returns the reference name the sidecar uses for this owner. It is the
// same name the resolver accepts, so exported archives re-import cleanly.
func (o Owner) Name() string {
	switch o.Kind {
	case KindUser:
		if o.User != nil {
			return o.User.Name
		}
	case KindGroup:
		if o.Group != nil {
			return o.Group.Name
		}
	}
	return ""
}

// DisplayName is the human-facing label for the owner.
func (o Owner) DisplayName() string {
	if o.Kind == KindGroup && o.Group != nil && o.Group.Description != "" {
		return o.Group.Description
	}
	return o.Name()
}

// Key returns a stable identity key usable for (owner, title) lookups.
func (o Owner) Key() string {
	switch o.Kind {
	case KindUser:
		if o.User != nil {
			return "user:" + o.User.Name
		}
	case KindGroup:
		if o.Group != nil {
			return "group:" + o.Group.Name
		}
	}
	return ""
}
