package identity

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("identity not found")
	ErrUnknownKind = errors.New("unknown owner kind")
)

// UserRepository defines name-based persistence lookups for users.
type UserRepository interface {
	FindByName(ctx context.Context, name string) (*User, error)
	Save(ctx context.Context, u *User) error
}

// GroupRepository defines name-based persistence lookups for groups.
type GroupRepository interface {
	FindByName(ctx context.Context, name string) (*Group, error)
	Save(ctx context.Context, g *Group) error
}

// Resolver turns the (name, kind) references carried by sidecar metadata into
// concrete identities.
type Resolver struct {
	users  UserRepository
	groups GroupRepository
}

func NewResolver(users UserRepository, groups GroupRepository) *Resolver {
	return &Resolver{users: users, groups: groups}
}

// ResolveOwner looks up a user or group by name depending on the declared
// kind. A missing or unsupported kind is an error; so is an owner that does
// not exist.
func (r *Resolver) ResolveOwner(ctx context.Context, name string, kind OwnerKind) (Owner, error) {
	switch kind {
	case KindUser:
		u, err := r.users.FindByName(ctx, name)
		if err != nil {
			return Owner{}, err
		}
		if u == nil {
			return Owner{}, ErrNotFound
		}
		return OwnUser(u), nil
	case KindGroup:
		g, err := r.groups.FindByName(ctx, name)
		if err != nil {
			return Owner{}, err
		}
		if g == nil {
			return Owner{}, ErrNotFound
		}
		return OwnGroup(g), nil
	default:
		return Owner{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// ResolveUser is the optional lookup used for creator/updater references.
// Absence is not an error; the caller treats a nil user as unset.
func (r *Resolver) ResolveUser(ctx context.Context, name string) (*User, error) {
	if name == "" {
		return nil, nil
	}
	return r.users.FindByName(ctx, name)
}
