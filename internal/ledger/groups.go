package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ErrInvalidGroup is returned for a group without a name or members.
var ErrInvalidGroup = errors.New("invalid group")

// CreateGroup creates a group. The actor, when set, is always a member.
func (e *Engine) CreateGroup(ctx context.Context, actor, name string, members []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}

	group := &models.Group{Name: name}
	for _, m := range append([]string{actor}, members...) {
		if m != "" && !group.HasMember(m) {
			group.Members = append(group.Members, m)
		}
	}
	if len(group.Members) == 0 {
		return nil, fmt.Errorf("%w: at least one member is required", ErrInvalidGroup)
	}

	err := e.store.InTx(ctx, func(q storage.Queries) error {
		return q.CreateGroup(ctx, group)
	})
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Group created", "group_id", group.ID, "members", len(group.Members))
	return group, nil
}

// AddGroupMembers adds users to a group. Balances are unaffected.
func (e *Engine) AddGroupMembers(ctx context.Context, actor, groupID string, members []string) (*models.Group, error) {
	var group *models.Group
	err := e.store.InTx(ctx, func(q storage.Queries) error {
		g, err := q.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if err := requireMembers(g, actor); err != nil {
			return err
		}
		if err := q.AddGroupMembers(ctx, groupID, members); err != nil {
			return err
		}
		group, err = q.GetGroup(ctx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup returns a group the actor belongs to.
func (e *Engine) GetGroup(ctx context.Context, actor, groupID string) (*models.Group, error) {
	return e.memberGroup(ctx, actor, groupID)
}

func (e *Engine) memberGroup(ctx context.Context, actor, groupID string) (*models.Group, error) {
	group, err := e.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireMembers(group, actor); err != nil {
		return nil, err
	}
	return group, nil
}
