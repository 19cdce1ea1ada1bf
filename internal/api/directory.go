package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	"agentforge/internal/access"
	"agentforge/internal/logging"
)

// userRecord and groupRecord are the wire shapes of the security directory.
type userRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type groupRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// AccessibleTool is one row of the accessible-tools listing.
type AccessibleTool struct {
	ID   string `json:"tool_id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ListUsers fetches the user directory.
func (c *Client) ListUsers(ctx context.Context) ([]access.Principal, error) {
	records, err := getList[userRecord](ctx, c, "/api/security/users")
	if err != nil {
		return nil, err
	}
	out := make([]access.Principal, 0, len(records))
	for _, r := range records {
		out = append(out, access.Principal{
			ID:          r.ID,
			Type:        access.PrincipalUser,
			DisplayName: r.DisplayName,
			Email:       r.Email,
		})
	}
	return out, nil
}

// ListGroups fetches the group directory.
func (c *Client) ListGroups(ctx context.Context) ([]access.Principal, error) {
	records, err := getList[groupRecord](ctx, c, "/api/security/groups")
	if err != nil {
		return nil, err
	}
	out := make([]access.Principal, 0, len(records))
	for _, r := range records {
		out = append(out, access.Principal{
			ID:          r.ID,
			Type:        access.PrincipalGroup,
			DisplayName: r.DisplayName,
		})
	}
	return out, nil
}

// ListAccessibleTools fetches the tools the caller may see.
func (c *Client) ListAccessibleTools(ctx context.Context) ([]AccessibleTool, error) {
	return getList[AccessibleTool](ctx, c, "/api/tools/accessible")
}

// FetchDirectory loads users and groups in parallel. Called once per wizard
// session; the access panel searches the cached result.
func (c *Client) FetchDirectory(ctx context.Context) (access.Directory, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "directory fetch")
	defer timer.Stop()

	var dir access.Directory
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := c.ListUsers(ctx)
		if err != nil {
			return err
		}
		dir.Users = users
		return nil
	})
	g.Go(func() error {
		groups, err := c.ListGroups(ctx)
		if err != nil {
			return err
		}
		dir.Groups = groups
		return nil
	})
	if err := g.Wait(); err != nil {
		return access.Directory{}, err
	}
	return dir, nil
}
