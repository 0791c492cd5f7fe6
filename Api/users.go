package Api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"FuelLog/Models"
)

// FetchUsersViaAdmin lists accounts visible to an admin.
func (c *Client) FetchUsersViaAdmin(ctx context.Context) ([]Models.UserAccount, error) {
	query := url.Values{}
	query.Set("perPage", "20")
	query.Set("pageNo", "1")

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/user-list/users-via-admin", query, nil, true, &raw); err != nil {
		return nil, err
	}

	rows := decodeRows(raw)
	users := make([]Models.UserAccount, 0, len(rows))
	for _, row := range rows {
		users = append(users, NormalizeUserRow(row))
	}
	return users, nil
}

// FetchProfile returns the authenticated user's profile and server-side
// aggregates.
func (c *Client) FetchProfile(ctx context.Context) (Models.Profile, error) {
	var resp struct {
		Profile Models.Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/user-list/user-profile", nil, nil, true, &resp); err != nil {
		return Models.Profile{}, err
	}
	return resp.Profile, nil
}
