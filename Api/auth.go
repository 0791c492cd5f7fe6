package Api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"FuelLog/Models"
	"FuelLog/Session"
	"FuelLog/xerrors"
)

type loginResponse struct {
	Token string                 `json:"token"`
	User  map[string]interface{} `json:"user"`
}

// Login authenticates with mobile number + password and persists the
// returned session.
func (c *Client) Login(ctx context.Context, mobileNumber, password string) (Session.Snapshot, error) {
	if mobileNumber == "" || password == "" {
		return Session.Snapshot{}, fmt.Errorf("%w: mobile number and password are required", xerrors.ErrValidation)
	}

	payload := map[string]string{
		"mobileNumber": mobileNumber,
		"password":     password,
	}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, payload, false, &resp); err != nil {
		return Session.Snapshot{}, err
	}
	if resp.Token == "" {
		return Session.Snapshot{}, fmt.Errorf("%w: login response carried no token", xerrors.ErrNetwork)
	}

	snap := Session.Snapshot{
		Token:        resp.Token,
		UserID:       strField(resp.User, "_id", "userId", "id"),
		Name:         strField(resp.User, "name"),
		MobileNumber: strField(resp.User, "mobileNumber"),
		Role:         strField(resp.User, "role"),
	}
	if err := c.session.Save(snap); err != nil {
		return Session.Snapshot{}, err
	}
	log.Printf("Logged in as %s (%s)", snap.Name, snap.Role)
	return snap, nil
}

// SignupRequest creates a new account; admin only on the backend side.
type SignupRequest struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
	Role         string `json:"role"`
}

// Signup registers a driver (or admin) account using the caller's session.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (Models.UserAccount, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, req, true, &raw); err != nil {
		return Models.UserAccount{}, err
	}

	var resp struct {
		User map[string]interface{} `json:"user"`
	}
	if err := json.Unmarshal(raw, &resp); err == nil && resp.User != nil {
		return NormalizeUserRow(resp.User), nil
	}
	return Models.UserAccount{Name: req.Name, MobileNumber: req.MobileNumber, Role: req.Role}, nil
}
