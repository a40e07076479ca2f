package auth

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type SignInResponse struct {
	AccessToken string
	User        UserResponse
}

// flexibleID accepts both "42" and 42.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

type userWire struct {
	ID    flexibleID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  string     `json:"role"`
}

func (u userWire) toResponse() UserResponse {
	return UserResponse{
		ID:    string(u.ID),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

func (u userWire) empty() bool {
	return u.ID == "" && u.Email == "" && u.Name == ""
}

// signInWire covers every shape the sign-in endpoint has been seen to answer
// with: flat {accessToken,id,...}, snake_case access_token, bare token, and
// user fields nested under "user".
type signInWire struct {
	userWire
	AccessToken      string    `json:"accessToken"`
	AccessTokenSnake string    `json:"access_token"`
	Token            string    `json:"token"`
	User             *userWire `json:"user"`
}

func (w signInWire) token() string {
	switch {
	case w.AccessToken != "":
		return w.AccessToken
	case w.AccessTokenSnake != "":
		return w.AccessTokenSnake
	default:
		return w.Token
	}
}

func (w signInWire) user() UserResponse {
	if w.User != nil && !w.User.empty() {
		return w.User.toResponse()
	}
	return w.userWire.toResponse()
}

type meWire struct {
	userWire
	User *userWire `json:"user"`
}

func (w meWire) user() UserResponse {
	if w.User != nil && !w.User.empty() {
		return w.User.toResponse()
	}
	return w.userWire.toResponse()
}
