package session

import (
	"encoding/json"

	"github.com/smartbookcity/storefront/internal/client/models"
)

// The backend has grown three login response shapes over time:
//
//	{success:true, user:{...}, token:"..."}   member login, tokened
//	{success:true, admin:{...}}               admin login
//	{...bare user object...}                  member login, legacy
//
// All three must keep working; dropping one silently breaks a login
// path. normalizeLogin folds whichever arrived into one internal shape.
func normalizeLogin(payload models.LoginPayload, loginType string) (models.UserProfile, string, bool) {
	if loginType == LoginTypeAdmin {
		var resp struct {
			Success bool                `json:"success"`
			Admin   *models.UserProfile `json:"admin"`
		}
		if err := json.Unmarshal(payload, &resp); err != nil {
			return models.UserProfile{}, "", false
		}
		if !resp.Success || resp.Admin == nil {
			return models.UserProfile{}, "", false
		}
		return *resp.Admin, "", true
	}

	// Tokened member shape first.
	var resp struct {
		Success *bool               `json:"success"`
		User    *models.UserProfile `json:"user"`
		Token   string              `json:"token"`
	}
	if err := json.Unmarshal(payload, &resp); err == nil &&
		resp.Success != nil && *resp.Success && resp.User != nil {
		return *resp.User, resp.Token, true
	}

	// Bare user object: anything with an id or username counts.
	var bare models.UserProfile
	if err := json.Unmarshal(payload, &bare); err != nil {
		return models.UserProfile{}, "", false
	}
	if bare.ID == 0 && bare.Username == "" {
		return models.UserProfile{}, "", false
	}
	return bare, "", true
}

// messageFromPayload extracts a server-provided failure message from a
// 2xx body that did not normalize to a session.
func messageFromPayload(payload models.LoginPayload) string {
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return ""
	}
	return resp.Message
}
