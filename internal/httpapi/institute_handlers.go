package httpapi

import (
	"net/http"
	"strings"

	"certchain.org/internal/audit"
	"certchain.org/internal/auth"
)

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
	Address      string `json:"address"`
	Website      string `json:"website"`
	Phone        string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileUpdateRequest struct {
	Name         *string `json:"name"`
	Organization *string `json:"organization"`
	Address      *string `json:"address"`
	Website      *string `json:"website"`
	Phone        *string `json:"phone"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (a *API) handleInstitutes(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimPrefix(r.URL.Path, "/v1/institutes/") {
	case "register":
		a.postOnly(w, r, a.registerInstitute)
	case "login":
		a.postOnly(w, r, a.loginInstitute)
	case "profile":
		switch r.Method {
		case http.MethodGet:
			a.instituteProfile(w, r)
		case http.MethodPut:
			a.updateInstituteProfile(w, r)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
		}
	case "change-password":
		a.postOnly(w, r, a.changePassword)
	case "stats":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.certificateStats(w, r)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) registerInstitute(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	session, err := a.institutes.Register(r.Context(), auth.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Organization: req.Organization,
		Address:      req.Address,
		Website:      req.Website,
		Phone:        req.Phone,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "institute.registered", map[string]any{
		"instituteId": session.Institute.InstituteID,
		"email":       session.Institute.Email,
	})
	writeJSON(w, http.StatusCreated, session)
}

func (a *API) loginInstitute(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	session, err := a.institutes.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "institute.login", map[string]any{
		"instituteId": session.Institute.InstituteID,
	})
	writeJSON(w, http.StatusOK, session)
}

func (a *API) instituteProfile(w http.ResponseWriter, r *http.Request) {
	instituteID, ok := auth.InstituteIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	inst, err := a.institutes.Get(r.Context(), instituteID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (a *API) updateInstituteProfile(w http.ResponseWriter, r *http.Request) {
	instituteID, ok := auth.InstituteIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	var req profileUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	inst, err := a.institutes.UpdateProfile(r.Context(), instituteID, auth.ProfileUpdate{
		Name:         req.Name,
		Organization: req.Organization,
		Address:      req.Address,
		Website:      req.Website,
		Phone:        req.Phone,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "institute.profile_updated", nil)
	writeJSON(w, http.StatusOK, inst)
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	instituteID, ok := auth.InstituteIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.institutes.ChangePassword(r.Context(), instituteID, req.CurrentPassword, req.NewPassword); err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "institute.password_changed", nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "password updated",
	})
}
