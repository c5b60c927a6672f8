// Copyright (c) 2026 Confero. All rights reserved.

/*
Package account provides the HTTP delivery layer for profile, avatar, role,
and session management.

It implements the RESTful interface for users to interact with their account
data and active sessions, plus the admin console endpoints for assigning roles.

# Security

All endpoints in this package require an active authentication session provided
by the RequireAuth middleware; role administration additionally requires the
admin role.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/constants"
	"github.com/confero/confero/internal/platform/middleware"
	requestutil "github.com/confero/confero/internal/platform/request"
	"github.com/confero/confero/internal/platform/respond"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/platform/validate"
	"github.com/confero/confero/internal/users/auth"
	"github.com/confero/confero/pkg/pagination"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Account Management
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)
	router.Delete("/me", handler.deleteMe)
	router.Put("/me/avatar", handler.uploadAvatar)

	// Session Security
	router.Get("/me/sessions", handler.listSessions)
	router.Delete("/me/sessions", handler.revokeOtherSessions)
	router.Delete("/me/sessions/{id}", handler.revokeSession)

	// Public Profile discovery
	router.Get("/users/{id}", handler.getUserProfile)

	// Administration
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/users", handler.listUsers)
		r.Put("/users/{id}/role", handler.assignRole)
	})

	return router
}

// # User Profile Endpoints

/*
GET /api/v1/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
}

/*
PATCH /api/v1/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.DisplayName != nil {
		v.MinLen("display_name", *input.DisplayName, 2).MaxLen("display_name", *input.DisplayName, 50)
	}
	if input.Email != nil {
		v.Email("email", *input.Email)
	}
	if input.Phone != nil {
		v.MaxLen("phone", *input.Phone, 32)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		DisplayName: input.DisplayName,
		Email:       input.Email,
		Phone:       input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PUT /api/v1/me/avatar.

Description: Uploads a new profile picture as multipart form data under the
"avatar" field. The previous image is overwritten in place.

Response:
  - 200: {avatar_url}: The stored object key
  - 400: ErrValidation: Missing or oversized file
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) uploadAvatar(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxAvatarBytes)
	if err := request.ParseMultipartForm(maxAvatarBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Avatar upload must be multipart form data under 5 MiB"))
		return
	}

	file, header, err := request.FormFile("avatar")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Missing 'avatar' file field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := handler.accountService.UploadAvatar(request.Context(), userID, file, contentType)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"avatar_url": key})
}

/*
DELETE /api/v1/me.

Description: Performs a soft-deletion of the authenticated user's account.

Response:
  - 204: No Content: Account deleted successfully
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Session Security Endpoints

// currentRefreshTokenHash extracts and hashes the refresh token cookie so the
// session list can flag (and the bulk revoke can spare) the caller's device.
// Returns "" when the cookie is absent; no stored hash matches the empty string.
func currentRefreshTokenHash(request *http.Request) string {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return sec.HashToken(cookie.Value)
}

/*
GET /api/v1/me/sessions.

Description: Lists the caller's active device sessions. The session matching
the request's refresh token cookie is flagged as current.

Response:
  - 200: []SessionInfo
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listSessions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessions, err := handler.accountService.ListSessions(request.Context(), userID, currentRefreshTokenHash(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessions)
}

/*
DELETE /api/v1/me/sessions/{id}.

Description: Revokes a single device session owned by the caller.

Request:
  - id: string (UUID)

Response:
  - 204: Session revoked
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) revokeSession(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.RevokeSession(request.Context(), userID, chi.URLParam(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/me/sessions.

Description: Revokes every session except the one holding the request's
refresh token cookie. Without the cookie, all sessions are revoked.

Response:
  - 204: Other sessions revoked
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) revokeOtherSessions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.RevokeOtherSessions(request.Context(), userID, currentRefreshTokenHash(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/v1/users/{id}.

Description: Retrieves public profile information for a specific user.

Request:
  - id: string (UUID)

Response:
  - 200: User: Public profile data
  - 404: ErrNotFound: User not found or account private
*/
func (handler *Handler) getUserProfile(writer http.ResponseWriter, request *http.Request) {

	// Get user ID
	userID := chi.URLParam(request, "id")

	// If the user ID is empty, return an error
	if userID == "" {
		respond.Error(writer, request, apperr.NotFound("User not found"))
		return
	}

	// Get user profile
	user, err := handler.accountService.GetProfile(request.Context(), userID)

	// If the user is not found, return an error
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Security: Consider filtering fields for public consumption
	respond.OK(writer, user)
}

// # Administration Endpoints

/*
GET /api/v1/users.

Description: Lists all accounts for the admin console, paginated.

Response:
  - 200: []User + pagination meta
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.ListUsers(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// assignRoleRequest is the payload for an admin role decision.
type assignRoleRequest struct {
	Role       string `json:"role"`
	Assignment *struct {
		PublicationID string   `json:"publication_id"`
		ArticleIDs    []string `json:"article_ids"`
	} `json:"assignment"`
}

/*
PUT /api/v1/users/{id}/role.

Description: Replaces a user's role and, for reviewers, their publication
and article scoping.

Request:
  - id: string (UUID)
  - body: assignRoleRequest

Response:
  - 200: User: The updated account
  - 400: ErrValidation: Unknown role name
  - 403: ErrForbidden: Admin role required
  - 422: ErrUnprocessable: Assignment rule violation
*/
func (handler *Handler) assignRole(writer http.ResponseWriter, request *http.Request) {
	userID := chi.URLParam(request, "id")

	var input assignRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	role, err := sec.ParseRole(input.Role)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("role", "must be one of author, reviewer, admin"))
		return
	}

	var assignment *auth.PublicationAssignment
	if input.Assignment != nil {
		assignment = &auth.PublicationAssignment{
			PublicationID: input.Assignment.PublicationID,
			ArticleIDs:    input.Assignment.ArticleIDs,
		}
	}

	user, err := handler.accountService.AssignRole(request.Context(), userID, AssignRoleInput{
		Role:       role,
		Assignment: assignment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
