package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/filecrate/internal/server/models"
)

func (rt *Router) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	_, err := rt.guard.RequireRole(r.Context(), bearerToken(r), models.RoleAdmin)
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := rt.admin.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *Router) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	admin, err := rt.guard.RequireRole(r.Context(), bearerToken(r), models.RoleAdmin)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if err := rt.admin.DeleteUser(r.Context(), admin, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleAdminListFiles(w http.ResponseWriter, r *http.Request) {
	admin, err := rt.guard.RequireRole(r.Context(), bearerToken(r), models.RoleAdmin)
	if err != nil {
		writeError(w, err)
		return
	}

	views, err := rt.files.List(r.Context(), admin, true)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]fileResponse, 0, len(views))
	for i := range views {
		out = append(out, toFileResponse(&views[i].File, views[i].OwnerUsername))
	}
	writeJSON(w, http.StatusOK, out)
}
