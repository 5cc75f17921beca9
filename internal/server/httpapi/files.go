package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filecrate/internal/server/models"
)

type fileResponse struct {
	ID        int64     `json:"id"`
	FileName  string    `json:"file_name"`
	Size      int64     `json:"size"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

func toFileResponse(f *models.File, owner string) fileResponse {
	return fileResponse{
		ID:        f.ID,
		FileName:  f.FileName,
		Size:      f.Size,
		Owner:     owner,
		CreatedAt: f.CreatedAt,
	}
}

// uploadName resolves the logical file name for an upload: the "name" query
// parameter wins, then the X-File-Name header. Validation of an empty name
// is the service's job.
func uploadName(r *http.Request) string {
	if name := r.URL.Query().Get("name"); name != "" {
		return name
	}
	return r.Header.Get("X-File-Name")
}

func (rt *Router) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, err := rt.guard.RequireAuthenticated(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	file, err := rt.files.Upload(r.Context(), user, uploadName(r), r.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFileResponse(file, user.Username))
}

func (rt *Router) handleList(w http.ResponseWriter, r *http.Request) {
	user, err := rt.guard.RequireAuthenticated(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	views, err := rt.files.List(r.Context(), user, false)
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

func (rt *Router) handleDownloadByName(w http.ResponseWriter, r *http.Request) {
	user, err := rt.guard.RequireAuthenticated(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name query parameter is required"})
		return
	}

	rc, file, err := rt.files.Download(r.Context(), user, name)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	streamFile(w, rc, file)
}

func (rt *Router) handleDownloadByID(w http.ResponseWriter, r *http.Request) {
	user, err := rt.guard.RequireAuthenticated(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid file id"})
		return
	}

	rc, file, err := rt.files.DownloadByID(r.Context(), user, id, user.IsAdmin())
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	streamFile(w, rc, file)
}

func (rt *Router) handleRemove(w http.ResponseWriter, r *http.Request) {
	user, err := rt.guard.RequireAuthenticated(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid file id"})
		return
	}

	if err := rt.files.Remove(r.Context(), user, id, user.IsAdmin()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func streamFile(w http.ResponseWriter, rc io.Reader, file *models.File) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	_, _ = io.Copy(w, rc)
}
