package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/server/auth"
	"github.com/taskflow-app/taskflow/internal/server/models"
	"github.com/taskflow-app/taskflow/internal/server/services"
)

const (
	msgPasswordUpdated = "Password updated successfully"
	msgTaskDeleted     = "Task deleted"
	msgTaskDelayed     = "Task delayed"
)

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type delayResponse struct {
	Message string       `json:"message"`
	Task    *models.Task `json:"task"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}

	if err := s.users.ChangePassword(r.Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: msgPasswordUpdated})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	profile, err := s.users.Me(r.Context(), id.UserID)
	if err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	var in services.CreateTaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}

	task, err := s.tasks.Create(r.Context(), id.UserID, in)
	if err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	list, err := s.tasks.List(r.Context(), id.UserID)
	if err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	if list == nil {
		list = []models.Task{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	task, err := s.tasks.Get(r.Context(), id.UserID, mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}

	task, err := s.tasks.Update(r.Context(), id.UserID, mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	if err := s.tasks.Delete(r.Context(), id.UserID, mux.Vars(r)["id"]); err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: msgTaskDeleted})
}

func (s *Server) delayTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.identity(w, r)
	if !ok {
		return
	}

	task, err := s.tasks.Delay(r.Context(), id.UserID, mux.Vars(r)["id"])
	if err != nil {
		writeError(r.Context(), s.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, delayResponse{Message: msgTaskDelayed, Task: task})
}

// identity returns the caller attached by authenticate. A missing identity
// means the route was registered without authentication.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(r.Context(), s.logger, w, common.NewPublicError(common.ErrUnauthorized, msgNoToken))
	}
	return id, ok
}
