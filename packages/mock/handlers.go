package mock

import (
	"net/http"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/db"
)

type userJSON struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type authJSON struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

type categoryJSON struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Icon           string    `json:"icon"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	TotalGoals     int       `json:"total_goals"`
	CompletedGoals int       `json:"completed_goals"`
	Progress       float64   `json:"progress"`
}

type goalJSON struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CategoryID string    `json:"category_id"`
	Text       string    `json:"text"`
	Priority   string    `json:"priority"`
	Deadline   string    `json:"deadline"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserJSON(u *db.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func toCategoryJSON(c *db.Category) categoryJSON {
	return categoryJSON{
		ID:             c.ID,
		UserID:         c.UserID,
		Name:           c.Name,
		Icon:           c.Icon,
		ImageURL:       c.ImageURL,
		CreatedAt:      c.CreatedAt,
		TotalGoals:     c.TotalGoals,
		CompletedGoals: c.CompletedGoals,
		Progress:       c.Progress,
	}
}

func toGoalJSON(g *db.Goal) goalJSON {
	return goalJSON{
		ID:         g.ID,
		UserID:     g.UserID,
		CategoryID: g.CategoryID,
		Text:       g.Text,
		Priority:   g.Priority,
		Deadline:   g.Deadline,
		Completed:  g.Completed,
		CreatedAt:  g.CreatedAt,
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "GoalForge API"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.Contains(req.Email, "@") || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "email, password and name are required")
		return
	}

	ctx := r.Context()
	user, err := s.store.CreateUser(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}
	for _, seed := range s.seeds {
		if _, err := s.store.CreateCategory(ctx, user.ID, seed.Name, seed.Icon, ""); err != nil {
			s.writeStoreError(w, err, "")
			return
		}
	}
	s.issueToken(w, r, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}
	s.issueToken(w, r, user)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, user *db.User) {
	token, err := s.store.CreateSession(r.Context(), user.ID)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, authJSON{Token: token, User: toUserJSON(user)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, toUserJSON(userFrom(r)))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	categories, err := s.store.ListCategories(r.Context(), userFrom(r).ID)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}
	out := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req struct {
		Name     string `json:"name"`
		Icon     string `json:"icon"`
		ImageURL string `json:"image_url"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	c, err := s.store.CreateCategory(r.Context(), userFrom(r).ID, req.Name, req.Icon, req.ImageURL)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, toCategoryJSON(c))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req struct {
		Name     *string `json:"name"`
		Icon     *string `json:"icon"`
		ImageURL *string `json:"image_url"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	c, err := s.store.UpdateCategory(r.Context(), userFrom(r).ID, params["id"], db.CategoryUpdate{
		Name:     req.Name,
		Icon:     req.Icon,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		s.writeStoreError(w, err, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, toCategoryJSON(c))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, params map[string]string) {
	if err := s.store.DeleteCategory(r.Context(), userFrom(r).ID, params["id"]); err != nil {
		s.writeStoreError(w, err, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

var validPriorities = map[string]bool{"low": true, "medium": true, "high": true}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	goals, err := s.store.ListGoals(r.Context(), userFrom(r).ID, r.URL.Query().Get("category_id"))
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}
	out := make([]goalJSON, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalJSON(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req struct {
		CategoryID string `json:"category_id"`
		Text       string `json:"text"`
		Priority   string `json:"priority"`
		Deadline   string `json:"deadline"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CategoryID == "" || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "category_id and text are required")
		return
	}
	if req.Priority != "" && !validPriorities[req.Priority] {
		writeError(w, http.StatusBadRequest, "priority must be low, medium or high")
		return
	}
	if req.Deadline != "" {
		if _, err := time.Parse(time.DateOnly, req.Deadline); err != nil {
			writeError(w, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
			return
		}
	}

	g, err := s.store.CreateGoal(r.Context(), db.Goal{
		UserID:     userFrom(r).ID,
		CategoryID: req.CategoryID,
		Text:       req.Text,
		Priority:   req.Priority,
		Deadline:   req.Deadline,
	})
	if err != nil {
		s.writeStoreError(w, err, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, toGoalJSON(g))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req struct {
		CategoryID *string `json:"category_id"`
		Text       *string `json:"text"`
		Priority   *string `json:"priority"`
		Deadline   *string `json:"deadline"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Priority != nil && !validPriorities[*req.Priority] {
		writeError(w, http.StatusBadRequest, "priority must be low, medium or high")
		return
	}

	g, err := s.store.UpdateGoal(r.Context(), userFrom(r).ID, params["id"], db.GoalUpdate{
		CategoryID: req.CategoryID,
		Text:       req.Text,
		Priority:   req.Priority,
		Deadline:   req.Deadline,
	})
	if err != nil {
		s.writeStoreError(w, err, "Goal not found")
		return
	}
	writeJSON(w, http.StatusOK, toGoalJSON(g))
}

func (s *Server) handleToggleGoal(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g, err := s.store.ToggleGoal(r.Context(), userFrom(r).ID, params["id"])
	if err != nil {
		s.writeStoreError(w, err, "Goal not found")
		return
	}
	writeJSON(w, http.StatusOK, toGoalJSON(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request, params map[string]string) {
	if err := s.store.DeleteGoal(r.Context(), userFrom(r).ID, params["id"]); err != nil {
		s.writeStoreError(w, err, "Goal not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted"})
}
