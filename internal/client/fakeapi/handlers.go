package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

func (s *Server) login(admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		email, password := r.PostForm.Get("username"), r.PostForm.Get("password")

		s.mu.Lock()
		acc, ok := s.accounts[email]
		s.mu.Unlock()
		if !ok || acc.password != password {
			writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		if admin && !common.IsAdminRole(acc.profile.RoleName) {
			writeDetail(w, http.StatusForbidden, "Admin access required")
			return
		}

		tok, err := s.sign(acc.profile)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, models.Token{AccessToken: tok, TokenType: "bearer"})
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in models.Registration
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if in.Email == "" || in.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "email"}, "msg": "field required"}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[in.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	writeJSON(w, http.StatusOK, s.addUserLocked(in.Name, in.Email, in.Phone, in.Password, common.RoleUser))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := current(r).profile
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := &current(r).profile
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Phone != "" {
		p.Phone = in.Phone
	}
	if in.Address != "" {
		p.Address = in.Address
	}
	if in.Gender != "" {
		p.Gender = in.Gender
	}
	if in.Age != nil {
		p.Age = in.Age
	}
	p.UpdatedAt = models.Timestamp{Time: s.now()}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) listComplaints(w http.ResponseWriter, r *http.Request) {
	dept, status := r.URL.Query().Get("department"), r.URL.Query().Get("status_filter")

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, sortedComplaints(s.complaints, func(c *models.Complaint) bool {
		return (dept == "" || c.Department == dept) && (status == "" || string(c.Status) == status)
	}))
}

func (s *Server) getComplaint(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// lookup resolves {id}, writing 404 when absent. Callers hold s.mu.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*models.Complaint, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid complaint id")
		return nil, false
	}
	c, ok := s.complaints[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Complaint not found")
		return nil, false
	}
	return c, true
}

func (s *Server) createComplaint(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	title := r.FormValue("title")
	if title == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := current(r)
	s.nextID++
	c := &models.Complaint{
		ID:             s.nextID,
		UserID:         acc.profile.ID,
		UserName:       acc.profile.Name,
		Title:          title,
		Description:    r.FormValue("description"),
		Subcategory:    r.FormValue("subcategory"),
		Location:       r.FormValue("incident_address"),
		Department:     r.FormValue("department_name"),
		DepartmentName: r.FormValue("department_name"),
		Status:         common.StatusPending,
		CreatedAt:      models.Timestamp{Time: s.now()},
	}
	if _, hdr, err := r.FormFile("file"); err == nil {
		c.ImageURL = fmt.Sprintf("/uploads/%d_%s", c.ID, hdr.Filename)
	}
	s.complaints[c.ID] = c
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) myComplaints(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := current(r).profile.ID
	writeJSON(w, http.StatusOK, sortedComplaints(s.complaints, func(c *models.Complaint) bool {
		return c.UserID == uid
	}))
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st models.Stats
	for _, c := range s.complaints {
		st.Total++
		switch c.Status {
		case common.StatusPending:
			st.Pending++
		case common.StatusInProgress:
			st.InProgress++
		case common.StatusSolved:
			st.Solved++
		}
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	var in models.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	switch in.Status {
	case common.StatusPending, common.StatusInProgress, common.StatusSolved:
	default:
		writeDetail(w, http.StatusBadRequest, "Invalid status")
		return
	}
	c.Status = models.Status(in.Status)
	if in.AdminResponse != "" {
		c.AdminResponse = in.AdminResponse
	}
	c.UpdatedAt = models.Timestamp{Time: s.now()}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) markInProgress(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	c.Status = common.StatusInProgress
	c.UpdatedAt = models.Timestamp{Time: s.now()}
	writeJSON(w, http.StatusOK, models.StatusChange{Message: "Complaint marked as in progress", Status: c.Status})
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	var in models.SolveRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	c.Status = common.StatusSolved
	if in.AdminResponse != "" {
		c.AdminResponse = in.AdminResponse
	}
	c.UpdatedAt = models.Timestamp{Time: s.now()}
	writeJSON(w, http.StatusOK, models.StatusChange{Message: "Complaint marked as solved", Status: c.Status})
}

func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	var in models.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Message == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "message is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	acc := current(r)
	s.nextID++
	m := models.Message{
		ID:          s.nextID,
		ComplaintID: c.ID,
		SenderID:    acc.profile.ID,
		SenderName:  acc.profile.Name,
		Message:     in.Message,
		CreatedAt:   models.Timestamp{Time: s.now()},
	}
	s.messages[c.ID] = append(s.messages[c.ID], m)
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("sender_role")

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	out := []models.Message{}
	for _, m := range s.messages[c.ID] {
		if role != "" && s.roleOf(m.SenderID) != role {
			continue
		}
		out = append(out, m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) roleOf(userID int64) string {
	for _, acc := range s.accounts {
		if acc.profile.ID == userID {
			return acc.profile.RoleName
		}
	}
	return ""
}

func (s *Server) listDepartments(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]models.Department{}, s.departments...))
}

var seedDepartments = []models.Department{
	{Name: "Sanitation", Description: "Garbage collection and street cleaning"},
	{Name: "Water Supply", Description: "Drinking water and leakages"},
	{Name: "Roads", Description: "Potholes and road repair"},
}

func (s *Server) seedDepartments(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.departments) == 0 {
		for i, d := range seedDepartments {
			d.ID = int64(i + 1)
			s.departments = append(s.departments, d)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Departments seeded"})
}
