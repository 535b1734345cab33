package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tfkr-ae/foundry/domain"
)

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.GetCategories()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, categories)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.store.GetCategory(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, category)
}

func (s *Server) getCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := s.store.GetCategoryBySlug(mux.Vars(r)["slug"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, category)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := decode(r, &category); err != nil {
		s.writeError(w, r, err)
		return
	}
	category.Normalize()
	if err := category.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.store.CreateCategory(&category); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, &category)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var category domain.Category
	if err := decode(r, &category); err != nil {
		s.writeError(w, r, err)
		return
	}
	category.Normalize()
	if err := category.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateCategory(id, &category); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.store.GetCategory(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteCategory(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.GetProjects()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, projects)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	project, err := s.store.GetProject(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, project)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var project domain.Project
	if err := decode(r, &project); err != nil {
		s.writeError(w, r, err)
		return
	}
	project.Normalize()
	if err := project.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.store.CreateProject(&project); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, &project)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var project domain.Project
	if err := decode(r, &project); err != nil {
		s.writeError(w, r, err)
		return
	}
	project.Normalize()
	if err := project.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateProject(id, &project); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.store.GetProject(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteProject(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProjectCategories(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.store.GetProject(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	categories, err := s.store.GetProjectCategories(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, categories)
}

func (s *Server) linkProjectCategory(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	categoryID, err := pathID(r, "category")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.LinkCategoryToProject(categoryID, projectID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listLeaders(w http.ResponseWriter, r *http.Request) {
	leaders, err := s.store.GetLeaders()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, leaders)
}

func (s *Server) getLeader(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	leader, err := s.store.GetLeader(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, leader)
}

func (s *Server) createLeader(w http.ResponseWriter, r *http.Request) {
	var leader domain.Leader
	if err := decode(r, &leader); err != nil {
		s.writeError(w, r, err)
		return
	}
	leader.Normalize()
	if err := leader.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.store.CreateLeader(&leader); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, &leader)
}

func (s *Server) updateLeader(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var leader domain.Leader
	if err := decode(r, &leader); err != nil {
		s.writeError(w, r, err)
		return
	}
	leader.Normalize()
	if err := leader.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateLeader(id, &leader); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.store.GetLeader(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) deleteLeader(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteLeader(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listLogos(w http.ResponseWriter, r *http.Request) {
	var (
		logos []*domain.Logo
		err   error
	)
	if kind := r.URL.Query().Get("kind"); kind != "" {
		if !domain.LogoKind(kind).Valid() {
			s.writeError(w, r, fmt.Errorf("unknown logo kind %q: %w", kind, domain.ErrInvalid))
			return
		}
		logos, err = s.store.GetLogosByKind(domain.LogoKind(kind))
	} else {
		logos, err = s.store.GetLogos()
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, logos)
}

func (s *Server) getLogo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logo, err := s.store.GetLogo(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, logo)
}

func (s *Server) createLogo(w http.ResponseWriter, r *http.Request) {
	var logo domain.Logo
	if err := decode(r, &logo); err != nil {
		s.writeError(w, r, err)
		return
	}
	logo.Normalize()
	if err := logo.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.store.CreateLogo(&logo); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, &logo)
}

func (s *Server) deleteLogo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteLogo(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.GetContactMessages()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, messages)
}

func (s *Server) createContactMessage(w http.ResponseWriter, r *http.Request) {
	var message domain.ContactMessage
	if err := decode(r, &message); err != nil {
		s.writeError(w, r, err)
		return
	}
	message.Normalize()
	if err := message.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.store.CreateContactMessage(&message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("contact message received", "id", id, "company", message.Company)
	s.writeJSON(w, r, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) deleteContactMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteContactMessage(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
