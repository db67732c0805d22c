package http

import (
	"net/http"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type categoryList struct {
	Kind       core.Kind
	Categories []core.Category
}

func (s *Server) handleCategoriesPage(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	s.render(w, r, http.StatusOK, "categories.html", s.newPage("Categories", "categories", sess))
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	s.renderCategories(w, r, sess, "category_list", http.StatusOK)
}

// handleCategoryOptions renders the <option> list for transaction forms.
func (s *Server) handleCategoryOptions(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	s.renderCategories(w, r, sess, "category_options", http.StatusOK)
}

func (s *Server) renderCategories(w http.ResponseWriter, r *http.Request, sess storage.Session, name string, status int) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, sess, log.OpList, err)
		return
	}
	cats, err := s.finance.API().ListCategories(r.Context(), backendSession(sess), kind)
	if err != nil {
		s.writeError(w, r, sess, log.OpList, err)
		return
	}
	s.render(w, r, status, name, categoryList{Kind: kind, Categories: cats})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	kind, in, ok := s.parseCategory(w, r, sess)
	if !ok {
		return
	}
	c, err := s.finance.AddCategory(r.Context(), backendSession(sess), kind, in)
	if err != nil {
		s.writeError(w, r, sess, log.OpCreate, err)
		return
	}
	s.logger.InfoContext(r.Context(), "Category created",
		log.FieldUsername, sess.Username,
		log.FieldKind, kind,
		log.FieldCategory, c.Name)

	s.categoriesChanged(w, r, sess, kind, kind.Label()+" category added: "+c.Name)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, sess, log.OpUpdate, err)
		return
	}
	kind, in, ok := s.parseCategory(w, r, sess)
	if !ok {
		return
	}
	c, err := s.finance.RenameCategory(r.Context(), backendSession(sess), kind, id, in)
	if err != nil {
		s.writeError(w, r, sess, log.OpUpdate, err)
		return
	}
	s.logger.InfoContext(r.Context(), "Category updated",
		log.FieldUsername, sess.Username,
		log.FieldKind, kind,
		log.FieldCategory, c.Name)

	s.categoriesChanged(w, r, sess, kind, "Category updated: "+c.Name)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, sess, log.OpDelete, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, sess, log.OpDelete, err)
		return
	}
	if err := s.finance.DeleteCategory(r.Context(), backendSession(sess), kind, id); err != nil {
		s.writeError(w, r, sess, log.OpDelete, err)
		return
	}
	s.logger.InfoContext(r.Context(), "Category deleted",
		log.FieldUsername, sess.Username,
		log.FieldKind, kind,
		"category_id", id)

	s.categoriesChanged(w, r, sess, kind, "Category deleted. Its transactions are now "+core.Uncategorized+".")
}

func (s *Server) parseCategory(w http.ResponseWriter, r *http.Request, sess storage.Session) (core.Kind, backend.CategoryInput, bool) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, sess, log.OpValidate, err)
		return "", backend.CategoryInput{}, false
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return "", backend.CategoryInput{}, false
	}
	in, err := ParseCategoryInput(p, kind)
	if err != nil {
		s.writeError(w, r, sess, log.OpValidate, err)
		return "", backend.CategoryInput{}, false
	}
	return kind, in, true
}

// categoriesChanged re-renders the list of kind and tells the page to
// refresh every dependent select.
func (s *Server) categoriesChanged(w http.ResponseWriter, r *http.Request, sess storage.Session, kind core.Kind, msg string) {
	cats, err := s.finance.API().ListCategories(r.Context(), backendSession(sess), kind)
	if err != nil {
		s.writeError(w, r, sess, log.OpList, err)
		return
	}
	body, err := s.execute(r, "category_list", categoryList{Kind: kind, Categories: cats})
	if err != nil {
		InternalServerError("Rendering failed").Write(w)
		return
	}
	NewHTMXResponse().
		TriggerCategoriesChanged(kind).
		TriggerStatsRefresh().
		TriggerSuccessNotification(msg).
		BodyHTML(body).
		Write(w)
}
