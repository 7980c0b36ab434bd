package handler

import (
	"log"
	"net/http"
	"strings"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/repository"
)

type guestbookInput struct {
	AuthorName string `json:"author_name"`
	Job        string `json:"job"`
	Content    string `json:"content"`
	Rating     int    `json:"rating"`
	Contact    string `json:"contact"`
}

func (h *Handler) ListGuestbook(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Guestbook.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) CreateGuestbookEntry(w http.ResponseWriter, r *http.Request) {
	var in guestbookInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	entry := &models.GuestbookEntry{
		AuthorName: strings.TrimSpace(in.AuthorName),
		Job:        strings.TrimSpace(in.Job),
		Content:    strings.TrimSpace(in.Content),
		Rating:     in.Rating,
		Contact:    strings.TrimSpace(in.Contact),
	}
	if entry.AuthorName == "" {
		fail(w, r, invalid("이름을 입력해주세요."))
		return
	}
	if entry.Content == "" {
		fail(w, r, invalid("내용을 입력해주세요."))
		return
	}
	if entry.Rating == 0 {
		entry.Rating = repository.DefaultRating
	}
	if entry.Rating < 1 || entry.Rating > 5 {
		fail(w, r, invalid("평점은 1점에서 5점 사이여야 합니다."))
		return
	}

	if err := h.Guestbook.Create(r.Context(), entry); err != nil {
		log.Printf("failed to create guestbook entry: %v", err)
		errorJSON(w, http.StatusInternalServerError, "방명록 작성에 실패했습니다. 다시 시도해주세요.")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func projectView(p models.Project) models.ProjectView {
	return models.ProjectView{
		Project:    p,
		StartLabel: aggregate.FormatLongDate(p.StartDate),
		EndLabel:   aggregate.FormatLongDate(p.ExpectedEndDate),
	}
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	status := models.ProjectStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.ProjectAll, models.ProjectInProgress, models.ProjectInReview, models.ProjectDone:
	default:
		fail(w, r, invalid(msgBadRequest))
		return
	}

	projects, err := h.Projects.List(r.Context(), status)
	if err != nil {
		fail(w, r, err)
		return
	}

	views := make([]models.ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, projectView(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		fail(w, r, err)
		return
	}

	project, err := h.Projects.GetByID(r.Context(), projectID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectView(*project))
}
