package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func validProjectPayload() map[string]any {
	return map[string]any{
		"title":            "Sentiment Analyzer",
		"shortDescription": "Real-time sentiment analysis",
		"fullDescription":  "Processes text streams and scores sentiment.",
		"category":         "AI / Data Science",
		"techStack":        []string{"Python", "scikit-learn"},
		"githubLink":       "https://github.com/example/sentiment",
	}
}

type projectEnvelope struct {
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Details []string  `json:"details"`
	Count   int       `json:"count"`
	Data    Project   `json:"data"`
}

func decodeProject(t *testing.T, w *httptest.ResponseRecorder) projectEnvelope {
	t.Helper()
	var env projectEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeProjectList(t *testing.T, w *httptest.ResponseRecorder) []Project {
	t.Helper()
	var env struct {
		Count int       `json:"count"`
		Data  []Project `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env.Data
}

func TestCreateProject(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	w := doJSON(r, http.MethodPost, "/api/projects", validProjectPayload())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	env := decodeProject(t, w)
	if env.Data.ID == "" {
		t.Error("created project has no id")
	}
	if env.Data.ImageURL != defaultProjectImage {
		t.Errorf("imageUrl = %q, want the default image", env.Data.ImageURL)
	}
	if len(env.Data.TechStack) != 2 {
		t.Errorf("techStack = %v", env.Data.TechStack)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(map[string]any)
		wantDetail string
	}{
		{"bad category", func(p map[string]any) { p["category"] = "Gardening" }, "Category is not a valid value"},
		{"empty tech stack", func(p map[string]any) { p["techStack"] = []string{} }, "Tech stack must have at least 1 item"},
		{"bad github link", func(p map[string]any) { p["githubLink"] = "not-a-url" }, "Github link must be a valid URL"},
		{"missing title", func(p map[string]any) { delete(p, "title") }, "Title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, nil, nil)
			payload := validProjectPayload()
			tt.mutate(payload)

			w := doJSON(r, http.MethodPost, "/api/projects", payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			env := decodeProject(t, w)
			found := false
			for _, d := range env.Details {
				if d == tt.wantDetail {
					found = true
				}
			}
			if !found {
				t.Errorf("details = %v, want %q", env.Details, tt.wantDetail)
			}
		})
	}
}

func TestListProjectsFilters(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	for i := 0; i < 3; i++ {
		p := validProjectPayload()
		p["title"] = fmt.Sprintf("AI Project %d", i)
		p["featured"] = i == 0
		doJSON(r, http.MethodPost, "/api/projects", p)
	}
	web := validProjectPayload()
	web["title"] = "Web Project"
	web["category"] = "Web Development"
	doJSON(r, http.MethodPost, "/api/projects", web)

	if got := decodeProjectList(t, doJSON(r, http.MethodGet, "/api/projects", nil)); len(got) != 4 {
		t.Errorf("unfiltered count = %d, want 4", len(got))
	}
	if got := decodeProjectList(t, doJSON(r, http.MethodGet, "/api/projects?category=Web+Development", nil)); len(got) != 1 {
		t.Errorf("category filter count = %d, want 1", len(got))
	}
	if got := decodeProjectList(t, doJSON(r, http.MethodGet, "/api/projects?category=All", nil)); len(got) != 4 {
		t.Errorf("category=All count = %d, want 4", len(got))
	}
	if got := decodeProjectList(t, doJSON(r, http.MethodGet, "/api/projects?featured=true", nil)); len(got) != 1 {
		t.Errorf("featured filter count = %d, want 1", len(got))
	}
	if got := decodeProjectList(t, doJSON(r, http.MethodGet, "/api/projects?limit=2", nil)); len(got) != 2 {
		t.Errorf("limit=2 count = %d, want 2", len(got))
	}
}

func TestListFeaturedProjectsCapsAtThree(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	for i := 0; i < 5; i++ {
		p := validProjectPayload()
		p["title"] = fmt.Sprintf("Featured %d", i)
		p["featured"] = true
		doJSON(r, http.MethodPost, "/api/projects", p)
	}

	got := decodeProjectList(t, doJSON(r, http.MethodGet, "/api/projects/featured", nil))
	if len(got) != 3 {
		t.Errorf("featured list length = %d, want 3", len(got))
	}
}

func TestGetProjectNotFound(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	w := doJSON(r, http.MethodGet, "/api/projects/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if env := decodeProject(t, w); env.Error != "Project not found" {
		t.Errorf("error = %q", env.Error)
	}
}

func TestUpdateProject(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	id := decodeProject(t, doJSON(r, http.MethodPost, "/api/projects", validProjectPayload())).Data.ID

	payload := validProjectPayload()
	payload["title"] = "Renamed Project"
	payload["featured"] = true

	w := doJSON(r, http.MethodPut, "/api/projects/"+id, payload)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	env := decodeProject(t, w)
	if env.Data.Title != "Renamed Project" || !env.Data.Featured {
		t.Errorf("updated project = %+v", env.Data)
	}

	w = doJSON(r, http.MethodPut, "/api/projects/no-such-id", payload)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}
}

func TestDeleteProject(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	id := decodeProject(t, doJSON(r, http.MethodPost, "/api/projects", validProjectPayload())).Data.ID

	if w := doJSON(r, http.MethodDelete, "/api/projects/"+id, nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/projects/"+id, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}
