package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func validExperiencePayload() map[string]any {
	return map[string]any{
		"type":         "internship",
		"title":        "Backend Intern",
		"organization": "Acme Corp",
		"location":     "Remote",
		"startDate":    "2024-06-01T00:00:00Z",
		"description":  "Built internal tooling.",
		"achievements": []string{"Shipped a reporting pipeline"},
		"skills":       []string{"Go", "SQL"},
	}
}

type experienceEnvelope struct {
	Success bool       `json:"success"`
	Error   string     `json:"error"`
	Details []string   `json:"details"`
	Data    Experience `json:"data"`
}

func decodeExperience(t *testing.T, w *httptest.ResponseRecorder) experienceEnvelope {
	t.Helper()
	var env experienceEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeExperienceList(t *testing.T, w *httptest.ResponseRecorder) []Experience {
	t.Helper()
	var env struct {
		Data []Experience `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env.Data
}

func TestCreateExperience(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	w := doJSON(r, http.MethodPost, "/api/experiences", validExperiencePayload())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	env := decodeExperience(t, w)
	if env.Data.ID == "" {
		t.Error("created experience has no id")
	}
	if env.Data.EndDate != nil {
		t.Errorf("endDate = %v, want nil for an ongoing position", env.Data.EndDate)
	}
	if !env.Data.IsCurrent() {
		t.Error("experience without an end date should be current")
	}
	if len(env.Data.Achievements) != 1 || len(env.Data.Skills) != 2 {
		t.Errorf("lists = %v / %v", env.Data.Achievements, env.Data.Skills)
	}
}

func TestCreateExperienceRejectsUnknownType(t *testing.T) {
	r := newTestRouter(t, nil, nil)
	payload := validExperiencePayload()
	payload["type"] = "volunteering"

	w := doJSON(r, http.MethodPost, "/api/experiences", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	env := decodeExperience(t, w)
	found := false
	for _, d := range env.Details {
		if d == "Type is not a valid value" {
			found = true
		}
	}
	if !found {
		t.Errorf("details = %v", env.Details)
	}
}

func TestCreateExperienceDefaultsEmptyLists(t *testing.T) {
	r := newTestRouter(t, nil, nil)
	payload := validExperiencePayload()
	delete(payload, "achievements")
	delete(payload, "skills")

	w := doJSON(r, http.MethodPost, "/api/experiences", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	env := decodeExperience(t, w)
	if env.Data.Achievements == nil || env.Data.Skills == nil {
		t.Error("omitted lists should round-trip as empty, not null")
	}
}

func TestListExperiencesFiltersByType(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	doJSON(r, http.MethodPost, "/api/experiences", validExperiencePayload())
	hack := validExperiencePayload()
	hack["type"] = "hackathon"
	hack["title"] = "Campus Hack"
	hack["startDate"] = "2023-11-10T00:00:00Z"
	doJSON(r, http.MethodPost, "/api/experiences", hack)

	if got := decodeExperienceList(t, doJSON(r, http.MethodGet, "/api/experiences", nil)); len(got) != 2 {
		t.Fatalf("unfiltered count = %d, want 2", len(got))
	}
	got := decodeExperienceList(t, doJSON(r, http.MethodGet, "/api/experiences?type=hackathon", nil))
	if len(got) != 1 || got[0].Title != "Campus Hack" {
		t.Errorf("type filter = %+v", got)
	}
}

func TestListExperiencesOrderedByStartDateDesc(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	older := validExperiencePayload()
	older["title"] = "Older"
	older["startDate"] = "2022-01-01T00:00:00Z"
	doJSON(r, http.MethodPost, "/api/experiences", older)
	doJSON(r, http.MethodPost, "/api/experiences", validExperiencePayload())

	got := decodeExperienceList(t, doJSON(r, http.MethodGet, "/api/experiences", nil))
	if len(got) != 2 {
		t.Fatalf("count = %d, want 2", len(got))
	}
	if got[0].Title != "Backend Intern" {
		t.Errorf("order = [%s, %s], want most recent first", got[0].Title, got[1].Title)
	}
}

func TestUpdateExperienceSetsEndDate(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	id := decodeExperience(t, doJSON(r, http.MethodPost, "/api/experiences", validExperiencePayload())).Data.ID

	payload := validExperiencePayload()
	payload["endDate"] = "2024-09-01T00:00:00Z"
	w := doJSON(r, http.MethodPut, "/api/experiences/"+id, payload)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	env := decodeExperience(t, w)
	if env.Data.EndDate == nil {
		t.Fatal("endDate missing after update")
	}
	want := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	if !env.Data.EndDate.Equal(want) {
		t.Errorf("endDate = %v, want %v", env.Data.EndDate, want)
	}
	if env.Data.IsCurrent() {
		t.Error("experience with a past end date should not be current")
	}
}

func TestDeleteExperience(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	id := decodeExperience(t, doJSON(r, http.MethodPost, "/api/experiences", validExperiencePayload())).Data.ID

	if w := doJSON(r, http.MethodDelete, "/api/experiences/"+id, nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/experiences/"+id, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/experiences/"+id, nil); w.Code != http.StatusNotFound {
		t.Errorf("read after delete: status = %d, want 404", w.Code)
	}
}
