package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Experience struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Organization string     `json:"organization"`
	Location     string     `json:"location,omitempty"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Description  string     `json:"description"`
	Achievements []string   `json:"achievements"`
	Skills       []string   `json:"skills"`
	Order        int        `json:"order"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsCurrent reports whether the experience is ongoing.
func (e Experience) IsCurrent() bool {
	return e.EndDate == nil || e.EndDate.After(time.Now())
}

type experienceInput struct {
	Type         string     `json:"type" binding:"required,oneof=internship hackathon project other"`
	Title        string     `json:"title" binding:"required,max=100"`
	Organization string     `json:"organization" binding:"required"`
	Location     string     `json:"location"`
	StartDate    time.Time  `json:"startDate" binding:"required"`
	EndDate      *time.Time `json:"endDate"`
	Description  string     `json:"description" binding:"required"`
	Achievements []string   `json:"achievements"`
	Skills       []string   `json:"skills"`
	Order        int        `json:"order"`
}

// listExperiences handles GET /api/experiences with an optional type filter.
func listExperiences(c *gin.Context) {
	query := `SELECT id, type, title, organization, location, start_date, end_date, description,
		achievements, skills, sort_order, created_at, updated_at FROM experiences`
	args := []any{}
	if t := c.Query("type"); t != "" {
		query += ` WHERE type = ?`
		args = append(args, t)
	}
	query += ` ORDER BY start_date DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		respondServerError(c, err)
		return
	}
	defer rows.Close()

	experiences := []Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			respondServerError(c, err)
			return
		}
		experiences = append(experiences, *e)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(experiences), "data": experiences})
}

// getExperience handles GET /api/experiences/:id.
func getExperience(c *gin.Context) {
	experience, err := findExperience(c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		respondNotFound(c, "Experience")
		return
	}
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": experience})
}

// createExperience handles POST /api/experiences.
func createExperience(c *gin.Context) {
	var in experienceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidationError(c, err)
		return
	}

	achievements, skills, err := marshalExperienceLists(&in)
	if err != nil {
		respondServerError(c, err)
		return
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	var endDate any
	if in.EndDate != nil {
		endDate = *in.EndDate
	}

	_, err = db.Exec(`
		INSERT INTO experiences (id, type, title, organization, location, start_date, end_date,
			description, achievements, skills, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Type, in.Title, in.Organization, in.Location, in.StartDate, endDate,
		in.Description, achievements, skills, in.Order, now, now)
	if err != nil {
		respondServerError(c, err)
		return
	}

	experience, err := findExperience(id)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": experience, "message": "Experience created successfully"})
}

// updateExperience handles PUT /api/experiences/:id.
func updateExperience(c *gin.Context) {
	var in experienceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidationError(c, err)
		return
	}

	achievements, skills, err := marshalExperienceLists(&in)
	if err != nil {
		respondServerError(c, err)
		return
	}

	var endDate any
	if in.EndDate != nil {
		endDate = *in.EndDate
	}

	res, err := db.Exec(`
		UPDATE experiences SET type = ?, title = ?, organization = ?, location = ?, start_date = ?,
			end_date = ?, description = ?, achievements = ?, skills = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		in.Type, in.Title, in.Organization, in.Location, in.StartDate, endDate,
		in.Description, achievements, skills, in.Order, time.Now().UTC(), c.Param("id"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondNotFound(c, "Experience")
		return
	}

	experience, err := findExperience(c.Param("id"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": experience, "message": "Experience updated successfully"})
}

// deleteExperience handles DELETE /api/experiences/:id.
func deleteExperience(c *gin.Context) {
	res, err := db.Exec(`DELETE FROM experiences WHERE id = ?`, c.Param("id"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondNotFound(c, "Experience")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Experience deleted successfully"})
}

func marshalExperienceLists(in *experienceInput) (achievements, skills string, err error) {
	if in.Achievements == nil {
		in.Achievements = []string{}
	}
	if in.Skills == nil {
		in.Skills = []string{}
	}
	a, err := json.Marshal(in.Achievements)
	if err != nil {
		return "", "", err
	}
	s, err := json.Marshal(in.Skills)
	if err != nil {
		return "", "", err
	}
	return string(a), string(s), nil
}

func findExperience(id string) (*Experience, error) {
	row := db.QueryRow(`SELECT id, type, title, organization, location, start_date, end_date, description,
		achievements, skills, sort_order, created_at, updated_at FROM experiences WHERE id = ?`, id)
	return scanExperience(row)
}

func scanExperience(row rowScanner) (*Experience, error) {
	var (
		e            Experience
		location     sql.NullString
		endDate      sql.NullTime
		achievements string
		skills       string
	)
	err := row.Scan(&e.ID, &e.Type, &e.Title, &e.Organization, &location, &e.StartDate, &endDate,
		&e.Description, &achievements, &skills, &e.Order, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Location = location.String
	if endDate.Valid {
		t := endDate.Time
		e.EndDate = &t
	}
	if err := json.Unmarshal([]byte(achievements), &e.Achievements); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(skills), &e.Skills); err != nil {
		return nil, err
	}
	return &e, nil
}
