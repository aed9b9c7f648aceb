package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Project struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	FullDescription  string    `json:"fullDescription"`
	Category         string    `json:"category"`
	TechStack        []string  `json:"techStack"`
	GithubLink       string    `json:"githubLink"`
	LiveLink         string    `json:"liveLink,omitempty"`
	ImageURL         string    `json:"imageUrl"`
	Featured         bool      `json:"featured"`
	Order            int       `json:"order"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type projectInput struct {
	Title            string   `json:"title" binding:"required,max=100"`
	ShortDescription string   `json:"shortDescription" binding:"required,max=200"`
	FullDescription  string   `json:"fullDescription" binding:"required"`
	Category         string   `json:"category" binding:"required,oneof='AI / Data Science' 'Python' 'Web Development' 'Other'"`
	TechStack        []string `json:"techStack" binding:"required,min=1"`
	GithubLink       string   `json:"githubLink" binding:"required,url"`
	LiveLink         string   `json:"liveLink" binding:"omitempty,url"`
	ImageURL         string   `json:"imageUrl"`
	Featured         bool     `json:"featured"`
	Order            int      `json:"order"`
}

const defaultProjectImage = "/images/projects/default.png"

// listProjects handles GET /api/projects with category/featured/limit
// filters.
func listProjects(c *gin.Context) {
	query := `SELECT id, title, short_description, full_description, category, tech_stack,
		github_link, live_link, image_url, featured, sort_order, created_at, updated_at
		FROM projects`
	where := ""
	args := []any{}

	if category := c.Query("category"); category != "" && category != "All" {
		where = ` WHERE category = ?`
		args = append(args, category)
	}
	if c.Query("featured") == "true" {
		if where == "" {
			where = ` WHERE featured = 1`
		} else {
			where += ` AND featured = 1`
		}
	}
	query += where + ` ORDER BY sort_order ASC, created_at DESC`

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	projects, err := queryProjects(query, args...)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(projects), "data": projects})
}

// listFeaturedProjects handles GET /api/projects/featured.
func listFeaturedProjects(c *gin.Context) {
	projects, err := queryProjects(`SELECT id, title, short_description, full_description, category, tech_stack,
		github_link, live_link, image_url, featured, sort_order, created_at, updated_at
		FROM projects WHERE featured = 1 ORDER BY sort_order ASC, created_at DESC LIMIT 3`)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(projects), "data": projects})
}

// getProject handles GET /api/projects/:id.
func getProject(c *gin.Context) {
	project, err := findProject(c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		respondNotFound(c, "Project")
		return
	}
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": project})
}

// createProject handles POST /api/projects.
func createProject(c *gin.Context) {
	var in projectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidationError(c, err)
		return
	}
	if in.ImageURL == "" {
		in.ImageURL = defaultProjectImage
	}

	stack, err := json.Marshal(in.TechStack)
	if err != nil {
		respondServerError(c, err)
		return
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = db.Exec(`
		INSERT INTO projects (id, title, short_description, full_description, category, tech_stack,
			github_link, live_link, image_url, featured, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Title, in.ShortDescription, in.FullDescription, in.Category, string(stack),
		in.GithubLink, in.LiveLink, in.ImageURL, in.Featured, in.Order, now, now)
	if err != nil {
		respondServerError(c, err)
		return
	}

	project, err := findProject(id)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": project, "message": "Project created successfully"})
}

// updateProject handles PUT /api/projects/:id.
func updateProject(c *gin.Context) {
	var in projectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidationError(c, err)
		return
	}
	if in.ImageURL == "" {
		in.ImageURL = defaultProjectImage
	}

	stack, err := json.Marshal(in.TechStack)
	if err != nil {
		respondServerError(c, err)
		return
	}

	res, err := db.Exec(`
		UPDATE projects SET title = ?, short_description = ?, full_description = ?, category = ?,
			tech_stack = ?, github_link = ?, live_link = ?, image_url = ?, featured = ?,
			sort_order = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.ShortDescription, in.FullDescription, in.Category, string(stack),
		in.GithubLink, in.LiveLink, in.ImageURL, in.Featured, in.Order, time.Now().UTC(), c.Param("id"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondNotFound(c, "Project")
		return
	}

	project, err := findProject(c.Param("id"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": project, "message": "Project updated successfully"})
}

// deleteProject handles DELETE /api/projects/:id.
func deleteProject(c *gin.Context) {
	res, err := db.Exec(`DELETE FROM projects WHERE id = ?`, c.Param("id"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondNotFound(c, "Project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Project deleted successfully"})
}

func findProject(id string) (*Project, error) {
	row := db.QueryRow(`SELECT id, title, short_description, full_description, category, tech_stack,
		github_link, live_link, image_url, featured, sort_order, created_at, updated_at
		FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func queryProjects(query string, args ...any) ([]Project, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func scanProject(row rowScanner) (*Project, error) {
	var (
		p        Project
		stack    string
		liveLink sql.NullString
		imageURL sql.NullString
	)
	err := row.Scan(&p.ID, &p.Title, &p.ShortDescription, &p.FullDescription, &p.Category, &stack,
		&p.GithubLink, &liveLink, &imageURL, &p.Featured, &p.Order, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stack), &p.TechStack); err != nil {
		return nil, err
	}
	p.LiveLink = liveLink.String
	p.ImageURL = imageURL.String
	return &p, nil
}
