package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Blog struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage"`
	Tags        []string   `json:"tags"`
	ReadTime    int        `json:"readTime"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Views       int        `json:"views"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type blogInput struct {
	Title      string   `json:"title" binding:"required,min=3,max=200"`
	Slug       string   `json:"slug" binding:"required"`
	Excerpt    string   `json:"excerpt" binding:"required,max=300"`
	Content    string   `json:"content" binding:"required"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
	ReadTime   int      `json:"readTime" binding:"omitempty,min=1"`
	Published  bool     `json:"published"`
}

const defaultBlogImage = "/images/blogs/default.png"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// listBlogs handles GET /api/blogs with published/limit/tags filters.
func listBlogs(c *gin.Context) {
	query := `SELECT id, title, slug, excerpt, content, cover_image, tags, read_time,
		published, published_at, views, created_at, updated_at FROM blogs`
	args := []any{}
	if c.Query("published") == "true" {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY published_at DESC, created_at DESC`

	blogs, err := queryBlogs(query, args...)
	if err != nil {
		respondServerError(c, err)
		return
	}

	if tags := c.Query("tags"); tags != "" {
		blogs = filterBlogsByTags(blogs, strings.Split(tags, ","))
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(blogs) {
		blogs = blogs[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(blogs), "data": blogs})
}

// listLatestBlogs handles GET /api/blogs/latest.
func listLatestBlogs(c *gin.Context) {
	blogs, err := queryBlogs(`SELECT id, title, slug, excerpt, content, cover_image, tags, read_time,
		published, published_at, views, created_at, updated_at
		FROM blogs WHERE published = 1 ORDER BY published_at DESC LIMIT 2`)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(blogs), "data": blogs})
}

// getBlogBySlug handles GET /api/blogs/:slug and counts the view.
func getBlogBySlug(c *gin.Context) {
	blog, err := findBlog(c.Param("slug"))
	if errors.Is(err, sql.ErrNoRows) {
		respondNotFound(c, "Blog")
		return
	}
	if err != nil {
		respondServerError(c, err)
		return
	}

	if _, err := db.Exec(`UPDATE blogs SET views = views + 1 WHERE id = ?`, blog.ID); err != nil {
		respondServerError(c, err)
		return
	}
	blog.Views++

	c.JSON(http.StatusOK, gin.H{"success": true, "data": blog})
}

// createBlog handles POST /api/blogs. Slugs are unique across all posts.
func createBlog(c *gin.Context) {
	var in blogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidationError(c, err)
		return
	}
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if !slugPattern.MatchString(in.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"details": []string{"Slug must contain only lowercase letters, numbers, and hyphens"},
		})
		return
	}
	applyBlogDefaults(&in)

	tags, err := json.Marshal(in.Tags)
	if err != nil {
		respondServerError(c, err)
		return
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	var publishedAt any
	if in.Published {
		publishedAt = now
	}

	_, err = db.Exec(`
		INSERT INTO blogs (id, title, slug, excerpt, content, cover_image, tags, read_time,
			published, published_at, views, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		id, in.Title, in.Slug, in.Excerpt, in.Content, in.CoverImage, string(tags), in.ReadTime,
		in.Published, publishedAt, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusBadRequest, "Duplicate field value: slug. Please use another value.")
			return
		}
		respondServerError(c, err)
		return
	}

	blog, err := findBlog(in.Slug)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": blog, "message": "Blog created successfully"})
}

// updateBlog handles PUT /api/blogs/:slug. Publishing for the first time
// stamps publishedAt.
func updateBlog(c *gin.Context) {
	current, err := findBlog(c.Param("slug"))
	if errors.Is(err, sql.ErrNoRows) {
		respondNotFound(c, "Blog")
		return
	}
	if err != nil {
		respondServerError(c, err)
		return
	}

	var in blogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidationError(c, err)
		return
	}
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if !slugPattern.MatchString(in.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"details": []string{"Slug must contain only lowercase letters, numbers, and hyphens"},
		})
		return
	}
	applyBlogDefaults(&in)

	tags, err := json.Marshal(in.Tags)
	if err != nil {
		respondServerError(c, err)
		return
	}

	var publishedAt any
	if current.PublishedAt != nil {
		publishedAt = *current.PublishedAt
	} else if in.Published {
		publishedAt = time.Now().UTC()
	}

	_, err = db.Exec(`
		UPDATE blogs SET title = ?, slug = ?, excerpt = ?, content = ?, cover_image = ?, tags = ?,
			read_time = ?, published = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.Slug, in.Excerpt, in.Content, in.CoverImage, string(tags),
		in.ReadTime, in.Published, publishedAt, time.Now().UTC(), current.ID)
	if err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusBadRequest, "Duplicate field value: slug. Please use another value.")
			return
		}
		respondServerError(c, err)
		return
	}

	blog, err := findBlog(in.Slug)
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": blog, "message": "Blog updated successfully"})
}

// deleteBlog handles DELETE /api/blogs/:slug.
func deleteBlog(c *gin.Context) {
	res, err := db.Exec(`DELETE FROM blogs WHERE slug = ?`, c.Param("slug"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondNotFound(c, "Blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Blog deleted successfully"})
}

func applyBlogDefaults(in *blogInput) {
	if in.CoverImage == "" {
		in.CoverImage = defaultBlogImage
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	if in.ReadTime == 0 {
		in.ReadTime = 5
	}
}

func filterBlogsByTags(blogs []Blog, wanted []string) []Blog {
	out := []Blog{}
	for _, b := range blogs {
		for _, tag := range b.Tags {
			matched := false
			for _, w := range wanted {
				if tag == strings.TrimSpace(w) {
					out = append(out, b)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
	}
	return out
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func findBlog(slug string) (*Blog, error) {
	row := db.QueryRow(`SELECT id, title, slug, excerpt, content, cover_image, tags, read_time,
		published, published_at, views, created_at, updated_at FROM blogs WHERE slug = ?`, slug)
	return scanBlog(row)
}

func queryBlogs(query string, args ...any) ([]Blog, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}
	return blogs, rows.Err()
}

func scanBlog(row rowScanner) (*Blog, error) {
	var (
		b           Blog
		cover       sql.NullString
		tags        string
		publishedAt sql.NullTime
	)
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Content, &cover, &tags, &b.ReadTime,
		&b.Published, &publishedAt, &b.Views, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &b.Tags); err != nil {
		return nil, err
	}
	b.CoverImage = cover.String
	if publishedAt.Valid {
		t := publishedAt.Time
		b.PublishedAt = &t
	}
	return &b, nil
}
