package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio-api/telemetry"
)

// Contact is a stored contact form submission. Status moves new -> read ->
// replied; records are only removed by an explicit delete.
type Contact struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Subject      string            `json:"subject,omitempty"`
	Message      string            `json:"message"`
	Status       string            `json:"status"`
	IPAddress    string            `json:"ipAddress,omitempty"`
	TrackingData *telemetry.Record `json:"trackingData,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type contactInput struct {
	Name         string            `json:"name" binding:"required,min=2,max=50"`
	Email        string            `json:"email" binding:"required,email"`
	Subject      string            `json:"subject" binding:"omitempty,max=100"`
	Message      string            `json:"message" binding:"required,min=10,max=1000"`
	TrackingData *telemetry.Record `json:"trackingData"`
}

type contactStatusInput struct {
	Status string `json:"status" binding:"required,oneof=new read replied"`
}

// submitContact handles POST /api/contact. The pipeline is two-phase: build
// the record with the client's placeholders, enrich from the source address
// (or fall back to "Unknown"), then persist. The rate limiter has already
// gated the request by the time this runs.
func submitContact(enricher *Enricher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in contactInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidationError(c, err)
			return
		}

		ip := normalizeIP(c.ClientIP())
		enricher.Enrich(c.Request.Context(), ip, in.TrackingData)

		var trackingJSON sql.NullString
		if in.TrackingData != nil {
			raw, err := json.Marshal(in.TrackingData)
			if err != nil {
				respondServerError(c, err)
				return
			}
			trackingJSON = sql.NullString{String: string(raw), Valid: true}
		}

		id := uuid.NewString()
		now := time.Now().UTC()
		_, err := db.Exec(`
			INSERT INTO contacts (id, name, email, subject, message, status, ip_address, tracking_data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 'new', ?, ?, ?, ?)`,
			id, in.Name, in.Email, in.Subject, in.Message, ip, trackingJSON, now, now)
		if err != nil {
			respondServerError(c, err)
			return
		}

		// Notification is best-effort and must not delay the response.
		go notifyContact(in.Name, in.Email, in.Subject, in.Message)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Thank you for your message! I will get back to you soon.",
			"data":    gin.H{"id": id, "name": in.Name, "email": in.Email},
		})
	}
}

// listContacts handles GET /api/contact with an optional status filter.
func listContacts(c *gin.Context) {
	query := `SELECT id, name, email, subject, message, status, ip_address, tracking_data, created_at, updated_at
		FROM contacts`
	args := []any{}
	if status := c.Query("status"); status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		respondServerError(c, err)
		return
	}
	defer rows.Close()

	contacts := []Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			respondServerError(c, err)
			return
		}
		contacts = append(contacts, *contact)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(contacts), "data": contacts})
}

// getContact handles GET /api/contact/:id. Reading a fresh submission
// transitions it from "new" to "read".
func getContact(c *gin.Context) {
	contact, err := findContact(c.Param("id"))
	if errors.Is(err, sql.ErrNoRows) {
		respondNotFound(c, "Contact")
		return
	}
	if err != nil {
		respondServerError(c, err)
		return
	}

	if contact.Status == "new" {
		if _, err := db.Exec(`UPDATE contacts SET status = 'read', updated_at = ? WHERE id = ?`,
			time.Now().UTC(), contact.ID); err != nil {
			respondServerError(c, err)
			return
		}
		contact.Status = "read"
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": contact})
}

// updateContactStatus handles PUT /api/contact/:id.
func updateContactStatus(c *gin.Context) {
	var in contactStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidationError(c, err)
		return
	}

	res, err := db.Exec(`UPDATE contacts SET status = ?, updated_at = ? WHERE id = ?`,
		in.Status, time.Now().UTC(), c.Param("id"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondNotFound(c, "Contact")
		return
	}

	contact, err := findContact(c.Param("id"))
	if err != nil {
		respondServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": contact, "message": "Contact status updated"})
}

// deleteContact handles DELETE /api/contact/:id.
func deleteContact(c *gin.Context) {
	res, err := db.Exec(`DELETE FROM contacts WHERE id = ?`, c.Param("id"))
	if err != nil {
		respondServerError(c, err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondNotFound(c, "Contact")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contact deleted successfully"})
}

func findContact(id string) (*Contact, error) {
	row := db.QueryRow(`SELECT id, name, email, subject, message, status, ip_address, tracking_data, created_at, updated_at
		FROM contacts WHERE id = ?`, id)
	return scanContact(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*Contact, error) {
	var (
		contact  Contact
		subject  sql.NullString
		ip       sql.NullString
		tracking sql.NullString
	)
	err := row.Scan(&contact.ID, &contact.Name, &contact.Email, &subject, &contact.Message,
		&contact.Status, &ip, &tracking, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return nil, err
	}
	contact.Subject = subject.String
	contact.IPAddress = ip.String
	if tracking.Valid && tracking.String != "" {
		var record telemetry.Record
		if err := json.Unmarshal([]byte(tracking.String), &record); err != nil {
			return nil, err
		}
		contact.TrackingData = &record
	}
	return &contact, nil
}
