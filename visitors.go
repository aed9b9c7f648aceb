package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
)

var hashingSalt string

// initVisitorTracking seeds the per-process hashing salt and schedules the
// retention cleanup. Raw addresses are never stored.
func initVisitorTracking() {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate hashing salt:", err)
	}
	hashingSalt = hex.EncodeToString(bytes)

	go cleanupOldVisitorData()

	log.Println("Privacy: visitor tracking enabled with hashed IP addresses")
}

// hashIP hashes an address with the process salt (consistent per IP within
// a process lifetime). Truncated for storage efficiency.
func hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// visitorTrackingMiddleware records page-level API reads with a hashed IP.
// Contact submissions and health checks are skipped, and Do Not Track is
// respected.
func visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != "GET" ||
			path == "/" ||
			strings.HasPrefix(path, "/api/contact") ||
			strings.HasPrefix(path, "/favicon") {
			c.Next()
			return
		}

		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		go trackVisitor(normalizeIP(c.ClientIP()), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func trackVisitor(ip, userAgent, path string) {
	_, err := db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path)
		VALUES (?, ?, ?)
	`, hashIP(ip), userAgent, path)
	if err != nil {
		log.Printf("Error recording visitor: %v", err)
	}
}

// cleanupOldVisitorData enforces the 12-month retention policy.
func cleanupOldVisitorData() {
	result, err := db.Exec(`
		DELETE FROM visitors
		WHERE timestamp < datetime('now', '-12 months')
	`)
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}

	if deleted, _ := result.RowsAffected(); deleted > 0 {
		log.Printf("Privacy cleanup: removed %d visitor records older than 12 months", deleted)
	}
}
