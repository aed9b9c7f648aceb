package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
)

func main() {
	initDatabase(envDefault("DATABASE_PATH", "portfolio.db"))
	initVisitorTracking()
	seedSampleContent()

	enricher := newEnricher(buildGeoResolver())
	limiter := NewAddressLimiter(contactRateLimit, contactRateWindow)

	r := setupRouter(enricher, limiter)

	port := envDefault("PORT", "5000")
	log.Printf("Portfolio API running on port %s (%s)", port, gin.Mode())
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed:", err)
	}
}

// setupRouter mounts the whole API. Split out from main so tests can drive
// the real route table.
func setupRouter(enricher *Enricher, limiter *AddressLimiter) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(envDefault("CLIENT_URL", "http://localhost:5173")))
	r.Use(visitorTrackingMiddleware())

	r.GET("/", healthcheck)

	api := r.Group("/api")

	projects := api.Group("/projects")
	projects.GET("", listProjects)
	projects.GET("/featured", listFeaturedProjects)
	projects.GET("/:id", getProject)
	projects.POST("", createProject)
	projects.PUT("/:id", updateProject)
	projects.DELETE("/:id", deleteProject)

	blogs := api.Group("/blogs")
	blogs.GET("", listBlogs)
	blogs.GET("/latest", listLatestBlogs)
	blogs.GET("/:slug", getBlogBySlug)
	blogs.POST("", createBlog)
	blogs.PUT("/:slug", updateBlog)
	blogs.DELETE("/:slug", deleteBlog)

	contact := api.Group("/contact")
	contact.POST("", limiter.Middleware(), submitContact(enricher))
	contact.GET("", listContacts)
	contact.GET("/:id", getContact)
	contact.PUT("/:id", updateContactStatus)
	contact.DELETE("/:id", deleteContact)

	experiences := api.Group("/experiences")
	experiences.GET("", listExperiences)
	experiences.GET("/:id", getExperience)
	experiences.POST("", createExperience)
	experiences.PUT("/:id", updateExperience)
	experiences.DELETE("/:id", deleteExperience)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Route not found")
	})

	return r
}

func healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Portfolio API is running",
		"version": "1.0.0",
		"endpoints": gin.H{
			"projects":    "/api/projects",
			"blogs":       "/api/blogs",
			"contact":     "/api/contact",
			"experiences": "/api/experiences",
		},
	})
}

// buildGeoResolver prefers a local MaxMind database when one is configured,
// falling back to the remote ip-api.com style lookup.
func buildGeoResolver() GeoResolver {
	if cityDB := os.Getenv("GEOIP_DB"); cityDB != "" {
		resolver, err := newMaxmindResolver(cityDB, os.Getenv("GEOIP_ASN_DB"))
		if err != nil {
			log.Printf("GeoIP database unavailable, using remote lookup: %v", err)
		} else {
			log.Printf("GeoIP lookups served from %s", cityDB)
			return resolver
		}
	}
	return newIPAPIResolver(os.Getenv("GEOIP_URL"))
}

// corsMiddleware allows the configured frontend origin.
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
