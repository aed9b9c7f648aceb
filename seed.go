package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

// seedSampleContent populates an empty database with starter portfolio
// content so a fresh checkout serves something useful. Existing data is
// never touched.
func seedSampleContent() {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		log.Printf("Seed check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	now := time.Now().UTC()
	for _, p := range sampleProjects {
		stack, _ := json.Marshal(p.TechStack)
		_, err := db.Exec(`
			INSERT INTO projects (id, title, short_description, full_description, category, tech_stack,
				github_link, live_link, image_url, featured, sort_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), p.Title, p.ShortDescription, p.FullDescription, p.Category, string(stack),
			p.GithubLink, p.LiveLink, defaultProjectImage, p.Featured, p.Order, now, now)
		if err != nil {
			log.Printf("Seed project %q failed: %v", p.Title, err)
		}
	}

	for _, b := range sampleBlogs {
		tags, _ := json.Marshal(b.Tags)
		_, err := db.Exec(`
			INSERT INTO blogs (id, title, slug, excerpt, content, cover_image, tags, read_time,
				published, published_at, views, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, 0, ?, ?)`,
			uuid.NewString(), b.Title, b.Slug, b.Excerpt, b.Content, defaultBlogImage, string(tags),
			b.ReadTime, now, now, now)
		if err != nil {
			log.Printf("Seed blog %q failed: %v", b.Slug, err)
		}
	}

	for _, e := range sampleExperiences {
		achievements, _ := json.Marshal(e.Achievements)
		skills, _ := json.Marshal(e.Skills)
		_, err := db.Exec(`
			INSERT INTO experiences (id, type, title, organization, location, start_date, end_date,
				description, achievements, skills, sort_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), e.Type, e.Title, e.Organization, e.Location, e.StartDate,
			e.Description, string(achievements), string(skills), e.Order, now, now)
		if err != nil {
			log.Printf("Seed experience %q failed: %v", e.Title, err)
		}
	}

	log.Println("Seeded sample portfolio content")
}

var sampleProjects = []projectInput{
	{
		Title:            "AI-Powered Sentiment Analysis Tool",
		ShortDescription: "Real-time sentiment analysis using NLP and machine learning",
		FullDescription:  "Sentiment analysis application that processes text data with NLP techniques. Implemented with Python, scikit-learn, and NLTK, served through a Flask API.",
		Category:         "AI / Data Science",
		TechStack:        []string{"Python", "scikit-learn", "NLTK", "Flask", "Pandas"},
		GithubLink:       "https://github.com/yourusername/sentiment-analysis",
		Featured:         true,
		Order:            1,
	},
	{
		Title:            "Portfolio Website",
		ShortDescription: "Full-stack portfolio with CMS and blog functionality",
		FullDescription:  "Responsive portfolio website with project showcase, blog with markdown support, contact form, and content management endpoints.",
		Category:         "Web Development",
		TechStack:        []string{"Go", "Gin", "SQLite", "React", "Tailwind CSS"},
		GithubLink:       "https://github.com/yourusername/portfolio",
		LiveLink:         "https://yourportfolio.com",
		Featured:         true,
		Order:            2,
	},
	{
		Title:            "Task Automation Suite",
		ShortDescription: "Collection of scripts for automating daily tasks",
		FullDescription:  "Suite of automation scripts including file organizers, email automation, web scrapers, and report generators.",
		Category:         "Python",
		TechStack:        []string{"Python", "Selenium", "BeautifulSoup"},
		GithubLink:       "https://github.com/yourusername/task-automation",
		Order:            3,
	},
}

var sampleBlogs = []blogInput{
	{
		Title:    "Getting Started with Machine Learning: A Beginner's Guide",
		Slug:     "getting-started-with-machine-learning",
		Excerpt:  "Learn the fundamentals of machine learning, from basic concepts to building your first model.",
		Content:  "<h2>Introduction to Machine Learning</h2><p>Machine Learning is a subset of artificial intelligence that enables systems to learn from experience without being explicitly programmed.</p>",
		Tags:     []string{"machine-learning", "python", "beginners"},
		ReadTime: 8,
	},
	{
		Title:    "Building REST APIs the Right Way",
		Slug:     "building-rest-apis-the-right-way",
		Excerpt:  "Validation, rate limiting, and error handling patterns for production REST APIs.",
		Content:  "<h2>Designing the API surface</h2><p>A consistent response envelope and honest status codes make an API predictable for every client.</p>",
		Tags:     []string{"api", "backend"},
		ReadTime: 6,
	},
}

var sampleExperiences = []struct {
	Type         string
	Title        string
	Organization string
	Location     string
	StartDate    time.Time
	Description  string
	Achievements []string
	Skills       []string
	Order        int
}{
	{
		Type:         "internship",
		Title:        "Software Engineering Intern",
		Organization: "Tech Startup",
		Location:     "Remote",
		StartDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Description:  "Built and maintained backend services for a customer analytics product.",
		Achievements: []string{"Shipped a reporting pipeline used by 40+ customers"},
		Skills:       []string{"Go", "SQL", "Docker"},
		Order:        1,
	},
	{
		Type:         "hackathon",
		Title:        "Winner, Campus Hack",
		Organization: "University Hackathon",
		StartDate:    time.Date(2023, 11, 10, 0, 0, 0, 0, time.UTC),
		Description:  "Built an accessibility-focused navigation app in 36 hours.",
		Achievements: []string{"First place among 60 teams"},
		Skills:       []string{"React Native", "Maps API"},
		Order:        2,
	},
}
