package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"alfredoptarigan/skillpilot/internal/models"
)

// MockPrefix marks every synthetic candidate id produced by the fallback provider.
const MockPrefix = "mock-"

// FallbackProvider supplies static, schema-valid data when an upstream
// source or the generation client is unavailable. It holds no state.
type FallbackProvider struct{}

func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

func (f *FallbackProvider) Jobs() []models.Job {
	return []models.Job{
		{
			ID:             "mock-1",
			Title:          "Senior Frontend Developer",
			Company:        "TechCorp Inc",
			Location:       "Remote",
			Description:    "We're looking for an experienced frontend developer with expertise in React and modern web technologies.",
			Skills:         []string{"React", "TypeScript", "Next.js", "Tailwind CSS"},
			ApplyLink:      "https://www.example.com/apply",
			EmploymentType: "Full-time",
			Salary:         "$120k - $150k",
		},
		{
			ID:             "mock-2",
			Title:          "Full Stack Engineer",
			Company:        "StartupX",
			Location:       "San Francisco, CA",
			Description:    "Join our team to build scalable web applications using modern technologies and cloud infrastructure.",
			Skills:         []string{"Node.js", "React", "PostgreSQL", "Docker", "AWS"},
			ApplyLink:      "https://www.example.com/apply",
			EmploymentType: "Full-time",
			Salary:         "$130k - $160k",
		},
		{
			ID:             "mock-3",
			Title:          "AI/ML Engineer",
			Company:        "AI Labs",
			Location:       "Remote",
			Description:    "Work on cutting-edge machine learning projects and deploy AI models at scale.",
			Skills:         []string{"Python", "TensorFlow", "PyTorch", "AWS", "Docker"},
			ApplyLink:      "https://www.example.com/apply",
			EmploymentType: "Full-time",
			Salary:         "$140k - $180k",
		},
	}
}

func (f *FallbackProvider) Courses() []models.Course {
	return []models.Course{
		{
			ID:                   "mock-react-1",
			Title:                "React - The Complete Guide 2025",
			Description:          "Master React 18+ with Hooks, Context API, Redux Toolkit, React Router, and Next.js. Build modern web applications with the latest React features.",
			Provider:             "Udemy",
			Skills:               []string{"React", "JavaScript", "Redux", "Next.js", "TypeScript"},
			Level:                "intermediate",
			Rating:               4.7,
			EnrollmentCount:      250000,
			ImageURL:             "https://via.placeholder.com/400x300",
			Duration:             "40 hours",
			URL:                  "https://www.udemy.com/course/react-the-complete-guide",
			CertificateAvailable: true,
		},
		{
			ID:                   "mock-ml-1",
			Title:                "Machine Learning A-Z: Python & R",
			Description:          "Learn to create Machine Learning Algorithms in Python and R from two Data Science experts. Code templates included.",
			Provider:             "Coursera",
			Skills:               []string{"Machine Learning", "Python", "Data Science", "AI", "TensorFlow"},
			Level:                "beginner",
			Rating:               4.5,
			EnrollmentCount:      180000,
			ImageURL:             "https://via.placeholder.com/400x300",
			Duration:             "44 hours",
			URL:                  "https://www.coursera.org/learn/machine-learning",
			CertificateAvailable: true,
		},
		{
			ID:                   "mock-aws-1",
			Title:                "AWS Certified Solutions Architect",
			Description:          "Pass the AWS Solutions Architect Associate exam with this comprehensive course covering all AWS services.",
			Provider:             "A Cloud Guru",
			Skills:               []string{"AWS", "Cloud Computing", "DevOps", "Architecture"},
			Level:                "intermediate",
			Rating:               4.6,
			EnrollmentCount:      120000,
			ImageURL:             "https://via.placeholder.com/400x300",
			Duration:             "25 hours",
			URL:                  "https://acloudguru.com/course/aws-certified-solutions-architect-associate",
			CertificateAvailable: true,
		},
	}
}

// Videos returns up to limit synthetic tutorials titled after query.
func (f *FallbackProvider) Videos(query string, limit int) []models.Video {
	videos := []models.Video{
		{
			ID:           "mock-video-1",
			Title:        fmt.Sprintf("%s - Complete Tutorial", query),
			Description:  fmt.Sprintf("Learn %s from scratch with this comprehensive tutorial covering all essential concepts.", query),
			Thumbnail:    "https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg",
			ChannelTitle: "Tech Education",
			PublishedAt:  "2024-01-15",
			URL:          "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Duration:     "2:30:00",
			ViewCount:    150000,
		},
		{
			ID:           "mock-video-2",
			Title:        fmt.Sprintf("%s Crash Course 2024", query),
			Description:  fmt.Sprintf("Quick crash course covering the fundamentals of %s in under 3 hours.", query),
			Thumbnail:    "https://img.youtube.com/vi/yXQViqx6GMY/mqdefault.jpg",
			ChannelTitle: "Code Academy",
			PublishedAt:  "2024-02-20",
			URL:          "https://www.youtube.com/watch?v=yXQViqx6GMY",
			Duration:     "2:45:00",
			ViewCount:    89000,
		},
		{
			ID:           "mock-video-3",
			Title:        fmt.Sprintf("Master %s - Full Course", query),
			Description:  fmt.Sprintf("Master %s with hands-on projects and real-world examples.", query),
			Thumbnail:    "https://img.youtube.com/vi/jNQXAC9IVRw/mqdefault.jpg",
			ChannelTitle: "Programming Hub",
			PublishedAt:  "2024-03-10",
			URL:          "https://www.youtube.com/watch?v=jNQXAC9IVRw",
			Duration:     "4:15:00",
			ViewCount:    220000,
		},
	}
	if limit > 0 && limit < len(videos) {
		videos = videos[:limit]
	}
	return videos
}

// Projects returns three reference repositories tagged with the requested
// language and topics when given.
func (f *FallbackProvider) Projects(req models.ProjectSearchRequest) []models.Project {
	pick := func(fallback string) string {
		if req.Language != "" {
			return req.Language
		}
		return fallback
	}
	topics := func(fallback ...string) []string {
		if len(req.Topics) > 0 {
			return append([]string(nil), req.Topics...)
		}
		return fallback
	}
	return []models.Project{
		{
			ID:          "mock-project-1",
			Name:        "awesome-project",
			FullName:    "developer/awesome-project",
			Description: "A comprehensive project showcasing best practices and modern development patterns.",
			URL:         "https://github.com/developer/awesome-project",
			Stars:       1250,
			Forks:       320,
			Language:    pick("JavaScript"),
			Topics:      topics("web", "tutorial", "learning"),
			OpenIssues:  12,
			LastUpdated: "2024-10-15",
			Owner:       models.ProjectOwner{Login: "developer", AvatarURL: "https://avatars.githubusercontent.com/u/1?v=4"},
		},
		{
			ID:          "mock-project-2",
			Name:        "learn-by-doing",
			FullName:    "coder/learn-by-doing",
			Description: "Hands-on tutorials and exercises for mastering programming concepts through practice.",
			URL:         "https://github.com/coder/learn-by-doing",
			Stars:       890,
			Forks:       210,
			Language:    pick("Python"),
			Topics:      topics("education", "tutorial", "practice"),
			OpenIssues:  8,
			LastUpdated: "2024-10-20",
			Owner:       models.ProjectOwner{Login: "coder", AvatarURL: "https://avatars.githubusercontent.com/u/2?v=4"},
		},
		{
			ID:          "mock-project-3",
			Name:        "project-showcase",
			FullName:    "builder/project-showcase",
			Description: "Collection of real-world projects demonstrating practical application of programming skills.",
			URL:         "https://github.com/builder/project-showcase",
			Stars:       650,
			Forks:       145,
			Language:    pick("TypeScript"),
			Topics:      topics("portfolio", "projects", "showcase"),
			OpenIssues:  5,
			LastUpdated: "2024-10-25",
			Owner:       models.ProjectOwner{Login: "builder", AvatarURL: "https://avatars.githubusercontent.com/u/3?v=4"},
		},
	}
}

// ProjectIdeas proposes one project per difficulty built around the
// caller's own skills.
func (f *FallbackProvider) ProjectIdeas(req models.ProjectRecommendationRequest) []models.ProjectIdea {
	skills := nonEmpty(req.Skills)
	if len(skills) == 0 {
		skills = []string{"Programming"}
	}
	primary := skills[0]
	return []models.ProjectIdea{
		{
			Title:          fmt.Sprintf("%s command-line toolkit", primary),
			Description:    fmt.Sprintf("Build a small, well-tested CLI with %s that automates a task you do every week.", primary),
			Difficulty:     models.ProjectBeginner,
			SkillsRequired: []string{primary, "Testing", "Git"},
			EstimatedTime:  "1-2 weeks",
		},
		{
			Title:          "Full-featured web application",
			Description:    fmt.Sprintf("Ship an application that combines %s with authentication, persistence and deployment.", strings.Join(skills, ", ")),
			Difficulty:     models.ProjectIntermediate,
			SkillsRequired: append(append([]string(nil), skills...), "REST APIs", "SQL"),
			EstimatedTime:  "3-4 weeks",
		},
		{
			Title:          "Production-grade capstone",
			Description:    fmt.Sprintf("Design a system that demonstrates readiness for your goal: %s.", req.CareerGoals),
			Difficulty:     models.ProjectAdvanced,
			SkillsRequired: append(append([]string(nil), skills...), "System Design", "CI/CD", "Observability"),
			EstimatedTime:  "6-8 weeks",
		},
	}
}

func (f *FallbackProvider) CareerPath(req models.CareerPathRequest) models.CareerPath {
	return models.CareerPath{
		CareerPath: fmt.Sprintf(
			"Starting from %s and your experience (%s), work toward %s in three phases: "+
				"strengthen the fundamentals you already use, take on projects that mirror the target role, "+
				"then specialize and build a public track record.",
			req.Skills, req.Experience, req.CareerGoals),
		CourseRecommendations: fmt.Sprintf(
			"Pick one structured course on the core skills of %s, one hands-on project course, "+
				"and one advanced course in the specialization you want to be known for.",
			req.CareerGoals),
	}
}

func (f *FallbackProvider) CareerAdvice(req models.CareerAdviceRequest) models.CareerAdvice {
	return models.CareerAdvice{
		Response: "The career assistant is temporarily unavailable, so here is general guidance. " +
			"Write down the role you want next and list the skills its job postings ask for. " +
			"Compare that list with your resume, pick the two largest gaps, and plan one project for each. " +
			"Ask again later for advice tailored to: " + strings.TrimSpace(req.Query),
	}
}

// MatchJobs scores jobs by skill overlap. Annotations carry ids and come
// back in input order, so either correlation strategy accepts them.
func (f *FallbackProvider) MatchJobs(profile models.UserProfile, jobs []models.Job) []models.JobAnnotation {
	have := skillSet(profile.Skills)
	out := make([]models.JobAnnotation, 0, len(jobs))
	for _, job := range jobs {
		matched, missing := splitSkills(job.Skills, have)
		score := overlapScore(len(matched), len(job.Skills))
		out = append(out, models.JobAnnotation{
			JobID:         job.ID,
			MatchScore:    score,
			MatchReason:   fmt.Sprintf("Estimated from skill overlap: %d of %d listed skills match your profile.", len(matched), len(job.Skills)),
			MatchedSkills: matched,
			MissingSkills: missing,
		})
	}
	return out
}

func (f *FallbackProvider) MatchCourses(profile models.UserProfile, courses []models.Course) []models.CourseAnnotation {
	want := skillSet(profile.TargetSkills)
	have := skillSet(profile.Skills)
	out := make([]models.CourseAnnotation, 0, len(courses))
	for _, course := range courses {
		var relevant []string
		var fresh int
		for _, skill := range course.Skills {
			key := strings.ToLower(strings.TrimSpace(skill))
			_, wanted := want[key]
			_, known := have[key]
			if wanted || known {
				relevant = append(relevant, skill)
			}
			if wanted && !known {
				fresh++
			}
		}
		score := overlapScore(len(relevant), len(course.Skills))
		if len(want) > 0 {
			score = overlapScore(fresh, len(want))
		}

		difficulty := strings.ToLower(course.Level)
		switch models.Difficulty(difficulty) {
		case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
		default:
			difficulty = string(models.DifficultyIntermediate)
		}

		out = append(out, models.CourseAnnotation{
			CourseID:       course.ID,
			MatchScore:     score,
			MatchReason:    fmt.Sprintf("Estimated from skill coverage: %d of %d course skills are relevant to you.", len(relevant), len(course.Skills)),
			RelevantSkills: relevant,
			LearningPath:   fmt.Sprintf("Take %s to build on %s.", course.Title, strings.Join(nonEmpty(profile.Skills), ", ")),
			Difficulty:     difficulty,
		})
	}
	return out
}

var quizTopics = []struct {
	category string
	stem     string
	options  [models.QuizOptionCount]string
	correct  int
}{
	{"Fundamentals", "Which statement best describes the core purpose of %s?",
		[4]string{"It replaces the need for testing", "It solves a specific class of problems with well-defined concepts", "It is only useful for legacy systems", "It has no practical applications"}, 1},
	{"Best Practices", "What is the most maintainable way to structure a growing %s project?",
		[4]string{"Split it into small, cohesive modules with clear interfaces", "Keep everything in a single file", "Copy code between files as needed", "Avoid documentation entirely"}, 0},
	{"Debugging", "A %s feature works locally but fails in production. What should you check first?",
		[4]string{"Rewrite the feature from scratch", "Disable error reporting", "Compare configuration and logs between environments", "Ignore the failure if it is intermittent"}, 2},
	{"Performance", "How should you approach a performance problem in %s code?",
		[4]string{"Optimize every function preemptively", "Add more hardware without investigation", "Remove all error handling", "Measure first, then optimize the proven bottleneck"}, 3},
	{"Testing", "Which kind of test gives the fastest feedback when changing %s logic?",
		[4]string{"Unit tests around the changed behavior", "Manual testing in production", "Only end-to-end tests", "No tests, rely on code review"}, 0},
	{"Security", "Which habit most reduces security risk in %s applications?",
		[4]string{"Storing secrets in source control", "Validating and sanitizing all external input", "Disabling authentication during development and forgetting it", "Trusting all client-side checks"}, 1},
}

// Quiz builds exactly count questions for skill from a static bank.
func (f *FallbackProvider) Quiz(skill string, difficulty models.Difficulty, count int) models.QuizOutput {
	threshold, _ := PassThreshold(difficulty)
	questions := make([]models.QuizQuestion, 0, count)
	for i := 0; i < count; i++ {
		topic := quizTopics[i%len(quizTopics)]
		question := fmt.Sprintf(topic.stem, skill)
		if round := i / len(quizTopics); round > 0 {
			question = fmt.Sprintf("(%s, part %d) %s", difficulty, round+1, question)
		}
		questions = append(questions, models.QuizQuestion{
			ID:            i + 1,
			Question:      question,
			Options:       append([]string(nil), topic.options[:]...),
			CorrectAnswer: topic.correct,
			Explanation:   fmt.Sprintf("%q is the answer that reflects sound %s practice.", topic.options[topic.correct], skill),
			Category:      topic.category,
		})
	}
	return models.QuizOutput{
		Skill:        skill,
		Difficulty:   string(difficulty),
		Questions:    questions,
		PassingScore: float64(threshold),
	}
}

func (f *FallbackProvider) Feedback(input models.AssessmentInput, score QuizScore, weakAreas []string) models.AssessmentFeedback {
	feedback := models.AssessmentFeedback{
		OverallScore: float64(score.Percentage),
		Level:        LevelFor(score.Percentage),
		Passed:       score.Passed,
		NextSteps: []string{
			fmt.Sprintf("Review the %s topics you missed", input.Skill),
			fmt.Sprintf("Build a small project that uses %s end to end", input.Skill),
			"Retake the assessment in two weeks to measure progress",
		},
	}
	if input.CorrectAnswers > 0 {
		feedback.Strengths = append(feedback.Strengths,
			fmt.Sprintf("Answered %d of %d %s questions correctly", input.CorrectAnswers, input.TotalQuestions, input.Skill))
	}
	if score.Passed {
		feedback.Strengths = append(feedback.Strengths, fmt.Sprintf("Met the %d%% passing threshold", score.Threshold))
	}
	for _, area := range weakAreas {
		feedback.Weaknesses = append(feedback.Weaknesses, area)
		feedback.Recommendations = append(feedback.Recommendations, models.Recommendation{
			Topic:  area,
			Reason: fmt.Sprintf("At least one %s question was answered incorrectly.", area),
			Resources: []string{
				fmt.Sprintf("Official %s documentation", input.Skill),
				fmt.Sprintf("%s %s tutorials on YouTube", input.Skill, area),
			},
		})
	}
	return feedback
}

func (f *FallbackProvider) Roadmap(req models.RoadmapRequest) models.Roadmap {
	role := req.TargetRole
	timeframe := req.Timeframe
	if timeframe == "" {
		timeframe = "6 months"
	}
	current := strings.Join(nonEmpty(req.CurrentSkills), ", ")

	return models.Roadmap{
		Overview:      fmt.Sprintf("A three-stage plan that grows %s into the skills expected of a %s.", current, role),
		TotalDuration: timeframe,
		Stages: []models.RoadmapStage{
			{
				StageNumber: 1,
				Title:       "Foundation",
				Duration:    "1-2 months",
				Objective:   fmt.Sprintf("Close the fundamental gaps between your current skills and the %s role.", role),
				Skills:      []string{"Core concepts", "Tooling", "Version control"},
				Milestones:  []string{"Complete an introductory course", "Set up a professional development environment", "Publish a first small project"},
				Resources: []models.RoadmapResource{
					{Type: "course", Title: fmt.Sprintf("%s fundamentals", role), Description: "A structured introduction to the role's core skills."},
					{Type: "practice", Title: "Daily exercises", Description: "Short practice sessions to build fluency."},
				},
				YouTubeSearchQuery: fmt.Sprintf("%s fundamentals tutorial", role),
			},
			{
				StageNumber: 2,
				Title:       "Development",
				Duration:    "2-3 months",
				Objective:   "Apply the fundamentals in realistic, project-based work.",
				Skills:      []string{"System design basics", "Testing", "Collaboration"},
				Milestones:  []string{"Ship a portfolio project", "Write tests for your project", "Contribute to an open source repository"},
				Resources: []models.RoadmapResource{
					{Type: "project", Title: "Portfolio project", Description: fmt.Sprintf("Build an application a %s would be proud of.", role)},
					{Type: "book", Title: "A practitioner's handbook", Description: "Deepen understanding of patterns and trade-offs."},
				},
				YouTubeSearchQuery: fmt.Sprintf("%s project tutorial", role),
			},
			{
				StageNumber: 3,
				Title:       "Mastery & Specialization",
				Duration:    "1-2 months",
				Objective:   fmt.Sprintf("Specialize in the advanced topics that distinguish a strong %s.", role),
				Skills:      []string{"Performance", "Architecture", "Mentoring"},
				Milestones:  []string{"Complete an advanced course", "Present your work publicly", "Prepare for interviews"},
				Resources: []models.RoadmapResource{
					{Type: "course", Title: fmt.Sprintf("Advanced %s", role), Description: "Advanced material for the target role."},
					{Type: "practice", Title: "Mock interviews", Description: "Rehearse technical and behavioral interviews."},
				},
				YouTubeSearchQuery: fmt.Sprintf("advanced %s interview preparation", role),
			},
		},
		NextSteps: []string{"Pick a start date for stage 1", "Schedule weekly study time", "Track milestones as you complete them"},
	}
}

var resumeKeywords = map[string][]string{
	"frontend": {"react", "vue", "angular", "javascript", "typescript", "html", "css", "tailwind", "next.js"},
	"backend":  {"golang", "java", "node", "python", "django", "spring", "postgres", "sql", "api"},
	"ai_ml":    {"machine learning", "tensorflow", "pytorch", "nlp", "llm", "data science", "scikit"},
	"design":   {"figma", "ui", "ux", "sketch", "prototype", "wireframe"},
	"devops":   {"docker", "kubernetes", "aws", "gcp", "azure", "terraform", "ci/cd", "jenkins"},
}

// resumePatterns matches each keyword on word boundaries so "ui" does not
// hit "built".
var resumePatterns = compileKeywords(resumeKeywords)

func compileKeywords(keywords map[string][]string) map[string][]*regexp.Regexp {
	out := make(map[string][]*regexp.Regexp, len(keywords))
	for category, words := range keywords {
		for _, word := range words {
			out[category] = append(out[category], regexp.MustCompile(`\b`+regexp.QuoteMeta(word)+`\b`))
		}
	}
	return out
}

var resumeCategoryNames = map[string]string{
	"frontend": "Frontend",
	"backend":  "Backend",
	"ai_ml":    "AI/ML",
	"design":   "Design",
	"devops":   "DevOps",
}

// ResumeAnalysis scores the five categories by keyword presence.
func (f *FallbackProvider) ResumeAnalysis(req models.ResumeAnalysisRequest) models.ResumeAnalysis {
	text := strings.ToLower(req.ResumeText + " " + req.Skills)

	scores := make(map[string]float64, len(resumePatterns))
	var strengths []string
	for _, category := range []string{"frontend", "backend", "ai_ml", "design", "devops"} {
		hits := 0
		for _, pattern := range resumePatterns[category] {
			if pattern.MatchString(text) {
				hits++
			}
		}
		scores[category] = math.Min(100, float64(hits*20))
		if hits >= 2 {
			strengths = append(strengths, fmt.Sprintf("%s experience", resumeCategoryNames[category]))
		}
	}

	var weaknesses []string
	var total float64
	for _, category := range []string{"frontend", "backend", "ai_ml", "design", "devops"} {
		total += scores[category]
		if scores[category] == 0 {
			weaknesses = append(weaknesses, fmt.Sprintf("No %s experience mentioned", resumeCategoryNames[category]))
		}
	}

	field := req.JobField
	if field == "" {
		field = "technology"
	}
	return models.ResumeAnalysis{
		OverallSkillIndex: math.Round(total / 5),
		CategoryScores: models.CategoryScores{
			Frontend: scores["frontend"],
			Backend:  scores["backend"],
			AIML:     scores["ai_ml"],
			Design:   scores["design"],
			DevOps:   scores["devops"],
		},
		Strengths:  strengths,
		Weaknesses: weaknesses,
		Summary:    fmt.Sprintf("Candidate with keyword-estimated experience relevant to %s.", field),
	}
}

func skillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		if key := strings.ToLower(strings.TrimSpace(skill)); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func splitSkills(skills []string, have map[string]struct{}) (matched, missing []string) {
	matched, missing = []string{}, []string{}
	for _, skill := range skills {
		if _, ok := have[strings.ToLower(strings.TrimSpace(skill))]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return matched, missing
}

// overlapScore is 100*hits/total rounded, or a neutral 50 when total is zero.
func overlapScore(hits, total int) float64 {
	if total == 0 {
		return 50
	}
	return math.Min(100, math.Round(100*float64(hits)/float64(total)))
}
