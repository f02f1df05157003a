package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"alfredoptarigan/skillpilot/internal/models"
)

const (
	jsearchBaseURL  = "https://jsearch.p.rapidapi.com/search"
	courseraBaseURL = "https://coursera-course-search.p.rapidapi.com/courses"
	youtubeBaseURL  = "https://www.googleapis.com/youtube/v3/search"
	githubBaseURL   = "https://api.github.com/search/repositories"

	jobDescriptionLimit    = 500
	courseDescriptionLimit = 300
)

// Every source reports missing credentials, transport failures, non-2xx
// replies and empty result sets as ErrUpstreamUnavailable.
type JobSource interface {
	SearchJobs(ctx context.Context, req models.JobSearchRequest) ([]models.Job, error)
}

type CourseSource interface {
	SearchCourses(ctx context.Context, req models.CourseSearchRequest) ([]models.Course, error)
}

type VideoSource interface {
	SearchVideos(ctx context.Context, req models.VideoSearchRequest) ([]models.Video, error)
}

type ProjectSource interface {
	SearchProjects(ctx context.Context, req models.ProjectSearchRequest) ([]models.Project, error)
}

// JSearchSource queries the JSearch job API through RapidAPI.
type JSearchSource struct {
	Client  *http.Client
	APIKey  string
	BaseURL string
}

func NewJSearchSource(client *http.Client, apiKey string) *JSearchSource {
	return &JSearchSource{Client: client, APIKey: apiKey, BaseURL: jsearchBaseURL}
}

type jsearchResponse struct {
	Data []struct {
		JobID             string   `json:"job_id"`
		JobTitle          string   `json:"job_title"`
		EmployerName      string   `json:"employer_name"`
		JobCity           string   `json:"job_city"`
		JobState          string   `json:"job_state"`
		JobCountry        string   `json:"job_country"`
		JobDescription    string   `json:"job_description"`
		JobRequiredSkills []string `json:"job_required_skills"`
		JobApplyLink      string   `json:"job_apply_link"`
		JobGoogleLink     string   `json:"job_google_link"`
		JobPostedAt       string   `json:"job_posted_at_datetime_utc"`
		JobEmploymentType string   `json:"job_employment_type"`
		JobSalary         any      `json:"job_salary"`
	} `json:"data"`
}

func (s *JSearchSource) SearchJobs(ctx context.Context, req models.JobSearchRequest) ([]models.Job, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("%w: RAPID_API_KEY not configured", models.ErrUpstreamUnavailable)
	}

	numPages := req.NumPages
	if numPages <= 0 {
		numPages = 1
	}
	params := url.Values{
		"query":       {req.Query},
		"page":        {"1"},
		"num_pages":   {strconv.Itoa(numPages)},
		"date_posted": {"all"},
	}
	if req.Location != "" {
		params.Set("location", req.Location)
	}

	var body jsearchResponse
	headers := map[string]string{
		"X-RapidAPI-Key":  s.APIKey,
		"X-RapidAPI-Host": "jsearch.p.rapidapi.com",
	}
	if err := getJSON(ctx, s.Client, s.BaseURL+"?"+params.Encode(), headers, "JSearch", &body); err != nil {
		return nil, err
	}

	jobs := make([]models.Job, 0, len(body.Data))
	for _, raw := range body.Data {
		if raw.JobID == "" || raw.JobTitle == "" {
			continue
		}
		location := firstNonEmpty(raw.JobCity, raw.JobState, raw.JobCountry, "Remote")
		skills := raw.JobRequiredSkills
		if skills == nil {
			skills = []string{}
		}
		jobs = append(jobs, models.Job{
			ID:             raw.JobID,
			Title:          raw.JobTitle,
			Company:        raw.EmployerName,
			Location:       location,
			Description:    truncate(raw.JobDescription, jobDescriptionLimit),
			Skills:         skills,
			ApplyLink:      firstNonEmpty(raw.JobApplyLink, raw.JobGoogleLink),
			PostedAt:       raw.JobPostedAt,
			EmploymentType: raw.JobEmploymentType,
			Salary:         salaryString(raw.JobSalary),
		})
	}
	jobs = dedupeByID(jobs)
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: JSearch returned no jobs for %q", models.ErrUpstreamUnavailable, req.Query)
	}
	return jobs, nil
}

// CourseraSource queries the Coursera course search API through RapidAPI.
type CourseraSource struct {
	Client  *http.Client
	APIKey  string
	BaseURL string
}

func NewCourseraSource(client *http.Client, apiKey string) *CourseraSource {
	return &CourseraSource{Client: client, APIKey: apiKey, BaseURL: courseraBaseURL}
}

type courseraPartner struct {
	Name string `json:"name"`
}

type courseraResponse struct {
	Courses []struct {
		ID               string            `json:"id"`
		Slug             string            `json:"slug"`
		Name             string            `json:"name"`
		Title            string            `json:"title"`
		Description      string            `json:"description"`
		Partners         []courseraPartner `json:"partners"`
		Partner          string            `json:"partner"`
		Skills           []string          `json:"skills"`
		DomainTypes      []string          `json:"domainTypes"`
		Level            string            `json:"level"`
		DifficultyLevel  string            `json:"difficultyLevel"`
		AvgProductRating float64           `json:"avgProductRating"`
		Rating           float64           `json:"rating"`
		Enrollment       int64             `json:"enrollment"`
		EnrollmentNumber int64             `json:"enrollmentNumber"`
		PhotoURL         string            `json:"photoUrl"`
		S12nLogoURL      string            `json:"s12nLogoUrl"`
		Workload         string            `json:"workload"`
		Duration         string            `json:"duration"`
		URL              string            `json:"url"`
		Certificates     []json.RawMessage `json:"certificates"`
		Certificate      bool              `json:"certificate"`
	} `json:"courses"`
}

func (s *CourseraSource) SearchCourses(ctx context.Context, req models.CourseSearchRequest) ([]models.Course, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("%w: COURSERA_API_KEY not configured", models.ErrUpstreamUnavailable)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{
		"query": {req.Query},
		"limit": {strconv.Itoa(limit)},
	}

	var body courseraResponse
	headers := map[string]string{
		"X-RapidAPI-Key":  s.APIKey,
		"X-RapidAPI-Host": "coursera-course-search.p.rapidapi.com",
	}
	if err := getJSON(ctx, s.Client, s.BaseURL+"?"+params.Encode(), headers, "Coursera", &body); err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(body.Courses))
	for _, raw := range body.Courses {
		id := firstNonEmpty(raw.ID, raw.Slug)
		title := firstNonEmpty(raw.Name, raw.Title)
		if id == "" || title == "" {
			continue
		}
		provider := raw.Partner
		if len(raw.Partners) > 0 && raw.Partners[0].Name != "" {
			provider = raw.Partners[0].Name
		}
		skills := raw.Skills
		if len(skills) == 0 {
			skills = raw.DomainTypes
		}
		if skills == nil {
			skills = []string{}
		}
		rating := raw.AvgProductRating
		if rating == 0 {
			rating = raw.Rating
		}
		enrollment := raw.Enrollment
		if enrollment == 0 {
			enrollment = raw.EnrollmentNumber
		}
		courses = append(courses, models.Course{
			ID:                   id,
			Title:                title,
			Description:          truncate(raw.Description, courseDescriptionLimit),
			Provider:             firstNonEmpty(provider, "Coursera"),
			Skills:               skills,
			Level:                firstNonEmpty(raw.Level, raw.DifficultyLevel),
			Rating:               rating,
			EnrollmentCount:      enrollment,
			ImageURL:             firstNonEmpty(raw.PhotoURL, raw.S12nLogoURL),
			Duration:             firstNonEmpty(raw.Workload, raw.Duration),
			URL:                  firstNonEmpty(raw.URL, "https://www.coursera.org/learn/"+id),
			CertificateAvailable: len(raw.Certificates) > 0 || raw.Certificate,
		})
	}
	courses = dedupeByID(courses)
	if len(courses) == 0 {
		return nil, fmt.Errorf("%w: Coursera returned no courses for %q", models.ErrUpstreamUnavailable, req.Query)
	}
	return courses, nil
}

// YouTubeSource queries the YouTube Data API v3.
type YouTubeSource struct {
	Client  *http.Client
	APIKey  string
	BaseURL string
}

func NewYouTubeSource(client *http.Client, apiKey string) *YouTubeSource {
	return &YouTubeSource{Client: client, APIKey: apiKey, BaseURL: youtubeBaseURL}
}

type youtubeResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

func (s *YouTubeSource) SearchVideos(ctx context.Context, req models.VideoSearchRequest) ([]models.Video, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("%w: YOUTUBE_API_KEY not configured", models.ErrUpstreamUnavailable)
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	params := url.Values{
		"part":          {"snippet"},
		"q":             {req.Query},
		"type":          {"video"},
		"maxResults":    {strconv.Itoa(maxResults)},
		"order":         {"relevance"},
		"videoDuration": {"medium"},
		"key":           {s.APIKey},
	}

	var body youtubeResponse
	if err := getJSON(ctx, s.Client, s.BaseURL+"?"+params.Encode(), nil, "YouTube", &body); err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, models.Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    item.Snippet.Thumbnails.Medium.URL,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			URL:          "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		})
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: YouTube returned no videos for %q", models.ErrUpstreamUnavailable, req.Query)
	}
	return videos, nil
}

// GitHubSource queries the GitHub repository search API. The token is
// optional and only raises the rate limit.
type GitHubSource struct {
	Client  *http.Client
	Token   string
	BaseURL string
}

func NewGitHubSource(client *http.Client, token string) *GitHubSource {
	return &GitHubSource{Client: client, Token: token, BaseURL: githubBaseURL}
}

type githubResponse struct {
	Items []struct {
		ID              int64    `json:"id"`
		Name            string   `json:"name"`
		FullName        string   `json:"full_name"`
		Description     *string  `json:"description"`
		HTMLURL         string   `json:"html_url"`
		StargazersCount int64    `json:"stargazers_count"`
		ForksCount      int64    `json:"forks_count"`
		Language        *string  `json:"language"`
		Topics          []string `json:"topics"`
		OpenIssuesCount int64    `json:"open_issues_count"`
		UpdatedAt       string   `json:"updated_at"`
		Owner           struct {
			Login     string `json:"login"`
			AvatarURL string `json:"avatar_url"`
		} `json:"owner"`
	} `json:"items"`
}

// githubQuery adds the language and the first topic only; more topics
// filter out nearly every repository.
func githubQuery(req models.ProjectSearchRequest) string {
	q := req.Query
	if req.Language != "" {
		q += " language:" + req.Language
	}
	if len(req.Topics) > 0 && req.Topics[0] != "" {
		q += " topic:" + req.Topics[0]
	}
	return q + " stars:>10"
}

func (s *GitHubSource) SearchProjects(ctx context.Context, req models.ProjectSearchRequest) ([]models.Project, error) {
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 6
	}
	params := url.Values{
		"q":        {githubQuery(req)},
		"sort":     {"stars"},
		"order":    {"desc"},
		"per_page": {strconv.Itoa(perPage)},
	}

	headers := map[string]string{
		"Accept":     "application/vnd.github.v3+json",
		"User-Agent": "SkillPilot",
	}
	if s.Token != "" {
		headers["Authorization"] = "token " + s.Token
	}

	var body githubResponse
	if err := getJSON(ctx, s.Client, s.BaseURL+"?"+params.Encode(), headers, "GitHub", &body); err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(body.Items))
	for _, item := range body.Items {
		if item.ID == 0 || item.Name == "" {
			continue
		}
		description := "No description available"
		if item.Description != nil && *item.Description != "" {
			description = *item.Description
		}
		var language string
		if item.Language != nil {
			language = *item.Language
		}
		topics := item.Topics
		if topics == nil {
			topics = []string{}
		}
		lastUpdated, _, _ := strings.Cut(item.UpdatedAt, "T")
		projects = append(projects, models.Project{
			ID:          strconv.FormatInt(item.ID, 10),
			Name:        item.Name,
			FullName:    item.FullName,
			Description: description,
			URL:         item.HTMLURL,
			Stars:       item.StargazersCount,
			Forks:       item.ForksCount,
			Language:    language,
			Topics:      topics,
			OpenIssues:  item.OpenIssuesCount,
			LastUpdated: lastUpdated,
			Owner:       models.ProjectOwner{Login: item.Owner.Login, AvatarURL: item.Owner.AvatarURL},
		})
	}
	projects = dedupeByID(projects)
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: GitHub returned no projects for %q", models.ErrUpstreamUnavailable, req.Query)
	}
	return projects, nil
}

// dedupeByID keeps the first record for each id. JSearch repeats job ids
// across pages and Coursera ids can fall back to a shared slug.
func dedupeByID[C models.Candidate](candidates []C) []C {
	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, candidate := range candidates {
		id := candidate.CandidateID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

func getJSON(ctx context.Context, client *http.Client, reqURL string, headers map[string]string, name string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", name, err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %v", models.ErrUpstreamUnavailable, name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned HTTP %d", models.ErrUpstreamUnavailable, name, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to parse %s response: %v", models.ErrUpstreamUnavailable, name, err)
	}
	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// salaryString renders job_salary, which JSearch sends as a string, a
// number or null.
func salaryString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}
