package models

type CareerPath struct {
	CareerPath            string `json:"career_path" validate:"required"`
	CourseRecommendations string `json:"course_recommendations" validate:"required"`
}

type CareerPathResponse struct {
	Outcome
	CareerPath
}

type CareerAdvice struct {
	Response string `json:"response" validate:"required"`
}

type CareerAdviceResponse struct {
	Outcome
	CareerAdvice
}
