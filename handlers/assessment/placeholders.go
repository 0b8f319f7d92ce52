package assessment

import (
	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// The assessment delivery surface (assessments, question banks, exam
// sessions, grading, analytics) is routed but not yet implemented.
// Each group answers 501 so clients can discover the endpoints early.

// AssessmentsPlaceholder answers all /assessments routes
func AssessmentsPlaceholder(c *fiber.Ctx) error {
	return response.NotImplemented(c, "Assessment management is not available yet")
}

// QuestionsPlaceholder answers all /questions routes
func QuestionsPlaceholder(c *fiber.Ctx) error {
	return response.NotImplemented(c, "Question bank management is not available yet")
}

// SessionsPlaceholder answers all /sessions routes
func SessionsPlaceholder(c *fiber.Ctx) error {
	return response.NotImplemented(c, "Exam session delivery is not available yet")
}

// GradingPlaceholder answers all /grading routes
func GradingPlaceholder(c *fiber.Ctx) error {
	return response.NotImplemented(c, "Grading is not available yet")
}

// AnalyticsPlaceholder answers all /analytics routes
func AnalyticsPlaceholder(c *fiber.Ctx) error {
	return response.NotImplemented(c, "Analytics is not available yet")
}
