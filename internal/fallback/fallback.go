// Package fallback holds the built-in datasets shown when the platform does not
// expose an endpoint yet (the API answers 404).
package fallback

import (
	"time"

	"github.com/getmentor/supercoach-admin/internal/models"
)

var seededAt = time.Date(2026, time.January, 12, 9, 0, 0, 0, time.UTC)

// SuperCoaches returns the default supercoach personas
func SuperCoaches() []models.SuperCoach {
	return []models.SuperCoach{
		{
			ID:          "motivator",
			Name:        "Maya",
			Specialty:   "Motivation & habits",
			Description: "Keeps students on track with daily check-ins and streak nudges.",
			IsActive:    true,
		},
		{
			ID:          "tutor",
			Name:        "Theo",
			Specialty:   "Course content",
			Description: "Answers questions about lessons and explains exercises step by step.",
			IsActive:    true,
		},
		{
			ID:          "planner",
			Name:        "Pia",
			Specialty:   "Study planning",
			Description: "Builds weekly study plans around the student's schedule.",
			IsActive:    false,
		},
	}
}

// Conversations returns sample conversations with the default supercoaches,
// narrowed by filter the same way the platform would
func Conversations(filter models.ConversationFilter) []models.Conversation {
	all := []models.Conversation{
		{
			ID:           "sample-1",
			StudentID:    1,
			SuperCoachID: "motivator",
			Title:        "Getting back on track",
			LastMessage: &models.Message{
				Sender:  "supercoach",
				Content: "Two lessons this week would keep your streak alive. Want a reminder tomorrow?",
				SentAt:  seededAt.Add(26 * time.Hour),
			},
			MessageCount: 8,
			UpdatedAt:    seededAt.Add(26 * time.Hour),
		},
		{
			ID:           "sample-2",
			StudentID:    2,
			SuperCoachID: "tutor",
			Title:        "Module 3 exercise",
			LastMessage: &models.Message{
				Sender:  "student",
				Content: "I still don't get why the loop never ends.",
				SentAt:  seededAt.Add(50 * time.Hour),
			},
			MessageCount:   5,
			UnreadCount:    1,
			NeedsAttention: true,
			UpdatedAt:      seededAt.Add(50 * time.Hour),
		},
		{
			ID:           "sample-3",
			StudentID:    1,
			SuperCoachID: "planner",
			Title:        "Weekly plan",
			LastMessage: &models.Message{
				Sender:  "supercoach",
				Content: "Here's your plan for the week: Monday and Thursday evenings.",
				SentAt:  seededAt.Add(3 * time.Hour),
			},
			MessageCount: 3,
			UpdatedAt:    seededAt.Add(3 * time.Hour),
		},
	}

	out := make([]models.Conversation, 0, len(all))
	for _, c := range all {
		if filter.StudentID != 0 && c.StudentID != filter.StudentID {
			continue
		}
		if filter.SuperCoachID != "" && c.SuperCoachID != filter.SuperCoachID {
			continue
		}
		out = append(out, c)
	}
	return out
}
