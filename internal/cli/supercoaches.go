package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmentor/supercoach-admin/internal/fallback"
	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
)

func (a *app) fetchSuperCoaches(ctx context.Context) loader.State[[]models.SuperCoach] {
	opts := []loader.Option[struct{}, []models.SuperCoach]{
		loader.WithNormalize[struct{}](loader.NonNil[models.SuperCoach]),
	}
	if a.cfg.API.FallbackEnabled {
		opts = append(opts, loader.WithFallback(func(struct{}) []models.SuperCoach {
			return fallback.SuperCoaches()
		}))
	}
	return fetchOnce(ctx, "supercoaches", func(ctx context.Context, _ struct{}) ([]models.SuperCoach, error) {
		return a.client.ListSuperCoaches(ctx)
	}, struct{}{}, opts...)
}

func newSuperCoachesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "supercoaches",
		Aliases: []string{"coaches"},
		Short:   "List the AI supercoach personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(a, cmd, a.fetchSuperCoaches(cmd.Context()), renderSuperCoaches)
		},
	}
}

func renderSuperCoaches(w io.Writer, coaches []models.SuperCoach) {
	heading(w, "supercoaches", len(coaches))
	if len(coaches) == 0 {
		return
	}

	tw := newTable(w, "ID", "Name", "Specialty", "Status")
	for _, c := range coaches {
		status := dimStyle.Render(string(c.Status()))
		if c.Status() == models.SuperCoachOnline {
			status = successStyle.Render(string(c.Status()))
		}
		row(tw, c.ID, c.Name, c.Specialty, status)
	}
	_ = tw.Flush()
}

func newConversationsCmd(a *app) *cobra.Command {
	var filter models.ConversationFilter

	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "List supercoach conversations, optionally of one student or coach",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts := []loader.Option[models.ConversationFilter, []models.Conversation]{
				loader.WithNormalize[models.ConversationFilter](loader.NonNil[models.Conversation]),
			}
			if a.cfg.API.FallbackEnabled {
				opts = append(opts, loader.WithFallback(fallback.Conversations))
			}
			st := fetchOnce(ctx, "conversations", a.client.ListConversations, filter, opts...)
			if !st.HasData() {
				return failure(st)
			}

			// Coach names are resolved from the persona list; ids are shown without it
			var coaches []models.SuperCoach
			if cs := a.fetchSuperCoaches(ctx); cs.HasData() {
				coaches = *cs.Data
			}

			return show(a, cmd, st, func(w io.Writer, conversations []models.Conversation) {
				renderConversations(w, conversations, coaches)
			})
		},
	}

	cmd.Flags().IntVar(&filter.StudentID, "student", 0, "Only conversations of this student")
	cmd.Flags().StringVar(&filter.SuperCoachID, "coach", "", "Only conversations with this supercoach")
	return cmd
}

func renderConversations(w io.Writer, conversations []models.Conversation, coaches []models.SuperCoach) {
	heading(w, "conversations", len(conversations))
	if len(conversations) == 0 {
		return
	}

	now := time.Now()
	tw := newTable(w, "ID", "Title", "Student", "Coach", "Messages", "Unread", "Updated")
	for _, c := range conversations {
		title := truncate(c.Title, 40)
		if c.NeedsAttention {
			title = warningStyle.Render("! ") + title
		}
		row(tw, c.ID, title, c.StudentID, coachName(coaches, c.SuperCoachID), c.MessageCount, c.UnreadCount, relative(c.UpdatedAt, now))
	}
	_ = tw.Flush()
}

func coachName(coaches []models.SuperCoach, id string) string {
	if c := models.FindSuperCoach(coaches, id); c != nil {
		return c.Name
	}
	return id
}
