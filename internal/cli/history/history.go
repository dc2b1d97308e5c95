package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/pomodoro"
	"github.com/julianstephens/studylit/internal/storage"
)

type HistoryCmd struct {
	Plain bool `help:"Print the raw markdown instead of rendering it."`
	Days  int  `help:"Only show the N most recent days with sessions (0 shows all)." default:"0"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Days < 0 {
		return fmt.Errorf("--days must not be negative")
	}
	if err := ctx.LoadStore(); err != nil {
		return err
	}

	userID, ok := ctx.Users.Resolve()
	if !ok {
		return pomodoro.ErrNoUser
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultPersistTimeout)
	defer cancel()
	records, err := ctx.Records.ListByUser(reqCtx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		records, err = nil, nil
	}
	if err != nil {
		return &pomodoro.HistoryLoadError{UserID: userID, Err: err}
	}

	now := time.Now()
	groups := ctx.GroupHistory(records, now)
	if c.Days > 0 && len(groups) > c.Days {
		groups = groups[:c.Days]
	}

	md := Markdown(groups, now)
	if c.Plain {
		ctx.Printf("%s", md)
		return nil
	}
	ctx.Println(RenderMarkdown(md))
	return nil
}

// Markdown renders grouped history as a markdown document, one section per day.
func Markdown(groups []models.HistoryGroup, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Study history\n\n")

	if len(groups) == 0 {
		b.WriteString("No study sessions yet.\n")
		return b.String()
	}

	sessions, minutes := 0, 0
	for _, g := range groups {
		sessions += len(g.Records)
		minutes += g.TotalWorkMinutes()
	}
	last := groups[0].Records[0].RecordDate
	fmt.Fprintf(&b, "%s, %s minutes of work. Last session %s.\n\n",
		countNoun(sessions, "session"),
		humanize.Comma(int64(minutes)),
		humanize.RelTime(last, now, "ago", "from now"),
	)

	for _, g := range groups {
		fmt.Fprintf(&b, "## %s (%d min)\n\n", g.Label, g.TotalWorkMinutes())
		b.WriteString("| Time | Work | Break |\n")
		b.WriteString("|------|------|-------|\n")
		for _, r := range g.Records {
			fmt.Fprintf(&b, "| %s | %d min | %d min |\n",
				r.RecordDate.In(g.Date.Location()).Format(constants.TimeFormat),
				r.WorkMinutes,
				r.BreakMinutes,
			)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

// RenderMarkdown styles md for the terminal, returning it unchanged if rendering fails.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
