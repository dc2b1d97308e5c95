package settings

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/storage"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Update settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	local, err := ctx.LoadLocal()
	if err != nil {
		return err
	}
	settings, err := local.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  Work Minutes:   %d\n", settings.WorkMinutes)
	ctx.Printf("  Break Minutes:  %d\n", settings.BreakMinutes)
	ctx.Printf("  History Labels: %s\n", settings.Labels)
	return nil
}

type SettingsSetCmd struct {
	Work   *int    `help:"Default WORK phase length in minutes."`
	Break  *int    `help:"Default BREAK phase length in minutes."`
	Labels *string `help:"History label language (en or tr)."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	local, err := ctx.LoadLocal()
	if err != nil {
		return err
	}
	settings, err := local.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.Work != nil {
		settings.WorkMinutes = *c.Work
		updated = true
	}
	if c.Break != nil {
		settings.BreakMinutes = *c.Break
		updated = true
	}
	if c.Labels != nil {
		settings.Labels = constants.LabelSet(*c.Labels)
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --work, --break or --labels to update settings.")
		return nil
	}

	if err := storage.ValidateSettings(settings); err != nil {
		return err
	}
	if err := local.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
