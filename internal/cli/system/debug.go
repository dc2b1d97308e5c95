package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/pomodoro"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpRecords  *DebugDumpRecordsCmd  `cmd:"" help:"Dump the current user's study records as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
	DumpState    *DebugDumpStateCmd    `cmd:"" help:"Dump the initial timer state as JSON."`
}

func printJSON(ctx *cli.Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"log": logger.LogPath(ctx.ConfigDir),
	}
	if ctx.Local != nil {
		output["path"] = ctx.Local.GetConfigPath()
	}
	return printJSON(ctx, output)
}

type DebugDumpRecordsCmd struct{}

func (cmd *DebugDumpRecordsCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadStore(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	userID, ok := ctx.Users.Resolve()
	if !ok {
		return pomodoro.ErrNoUser
	}

	c, cancel := context.WithTimeout(context.Background(), constants.DefaultPersistTimeout)
	defer cancel()
	records, err := ctx.Records.ListByUser(c, userID)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	return printJSON(ctx, records)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	local, err := ctx.LoadLocal()
	if err != nil {
		return err
	}
	settings, err := local.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}

type DebugDumpStateCmd struct{}

func (cmd *DebugDumpStateCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadStore(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	engine := ctx.NewEngine()
	defer engine.Close()

	snap := engine.Snapshot()
	return printJSON(ctx, map[string]interface{}{
		"state":  snap.State,
		"config": snap.Config,
	})
}
