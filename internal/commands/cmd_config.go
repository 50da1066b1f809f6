package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/toast/internal/core/styles"
	"github.com/colonyops/toast/internal/core/toast"
	"github.com/colonyops/toast/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "toast config validate [options]",
				Description: "Validates the configuration file, checking durations, anchor, theme and toast width.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationIssue is one failed field check.
type validationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationOutput struct {
	Valid      bool              `json:"valid"`
	ConfigFile string            `json:"config_file"`
	Errors     []validationIssue `json:"errors,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	if cmd.flags.Config == nil {
		return errors.New("config not loaded")
	}

	out := validationOutput{ConfigFile: cmd.flags.ConfigPath}
	out.Errors = issuesFrom(cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath))
	out.Valid = len(out.Errors) == 0

	w := c.Root().Writer
	switch cmd.format {
	case "json":
		if err := iojson.WriteWith(w, c.Root().ErrWriter, out); err != nil {
			return err
		}
	case "text":
		if err := writeValidationText(w, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", cmd.format)
	}

	if !out.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func issuesFrom(err error) []validationIssue {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationIssue{{Field: "config", Message: err.Error()}}
	}

	issues := make([]validationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, validationIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return issues
}

func writeValidationText(w io.Writer, out validationOutput) error {
	for _, issue := range out.Errors {
		if _, err := fmt.Fprintf(w, "%s %s: %s\n", icon(toast.VariantError), issue.Field, issue.Message); err != nil {
			return err
		}
	}

	if out.Valid {
		_, err := fmt.Fprintf(w, "%s Configuration is valid\n", icon(toast.VariantSuccess))
		return err
	}

	_, err := fmt.Fprintf(w, "%d error(s) found\n", len(out.Errors))
	return err
}

func icon(v toast.Variant) string {
	return lipgloss.NewStyle().Foreground(styles.VariantColor(v)).Render(styles.VariantIcon(v))
}
