package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raphaelreyna/liquette/cmd/liquette/pkg/commands/partials"
	"github.com/raphaelreyna/liquette/cmd/liquette/pkg/commands/render"
	"github.com/raphaelreyna/liquette/cmd/liquette/pkg/commands/serve"
	"github.com/raphaelreyna/liquette/cmd/liquette/pkg/config"
	"github.com/raphaelreyna/liquette/pkg/log"
	"github.com/raphaelreyna/liquette/pkg/template"
)

type rootCommand struct {
	cobra.Command
	v *viper.Viper
}

func ExecuteContext(ctx context.Context) error {
	root, err := New()
	if err != nil {
		return err
	}
	return root.ExecuteContext(ctx)
}

// New builds the liquette command tree.
func New() (*cobra.Command, error) {
	var (
		root = rootCommand{v: viper.New()}
		cmd  = &root.Command
	)

	root.Use = "liquette"
	root.Short = "Render Liquid pattern templates"
	root.SilenceUsage = true
	root.PersistentPreRunE = root.setup

	if err := config.AddFlags(cmd, root.v); err != nil {
		return nil, err
	}
	root.setSubCommands()

	return cmd, nil
}

// setup loads the configuration and puts the logger and engine in the
// command's context.
func (root *rootCommand) setup(cmd *cobra.Command, _ []string) error {
	if err := config.Read(cmd, root.v); err != nil {
		return err
	}

	logger, err := config.Logger(root.v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := log.WithLogger(cmd.Context(), logger)

	conf, err := config.Engine(root.v)
	if err != nil {
		return err
	}
	e, err := template.New(conf)
	if err != nil {
		return fmt.Errorf("error creating engine: %w", err)
	}
	log.Debug(ctx, "engine ready", nil,
		"featureSet", conf.FeatureSet,
		"tags", e.Tags(),
		"sectionDirs", e.SectionDirs(),
	)

	cmd.SetContext(config.WithEngine(ctx, e))
	return nil
}

func (root *rootCommand) setSubCommands() {
	for _, cmd := range subCommands() {
		root.AddCommand(cmd)
	}
}

func subCommands() []*cobra.Command {
	return []*cobra.Command{
		render.New().CobraCommand(),
		partials.New(),
		serve.New(),
	}
}
