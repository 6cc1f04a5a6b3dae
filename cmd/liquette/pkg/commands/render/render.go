package render

import (
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/raphaelreyna/liquette/pkg/frontend"
)

// Cmd renders template files. It is its own ingress: each file becomes a job
// handed to the core.
type Cmd struct {
	cobraCommand *cobra.Command
	reqChan      chan *frontend.Request
	closeOnce    sync.Once

	dataPath    string
	outDir      string
	jsonOutput  bool
	workerCount int
}

func New() *Cmd {
	cmd := Cmd{
		reqChan: make(chan *frontend.Request),
	}
	return &cmd
}

func (cmd *Cmd) CobraCommand() *cobra.Command {
	if cmd.cobraCommand != nil {
		return cmd.cobraCommand
	}

	cmd.cobraCommand = &cobra.Command{
		Use:   "render file...",
		Short: "Render one or more template files",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.cobraCommand.RunE = cmd.run

	fs := cmd.cobraCommand.Flags()
	fs.StringVarP(&cmd.dataPath, "data", "d", "", "JSON file holding an object or a list of objects, one render each")
	fs.StringVarP(&cmd.outDir, "out", "o", "", "directory receiving the rendered files instead of stdout")
	fs.BoolVar(&cmd.jsonOutput, "json", false, "print job results as JSON")
	fs.IntVarP(&cmd.workerCount, "workers", "w", 0, "contexts rendered concurrently per file")

	return cmd.cobraCommand
}

func (cmd *Cmd) validate() error {
	if cmd.cobraCommand == nil {
		return errors.New("cobraCommand is required")
	}
	if cmd.reqChan == nil {
		return errors.New("reqChan is required")
	}
	return nil
}
