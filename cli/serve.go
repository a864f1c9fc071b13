package cli

import (
	"github.com/spf13/cobra"

	"todo-remote/server"
)

func serveCmd(s *session) *cobra.Command {
	var (
		addr     string
		dataFile string
		shape    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local /todos server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = s.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("data-file") {
				dataFile = s.cfg.Server.DataFile
			}
			if !cmd.Flags().Changed("shape") {
				shape = s.cfg.Server.Shape
			}
			sh, err := server.ParseShape(shape)
			if err != nil {
				return err
			}

			repo := server.NewMemoryRepo()
			if dataFile != "" {
				var msg string
				repo, msg, err = server.OpenRepo(dataFile)
				if err != nil {
					return err
				}
				if msg != "" {
					s.logger.Warn(msg)
				}
			}

			srv := server.New(repo, server.WithShape(sh), server.WithLogger(s.logger))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :3000)")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "persist todos to this JSON file")
	cmd.Flags().StringVar(&shape, "shape", "", "GET /todos response shape: bare, data or todos")
	return cmd
}
