package ctl

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
	"github.com/dmitrijs2005/civicwatch/internal/client/views"
	"github.com/dmitrijs2005/civicwatch/internal/common"
)

// detail parses the id argument and builds the complaint page for it.
func (s *session) detail(arg string) (*views.DetailView, error) {
	id, err := common.ParseComplaintID(arg)
	if err != nil {
		return nil, s.fail(err)
	}
	return views.NewDetailView(id, s.complaints, s.auth, s.out, s.logger), nil
}

func newComplaintsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "complaints",
		Aliases: []string{"c"},
		Short:   "Browse and manage complaints",
	}
	cmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newProgressCmd(opts),
		newSolveCmd(opts),
		newStatusCmd(opts),
		newMineCmd(opts),
		newSubmitCmd(opts),
	)
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var department, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List complaints, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			list := views.NewListView(s.complaints, s.out, s.logger)
			list.SetFilter(department, status)
			return list.Load(ctx)
		}),
	}
	cmd.Flags().StringVar(&department, "department", "", `department name or "all"`)
	cmd.Flags().StringVar(&status, "status", "", `pending, in_progress, solved or "all"`)
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a complaint with its admin controls",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(ctx context.Context, s *session, args []string) error {
			d, err := s.detail(args[0])
			if err != nil {
				return err
			}
			return d.Load(ctx)
		}),
	}
}

func newProgressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <id>",
		Short: "Mark a complaint in progress (cm_admin)",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(ctx context.Context, s *session, args []string) error {
			d, err := s.detail(args[0])
			if err != nil {
				return err
			}
			return d.MarkInProgress(ctx)
		}),
	}
}

func newSolveCmd(opts *rootOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "solve <id>",
		Short: "Mark a complaint solved (c_admin)",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(ctx context.Context, s *session, args []string) error {
			d, err := s.detail(args[0])
			if err != nil {
				return err
			}
			return d.MarkSolved(ctx, note)
		}),
	}
	cmd.Flags().StringVar(&note, "note", "", "admin response shown to the citizen")
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "status <id> <pending|in_progress|solved>",
		Short: "Set the status of a complaint",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(ctx context.Context, s *session, args []string) error {
			id, err := common.ParseComplaintID(args[0])
			if err != nil {
				return s.fail(err)
			}
			return s.account().UpdateStatus(ctx, id, args[1], note)
		}),
	}
	cmd.Flags().StringVar(&note, "note", "", "admin response")
	return cmd
}

func newMineCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the complaints filed by the logged in user",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			return s.account().MyComplaints(ctx)
		}),
	}
}

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	var (
		nc   models.NewComplaint
		file string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a new complaint",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			c := nc
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return s.fail(err)
				}
				defer f.Close()
				c.File = &models.Attachment{Name: file, Content: f}
			}
			return s.account().Submit(ctx, c)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&nc.Title, "title", "", "short title")
	f.StringVar(&nc.Description, "description", "", "what happened")
	f.StringVar(&nc.Subcategory, "subcategory", "", "subcategory")
	f.StringVar(&nc.Address, "address", "", "incident address")
	f.StringVar(&nc.Age, "age", "", "age of the person affected")
	f.StringVar(&nc.Gender, "gender", "", "gender of the person affected")
	f.StringVar(&nc.Department, "department", "", "department")
	f.StringVar(&file, "file", "", "evidence file to attach")
	return cmd
}

func newMessagesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Admin messages on a complaint",
	}

	var senderRole string
	list := &cobra.Command{
		Use:   "list <id>",
		Short: "List the messages of a complaint (c_admin)",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(ctx context.Context, s *session, args []string) error {
			d, err := s.detail(args[0])
			if err != nil {
				return err
			}
			return d.LoadMessages(ctx, senderRole)
		}),
	}
	list.Flags().StringVar(&senderRole, "sender-role", "", "only messages sent by this role")

	add := &cobra.Command{
		Use:   "add <id> <text...>",
		Short: "Send a message on a complaint (cm_admin)",
		Args:  cobra.MinimumNArgs(2),
		RunE: opts.run(func(ctx context.Context, s *session, args []string) error {
			d, err := s.detail(args[0])
			if err != nil {
				return err
			}
			return d.SendMessage(ctx, strings.Join(args[1:], " "))
		}),
	}

	cmd.AddCommand(list, add)
	return cmd
}

func newDepartmentsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "Seed the default departments and list them",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			return s.account().Departments(ctx)
		}),
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the complaint counters",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, s *session, _ []string) error {
			return s.account().Stats(ctx)
		}),
	}
}
