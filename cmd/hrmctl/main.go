package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"go-hrm/internal/app"
	"go-hrm/internal/attendance"
	"go-hrm/internal/config"
	"go-hrm/internal/notify"
	"go-hrm/internal/session"
	sessionerrors "go-hrm/internal/session/errors"
	"go-hrm/internal/shared/apperror"

	"go.uber.org/zap"
)

const usage = `usage: hrmctl <command> [flags]

commands:
  login -email <email> [-password <password>]   password falls back to HRM_PASSWORD
  logout
  whoami
  status
  checkin
  checkout
  watch
  history [-page N] [-limit N]
  team [-page N] [-limit N]
`

const msgLoginHint = "Run: hrmctl login -email <email>"

type cli struct {
	client *app.Client
	out    io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			if appErr, ok := apperror.As(err); ok {
				fmt.Fprintln(os.Stderr, appErr.Message)
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		os.Exit(1)
	}
}

// errReported means the failure was already shown through the notifier.
var errReported = errors.New("reported")

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errReported
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if os.Getenv("HRM_DEBUG") != "" {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := app.BuildClient(ctx, cfg,
		app.WithNotifier(notify.NewWriterNotifier(stderr)),
		app.WithNavigator(session.NavigatorFunc(func() {
			fmt.Fprintln(stderr, msgLoginHint)
		})),
		app.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Start(ctx); err != nil {
		return err
	}

	c := &cli{client: client, out: stdout}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		return c.login(ctx, rest)
	case "logout":
		client.Session.Logout(ctx)
		fmt.Fprintln(stdout, "Logged out")
		return nil
	}

	if !client.Session.IsAuthenticated() {
		return sessionerrors.ErrNotAuthenticated
	}

	switch cmd {
	case "whoami":
		return c.whoami(ctx)
	case "status":
		return c.status(ctx)
	case "checkin":
		return c.mutate(ctx, client.Attendance.CheckIn)
	case "checkout":
		return c.mutate(ctx, client.Attendance.CheckOut)
	case "watch":
		return c.watch(ctx)
	case "history":
		return c.list(ctx, rest, false)
	case "team":
		return c.list(ctx, rest, true)
	default:
		fmt.Fprint(stderr, usage)
		return errReported
	}
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (default $HRM_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return errReported
	}
	if *password == "" {
		*password = os.Getenv("HRM_PASSWORD")
	}

	creds := session.Credentials{Email: *email, Password: *password}
	if err := creds.Validate(); err != nil {
		return err
	}

	s, err := c.client.Session.Login(ctx, creds)
	if err != nil {
		return errReported
	}
	fmt.Fprintf(c.out, "Signed in as %s (%s)\n", s.User.Name, s.User.Role)
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	// refresh profile; a rejected token ends up in HandleUnauthorized
	if err := c.client.Session.Verify(ctx); err != nil && apperror.IsUnauthorized(err) {
		return errReported
	}

	s, _ := c.client.Session.Current()
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", s.User.Name)
	fmt.Fprintf(tw, "Email\t%s\n", s.User.Email)
	fmt.Fprintf(tw, "Role\t%s\n", s.User.Role)
	fmt.Fprintf(tw, "Admin features\t%t\n", c.client.Session.CanSeeAdminFeatures())
	return tw.Flush()
}

func (c *cli) status(ctx context.Context) error {
	if _, err := c.client.Attendance.FetchTodayStatus(ctx); err != nil {
		return errReported
	}
	printView(c.out, c.client.Attendance.View())
	return nil
}

func (c *cli) mutate(ctx context.Context, action func(context.Context) error) error {
	if err := action(ctx); err != nil {
		return errReported
	}
	printView(c.out, c.client.Attendance.View())
	return nil
}

func (c *cli) watch(ctx context.Context) error {
	if _, err := c.client.Attendance.FetchTodayStatus(ctx); err != nil {
		return errReported
	}

	tm := c.client.Attendance.StartTimer(ctx, func(v attendance.View) {
		fmt.Fprintf(c.out, "\r%-15s %s", v.State, v.Elapsed)
	})
	<-tm.Done()
	fmt.Fprintln(c.out)
	return nil
}

func (c *cli) list(ctx context.Context, args []string, team bool) error {
	name := "history"
	if team {
		name = "team"
		if !c.client.Session.CanSeeAdminFeatures() {
			return apperror.ErrForbidden
		}
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "rows per page")
	if err := fs.Parse(args); err != nil {
		return errReported
	}

	params := attendance.ListParams{Page: *page, Limit: *limit}
	var (
		rows []attendance.Entry
		err  error
	)
	if team {
		rows, err = c.client.Records.AllUsers(ctx, params)
	} else {
		rows, err = c.client.Records.History(ctx, params)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	header := []string{"DATE", "IN", "OUT", "STATUS"}
	if team {
		header = append([]string{"USER"}, header...)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, e := range rows {
		cols := []string{e.Date, deref(e.TimeIn), deref(e.TimeOut), e.Status}
		if team {
			user := e.UserName
			if user == "" {
				user = e.UserID
			}
			cols = append([]string{user}, cols...)
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}

func printView(w io.Writer, v attendance.View) {
	fmt.Fprintf(w, "State:   %s\n", v.State)
	fmt.Fprintf(w, "Elapsed: %s\n", v.Elapsed)
	if v.Message != "" {
		fmt.Fprintf(w, "Note:    %s\n", v.Message)
	}
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
