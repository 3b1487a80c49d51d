package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-todo-keeper/internal/client"
	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/tui"
	"github.com/MKhiriev/go-todo-keeper/models"
	"golang.org/x/term"
)

var errUsage = errors.New("invalid arguments")

type environment struct {
	app       *client.App
	cfg       *config.ClientConfig
	buildInfo models.AppBuildInfo
	stdin     *os.File
	stdout    io.Writer
	logger    *logger.Logger
}

type command struct {
	usage string
	run   func(ctx context.Context, env *environment, args []string) error
}

var commands = map[string]command{
	"register": {"register -fullname NAME -email EMAIL -username USER [-password PW]", runRegister},
	"login":    {"login IDENTITY [-password PW]", runLogin},
	"logout":   {"logout", runLogout},
	"whoami":   {"whoami", runWhoami},
	"refresh":  {"refresh", runRefresh},
	"check":    {"check", runCheck},
	"list":     {"list", runList},
	"filtered": {"filtered", runFiltered},
	"add":      {"add -title TITLE -due DATE [-description D] [-label L] [-priority P] [-progress P]", runAdd},
	"show":     {"show ID", runShow},
	"update":   {"update ID [-title T] [-description D] [-label L] [-priority P] [-progress P] [-due DATE] [-completed BOOL]", runUpdate},
	"complete": {"complete ID", runComplete},
	"delete":   {"delete ID", runDelete},
	"browse":   {"browse", runBrowse},
}

func printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, "usage: todo-client [-server ADDR] [-state FILE] [-c CONFIG] <command> [args]")
	fmt.Fprintln(os.Stderr, "\ncommands:")
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

// splitArgs separates the leading config flags from the command name and its
// own arguments. Every config flag takes a value.
func splitArgs(args []string) (global []string, name string, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return global, arg, args[i+1:]
		}
		global = append(global, arg)
		if !strings.Contains(arg, "=") && i+1 < len(args) {
			i++
			global = append(global, args[i])
		}
	}
	return global, "", nil
}

// parseCommandFlags parses args, allowing one positional argument before the
// flags.
func parseCommandFlags(fs *flag.FlagSet, args []string) (positional string, err error) {
	fs.SetOutput(io.Discard)
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		positional, args = args[0], args[1:]
	}
	if err = fs.Parse(args); err != nil {
		return "", fmt.Errorf("%w: %w", errUsage, err)
	}
	if positional == "" && fs.NArg() > 0 {
		positional = fs.Arg(0)
	}
	return positional, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: todo id must be a positive integer", errUsage)
	}
	return id, nil
}

func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: todo id is required", errUsage)
	}
	return parseID(args[0])
}

// readPassword prompts on the terminal without echo. Piped stdin is read as
// one line.
func readPassword(env *environment, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	fd := int(env.stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(env.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func requireSession(env *environment) error {
	if !env.app.Session.IsAuthenticated() {
		return fmt.Errorf("%w: run login first", client.ErrNotAuthenticated)
	}
	return nil
}

// ── auth ──────────────────────────────────────────────────────────────────────

func runRegister(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fullName := fs.String("fullname", "", "display name")
	email := fs.String("email", "", "e-mail address")
	username := fs.String("username", "", "login name")
	password := fs.String("password", "", "password")
	if _, err := parseCommandFlags(fs, args); err != nil {
		return err
	}

	if *password == "" {
		var err error
		if *password, err = readPassword(env, "Password: "); err != nil {
			return err
		}
	}

	if !env.app.Session.Register(ctx, *fullName, *email, *username, *password) {
		return errors.New(env.app.Session.Snapshot().Error)
	}
	fmt.Fprintln(env.stdout, "registered; run login to start a session")
	return nil
}

func runLogin(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	password := fs.String("password", "", "password")
	identity, err := parseCommandFlags(fs, args)
	if err != nil {
		return err
	}
	if identity == "" {
		return fmt.Errorf("%w: username or email is required", errUsage)
	}

	if *password == "" {
		if *password, err = readPassword(env, "Password: "); err != nil {
			return err
		}
	}

	if !env.app.Session.Login(ctx, identity, *password) {
		return errors.New(env.app.Session.Snapshot().Error)
	}

	snap := env.app.Session.Snapshot()
	if snap.User != nil {
		fmt.Fprintf(env.stdout, "logged in as %s\n", snap.User.Username)
	}
	return nil
}

func runLogout(ctx context.Context, env *environment, _ []string) error {
	if !env.app.Session.Logout(ctx) {
		return fmt.Errorf("%s (local session cleared)", env.app.Session.Snapshot().Error)
	}
	fmt.Fprintln(env.stdout, "logged out")
	return nil
}

func runWhoami(ctx context.Context, env *environment, _ []string) error {
	user, err := env.app.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.stdout, tui.RenderUser(user))
	return nil
}

func runRefresh(ctx context.Context, env *environment, _ []string) error {
	if !env.app.Session.Refresh(ctx) {
		return errors.New(env.app.Session.Snapshot().Error)
	}
	fmt.Fprintln(env.stdout, "tokens refreshed")
	return nil
}

func runCheck(ctx context.Context, env *environment, _ []string) error {
	info, err := env.app.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "%s (server %s)\n", info.Message, info.Version)
	fmt.Fprint(env.stdout, env.buildInfo.String())
	return nil
}

// ── todos ─────────────────────────────────────────────────────────────────────

func runList(ctx context.Context, env *environment, _ []string) error {
	if err := requireSession(env); err != nil {
		return err
	}
	if !env.app.Todos.FetchTodos(ctx) {
		return errors.New(env.app.Todos.Snapshot().Error)
	}
	fmt.Fprintln(env.stdout, tui.RenderTodoList(env.app.Todos.Snapshot().Todos))
	return nil
}

func runFiltered(ctx context.Context, env *environment, _ []string) error {
	if err := requireSession(env); err != nil {
		return err
	}
	if !env.app.Todos.FetchFiltered(ctx) {
		return errors.New(env.app.Todos.Snapshot().Error)
	}

	snap := env.app.Todos.Snapshot()
	fmt.Fprintln(env.stdout, tui.RenderFiltered(models.FilteredTodos{
		OverDue:  snap.OverDue,
		Today:    snap.Today,
		Upcoming: snap.Upcoming,
	}))
	return nil
}

func runAdd(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "title")
	description := fs.String("description", "", "description")
	label := fs.String("label", "", "label")
	priority := fs.String("priority", "", "Low, Medium or High")
	progress := fs.String("progress", "", "Todo, Doing or Completed")
	due := fs.String("due", "", "due date (YYYY-MM-DD or RFC3339)")
	completed := fs.Bool("completed", false, "mark as completed")
	if _, err := parseCommandFlags(fs, args); err != nil {
		return err
	}
	if err := requireSession(env); err != nil {
		return err
	}

	req := models.CreateTodoRequest{
		Title:       *title,
		Description: *description,
		Label:       *label,
		Priority:    models.Priority(*priority),
		Progress:    models.Progress(*progress),
		Completed:   *completed,
	}
	if *due != "" {
		dueAt, err := models.ParseDueDate(*due)
		if err != nil {
			return err
		}
		req.DueDate = models.NewDueDate(dueAt)
	}

	todo, ok := env.app.Todos.CreateTodo(ctx, req)
	if !ok {
		return errors.New(env.app.Todos.Snapshot().Error)
	}
	fmt.Fprintln(env.stdout, tui.RenderTodo(todo))
	return nil
}

func runShow(ctx context.Context, env *environment, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if err = requireSession(env); err != nil {
		return err
	}

	todo, ok := env.app.Todos.FetchTodo(ctx, id)
	if !ok {
		return errors.New(env.app.Todos.Snapshot().Error)
	}
	fmt.Fprintln(env.stdout, tui.RenderTodo(todo))
	return nil
}

func runUpdate(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	title := fs.String("title", "", "title")
	description := fs.String("description", "", "description")
	label := fs.String("label", "", "label")
	priority := fs.String("priority", "", "Low, Medium or High")
	progress := fs.String("progress", "", "Todo, Doing or Completed")
	due := fs.String("due", "", "due date (YYYY-MM-DD or RFC3339)")
	completed := fs.Bool("completed", false, "completion flag")

	rawID, err := parseCommandFlags(fs, args)
	if err != nil {
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err = requireSession(env); err != nil {
		return err
	}

	req, err := buildUpdateRequest(fs, *title, *description, *label, *priority, *progress, *due, *completed)
	if err != nil {
		return err
	}

	todo, ok := env.app.Todos.UpdateTodo(ctx, id, req)
	if !ok {
		return errors.New(env.app.Todos.Snapshot().Error)
	}
	fmt.Fprintln(env.stdout, tui.RenderTodo(todo))
	return nil
}

// buildUpdateRequest sets only the fields whose flags were given.
func buildUpdateRequest(fs *flag.FlagSet, title, description, label, priority, progress, due string, completed bool) (models.UpdateTodoRequest, error) {
	var (
		req     models.UpdateTodoRequest
		dueErr  error
		visited int
	)

	fs.Visit(func(f *flag.Flag) {
		visited++
		switch f.Name {
		case "title":
			req.Title = &title
		case "description":
			req.Description = &description
		case "label":
			req.Label = &label
		case "priority":
			p := models.Priority(priority)
			req.Priority = &p
		case "progress":
			p := models.Progress(progress)
			req.Progress = &p
		case "due":
			dueAt, err := models.ParseDueDate(due)
			if err != nil {
				dueErr = err
				return
			}
			req.DueDate = models.NewDueDate(dueAt)
		case "completed":
			req.Completed = &completed
		}
	})

	if dueErr != nil {
		return models.UpdateTodoRequest{}, dueErr
	}
	if visited == 0 {
		return models.UpdateTodoRequest{}, fmt.Errorf("%w: nothing to update", errUsage)
	}
	return req, nil
}

func runComplete(ctx context.Context, env *environment, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if err = requireSession(env); err != nil {
		return err
	}

	todo, ok := env.app.Todos.MarkCompleted(ctx, id)
	if !ok {
		return errors.New(env.app.Todos.Snapshot().Error)
	}
	fmt.Fprintf(env.stdout, "completed %d: %s\n", todo.ID, todo.Title)
	return nil
}

func runDelete(ctx context.Context, env *environment, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if err = requireSession(env); err != nil {
		return err
	}

	todo, ok := env.app.Todos.DeleteTodo(ctx, id)
	if !ok {
		return errors.New(env.app.Todos.Snapshot().Error)
	}
	fmt.Fprintf(env.stdout, "deleted %d: %s\n", todo.ID, todo.Title)
	return nil
}

func runBrowse(ctx context.Context, env *environment, _ []string) error {
	if err := requireSession(env); err != nil {
		return err
	}
	return tui.New(env.app.Todos, env.buildInfo, env.cfg.RefreshInterval).Browse(ctx)
}
