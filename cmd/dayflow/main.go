package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dayflow/internal/api"
	"dayflow/internal/capture"
	"dayflow/internal/config"
	"dayflow/internal/db"
	"dayflow/internal/domain"
	"dayflow/internal/logging"
	"dayflow/internal/migrate"
	"dayflow/internal/order"
	"dayflow/internal/repo"
	"dayflow/internal/session"
	"dayflow/internal/store"
	"dayflow/internal/timer"
	"dayflow/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "dayflow",
	Short: "Dayflow CLI",
	Long: `Dayflow is a terminal client for a remote task service: a to-do list with
calendar scheduling, an inbox of unscheduled tasks, manual reordering, a
focus/break countdown timer, and free-text capture that turns a brain dump
into tasks.

Tasks live on the server; this client fetches, orders, and mutates them.
The session token is stored in the workspace under .dayflow/.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(viper.GetBool("verbose"))
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
			fmt.Fprintln(os.Stderr, "session rejected; run dayflow login")
		}
		os.Exit(1)
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Logger.WithError(err).Warn("loading .env failed")
	}
	viper.SetEnvPrefix("DAYFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("verbose", false, "debug logging")
	rootCmd.PersistentFlags().String("api-base-url", "", "task service base URL (overrides config)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("api-base-url", rootCmd.PersistentFlags().Lookup("api-base-url"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(signupCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(meCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(captureCmd())
	rootCmd.AddCommand(focusCmd())
}

// --- setup helpers ---

func resolveConfig() (*config.Config, error) {
	workspace := viper.GetString("workspace")
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		baseURL := viper.GetString("api-base-url")
		if baseURL == "" {
			return nil, fmt.Errorf("no %s and no base URL; run dayflow init or set DAYFLOW_API_BASE_URL", config.Path(workspace))
		}
		cfg = config.Default(baseURL)
	}
	if override := viper.GetString("api-base-url"); override != "" {
		cfg.API.BaseURL = override
	}
	return cfg, cfg.Validate()
}

func openSession() (*session.Session, error) {
	stateDir, err := db.EnsureWorkspace(viper.GetString("workspace"))
	if err != nil {
		return nil, err
	}
	return session.Open(stateDir)
}

func newClient(cfg *config.Config, sess *session.Session) *api.Client {
	c := api.New(cfg.API.BaseURL, sess)
	c.Timeout = time.Duration(cfg.API.TimeoutSeconds) * time.Second
	return c
}

func withClient(ctx context.Context, fn func(context.Context, *api.Client, *session.Session, *config.Config) error) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	sess, err := openSession()
	if err != nil {
		return err
	}
	return fn(ctx, newClient(cfg, sess), sess, cfg)
}

func withStore(ctx context.Context, fn func(context.Context, *store.Store, *config.Config) error) error {
	return withClient(ctx, func(ctx context.Context, client *api.Client, _ *session.Session, cfg *config.Config) error {
		conn, err := db.Open(db.Config{Workspace: viper.GetString("workspace")})
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := migrate.Migrate(conn); err != nil {
			return err
		}
		local := &repo.Repo{DB: conn}
		return fn(ctx, store.New(client, local), cfg)
	})
}

func withLocal(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	conn, err := db.Open(db.Config{Workspace: viper.GetString("workspace")})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

// --- init ---

func initCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default dayflow.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				return fmt.Errorf("--api-url required")
			}
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			doc := config.GenerateDefault(baseURL)
			if _, err := config.FromYAML([]byte(doc)); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "api-url", "", "task service base URL")
	_ = cmd.MarkFlagRequired("api-url")
	return cmd
}

// --- auth ---

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, client *api.Client, sess *session.Session, _ *config.Config) error {
				resp, err := client.Login(ctx, email, password)
				if err != nil {
					return err
				}
				if err := sess.SetToken(resp.Token); err != nil {
					return err
				}
				fmt.Printf("Logged in as %s\n", resp.User.DisplayName())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func signupCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, client *api.Client, sess *session.Session, _ *config.Config) error {
				resp, err := client.Signup(ctx, email, password, name)
				if err != nil {
					return err
				}
				if err := sess.SetToken(resp.Token); err != nil {
					return err
				}
				fmt.Printf("Welcome, %s\n", resp.User.DisplayName())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession()
			if err != nil {
				return err
			}
			if err := sess.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user and token state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, client *api.Client, sess *session.Session, _ *config.Config) error {
				if !sess.Authenticated() {
					return fmt.Errorf("not logged in")
				}
				user, err := client.Me(ctx)
				if err != nil {
					return err
				}
				out := map[string]any{"user": user}
				if exp, ok := sess.ExpiresAt(); ok {
					out["token_expires_at"] = exp.UTC().Format(time.RFC3339)
					out["token_expired"] = sess.Expired(time.Now())
				}
				return printJSONOrTable(out)
			})
		},
	}
}

func meCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show or update the user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, client *api.Client, _ *session.Session, _ *config.Config) error {
				if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("email") {
					user, err := client.Me(ctx)
					if err != nil {
						return err
					}
					return printJSONOrTable(user)
				}
				user, err := client.UpdateMe(ctx, name, email)
				if err != nil {
					return err
				}
				return printJSONOrTable(user)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	return cmd
}

// --- tasks ---

func taskCmd() *cobra.Command {
	task := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long: `Tasks live on the remote service. Scheduled tasks (with a date or time)
sort before unscheduled ones; unscheduled tasks are the only kind that can
be manually reordered with 'task move'.`,
	}
	task.AddCommand(taskListCmd())
	task.AddCommand(taskGetCmd())
	task.AddCommand(taskCreateCmd())
	task.AddCommand(taskUpdateCmd())
	task.AddCommand(taskDeleteCmd())
	task.AddCommand(taskDoneCmd())
	task.AddCommand(taskMoveCmd())
	task.AddCommand(taskBreakdownCmd())
	return task
}

// currentView filters the cached list down to the active view: --inbox for
// undated tasks, --day for calendar-day equality, else everything.
func currentView(tasks []domain.Task, inbox bool, day string) []domain.Task {
	switch {
	case inbox:
		return order.Inbox(tasks)
	case day != "":
		return order.ForDay(tasks, day)
	default:
		return tasks
	}
}

func taskListCmd() *cobra.Command {
	var inbox, offline, doneOnly bool
	var day string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inbox && day != "" {
				return fmt.Errorf("--inbox and --day are mutually exclusive")
			}
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store, _ *config.Config) error {
				var tasks []domain.Task
				var err error
				if offline {
					var fetchedAt time.Time
					tasks, fetchedAt, err = s.LoadOffline(ctx)
					if err != nil {
						return err
					}
					if !viper.GetBool("json") {
						fmt.Printf("offline snapshot from %s\n", fetchedAt.Local().Format(time.RFC822))
					}
				} else {
					tasks, err = s.Load(ctx)
					if err != nil {
						return err
					}
				}
				view := currentView(tasks, inbox, day)
				if doneOnly {
					view = order.Partition(view).Done
				}
				if viper.GetBool("json") {
					return printJSON(view)
				}
				renderTaskTable(view)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&inbox, "inbox", false, "only tasks without a date")
	cmd.Flags().StringVar(&day, "day", "", "only tasks on this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&doneOnly, "done", false, "only completed tasks")
	cmd.Flags().BoolVar(&offline, "offline", false, "serve the last fetched snapshot")
	return cmd
}

func renderTaskTable(view []domain.Task) {
	v := order.Partition(view)
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"#", "ID", "Title", "When", "Est", "Status"})
	for _, t := range v.Scheduled {
		tw.AppendRow(table.Row{"", t.ID, t.Title, when(t), estimate(t), "todo"})
	}
	for i, t := range v.AllDay {
		tw.AppendRow(table.Row{i, t.ID, t.Title, "all-day", estimate(t), "todo"})
	}
	for _, t := range v.Done {
		tw.AppendRow(table.Row{"", t.ID, t.Title, when(t), estimate(t), "done"})
	}
	tw.Render()
	fmt.Printf("To Do: %d (scheduled %d, all-day %d) · Done: %d\n",
		len(v.Todo), len(v.Scheduled), len(v.AllDay), len(v.Done))
}

func when(t domain.Task) string {
	switch {
	case t.Date != nil && t.Time != nil:
		return *t.Date + " " + *t.Time
	case t.Date != nil:
		return *t.Date
	case t.Time != nil:
		return *t.Time
	default:
		return "all-day"
	}
}

func estimate(t domain.Task) string {
	if est := t.EstimateMinutes(); est > 0 {
		return fmt.Sprintf("%dm", est)
	}
	return ""
}

func taskGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, client *api.Client, _ *session.Session, _ *config.Config) error {
				t, err := client.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
}

func taskCreateCmd() *cobra.Command {
	var title, description, date, timeOfDay string
	var estimate int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := api.CreateTaskInput{Title: title}
			if description != "" {
				in.Description = &description
			}
			if date != "" {
				in.Date = &date
			}
			if timeOfDay != "" {
				in.Time = &timeOfDay
			}
			if cmd.Flags().Changed("estimate") {
				in.TotalEstimatedTime = &estimate
			}
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store, _ *config.Config) error {
				t, err := s.Create(ctx, in)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "time of day (HH:MM)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated minutes")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, description, date, timeOfDay string
	var estimate int
	var clearDate, clearTime bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task (full replace of editable fields)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store, _ *config.Config) error {
				current, err := s.Client.GetTask(ctx, id)
				if err != nil {
					return err
				}
				in := api.UpdateInputFromTask(current)
				if cmd.Flags().Changed("title") {
					in.Title = title
				}
				if cmd.Flags().Changed("description") {
					in.Description = description
				}
				if cmd.Flags().Changed("date") {
					in.Date = &date
				}
				if cmd.Flags().Changed("time") {
					in.Time = &timeOfDay
				}
				if cmd.Flags().Changed("estimate") {
					in.TotalEstimatedTime = estimate
				}
				if clearDate {
					in.Date = nil
				}
				if clearTime {
					in.Time = nil
				}
				in.HasDate = in.Date != nil
				in.HasTime = in.Time != nil
				t, err := s.Update(ctx, id, in)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "time of day (HH:MM)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "estimated minutes")
	cmd.Flags().BoolVar(&clearDate, "clear-date", false, "remove the date")
	cmd.Flags().BoolVar(&clearTime, "clear-time", false, "remove the time")
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store, _ *config.Config) error {
				if err := s.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	}
}

func taskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle task completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("task id required")
			}
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store, _ *config.Config) error {
				t, err := s.Toggle(ctx, args[0])
				if err != nil {
					return err
				}
				if t.IsDone {
					fmt.Printf("Done: %s\n", t.Title)
				} else {
					fmt.Printf("Back to todo: %s\n", t.Title)
				}
				return nil
			})
		},
	}
}

func taskMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <src> <dst>",
		Short: "Reorder all-day tasks",
		Long: `Moves the all-day task at index <src> (as shown by 'task list') to index
<dst>. Only the all-day subset is reorderable; any task with a date or time
sorts by its schedule and keeps its position.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("src index: %w", err)
			}
			dst, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("dst index: %w", err)
			}
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store, _ *config.Config) error {
				tasks, err := s.Load(ctx)
				if err != nil {
					return err
				}
				tasks, err = s.MoveAllDay(ctx, tasks, src, dst)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(tasks)
				}
				renderTaskTable(tasks)
				return nil
			})
		},
	}
}

func taskBreakdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown <id>",
		Short: "Ask the service to split a task into subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store, _ *config.Config) error {
				t, err := s.Breakdown(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(t)
				}
				fmt.Printf("%s (%dm)\n", t.Title, t.EstimateMinutes())
				for _, st := range t.SubTasks {
					line := "  - " + st.Title
					if st.EstimatedTime > 0 {
						line += fmt.Sprintf(" (%dm)", st.EstimatedTime)
					}
					fmt.Println(line)
					if st.Description != "" {
						fmt.Println("      " + st.Description)
					}
				}
				return nil
			})
		},
	}
}

// --- capture ---

func captureCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "capture [text...]",
		Short: "Turn free-form text into tasks",
		Long: `Sends a brain dump (arguments, or --file with a transcript) to the
configured AI endpoint, extracts actionable tasks, and creates them on the
task service. The AI credential comes from DAYFLOW_CAPTURE_API_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(data)
			}
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store, cfg *config.Config) error {
				ex := &capture.Extractor{
					Endpoint: cfg.Capture.Endpoint,
					Model:    cfg.Capture.Model,
					APIKey:   captureAPIKey(),
				}
				drafts, err := ex.Extract(ctx, text)
				if err != nil {
					return err
				}
				if len(drafts) == 0 {
					fmt.Println("No actionable tasks were found.")
					return nil
				}
				for _, d := range drafts {
					in := api.CreateTaskInput{Title: d.Title}
					if d.Description != "" {
						desc := d.Description
						in.Description = &desc
					}
					if d.EstimatedTime > 0 {
						est := d.EstimatedTime
						in.TotalEstimatedTime = &est
					}
					if _, err := s.Create(ctx, in); err != nil {
						return fmt.Errorf("create %q: %w", d.Title, err)
					}
				}
				fmt.Printf("Created %d task(s) from your brain dump\n", len(drafts))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read the transcript from a file")
	return cmd
}

func captureAPIKey() string {
	if key := viper.GetString("capture-api-key"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}

// --- focus ---

func focusCmd() *cobra.Command {
	var taskID string
	var minutes int
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run the focus timer",
		Long: `Runs a focus/break countdown in the terminal. With --task the timer binds
to that task and its estimate; otherwise pick a task interactively or start
a plain session. Finished intervals are recorded locally for 'focus history'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store, cfg *config.Config) error {
				tm := timer.New(timer.Config{
					FocusSeconds: cfg.Focus.DefaultMinutes * 60,
					BreakSeconds: cfg.Focus.BreakMinutes * 60,
					AutoContinue: cfg.Focus.AutoContinue,
				})
				if minutes > 0 {
					tm.SetCustom(minutes)
				}
				opts := ui.FocusOptions{Timer: tm, Minutes: minutes}
				if taskID != "" {
					task, err := s.Client.GetTask(ctx, taskID)
					if err != nil {
						return err
					}
					opts.Task = &task
				} else {
					tasks, err := s.Load(ctx)
					if err != nil {
						logging.Logger.WithError(err).Warn("loading tasks for the picker failed")
					} else {
						opts.Tasks = tasks
					}
				}
				opts.Record = func(sess repo.FocusSession) {
					if err := s.Local.InsertFocusSession(ctx, sess); err != nil {
						logging.Logger.WithError(err).Warn("recording focus session failed")
					}
				}
				return ui.RunFocus(ctx, opts)
			})
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "task id to focus on")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "focus duration in minutes")
	cmd.AddCommand(focusHistoryCmd())
	return cmd
}

func focusHistoryCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded focus sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocal(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				sessions, err := r.ListFocusSessions(ctx, n)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(sessions)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Started", "Mode", "Length", "Task", "Completed"})
				for _, sess := range sessions {
					task := sess.TaskTitle
					if task == "" {
						task = sess.TaskID
					}
					tw.AppendRow(table.Row{sess.StartedAt, sess.Mode, timer.FormatMMSS(sess.Seconds), task, sess.Completed})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of sessions")
	return cmd
}

// --- helpers ---

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
