package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"videoadmin-backend-go/internal/client"
	"videoadmin-backend-go/internal/console"

	"github.com/joho/godotenv"
)

var (
	apiURL      = flag.String("api", "", "API base URL (default http://localhost:3000/api)")
	sessionPath = flag.String("session", "", "Session state file (default ~/.videoadmin/session.json)")
	showVersion = flag.Bool("version", false, "Show version information")
)

const appVersion = "0.1.0"

type shell struct {
	scanner  *bufio.Scanner
	client   *client.Client
	notifier *console.Notifier

	auth     *client.AuthAPI
	users    *client.UsersAPI
	settings *client.SettingsAPI
	viewing  *client.ViewingRecordsAPI
	logs     *client.SystemLogsAPI
	stats    *client.AnalyticsAPI

	screens   map[string]screenOps
	logSearch *console.SearchScreen[logRow]
	recSearch *console.SearchScreen[recRow]
	running   bool
}

// screenOps erases the screen's type parameter so the command loop can
// dispatch on the resource name alone.
type screenOps struct {
	load func(ctx context.Context) error
	rows func() []map[string]any
	open func(record map[string]any)
	set  func(key string, value any)
	save func(ctx context.Context) error
	del  func(ctx context.Context, id string) error
}

func wrapScreen[T any](s *console.Screen[T]) screenOps {
	return screenOps{
		load: s.Load,
		rows: func() []map[string]any { return toRows(s.Items()) },
		open: s.OpenDialog,
		set:  s.SetField,
		save: s.Save,
		del:  s.Delete,
	}
}

func toRows[T any](items []T) []map[string]any {
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		row := map[string]any{}
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	if *showVersion {
		fmt.Printf("adminctl v%s\n", appVersion)
		return
	}

	path := *sessionPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "home directory: %v\n", err)
			os.Exit(1)
		}
		path = filepath.Join(home, ".videoadmin", "session.json")
	}

	session, err := client.LoadSession(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "session: %v\n", err)
		os.Exit(1)
	}

	notifier := console.NewNotifier(console.DefaultNotificationTTL)
	api := client.New(*apiURL, session, client.WithUnauthorizedHook(func() {
		fmt.Println("セッションが無効になりました。再度ログインしてください。")
	}))

	sh := newShell(api, notifier)

	fmt.Printf("adminctl v%s - 動画学習プラットフォーム管理コンソール\n", appVersion)
	fmt.Println("Type 'help' for available commands")
	if session.Authenticated() {
		fmt.Printf("logged in as %s\n", session.Username())
	}
	sh.run()
}

type logRow = map[string]any
type recRow = map[string]any

func newShell(api *client.Client, notifier *console.Notifier) *shell {
	scanner := bufio.NewScanner(os.Stdin)
	sh := &shell{
		scanner:  scanner,
		client:   api,
		notifier: notifier,
		auth:     client.NewAuthAPI(api),
		users:    client.NewUsersAPI(api),
		settings: client.NewSettingsAPI(api),
		viewing:  client.NewViewingRecordsAPI(api),
		logs:     client.NewSystemLogsAPI(api),
		stats:    client.NewAnalyticsAPI(api),
	}

	confirm := func(id string) bool {
		fmt.Printf("%s を削除しますか？ (y/N): ", id)
		if !scanner.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return answer == "y" || answer == "yes"
	}

	sh.screens = map[string]screenOps{
		"users":      wrapScreen(console.NewUsersScreen(api, notifier, confirm)),
		"videos":     wrapScreen(console.NewVideosScreen(api, notifier, confirm)),
		"categories": wrapScreen(console.NewCategoriesScreen(api, notifier, confirm)),
		"tags":       wrapScreen(console.NewTagsScreen(api, notifier, confirm)),
		"templates":  wrapScreen(console.NewEmailTemplatesScreen(api, notifier, confirm)),
	}
	sh.logSearch = console.NewSearchScreen[logRow]("システムログ", notifier, func(ctx context.Context, filters map[string]string) ([]logRow, error) {
		items, err := sh.logs.List(ctx, filters)
		if err != nil {
			return nil, err
		}
		return toRows(items), nil
	})
	sh.recSearch = console.NewSearchScreen[recRow]("視聴記録", notifier, func(ctx context.Context, filters map[string]string) ([]recRow, error) {
		items, err := sh.viewing.List(ctx, filters)
		if err != nil {
			return nil, err
		}
		return toRows(items), nil
	})
	return sh
}

func (s *shell) run() {
	s.running = true
	for s.running {
		fmt.Print(s.prompt())
		if !s.scanner.Scan() {
			return
		}
		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}
		if err := s.process(input); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		for _, notice := range s.notifier.Active() {
			fmt.Printf("[%s] %s\n", notice.Kind, notice.Message)
			s.notifier.Dismiss(notice.ID)
		}
	}
}

func (s *shell) prompt() string {
	user := s.client.Session().Username()
	if user == "" {
		user = "guest"
	}
	return fmt.Sprintf("%s@videoadmin> ", user)
}

func (s *shell) process(input string) error {
	parts := strings.Fields(input)
	cmd := parts[0]
	args := parts[1:]
	ctx := context.Background()

	switch cmd {
	case "exit", "quit":
		s.running = false
		return nil
	case "help":
		s.showHelp()
		return nil
	case "login":
		return s.doLogin(ctx, args)
	case "logout":
		return s.auth.Logout(ctx)
	case "whoami":
		if !s.client.Session().Authenticated() {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Println(s.client.Session().Username())
		return nil
	case "list":
		return s.doList(ctx, args)
	case "new":
		return s.doNew(ctx, args)
	case "edit":
		return s.doEdit(ctx, args)
	case "rm":
		return s.doDelete(ctx, args)
	case "status":
		return s.doUserPatch(ctx, args, "status")
	case "role":
		return s.doUserPatch(ctx, args, "role")
	case "resetpw":
		if len(args) != 1 {
			return fmt.Errorf("usage: resetpw <userId>")
		}
		if err := s.users.ResetPassword(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("パスワードをリセットしました")
		return nil
	case "logs":
		return s.doSearch(ctx, s.logSearch, args)
	case "logstats":
		stats, err := s.logs.Stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)
	case "records":
		return s.doSearch(ctx, s.recSearch, args)
	case "export":
		return s.doExport(ctx, args)
	case "settings":
		current, err := s.settings.Get(ctx)
		if err != nil {
			return err
		}
		return printJSON(current)
	case "set":
		return s.doSet(ctx, args)
	case "sysinfo":
		info, err := s.settings.SystemInfo(ctx)
		if err != nil {
			return err
		}
		return printJSON(info)
	case "backup":
		info, err := s.settings.CreateBackup(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("backup created: %s\n", info.ID)
		return nil
	case "backups":
		items, err := s.settings.ListBackups(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Printf("%s  %s  %d bytes\n", item.ID, item.CreatedAt, item.SizeBytes)
		}
		return nil
	case "restore":
		if len(args) != 1 {
			return fmt.Errorf("usage: restore <backupId>")
		}
		if _, err := s.settings.RestoreBackup(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("復元しました")
		return nil
	case "analytics":
		return s.doAnalytics(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (s *shell) doLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}
	resp, err := s.auth.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", resp.Username, resp.Role)
	return nil
}

func (s *shell) screenFor(name string) (screenOps, error) {
	ops, ok := s.screens[name]
	if !ok {
		return screenOps{}, fmt.Errorf("unknown resource: %s (users, videos, categories, tags, templates)", name)
	}
	return ops, nil
}

func (s *shell) doList(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: list <resource>")
	}
	ops, err := s.screenFor(args[0])
	if err != nil {
		return err
	}
	if err := ops.load(ctx); err != nil {
		return err
	}
	for _, row := range ops.rows() {
		if err := printJSON(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *shell) doNew(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: new <resource> key=value ...")
	}
	ops, err := s.screenFor(args[0])
	if err != nil {
		return err
	}
	ops.open(nil)
	if err := applyFields(ops, args[1:]); err != nil {
		return err
	}
	return ops.save(ctx)
}

func (s *shell) doEdit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: edit <resource> <id> key=value ...")
	}
	ops, err := s.screenFor(args[0])
	if err != nil {
		return err
	}
	if err := ops.load(ctx); err != nil {
		return err
	}
	var target map[string]any
	for _, row := range ops.rows() {
		if fmt.Sprintf("%v", row["id"]) == args[1] {
			target = row
			break
		}
	}
	if target == nil {
		return fmt.Errorf("record not found: %s", args[1])
	}
	ops.open(target)
	if err := applyFields(ops, args[2:]); err != nil {
		return err
	}
	return ops.save(ctx)
}

func (s *shell) doDelete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: rm <resource> <id>")
	}
	ops, err := s.screenFor(args[0])
	if err != nil {
		return err
	}
	return ops.del(ctx, args[1])
}

func (s *shell) doUserPatch(ctx context.Context, args []string, field string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s <userId> <value>", field)
	}
	var err error
	if field == "status" {
		_, err = s.users.UpdateStatus(ctx, args[0], args[1])
	} else {
		_, err = s.users.UpdateRole(ctx, args[0], args[1])
	}
	if err != nil {
		return err
	}
	fmt.Println("更新しました")
	return nil
}

func (s *shell) doSearch(ctx context.Context, screen *console.SearchScreen[map[string]any], args []string) error {
	screen.ClearFilters()
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("filters are key=value pairs: %s", arg)
		}
		screen.SetFilter(key, value)
	}
	if err := screen.Search(ctx); err != nil {
		return err
	}
	for _, row := range screen.Items() {
		if err := printJSON(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *shell) doExport(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: export <file> [key=value ...]")
	}
	filters := map[string]string{}
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("filters are key=value pairs: %s", arg)
		}
		filters[key] = value
	}
	raw, err := s.viewing.Export(ctx, filters)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], raw, 0o644); err != nil {
		return err
	}
	fmt.Printf("exported %d bytes to %s\n", len(raw), args[0])
	return nil
}

func (s *shell) doSet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: set key=value ...")
	}
	partial := map[string]any{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("settings are key=value pairs: %s", arg)
		}
		partial[key] = parseValue(value)
	}
	updated, err := s.settings.Update(ctx, partial)
	if err != nil {
		return err
	}
	return printJSON(updated)
}

func (s *shell) doAnalytics(ctx context.Context, args []string) error {
	view := "overview"
	if len(args) > 0 {
		view = args[0]
	}
	var (
		out any
		err error
	)
	switch view {
	case "overview":
		out, err = s.stats.Overview(ctx)
	case "trends":
		out, err = s.stats.Trends(ctx)
	case "categories":
		out, err = s.stats.Categories(ctx)
	case "popular":
		out, err = s.stats.Popular(ctx, 5)
	case "activity":
		out, err = s.stats.Activity(ctx)
	default:
		return fmt.Errorf("unknown analytics view: %s", view)
	}
	if err != nil {
		return err
	}
	return printJSON(out)
}

func applyFields(ops screenOps, pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("fields are key=value pairs: %s", pair)
		}
		ops.set(key, parseValue(value))
	}
	return nil
}

// parseValue interprets numbers, booleans and JSON arrays; anything else
// stays a string.
func parseValue(value string) any {
	var out any
	if err := json.Unmarshal([]byte(value), &out); err == nil {
		return out
	}
	return value
}

func printJSON(value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

func (s *shell) showHelp() {
	fmt.Println("adminctl Help")
	fmt.Println("=============")
	fmt.Println()
	fmt.Println("Session:")
	fmt.Println("  login <email> <password>       Authenticate")
	fmt.Println("  logout                         End the session")
	fmt.Println("  whoami                         Show the logged-in user")
	fmt.Println()
	fmt.Println("Resources (users, videos, categories, tags, templates):")
	fmt.Println("  list <resource>                List records")
	fmt.Println("  new <resource> k=v ...         Create a record")
	fmt.Println("  edit <resource> <id> k=v ...   Update a record")
	fmt.Println("  rm <resource> <id>             Delete a record (asks first)")
	fmt.Println()
	fmt.Println("Users:")
	fmt.Println("  status <userId> <value>        Change account status")
	fmt.Println("  role <userId> <value>          Change role")
	fmt.Println("  resetpw <userId>               Reset password")
	fmt.Println()
	fmt.Println("Logs & viewing records:")
	fmt.Println("  logs [k=v ...]                 Search system logs")
	fmt.Println("  logstats                       Log level/type counts")
	fmt.Println("  records [k=v ...]              Search viewing records")
	fmt.Println("  export <file> [k=v ...]        Write viewing records CSV")
	fmt.Println()
	fmt.Println("Settings & analytics:")
	fmt.Println("  settings / set k=v ...         Show or update settings")
	fmt.Println("  sysinfo                        Server system info")
	fmt.Println("  backup / backups / restore     Manage settings backups")
	fmt.Println("  analytics [view]               overview, trends, categories, popular, activity")
	fmt.Println()
	fmt.Println("Shell:")
	fmt.Println("  help                           Show this help")
	fmt.Println("  exit, quit                     Exit the shell")
	fmt.Println()
}
