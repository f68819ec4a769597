package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Ilovko/r6s/internal/adapters/db/jsonfile"
	"github.com/Ilovko/r6s/internal/adapters/db/offline"
	sqliteadapter "github.com/Ilovko/r6s/internal/adapters/db/sqlite"
	httpadapter "github.com/Ilovko/r6s/internal/adapters/http"
	rpcadapter "github.com/Ilovko/r6s/internal/adapters/rpcjson"
	"github.com/Ilovko/r6s/internal/application"
	"github.com/Ilovko/r6s/internal/domain"
	"github.com/Ilovko/r6s/internal/editor"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "r6s",
		Usage: "Tactical map board server and CLI",
		Commands: []*cli.Command{
			serverCommand(),
			mapsCommand(),
			sessionCommand(),
			editorCommand(),
			strategiesCommand(),
			exportCommand(),
			importCommand(),
			activityCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

type serverOptions struct {
	addr      string
	rpcSocket string
	store     string
	dbPath    string
	jsonPath  string
	logLevel  string
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run HTTP server and JSON-RPC socket",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "HTTP listen address", Sources: cli.EnvVars("R6S_ADDR")},
			&cli.StringFlag{Name: "rpc-socket", Value: defaultSocket, Usage: "JSON-RPC unix socket path", Sources: cli.EnvVars("R6S_RPC_SOCKET")},
			&cli.StringFlag{Name: "store", Value: "sqlite", Usage: "strategy store: sqlite or json", Sources: cli.EnvVars("R6S_STORE")},
			&cli.StringFlag{Name: "db-path", Value: "r6s.db", Usage: "SQLite database path", Sources: cli.EnvVars("R6S_DB_PATH")},
			&cli.StringFlag{Name: "json-path", Value: "strategies.json", Usage: "JSON store path", Sources: cli.EnvVars("R6S_JSON_PATH")},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", Sources: cli.EnvVars("R6S_LOG_LEVEL")},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx, serverOptions{
				addr:      c.String("addr"),
				rpcSocket: c.String("rpc-socket"),
				store:     c.String("store"),
				dbPath:    c.String("db-path"),
				jsonPath:  c.String("json-path"),
				logLevel:  c.String("log-level"),
			})
		},
	}
}

func runServer(ctx context.Context, opts serverOptions) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	repo, err := openStore(ctx, opts, logger)
	if err != nil {
		return err
	}

	prefs := editor.DetectPreferences(os.Getenv)
	service := application.NewEditorService(repo, logger, prefs)

	router := httpadapter.NewRouter(service, logger)
	srv := &http.Server{Addr: opts.addr, Handler: otelhttp.NewHandler(router, "r6s"), ReadHeaderTimeout: 5 * time.Second}
	rpcSrv, err := rpcadapter.Start(opts.rpcSocket, service, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = rpcSrv.Close()
	}()
	logger.InfoContext(ctx, "json-rpc listening", "socket", opts.rpcSocket)

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "server listening", "addr", srv.Addr, "store", opts.store, "language", prefs.Language, "theme", prefs.Theme)
		errCh <- srv.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		logger.InfoContext(ctx, "shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore opens the configured strategy store. A store that cannot be
// reached is replaced by an offline one so the editor still serves.
func openStore(ctx context.Context, opts serverOptions, logger *slog.Logger) (domain.StrategyRepository, error) {
	var (
		repo domain.StrategyRepository
		err  error
	)
	switch opts.store {
	case "sqlite":
		repo, err = openSQLite(ctx, opts.dbPath, logger)
	case "json":
		repo, err = jsonfile.Open(opts.jsonPath, logger)
	default:
		return nil, fmt.Errorf("unknown store %q", opts.store)
	}
	if err != nil {
		logger.Warn("strategy store unavailable, persistence disabled", "store", opts.store, "err", err)
		return offline.New(err), nil
	}
	return repo, nil
}

func openSQLite(ctx context.Context, path string, logger *slog.Logger) (domain.StrategyRepository, error) {
	db, err := sqliteadapter.Open(path)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(ctx, db); err != nil {
		return nil, err
	}
	return sqliteadapter.NewStrategyRepository(db, logger), nil
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}
}

func sessionFlag() cli.Flag {
	return &cli.StringFlag{Name: "session", Usage: "session id (defaults to the one stored by `session open`)"}
}

func mapsCommand() *cli.Command {
	return &cli.Command{
		Name:  "maps",
		Usage: "Map catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List maps and their floors",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.MapInfo
					if err := doMapsList(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printMaps(out)
					return nil
				},
			},
		},
	}
}

func sessionCommand() *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Editing sessions",
		Commands: []*cli.Command{
			{
				Name:  "open",
				Usage: "Open a session and remember it for later commands",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transport", Usage: "uds or http"},
					&cli.StringFlag{Name: "server", Usage: "HTTP server URL"},
					&cli.StringFlag{Name: "socket", Usage: "JSON-RPC socket path"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					if v := c.String("transport"); v != "" {
						cfg.Transport = v
					}
					if v := c.String("server"); v != "" {
						cfg.Server = v
					}
					if v := c.String("socket"); v != "" {
						cfg.Socket = v
					}
					var out sessionResult
					if err := doSessionOpen(ctx, cfg, &out); err != nil {
						return err
					}
					cfg.Session = out.Session
					if err := saveConfig(cfg); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					fmt.Printf("session %s\n", out.Session)
					printFrame(out.Frame)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Show the current frame",
				Flags: []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					return doSessionShow(ctx, cfg, out)
				}),
			},
			{
				Name:  "close",
				Usage: "Close the session",
				Flags: []cli.Flag{sessionFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := sessionConfig(c)
					if err != nil {
						return err
					}
					if err := doSessionClose(ctx, cfg); err != nil {
						return err
					}
					fmt.Printf("closed %s\n", cfg.Session)
					return nil
				},
			},
			{
				Name:  "watch",
				Usage: "Stream frames from the live channel until interrupted",
				Flags: []cli.Flag{sessionFlag(), jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := sessionConfig(c)
					if err != nil {
						return err
					}
					sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
					defer stop()
					return watchSession(sigCtx, cfg, func(f editor.Frame) error {
						if c.Bool("json") {
							return printJSON(f)
						}
						printFrame(f)
						fmt.Println()
						return nil
					})
				},
			},
		},
	}
}

func editorCommand() *cli.Command {
	return &cli.Command{
		Name:  "editor",
		Usage: "Drive the board of a session",
		Commands: []*cli.Command{
			{
				Name:      "tool",
				Usage:     "Select a tool",
				ArgsUsage: "<player|blueArrow|redArrow|move|erase|pan|wall|danger|watch|objective>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					tool, err := domain.ParseTool(c.Args().First())
					if err != nil {
						return err
					}
					return doEditorTool(ctx, cfg, tool, out)
				}),
			},
			pointerCommand("down", "Press at a screen position", application.PointerDown),
			pointerCommand("move", "Move the pointer to a screen position", application.PointerMove),
			pointerCommand("up", "Release at a screen position", application.PointerUp),
			{
				Name:      "click",
				Usage:     "Press and release at a screen position",
				ArgsUsage: "<x> <y>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					pts, err := parsePoints(c.Args().Slice(), 1)
					if err != nil {
						return err
					}
					return runGesture(ctx, c, []application.PointerInput{
						{Phase: application.PointerDown, X: pts[0].X, Y: pts[0].Y},
						{Phase: application.PointerUp, X: pts[0].X, Y: pts[0].Y},
					})
				},
			},
			{
				Name:      "drag",
				Usage:     "Press, move and release between two screen positions",
				ArgsUsage: "<x1> <y1> <x2> <y2>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					pts, err := parsePoints(c.Args().Slice(), 2)
					if err != nil {
						return err
					}
					return runGesture(ctx, c, []application.PointerInput{
						{Phase: application.PointerDown, X: pts[0].X, Y: pts[0].Y},
						{Phase: application.PointerMove, X: pts[1].X, Y: pts[1].Y},
						{Phase: application.PointerUp, X: pts[1].X, Y: pts[1].Y},
					})
				},
			},
			{
				Name:      "wheel",
				Usage:     "Scroll the wheel (negative zooms in)",
				ArgsUsage: "<delta>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					delta, err := strconv.ParseFloat(c.Args().First(), 64)
					if err != nil {
						return fmt.Errorf("delta: %w", err)
					}
					return doEditorWheel(ctx, cfg, delta, out)
				}),
			},
			{
				Name:      "zoom",
				Usage:     "Zoom in, out or reset the view",
				ArgsUsage: "<in|out|reset>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					return doEditorZoom(ctx, cfg, application.ZoomAction(c.Args().First()), out)
				}),
			},
			{
				Name:      "floor",
				Usage:     "Switch floor",
				ArgsUsage: "<ground|upper|lower|basement>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					return doEditorFloor(ctx, cfg, domain.Floor(c.Args().First()), out)
				}),
			},
			{
				Name:      "map",
				Usage:     "Switch map",
				ArgsUsage: "<map-id>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag(), &cli.BoolFlag{Name: "confirm", Usage: "discard the current board"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := sessionConfig(c)
					if err != nil {
						return err
					}
					var out application.MapChange
					if err := doEditorMap(ctx, cfg, domain.MapID(c.Args().First()), c.Bool("confirm"), &out); err != nil {
						return err
					}
					if out.NeedsConfirm {
						return errors.New("the board is not empty; re-run with --confirm to discard it")
					}
					if c.Bool("json") {
						return printJSON(out.Frame)
					}
					printFrame(out.Frame)
					return nil
				},
			},
			{
				Name:      "layer",
				Usage:     "Toggle a layer's visibility or lock",
				ArgsUsage: "<players|arrows|markers|walls> <visible|locked>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					category, err := domain.ParseLayerCategory(c.Args().Get(0))
					if err != nil {
						return err
					}
					return doEditorLayer(ctx, cfg, category, application.LayerFlag(c.Args().Get(1)), out)
				}),
			},
			{
				Name:      "role",
				Usage:     "Select side and role for new operators",
				ArgsUsage: "<attack|defense> <role>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					return doEditorRole(ctx, cfg, domain.Side(c.Args().Get(0)), domain.Role(c.Args().Get(1)), out)
				}),
			},
			{
				Name:      "operator",
				Usage:     "Select the operator for new units, or reassign one with --unit",
				ArgsUsage: "<operator>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag(), &cli.StringFlag{Name: "unit", Usage: "unit id to reassign"}},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					return doEditorOperator(ctx, cfg, c.String("unit"), domain.Operator(c.Args().First()), out)
				}),
			},
			{
				Name:      "key",
				Usage:     "Send a keyboard shortcut",
				ArgsUsage: "<key>",
				Flags: []cli.Flag{sessionFlag(), jsonFlag(),
					&cli.StringFlag{Name: "code", Usage: "physical key code, e.g. Digit1"},
					&cli.BoolFlag{Name: "shift"},
					&cli.BoolFlag{Name: "ctrl"},
					&cli.BoolFlag{Name: "meta"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := sessionConfig(c)
					if err != nil {
						return err
					}
					ev := editor.KeyEvent{Key: c.Args().First(), Code: c.String("code"), Shift: c.Bool("shift"), Ctrl: c.Bool("ctrl"), Meta: c.Bool("meta")}
					var out keyResult
					if err := doEditorKey(ctx, cfg, ev, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					if out.Action != editor.KeyNone {
						fmt.Printf("action: %s\n", out.Action)
					}
					printFrame(out.Frame)
					return nil
				},
			},
			simpleEditorCommand("undo", "Undo the last change", doEditorUndo),
			simpleEditorCommand("redo", "Redo the last undone change", doEditorRedo),
			simpleEditorCommand("clear", "Remove every entity on every floor", doEditorClear),
			{
				Name:      "language",
				Usage:     "Set the UI language",
				ArgsUsage: "<ko|en|ja>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					return doEditorLanguage(ctx, cfg, domain.Language(c.Args().First()), out)
				}),
			},
			{
				Name:      "theme",
				Usage:     "Set the UI theme",
				ArgsUsage: "<light|dark>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					return doEditorTheme(ctx, cfg, domain.Theme(c.Args().First()), out)
				}),
			},
		},
	}
}

func pointerCommand(name, usage string, phase application.PointerPhase) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<x> <y>",
		Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			pts, err := parsePoints(c.Args().Slice(), 1)
			if err != nil {
				return err
			}
			return runGesture(ctx, c, []application.PointerInput{{Phase: phase, X: pts[0].X, Y: pts[0].Y}})
		},
	}
}

func simpleEditorCommand(name, usage string, fn func(context.Context, cliConfig, *editor.Frame) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{sessionFlag(), jsonFlag()},
		Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
			return fn(ctx, cfg, out)
		}),
	}
}

// frameAction wraps a session command whose result is a frame.
func frameAction(fn func(context.Context, cliConfig, *cli.Command, *editor.Frame) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		cfg, err := sessionConfig(c)
		if err != nil {
			return err
		}
		var out editor.Frame
		if err := fn(ctx, cfg, c, &out); err != nil {
			return err
		}
		if c.Bool("json") {
			return printJSON(out)
		}
		printFrame(out)
		return nil
	}
}

func runGesture(ctx context.Context, c *cli.Command, inputs []application.PointerInput) error {
	cfg, err := sessionConfig(c)
	if err != nil {
		return err
	}
	var last pointerResult
	for _, in := range inputs {
		if err := doEditorPointer(ctx, cfg, in, &last); err != nil {
			return err
		}
		if last.Outcome.Kind != editor.OutcomeNone {
			fmt.Printf("%s\t%s\n", in.Phase, formatOutcome(last.Outcome))
		}
	}
	if c.Bool("json") {
		return printJSON(last.Frame)
	}
	printFrame(last.Frame)
	return nil
}

func strategiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "strategies",
		Usage: "Saved strategies",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved strategies",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Strategy
					if err := doStrategiesList(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printStrategies(out)
					return nil
				},
			},
			{
				Name:  "save",
				Usage: "Save the session board",
				Flags: []cli.Flag{sessionFlag(), jsonFlag(),
					&cli.StringFlag{Name: "name", Usage: "strategy name (defaults to map, floor and date)"},
					&cli.StringFlag{Name: "id", Usage: "overwrite this strategy instead of creating one"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := sessionConfig(c)
					if err != nil {
						return err
					}
					var out domain.Strategy
					if err := doStrategiesSave(ctx, cfg, c.String("id"), c.String("name"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printKV([][2]string{{"id", out.ID}, {"name", out.Name}, {"created", formatTime(out.CreatedAt)}})
					return nil
				},
			},
			{
				Name:      "load",
				Usage:     "Load a strategy into the session",
				ArgsUsage: "<strategy-id>",
				Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
				Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
					return doStrategiesLoad(ctx, cfg, c.Args().First(), out)
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a strategy",
				ArgsUsage: "<strategy-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					id := c.Args().First()
					if err := doStrategiesDelete(ctx, cfg, id); err != nil {
						return err
					}
					fmt.Printf("deleted %s\n", id)
					return nil
				},
			},
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the session as a strategy document",
		Flags: []cli.Flag{sessionFlag(), &cli.StringFlag{Name: "out", Usage: "output path (defaults to the suggested file name, - for stdout)"}},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := sessionConfig(c)
			if err != nil {
				return err
			}
			name, data, err := doExport(ctx, cfg)
			if err != nil {
				return err
			}
			path := c.String("out")
			if path == "-" {
				_, err := os.Stdout.Write(append(data, '\n'))
				return err
			}
			if path == "" {
				path = name
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Replace the session board with a strategy document",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{sessionFlag(), jsonFlag()},
		Action: frameAction(func(ctx context.Context, cfg cliConfig, c *cli.Command, out *editor.Frame) error {
			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return err
			}
			if !json.Valid(data) {
				return fmt.Errorf("%s: %w", c.Args().First(), domain.ErrMalformedDocument)
			}
			return doImport(ctx, cfg, data, out)
		}),
	}
}

func activityCommand() *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Activity log",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent activity",
				Flags: []cli.Flag{jsonFlag(), &cli.IntFlag{Name: "limit", Value: 50}},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.Activity
					if err := doActivityList(ctx, cfg, int(c.Int("limit")), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printActivity(out)
					return nil
				},
			},
		},
	}
}

func sessionConfig(c *cli.Command) (cliConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cliConfig{}, err
	}
	if v := c.String("session"); v != "" {
		cfg.Session = v
	}
	if strings.TrimSpace(cfg.Session) == "" {
		return cliConfig{}, errors.New("no session: run `r6s session open` or pass --session")
	}
	return cfg, nil
}

func parsePoints(args []string, n int) ([]domain.Position, error) {
	if len(args) != 2*n {
		return nil, fmt.Errorf("expected %d coordinates, got %d", 2*n, len(args))
	}
	out := make([]domain.Position, n)
	for i := range out {
		x, err := strconv.ParseFloat(args[2*i], 64)
		if err != nil {
			return nil, fmt.Errorf("x: %w", err)
		}
		y, err := strconv.ParseFloat(args[2*i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("y: %w", err)
		}
		out[i] = domain.Position{X: x, Y: y}
	}
	return out, nil
}
