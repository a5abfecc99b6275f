package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cobra "github.com/spf13/cobra"

	browser "github.com/dodocode/screenpilot/internal/browser"
	display "github.com/dodocode/screenpilot/internal/display"
	domain "github.com/dodocode/screenpilot/internal/domain"
	llm "github.com/dodocode/screenpilot/internal/llm"
	logger "github.com/dodocode/screenpilot/internal/logger"
	services "github.com/dodocode/screenpilot/internal/services"
	tools "github.com/dodocode/screenpilot/internal/services/tools"
	storage "github.com/dodocode/screenpilot/internal/storage"

	_ "github.com/dodocode/screenpilot/internal/display/robot"
	_ "github.com/dodocode/screenpilot/internal/display/x11"
)

var runCmd = &cobra.Command{
	Use:   "run [task]",
	Short: "Run a desktop automation task",
	Long: `Runs a task against the local desktop. The agent captures the screen as a
numbered grid, clicks cells, types, and presses keys until the task is done.
Without a task argument, prompts for tasks interactively until 'exit'.

Move the mouse into any screen corner to abort the current task.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withBrowser, _ := cmd.Flags().GetBool("browser")
		return runTasks(args, true, withBrowser)
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse [task]",
	Short: "Run a browser automation task",
	Long: `Runs a task against a Playwright-driven browser. The agent navigates,
inspects forms and links, fills fields, and clicks elements by locator.
Without a task argument, prompts for tasks interactively until 'exit'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTasks(args, false, true)
	},
}

func init() {
	runCmd.Flags().Bool("browser", false, "also attach the browser tool catalog")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(browseCmd)
}

func runTasks(args []string, desktop, withBrowser bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := newDecisionClient()

	var toolServices []domain.ToolService
	var screen *tools.Screen

	if desktop {
		provider, err := display.DetectDisplay()
		if err != nil {
			return err
		}
		var registry *tools.Registry
		registry, screen = tools.NewDesktopRegistry(cfg, provider, client)
		toolServices = append(toolServices, registry)
	} else {
		// Browser-only runs still need a place to persist page screenshots.
		screen = tools.NewScreen(nil, cfg)
	}
	defer func() { _ = screen.Close() }()

	if withBrowser {
		driver := browser.NewDriver(browser.Options{
			Headless:       cfg.Browser.Headless,
			ViewportWidth:  cfg.Browser.ViewportWidth,
			ViewportHeight: cfg.Browser.ViewportHeight,
			TimeoutSeconds: cfg.Browser.DefaultTimeout,
		})
		defer func() { _ = driver.Close() }()
		toolServices = append(toolServices, tools.NewBrowserRegistry(cfg, driver, client, screen))
	}

	var store domain.ConversationStore
	if cfg.History.Enabled {
		s, err := storage.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One reader for both the task prompt and ask-user replies; two buffered
	// readers over the same stdin would steal each other's input.
	reader := bufio.NewReader(os.Stdin)
	agent := services.NewAgent(cfg, client, stdinAsker(reader), store, toolServices...)

	runOne := func(task string) error {
		// Each task gets its own cancel scope so the fail-safe corner
		// aborts the task, not the whole session.
		ctx, cancel := context.WithCancel(rootCtx)
		defer cancel()

		if desktop && cfg.ComputerUse.FailSafe.Enabled {
			controller, err := screen.Controller()
			if err != nil {
				return err
			}
			failSafe := display.NewFailSafe(controller,
				cfg.ComputerUse.FailSafe.Margin,
				time.Duration(cfg.ComputerUse.FailSafe.PollIntervalMs)*time.Millisecond)
			go failSafe.Watch(ctx, cancel)
		}

		result, err := agent.RunTask(ctx, task)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	}

	if len(args) == 1 {
		return runOne(args[0])
	}

	for {
		if rootCtx.Err() != nil {
			return nil
		}
		fmt.Print("\ntask> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		task := strings.TrimSpace(line)
		if task == "" {
			continue
		}
		if task == "exit" || task == "quit" {
			return nil
		}
		if err := runOne(task); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func newDecisionClient() *llm.Client {
	return llm.NewClient(llm.Options{
		BaseURL:         cfg.Gateway.URL,
		APIKey:          cfg.Gateway.APIKey,
		Model:           cfg.Agent.Model,
		SummarizerModel: cfg.Agent.SummarizerModel,
		MaxTokens:       cfg.Agent.MaxTokens,
		TimeoutSeconds:  cfg.Agent.TimeoutSeconds,
	})
}

// stdinAsker collects ask-user replies from the terminal.
func stdinAsker(reader *bufio.Reader) domain.Asker {
	return domain.AskerFunc(func(question string) (string, error) {
		fmt.Printf("\nAgent asks: %s\n> ", question)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	})
}

func printResult(result *domain.TaskResult) {
	switch result.Status {
	case domain.StatusCompleted:
		fmt.Printf("\n%s\n", result.Message)
	case domain.StatusBudgetExceeded:
		fmt.Printf("\nStopped after %d turns without finishing: %s\n", result.Turns, result.Message)
	case domain.StatusCancelled:
		fmt.Printf("\nCancelled: %s\n", result.Message)
	}
	fmt.Printf("(task %s, %d turns, %s)\n", result.TaskID, result.Turns, result.Duration.Round(time.Millisecond))
	logger.Info("Run finished", "task_id", result.TaskID, "status", result.Status)
}
