package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"ett-connector/internal/common"
	"ett-connector/internal/interfaces"
	"ett-connector/internal/models"
	"ett-connector/internal/parser"
	"ett-connector/internal/services"
)

const appName = "ett-connector"

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		mode       = flag.String("mode", "dev", "Environment mode: 'dev', 'development', 'prod', or 'production'")
		quiet      = flag.Bool("quiet", false, "Suppress banner output")
		version    = flag.Bool("version", false, "Show version information")
		help       = flag.Bool("help", false, "Show help message")
		noStore    = flag.Bool("no-store", false, "Do not persist the session (headless mode)")
		email      = flag.String("email", "", "Email address for the login command")
		apiURL     = flag.String("url", "", "API base URL for the configure command")
		token      = flag.String("token", "", "Access token for the configure command")
		boardID    = flag.String("board", "", "Board id for the submit command")
		reporterID = flag.String("reporter", "", "Reporter id for the submit command")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s (build: %s)\n", appName, common.GetVersion(), common.GetBuild())
		os.Exit(0)
	}

	if *help || flag.NArg() == 0 {
		showHelp()
		if *help {
			os.Exit(0)
		}
		os.Exit(1)
	}

	environment := parseMode(*mode)

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.Connector.Environment = environment

	if err := common.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := common.GetLogger()

	if !*quiet {
		common.PrintBanner(appName, environment, "CLI", common.GetLogFilePath())
	}

	var kv interfaces.KeyValueStore
	if *noStore {
		kv = services.NewMemoryStore()
	} else {
		kv, err = services.NewBoltStore(&cfg.Storage)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to open local store")
			os.Exit(1)
		}
	}
	defer kv.Close()

	sessions := services.NewSessionStore(kv, logger)
	tracker := services.NewTrackerService(&cfg.Tracker, sessions, logger)

	command := flag.Arg(0)
	switch command {
	case "login":
		runLogin(tracker, *email)
	case "configure":
		runConfigure(tracker, *apiURL, *token)
	case "logout":
		fail(tracker.Logout())
		common.PrintSuccess("Logged out")
	case "status":
		printState(tracker.State())
	case "test":
		result := tracker.TestConnection()
		printResult(result.Success, result.Message)
	case "boards":
		runBoards(tracker)
	case "members":
		runMembers(tracker)
	case "labels":
		runLabels(tracker, flag.Arg(1))
	case "parse":
		runParse(flag.Arg(1))
	case "submit":
		runSubmit(tracker, flag.Arg(1), *boardID, *reporterID)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showHelp()
		os.Exit(1)
	}
}

func runLogin(tracker interfaces.TrackerService, email string) {
	if email == "" {
		fmt.Fprintln(os.Stderr, "login requires -email")
		os.Exit(1)
	}

	fmt.Print("Password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read password: %v\n", err)
		os.Exit(1)
	}

	result := tracker.Login(email, strings.TrimSpace(password))
	printResult(result.Success, result.Message)
}

func runConfigure(tracker interfaces.TrackerService, apiURL, token string) {
	if apiURL == "" || token == "" {
		fmt.Fprintln(os.Stderr, "configure requires -url and -token")
		os.Exit(1)
	}
	fail(tracker.Configure(apiURL, token))
	common.PrintSuccess("Connection configured")
}

func printState(state models.SessionState) {
	if !state.Authenticated {
		common.PrintWarning("Not authenticated")
		return
	}
	common.PrintSuccess("Authenticated")
	fmt.Printf("   • API URL: %s\n", state.APIURL)
	if state.UserName != "" {
		fmt.Printf("   • User: %s (%s)\n", state.UserName, state.UserID)
	}
}

func runBoards(tracker interfaces.TrackerService) {
	boards, err := tracker.GetBoards()
	fail(err)
	for _, b := range boards {
		fmt.Printf("%-12s %-10s %s\n", b.ID, b.Type, b.Name)
	}
	fmt.Printf("%d boards\n", len(boards))
}

func runMembers(tracker interfaces.TrackerService) {
	members, err := tracker.GetTeamMembers()
	fail(err)
	for _, m := range members {
		fmt.Printf("%-12s %-24s %s\n", m.ID, m.Name, m.Email)
	}
	fmt.Printf("%d team members\n", len(members))
}

func runLabels(tracker interfaces.TrackerService, boardID string) {
	if boardID == "" {
		fmt.Fprintln(os.Stderr, "labels requires a board id argument")
		os.Exit(1)
	}
	labels, err := tracker.GetLabels(boardID)
	fail(err)
	for _, l := range labels {
		fmt.Printf("%-12s %-10s %s\n", l.ID, l.Color, l.Name)
	}
	fmt.Printf("%d labels\n", len(labels))
}

func runParse(path string) {
	tickets := parseSummaryFile(path)
	for i, t := range tickets {
		fmt.Printf("%2d. [%s] %s\n", i+1, t.Priority, t.Title)
		if t.Description != "" {
			fmt.Printf("    %s\n", t.Description)
		}
	}
	fmt.Printf("%d candidate tickets\n", len(tickets))
}

func runSubmit(tracker interfaces.TrackerService, path, boardID, reporterID string) {
	if boardID == "" || reporterID == "" {
		fmt.Fprintln(os.Stderr, "submit requires -board and -reporter")
		os.Exit(1)
	}

	tickets := parseSummaryFile(path)
	if len(tickets) == 0 {
		common.PrintWarning("No candidate tickets found in summary")
		return
	}

	reqs := make([]*models.IssueRequest, len(tickets))
	for i := range tickets {
		reqs[i] = tickets[i].ToIssueRequest(boardID, reporterID)
	}

	created, err := tracker.CreateIssues(reqs)
	for _, issue := range created {
		fmt.Printf("   • %s %s\n", issue.ID, issue.Title)
	}
	if err != nil {
		common.PrintError(fmt.Sprintf("Submitted %d of %d issues: %v", len(created), len(reqs), err))
		os.Exit(1)
	}
	common.PrintSuccess(fmt.Sprintf("Submitted %d issues", len(created)))
}

func parseSummaryFile(path string) []models.ParsedTicket {
	if path == "" {
		fmt.Fprintln(os.Stderr, "a summary file argument is required")
		os.Exit(1)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read summary: %v\n", err)
		os.Exit(1)
	}
	return parser.ParseTicketsFromSummary(string(data))
}

func printResult(success bool, message string) {
	if success {
		common.PrintSuccess(message)
		return
	}
	common.PrintError(message)
	os.Exit(1)
}

func fail(err error) {
	if err != nil {
		common.PrintError(err.Error())
		os.Exit(1)
	}
}

func parseMode(mode string) string {
	mode = strings.ToLower(mode)
	switch mode {
	case "prod", "production":
		return "production"
	default:
		return "development"
	}
}

func showHelp() {
	fmt.Printf("%s v%s - Meeting Summary to Issue Tracker\n\n", appName, common.GetVersion())
	fmt.Println("Usage:")
	fmt.Printf("  %s [flags] <command> [args]\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  login               Log in with -email (password prompted)")
	fmt.Println("  configure           Store -url and -token as the active connection")
	fmt.Println("  logout              Clear the active session")
	fmt.Println("  status              Show the (redacted) session state")
	fmt.Println("  test                Test the tracker connection")
	fmt.Println("  boards              List boards")
	fmt.Println("  members             List team members")
	fmt.Println("  labels <boardID>    List labels for a board")
	fmt.Println("  parse <file>        Extract candidate tickets from a summary")
	fmt.Println("  submit <file>       Submit candidate tickets (-board, -reporter)")
	fmt.Println("\nFlags:")
	fmt.Println("  -config string      Configuration file path")
	fmt.Println("  -mode string        Environment mode: 'dev' or 'prod' (default \"dev\")")
	fmt.Println("  -no-store           Do not persist the session (headless mode)")
	fmt.Println("  -quiet              Suppress banner output")
	fmt.Println("  -version            Show version information")
	fmt.Println("\nExamples:")
	fmt.Printf("  %s -email me@example.com login\n", os.Args[0])
	fmt.Printf("  %s -board b1 -reporter u1 submit notes.md\n", os.Args[0])
}
