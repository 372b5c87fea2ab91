// ABOUTME: Admin CLI for skiff account, token, and storage management
// ABOUTME: Operates directly on the local database without going through a server

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/skiff-mail/skiff/internal/auth"
	"github.com/skiff-mail/skiff/internal/hub"
	"github.com/skiff-mail/skiff/internal/identity"
	"github.com/skiff-mail/skiff/internal/token"
	"github.com/skiff-mail/skiff/internal/workpool"
)

const banner = `
      _    _  __  __
  ___| | _(_)/ _|/ _|
 / __| |/ / | |_| |_
 \__ \   <| |  _|  _|
 |___/_|\_\_|_| |_|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "user":
		err = cmdUser(args)
	case "token":
		err = cmdToken(args)
	case "audit":
		err = cmdAudit()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: skiff-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  user create             Create an account with its default mailboxes")
	fmt.Println("  user list               List all accounts")
	fmt.Println("  user lock <username>    Lock an account (login denied)")
	fmt.Println("  user unlock <username>  Unlock an account")
	fmt.Println("  token issue             Issue an access token for an account")
	fmt.Println("  token revoke <token>    Revoke a token")
	fmt.Println("  token check <token>     Show a token and check its scope")
	fmt.Println("  audit                   Report referential integrity problems")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  SKIFF_DB                Database path (overrides config files)")
	fmt.Println("  SKIFF_CONFIG            Server YAML config; its database.path is used")
	fmt.Println("  SKIFF_ADMIN_CONFIG      Admin config path (default: ~/.config/skiff/admin.toml)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  skiff-admin user create --username alice --password s3cret --email alice@example.org")
	fmt.Println("  skiff-admin token issue --user alice --scope mail.read,mail.send --ttl 720h")
	fmt.Println("  skiff-admin token check <token> --scope mail.send")
	fmt.Println()
}

// openHub opens the database resolved from env or config file.
func openHub() (*hub.Hub, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	h, err := hub.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return h, nil
}

// newProvider wires an auth provider over the hub's storage views.
func newProvider(h *hub.Hub) *auth.Provider {
	return auth.NewProvider(h.Users(), h.Tokens(), auth.NewBcryptHasher(0), workpool.New(0))
}

// cmdUser handles user subcommands
func cmdUser(args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "create", "add":
		return cmdUserCreate(args)
	case "list", "ls":
		return cmdUserList()
	case "lock":
		return cmdUserSetStatus(args, identity.StatusLocked)
	case "unlock":
		return cmdUserSetStatus(args, identity.StatusActive)
	default:
		return fmt.Errorf("unknown user subcommand: %s (use create, list, lock, unlock)", subcmd)
	}
}

// cmdUserCreate provisions an account with its default mailboxes
func cmdUserCreate(args []string) error {
	var username, password, nickname, email string
	var admin bool

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--username", "-u":
			if i+1 < len(args) {
				username = args[i+1]
				i++
			}
		case "--password", "-p":
			if i+1 < len(args) {
				password = args[i+1]
				i++
			}
		case "--nickname", "-n":
			if i+1 < len(args) {
				nickname = args[i+1]
				i++
			}
		case "--email", "-e":
			if i+1 < len(args) {
				email = args[i+1]
				i++
			}
		case "--admin":
			admin = true
		}
	}

	if username == "" || password == "" {
		return fmt.Errorf("usage: user create --username <name> --password <password> [--nickname <name>] [--email <addr>] [--admin]")
	}

	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	ctx := context.Background()
	provider := newProvider(h)

	hash, err := provider.HashPassword(ctx, password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := h.ProvisionUser(ctx, username, hash)
	if err != nil {
		return fmt.Errorf("provisioning %s: %w", username, err)
	}

	if nickname != "" || email != "" || admin {
		user.Nickname = nickname
		user.EmailAddress = email
		if admin {
			user.Role = identity.RoleAdmin
		}
		if err := h.Users().Put(ctx, username, *user); err != nil {
			return fmt.Errorf("updating %s: %w", username, err)
		}
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Created account: %s\n", username)
	fmt.Printf("  Profile:    %s\n", user.ProfileID)
	fmt.Printf("  Role:       %s\n", user.Role)
	fmt.Printf("  Mailboxes:  %s\n", strings.Join(identity.DefaultMailboxes, ", "))

	return nil
}

// cmdUserList lists all accounts
func cmdUserList() error {
	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	entries, failed, err := h.Users().List(context.Background())
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Accounts")
	cyan.Println("  --------")

	if len(entries) == 0 {
		fmt.Println("  (no accounts)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  USERNAME\tNICKNAME\tEMAIL\tROLE\tSTATUS\tPROFILE")
	fmt.Fprintln(w, "  --------\t--------\t-----\t----\t------\t-------")

	for _, e := range entries {
		u := e.Value
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			u.Username, u.Nickname, u.EmailAddress, u.Role, u.Status, truncate(u.ProfileID, 12))
	}
	w.Flush()
	fmt.Println()

	for _, decodeErr := range failed {
		color.Yellow("  ! undecodable record: %v\n", decodeErr)
	}

	return nil
}

// cmdUserSetStatus locks or unlocks an account
func cmdUserSetStatus(args []string, status identity.Status) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: user %s <username>", map[identity.Status]string{
			identity.StatusLocked: "lock", identity.StatusActive: "unlock"}[status])
	}
	username := args[0]

	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	ctx := context.Background()
	user, err := h.Users().Find(ctx, username)
	if err != nil {
		return fmt.Errorf("finding %s: %w", username, err)
	}

	user.Status = status
	if err := h.Users().Put(ctx, username, *user); err != nil {
		return fmt.Errorf("updating %s: %w", username, err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Account %s is now %s\n", username, status)

	return nil
}

// cmdToken handles token subcommands
func cmdToken(args []string) error {
	subcmd := ""
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "issue", "create":
		return cmdTokenIssue(args)
	case "revoke", "rm", "delete":
		return cmdTokenRevoke(args)
	case "check":
		return cmdTokenCheck(args)
	default:
		return fmt.Errorf("usage: token issue|revoke|check")
	}
}

// cmdTokenIssue issues a token for an account
func cmdTokenIssue(args []string) error {
	var username, scopeArg string
	ttl := auth.DefaultTokenTTL

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--user", "-u":
			if i+1 < len(args) {
				username = args[i+1]
				i++
			}
		case "--scope", "-s":
			if i+1 < len(args) {
				scopeArg = args[i+1]
				i++
			}
		case "--ttl", "-t":
			if i+1 < len(args) {
				d, err := time.ParseDuration(args[i+1])
				if err != nil {
					return fmt.Errorf("invalid ttl: %w", err)
				}
				ttl = d
				i++
			}
		}
	}

	if username == "" {
		return fmt.Errorf("usage: token issue --user <username> [--scope a,b] [--ttl <duration>]")
	}

	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	ctx := context.Background()
	user, err := h.Users().Find(ctx, username)
	if err != nil {
		return fmt.Errorf("finding %s: %w", username, err)
	}

	rec, err := newProvider(h).IssueToken(ctx, user.ProfileID, parseScope(scopeArg), ttl)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Issued token for %s\n", username)
	fmt.Printf("  Token:    %s\n", rec.Token)
	fmt.Printf("  Scope:    %s\n", strings.Join(rec.Scope, ", "))
	fmt.Printf("  Expires:  %s\n", formatExpiry(rec.ExpiresAt))

	return nil
}

// cmdTokenRevoke revokes a token
func cmdTokenRevoke(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: token revoke <token>")
	}
	tokenKey := args[0]

	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.Tokens().Revoke(context.Background(), tokenKey); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Revoked token: %s\n", truncate(tokenKey, 12))

	return nil
}

// cmdTokenCheck shows a token and optionally checks a scope against it
func cmdTokenCheck(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: token check <token> [--scope a,b]")
	}
	tokenKey := args[0]
	args = args[1:]

	var scopeArg string
	for i := 0; i < len(args); i++ {
		if args[i] == "--scope" || args[i] == "-s" {
			if i+1 < len(args) {
				scopeArg = args[i+1]
				i++
			}
		}
	}

	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	ctx := context.Background()
	rec, err := h.Tokens().Find(ctx, tokenKey)
	if err != nil {
		return fmt.Errorf("finding token: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Token")
	cyan.Println("  -----")
	fmt.Printf("  Profile:  %s\n", rec.ProfileID)
	fmt.Printf("  App:      %s\n", rec.AppID)
	fmt.Printf("  Scope:    %s\n", strings.Join(rec.Scope, ", "))
	fmt.Printf("  Issued:   %s\n", time.Unix(rec.IssuedAt, 0).Format(time.RFC3339))
	fmt.Printf("  Expires:  %s\n", formatExpiry(rec.ExpiresAt))

	if rec.Expired(time.Now()) {
		color.Red("  Expired\n")
	}

	if scopeArg != "" {
		required := parseScope(scopeArg)
		if rec.Scope.CoversAll(required) {
			color.Green("  Scope %s: granted\n", scopeArg)
		} else {
			color.Red("  Scope %s: denied\n", scopeArg)
		}
	}
	fmt.Println()

	return nil
}

// cmdAudit reports referential integrity problems
func cmdAudit() error {
	h, err := openHub()
	if err != nil {
		return err
	}
	defer h.Close()

	findings, err := identity.CheckDanglingProfiles(context.Background(), h.Users(), h.Profiles())
	if err != nil {
		return fmt.Errorf("auditing: %w", err)
	}

	if len(findings) == 0 {
		color.Green("✓ No integrity problems found\n")
		return nil
	}

	color.Yellow("Found %d problem(s):\n", len(findings))
	for _, f := range findings {
		fmt.Printf("  %s\n", f.String())
	}

	return nil
}

// parseScope splits a comma-separated scope argument
func parseScope(s string) token.Scope {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	scope := make(token.Scope, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			scope = append(scope, p)
		}
	}
	return scope
}

func formatExpiry(expiresAt int64) string {
	if expiresAt == 0 {
		return "never"
	}
	return time.Unix(expiresAt, 0).Format(time.RFC3339)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
