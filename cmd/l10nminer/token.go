package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"l10nminer/pkg/auth"
	"l10nminer/pkg/ui"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage GitHub personal access tokens",
	Long: `Manage stored GitHub personal access tokens securely.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variable GITHUB_TOKEN (read-only fallback)

A token needs no scopes for public issue search, but raises the search
rate limit from 10 to 30 requests per minute.`,
}

// tokenStoreCmd represents the token store command
var tokenStoreCmd = &cobra.Command{
	Use:   "store [name]",
	Short: "Store a GitHub token securely",
	Long: `Store a GitHub personal access token in the system keychain or an
encrypted file.

If no name is provided the token is stored as 'default'. The token value
is read with input hidden. Run 'l10nminer token guide' for step-by-step
instructions on creating a token.`,
	Example: `  # Store the default token
  l10nminer token store

  # Store a second token under a name
  l10nminer token store work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTokenStore,
}

// tokenShowCmd represents the token show command
var tokenShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a stored token with its value masked",
	Args:  cobra.MaximumNArgs(1),
	Run:   runTokenShow,
}

// tokenListCmd represents the token list command
var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored tokens",
	Long:  `List all stored GitHub tokens with their values masked.`,
	Run:   runTokenList,
}

// tokenRemoveCmd represents the token remove command
var tokenRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a stored token",
	Long: `Remove a stored GitHub token.

If no name is provided, you will be shown a list of stored tokens to
choose from. You can also remove all tokens at once.`,
	Example: `  # Interactive removal
  l10nminer token remove

  # Remove a specific token
  l10nminer token remove work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTokenRemove,
}

// tokenGuideCmd represents the token guide command
var tokenGuideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show how to create a GitHub personal access token",
	Run: func(cmd *cobra.Command, args []string) {
		auth.ShowTokenCreationGuide()
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenStoreCmd)
	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenListCmd)
	tokenCmd.AddCommand(tokenRemoveCmd)
	tokenCmd.AddCommand(tokenGuideCmd)
}

func runTokenStore(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	name := "default"
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}
	if name == "" {
		ui.PrintError("Token name is required", "")
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	// Check if token already exists
	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\n⚠️  Token '%s' already exists. Update it? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\n🔐 Enter your token (it will be hidden as you type):")
	fmt.Println()

	// Get token with validation
	var value string
	for {
		fmt.Print("GitHub personal access token: ")
		value, err = readSecret()
		if err != nil {
			ui.PrintError("Failed to read token", err.Error())
			os.Exit(1)
		}

		// Basic validation
		if len(value) < 20 {
			fmt.Println("\n❌ That doesn't look like a valid token.")
			fmt.Println("   Classic tokens start with ghp_ and are 40+ characters.")
			fmt.Println("   Fine-grained tokens start with github_pat_.")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	// Optional note
	fmt.Print("\n📝 Note (press Enter to skip): ")
	note, _ := reader.ReadString('\n')
	note = strings.TrimSpace(note)

	token := &auth.Token{
		Name:         name,
		Value:        value,
		Note:         note,
		LastModified: time.Now(),
	}

	// Show what we're about to store
	sanitized := auth.SanitizeToken(token)
	fmt.Println("\n📋 Summary:")
	fmt.Printf("   Name: %s\n", sanitized.Name)
	fmt.Printf("   Token: %s\n", sanitized.Value)
	if note != "" {
		fmt.Printf("   Note: %s\n", note)
	}

	fmt.Println("\n💾 Storing token securely...")
	if err := manager.Store(token); err != nil {
		ui.PrintError("Failed to store token", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Token saved: " + name)

	// Show where the token is stored
	fmt.Println("\n🔒 Security Information:")
	fmt.Println("   Your token is stored in:")
	if auth.IsKeyringAvailable() {
		fmt.Println("   • System keychain (primary)")
	}
	fmt.Println("   • Encrypted file (backup)")

	fmt.Println("\n📖 Quick Start:")
	fmt.Println("   Start a harvest:")
	fmt.Println("   $ l10nminer crawl --start-year 2020 --end-year 2023")
	fmt.Println("\n   Show more options:")
	fmt.Println("   $ l10nminer crawl --help")
}

func runTokenShow(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	var token *auth.Token
	if len(args) > 0 {
		token, err = manager.Retrieve(args[0])
	} else {
		token, err = manager.RetrieveDefault()
	}
	if err != nil {
		ui.PrintError("Token not found", err.Error())
		fmt.Println("\nStore one with:")
		fmt.Println("  l10nminer token store")
		os.Exit(1)
	}

	sanitized := auth.SanitizeToken(token)
	fmt.Printf("Name: %s\n", sanitized.Name)
	fmt.Printf("Token: %s\n", sanitized.Value)
	if sanitized.Note != "" {
		fmt.Printf("Note: %s\n", sanitized.Note)
	}
	if !sanitized.LastModified.IsZero() {
		fmt.Printf("Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
	}
}

func runTokenList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	tokens, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list tokens", err.Error())
		os.Exit(1)
	}

	if len(tokens) == 0 {
		ui.PrintInfo("No stored tokens", "Use 'l10nminer token store' to add one")
		return
	}

	ui.PrintHighlight("Stored Tokens")
	fmt.Println()

	for i, token := range tokens {
		sanitized := auth.SanitizeToken(token)
		fmt.Printf("%d. Name: %s\n", i+1, sanitized.Name)
		fmt.Printf("   Token: %s\n", sanitized.Value)
		if sanitized.Note != "" {
			fmt.Printf("   Note: %s\n", sanitized.Note)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

func runTokenRemove(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	if len(args) > 0 {
		name := args[0]
		if err := manager.Delete(name); err != nil {
			ui.PrintError("Failed to remove token", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Token removed: " + name)
		return
	}

	// List tokens and ask which to remove
	tokens, err := manager.List()
	if err != nil || len(tokens) == 0 {
		ui.PrintError("No stored tokens found", "")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(tokens) == 1 {
		// Only one token, confirm deletion
		token := tokens[0]
		fmt.Printf("Remove token '%s'? (y/N): ", token.Name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}

		if err := manager.Delete(token.Name); err != nil {
			ui.PrintError("Failed to remove token", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Token removed: " + token.Name)
		return
	}

	// Multiple tokens, show menu
	fmt.Println("Select token to remove:")
	for i, token := range tokens {
		fmt.Printf("  %d. %s\n", i+1, token.Name)
	}
	fmt.Printf("  %d. Remove all tokens\n", len(tokens)+1)
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	switch {
	case choice == 0:
		return
	case choice == len(tokens)+1:
		fmt.Print("Remove ALL tokens? This cannot be undone! (yes/N): ")
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirm) != "yes" {
			return
		}

		if err := manager.DeleteAll(); err != nil {
			ui.PrintError("Failed to remove all tokens", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("All tokens removed")
	case choice > 0 && choice <= len(tokens):
		token := tokens[choice-1]
		if err := manager.Delete(token.Name); err != nil {
			ui.PrintError("Failed to remove token", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Token removed: " + token.Name)
	default:
		ui.PrintError("Invalid choice", "")
		os.Exit(1)
	}
}

// readSecret reads a secret from stdin without echoing
func readSecret() (string, error) {
	// Try to read without echo
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after input
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
