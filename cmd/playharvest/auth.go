package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"playharvest/pkg/auth"
	"playharvest/pkg/ui"
)

var authBaseURL string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage catalog API keys",
	Long: `Manage catalog gateway API keys.

Keys are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variable PLAYHARVEST_API_KEY (read only)`,
}

var authSetCmd = &cobra.Command{
	Use:   "set [profile]",
	Short: "Store an API key",
	Example: `  # Store the default key
  playharvest auth set

  # Store a key for another gateway
  playharvest auth set staging --base-url https://staging.example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List stored API keys",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authDeleteCmd = &cobra.Command{
	Use:   "delete [profile]",
	Short: "Remove a stored API key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuthDelete,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authDeleteCmd)

	authSetCmd.Flags().StringVar(&authBaseURL, "base-url", "", "gateway base URL to use with this key")
}

func profileArg(args []string) string {
	if len(args) > 0 {
		return strings.TrimSpace(args[0])
	}
	return auth.DefaultProfile
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	profile := profileArg(args)

	auth.ShowAPIKeyGuide(os.Stdout)

	fmt.Printf("API key for profile '%s' (hidden): ", profile)
	key, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if key == "" {
		return fmt.Errorf("API key is required")
	}

	cred := &auth.Credential{
		Profile: profile,
		APIKey:  key,
		BaseURL: authBaseURL,
	}
	if err := manager.Store(cred); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	ui.PrintSuccess(fmt.Sprintf("API key saved: %s (%s)", profile, auth.MaskKey(key)))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	ui.PrintInfo("Stores", strings.Join(manager.Sources(), ", "))

	creds, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list API keys: %w", err)
	}
	if len(creds) == 0 {
		ui.PrintInfo("No stored API keys", "Use 'playharvest auth set' to add one")
		return nil
	}

	ui.PrintHighlight("Stored API Keys")
	fmt.Println()
	for i, cred := range creds {
		sanitized := auth.Sanitize(cred)
		fmt.Printf("%d. Profile: %s\n", i+1, sanitized.Profile)
		fmt.Printf("   API Key: %s\n", sanitized.APIKey)
		if sanitized.BaseURL != "" {
			fmt.Printf("   Base URL: %s\n", sanitized.BaseURL)
		}
		if !sanitized.LastModified.IsZero() {
			fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}
	return nil
}

func runAuthDelete(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}
	profile := profileArg(args)

	if err := manager.Delete(profile); err != nil {
		return fmt.Errorf("failed to remove API key %s: %w", profile, err)
	}
	ui.PrintSuccess("API key removed: " + profile)
	return nil
}

// readPassword reads a secret from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
