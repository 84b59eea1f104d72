package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jfmyers9/ample/internal/secrets"
	"github.com/spf13/cobra"
)

var (
	authPassword bool
	authSecret   bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store Last.fm credentials in the OS keyring",
	Long: `Store Last.fm credentials in the OS keyring.

ample authenticates with Last.fm using your account password and an API
secret, exchanged once for a long-lived session token. This command
prompts for the values and stores them in the OS credential manager;
nothing is written to the config file.

Select what to store with --password and --secret. With no flags both
are prompted for. Storing a new value clears the cached session token
so the daemon re-authenticates on its next start.

The API key and username are not secret and are read by the daemon from
the AMPLE_API_KEY and AMPLE_USERNAME environment variables. You can get
API credentials from: https://www.last.fm/api/account/create`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.Flags().BoolVar(&authPassword, "password", false, "Store the Last.fm account password")
	authCmd.Flags().BoolVar(&authSecret, "secret", false, "Store the Last.fm API secret")
}

func runAuth(cmd *cobra.Command, args []string) error {
	// No flags means store both.
	if !authPassword && !authSecret {
		authPassword = true
		authSecret = true
	}

	store := secrets.Keyring{}
	reader := bufio.NewReader(os.Stdin)

	if authPassword {
		if err := storeEntry(reader, store, secrets.EntryPassword, "Last.fm password"); err != nil {
			return err
		}
	}
	if authSecret {
		if err := storeEntry(reader, store, secrets.EntryAPISecret, "Last.fm API secret"); err != nil {
			return err
		}
	}

	// Force a fresh session bootstrap with the new credentials.
	if err := store.Delete(secrets.EntrySessionToken); err != nil {
		return err
	}

	fmt.Println("\n✓ Credentials stored")
	fmt.Println("\nYou can now use 'ample daemon' to start scrobbling.")
	return nil
}

func storeEntry(reader *bufio.Reader, store secrets.Keyring, entry, label string) error {
	fmt.Printf("Enter your %s: ", label)
	value, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", label, err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s must not be empty", label)
	}
	return store.Set(entry, value)
}
