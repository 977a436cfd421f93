package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowAPIKeyGuide prints where the gateway API key comes from and the
// order in which it is looked up
func ShowAPIKeyGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "CATALOG GATEWAY API KEY")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "playharvest talks to a google-play-scraper compatible REST gateway.")
	fmt.Fprintln(w, "A gateway you run locally usually needs no key. Hosted gateways expect")
	fmt.Fprintln(w, "one in the X-API-Key header.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Lookup order when a harvest starts:")
	fmt.Fprintln(w, "  1. catalog.api_key in the config file")
	fmt.Fprintln(w, "  2. the system keychain (playharvest auth set)")
	fmt.Fprintln(w, "  3. the encrypted credentials file in the config directory")
	fmt.Fprintf(w, "  4. the %s environment variable\n", EnvAPIKey)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Set %s to choose the passphrase that protects the\n", EnvPassphrase)
	fmt.Fprintln(w, "encrypted file; otherwise one is generated beside it.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
}
