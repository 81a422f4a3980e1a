// Command get-tokens prints the operator tokens for a given primary
// secret without starting the server. Useful when the server log with
// the startup banner is gone.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/metastable-void/alarkhabil-server/internal/auth"
	"github.com/metastable-void/alarkhabil-server/internal/secret"
)

func main() {
	value := os.Getenv("ALARKHABIL_PRIMARY_SECRET")
	if value == "" {
		fmt.Fprintln(os.Stderr, "WARNING: ALARKHABIL_PRIMARY_SECRET is not set, tokens are for a throwaway secret")
	}
	authSvc := auth.NewService(nil, secret.FromEnvValue(value))

	out := map[string]string{
		"invite_making_token": authSvc.InviteMakingToken(),
		"admin_token":         authSvc.AdminToken(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
