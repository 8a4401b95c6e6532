// Command admintoken prints a bearer token for the admin API, signed with
// the JWT_SECRET the server reads.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"suncoast/internal/auth"
	"suncoast/internal/config"
)

func main() {
	subject := flag.String("sub", "admin", "token subject")
	role := flag.String("role", auth.RoleAdmin, "token role")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	cfg, _ := config.Load()
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}
	token, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer).Issue(*subject, *role, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
