// Command hashpass prints a bcrypt hash for ADMIN_PASSWORD_HASH or
// OPERATOR_PASSWORD_HASH.
//
//	hashpass --cost 12 < password.txt
//	hashpass --password 's3cret'
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/event-ticket-dashboard/internal/utils"
)

func main() {
	password := pflag.StringP("password", "p", "", "password to hash (read from stdin when empty)")
	cost := pflag.IntP("cost", "c", bcrypt.DefaultCost, "bcrypt cost")
	check := pflag.String("check", "", "verify the password against this hash instead of hashing")
	pflag.Parse()

	plain := *password
	if plain == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "hashpass: no password given")
			os.Exit(2)
		}
		plain = strings.TrimRight(line, "\r\n")
	}

	if *check != "" {
		if utils.VerifyPassword(*check, plain) {
			fmt.Println("match")
			return
		}
		fmt.Println("no match")
		os.Exit(1)
	}

	hash, err := utils.HashPassword(plain, *cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashpass: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
