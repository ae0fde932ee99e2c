// Package cli provides the account command-line client.
//
// With arguments it runs one command and exits:
//
//	accounts-cli [-a host:port] register alice@example.com
//	accounts-cli verify <token>
//
// Without arguments it starts an interactive prompt accepting the same
// commands. Passwords are always read from the terminal without echo.
package cli
