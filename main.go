package main

import "github.com/lmsecure/email-dumper/internal/cli"

func main() {
	cli.Execute()
}
