package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/civicwatch/internal/client/ctl"
)

func main() {
	os.Exit(ctl.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
