package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/amanthanvi/mediahub/internal/hospital"
)

func main() {
	var dbPath string
	flag.StringVar(&dbPath, "db", "hospital.db", "path to the report database")
	flag.Parse()

	if err := hospital.Run(context.Background(), dbPath, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hospitalreport: %v\n", err)
		os.Exit(1)
	}
}
