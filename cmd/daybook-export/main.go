package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"daybook/internal/config"
	"daybook/internal/storage/fs"
	"daybook/internal/store"
)

// Writes the full task table as CSV to a file, atomically. The output
// path defaults to tasks_YYYYMMDD.csv in the working directory.

func main() {
	cfg := config.Load()

	out := "tasks_" + time.Now().Format("20060102") + ".csv"
	args := os.Args[1:]
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "usage: daybook-export [output.csv]")
		os.Exit(2)
	}
	if len(args) == 1 {
		out = args[0]
	}

	st, err := store.OpenWithOptions(cfg.DBPath, store.OpenOptions{BusyTimeout: cfg.DBBusyTimeout})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := st.EnsureSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var buf bytes.Buffer
	if err := st.ExportTasks(ctx, &buf, store.TaskFilter{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := fs.WriteFileAtomic(out, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
}
