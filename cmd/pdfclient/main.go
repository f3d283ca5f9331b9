package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdf-processor/backend/internal/client"
	"github.com/pdf-processor/backend/internal/models"
	flag "github.com/spf13/pflag"
)

func main() {
	addr := flag.StringP("addr", "a", "localhost:50052", "server address (host:port or URL)")
	file := flag.StringP("file", "f", "", "PDF file to upload")
	name := flag.StringP("name", "n", "", "filename sent to the server (defaults to the file's base name)")
	timeout := flag.DurationP("timeout", "t", client.DefaultTimeout, "call timeout")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "--file is required")
		flag.Usage()
		os.Exit(2)
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read PDF file '%s': %v\n", *file, err)
		os.Exit(1)
	}

	uploadName := *name
	if uploadName == "" {
		uploadName = filepath.Base(*file)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	result, err := client.New(*addr).ProcessPdf(ctx, models.UploadRequest{
		Filename: uploadName,
		Content:  content,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not process PDF: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to format response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	fmt.Fprintf(os.Stderr, "status=%s elapsed=%s\n", result.ProcessingStatus, time.Since(start).Round(time.Millisecond))

	if !result.SavedSuccessfully {
		os.Exit(1)
	}
}
