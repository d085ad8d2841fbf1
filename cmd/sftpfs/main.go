package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/sftpfs/sftpfs/cmd/sftpfs/commands"
	"github.com/sftpfs/sftpfs/pkg/errors"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		var sErr *errors.SFTPFSError
		if stderrors.As(err, &sErr) {
			fmt.Fprintln(os.Stderr, sErr.DetailedDiagnostic())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
