// tbserver is a single-tool MCP server over stdio: run_command executes a
// shell command in the workspace directory and returns its output.
package main

import (
	"flag"
	"io"
	"os"
	"sync"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/genbridge/toolbridge/tools"
	"github.com/genbridge/toolbridge/tools/terminal"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

var logger = xlog.NewPackageLogger("github.com/genbridge/toolbridge", "tbserver")

func main() {
	flagWorkdir := flag.String("workdir", "", "working directory for commands (default ~/toolbridge/output)")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.INFO)

	if err := run(values.StringsCoalesce(*flagWorkdir, os.Getenv("TOOLBRIDGE_WORKSPACE"))); err != nil {
		logger.KV(xlog.ERROR, "err", err.Error())
		os.Exit(1)
	}
}

func run(workdir string) error {
	term, err := terminal.New(workdir)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	in := &eofSignalReader{r: os.Stdin, done: done}

	server := mcp.NewServer(stdio.NewStdioServerTransportWithIO(in, os.Stdout),
		mcp.WithName("toolbridge-terminal"),
		mcp.WithVersion("0.1.0"),
	)
	if err := term.RegisterMCP(server); err != nil {
		return err
	}

	logger.KV(xlog.INFO, "status", "serving", "workdir", term.Workdir(),
		"tools", tools.GetDescriptions(term))

	if err := server.Serve(); err != nil {
		return err
	}

	// Serve returns once the reader loop is running; exit when the client
	// end of the pipe is gone.
	<-done
	logger.KV(xlog.INFO, "status", "stdin closed")
	return nil
}

// eofSignalReader closes done when the underlying reader reaches EOF.
type eofSignalReader struct {
	r    io.Reader
	done chan struct{}
	once sync.Once
}

func (r *eofSignalReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err == io.EOF {
		r.once.Do(func() { close(r.done) })
	}
	return n, err
}
