// tbclient connects to an MCP tool server over stdio and runs an
// interactive query loop against Gemini, executing requested tool calls
// through the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/genbridge/toolbridge/bridge"
	"github.com/genbridge/toolbridge/config"
	"github.com/genbridge/toolbridge/driver"
	"github.com/genbridge/toolbridge/gateway"
	"github.com/genbridge/toolbridge/gemini"
	"github.com/joho/godotenv"
)

var logger = xlog.NewPackageLogger("github.com/genbridge/toolbridge", "tbclient")

func main() {
	flagModel := flag.String("model", "", "Gemini model identifier")
	flagCfg := flag.String("cfg", "", "optional YAML config file")
	flagDebug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	if *flagDebug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		xlog.SetGlobalLogLevel(xlog.INFO)
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: tbclient [flags] <path to server script>")
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *flagModel, *flagCfg); err != nil {
		logger.KV(xlog.ERROR, "err", err.Error())
		os.Exit(1)
	}
}

func run(scriptPath, model, cfgFile string) error {
	// .env is optional; the environment may carry the key already
	_ = godotenv.Load()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return errors.New("GEMINI_API_KEY is not set; add it to your environment or .env file")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	logger.KV(xlog.DEBUG, "config", cfg.String())

	ctx := context.Background()

	opts := []gemini.Option{
		gemini.WithAPIKey(apiKey),
		gemini.WithDefaultModel(values.StringsCoalesce(model, cfg.Model)),
	}
	if cfg.Temperature != 0 {
		opts = append(opts, gemini.WithDefaultTemperature(cfg.Temperature))
	}
	if cfg.TopP != 0 {
		opts = append(opts, gemini.WithDefaultTopP(cfg.TopP))
	}
	if cfg.TopK != 0 {
		opts = append(opts, gemini.WithDefaultTopK(cfg.TopK))
	}
	if cfg.MaxTokens != 0 {
		opts = append(opts, gemini.WithDefaultMaxTokens(cfg.MaxTokens))
	}
	client, err := gemini.New(ctx, opts...)
	if err != nil {
		return err
	}

	gw, err := gateway.Connect(ctx, scriptPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = gw.Close()
	}()

	descriptors, err := gw.Tools(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.Name)
	}
	logger.KV(xlog.INFO, "status", "connected", "model", client.GetName(), "tools", names)

	drv := driver.New(client, gw, bridge.FunctionDeclarations(descriptors))
	return driver.ChatLoop(ctx, os.Stdin, os.Stdout, drv.ProcessQuery)
}
