package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chriswill/rippled-network-crawler/internal/config"
	"github.com/chriswill/rippled-network-crawler/internal/crawler"
	"github.com/chriswill/rippled-network-crawler/internal/log"
	"github.com/chriswill/rippled-network-crawler/internal/model"
	"github.com/chriswill/rippled-network-crawler/internal/report"
	"github.com/chriswill/rippled-network-crawler/internal/transport"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [host[:port]...]",
		Short: "Crawl a rippled network starting from the given entry nodes",
		Long: `Crawl discovers the topology of a rippled peer-to-peer network.

It fetches the entry node's /crawl document, normalizes every reported
peer address and public key, and breadth-first visits all newly
discovered peers under a global concurrency cap. Unreachable nodes are
recorded with a typed error code; the crawl continues on all other
branches and never retries.

Examples:
  # Crawl starting from one node (default peer port 51235)
  rippled-network-crawler crawl s1.ripple.com

  # Crawl from several vantage points concurrently
  rippled-network-crawler crawl s1.ripple.com s2.ripple.com

  # Use a named network profile from the config file
  rippled-network-crawler crawl --network testnet

  # Emit a machine-readable snapshot
  rippled-network-crawler crawl --json -o snapshot.json s1.ripple.com

Configuration file (.rippled-crawler) example:
  defaults:
    port: 51235
  networks:
    mainnet:
      seeds:
        - s1.ripple.com
        - s2.ripple.com
    testnet:
      seeds:
        - s.altnet.rippletest.net
      maxInFlight: 10`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Traversal flags
	cmd.Flags().Uint16P("port", "p", config.DefaultPeerPort,
		"Default peer port substituted when a node reports none")
	cmd.Flags().IntP("max-inflight", "i", config.DefaultMaxInFlight,
		"Maximum number of concurrently outstanding fetches per traversal")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each individual fetch")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum /crawl response body size in bytes")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent traversals when several entry nodes are given")

	// Transport flags
	cmd.Flags().String("proxy", "",
		"Route fetches through a SOCKS5 proxy at the given host:port")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .rippled-crawler in current or home directory)")
	cmd.Flags().StringP("network", "n", "",
		"Named network profile from the configuration file")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Context with signal handling for graceful shutdown: on interrupt
	// no new fetches are admitted and in-flight ones drain.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, draining in-flight fetches...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its
// parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags, resolving the
// optional network profile from the configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.PeerPort, err = cmd.Flags().GetUint16("port")
	if err != nil {
		return nil, err
	}

	cfg.MaxInFlight, err = cmd.Flags().GetInt("max-inflight")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.NetworkName, err = cmd.Flags().GetString("network")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Load network profiles. An explicitly specified config file must
	// exist; an absent default file is fine.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Networks, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Networks = &config.File{Networks: make(map[string]config.NetworkConfig)}
	}

	// Positional arguments are entry nodes; a network profile
	// contributes its seeds and overrides.
	cfg.EntryNodes = args

	if cfg.NetworkName != "" {
		network, ok := cfg.Networks.GetNetwork(cfg.NetworkName)
		if !ok {
			return nil, fmt.Errorf("unknown network %q in %s", cfg.NetworkName, configPath)
		}
		cfg.EntryNodes = append(cfg.EntryNodes, network.Seeds...)
		if network.Port != 0 && !cmd.Flags().Changed("port") {
			cfg.PeerPort = network.Port
		}
		if network.MaxInFlight != 0 && !cmd.Flags().Changed("max-inflight") {
			cfg.MaxInFlight = network.MaxInFlight
		}
	}

	return cfg, nil
}

// runCrawl executes the traversal(s) and writes reports.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"entries", cfg.EntryNodes,
		"peerPort", cfg.PeerPort,
		"maxInFlight", cfg.MaxInFlight,
		"timeout", cfg.Timeout,
	)

	clientOpts := []transport.ClientOption{
		transport.WithTimeout(cfg.Timeout),
		transport.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.ProxyAddress != "" {
		clientOpts = append(clientOpts, transport.WithSOCKS5Proxy(cfg.ProxyAddress))
	}

	client, err := transport.NewClient(clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create transport client: %w", err)
	}

	newController := func() *crawler.Controller {
		return crawler.NewController(client,
			crawler.WithMaxInFlight(cfg.MaxInFlight),
			crawler.WithDefaultPort(cfg.PeerPort),
			crawler.WithLogger(logger),
			crawler.WithObserver(progressObserver(logger)),
		)
	}

	if len(cfg.EntryNodes) == 1 {
		return runSingleCrawl(ctx, cfg, newController(), logger)
	}

	return runBatchCrawl(ctx, cfg, newController, logger)
}

// batchReportFile derives a per-entry report path by suffixing the index
// before the extension, so sessions finishing in any order never
// overwrite each other's files.
func batchReportFile(path string, index int) string {
	if path == "" {
		return ""
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), index+1, ext)
}

// progressObserver logs each resolved fetch at debug level.
func progressObserver(logger *slog.Logger) func(crawler.Event) {
	return func(ev crawler.Event) {
		if ev.Code != "" {
			logger.Debug("node failed", "addr", ev.Addr, "hop", ev.Hop, "code", ev.Code)
			return
		}
		logger.Debug("node crawled",
			"addr", ev.Addr,
			"hop", ev.Hop,
			"peers", ev.Peers,
			"newly_queued", ev.NewlyQueued,
		)
	}
}

// runSingleCrawl crawls one entry node.
func runSingleCrawl(ctx context.Context, cfg *config.Config, controller *crawler.Controller, logger *slog.Logger) error {
	entry := cfg.EntryNodes[0]

	fmt.Printf("Crawling network from %s...\n", entry)
	start := time.Now()

	session, err := controller.Run(ctx, entry)
	if err != nil {
		// A cancelled traversal still produced a partial session worth
		// reporting; an internal fault or bad entry did not.
		if session == nil {
			return fmt.Errorf("crawl failed: %w", err)
		}
		logger.Warn("traversal ended early", "entry", entry, "error", err)
	}

	fmt.Printf("Crawl completed in %s: %d nodes, %d failures\n\n",
		time.Since(start).Round(time.Millisecond),
		session.NodeCount(), session.ErrorCount(),
	)

	if werr := outputReport(cfg, cfg.ReportFile, session); werr != nil {
		return werr
	}
	return err
}

// runBatchCrawl crawls multiple entry nodes concurrently, streaming each
// session's report as its traversal completes.
func runBatchCrawl(ctx context.Context, cfg *config.Config, newController func() *crawler.Controller, logger *slog.Logger) error {
	fmt.Printf("Starting batch crawl of %d entry nodes (concurrency: %d)...\n\n",
		len(cfg.EntryNodes), cfg.BatchSize)

	start := time.Now()

	batch := crawler.NewBatch(newController,
		crawler.WithBatchConcurrency(cfg.BatchSize),
		crawler.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	err := batch.RunWithCallback(ctx, cfg.EntryNodes, func(res crawler.Result, index int) {
		mu.Lock()
		defer mu.Unlock()

		if res.Session == nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Crawl failed for %s: %v\n",
				index+1, len(cfg.EntryNodes), res.Entry, res.Err)
			return
		}

		fmt.Printf("[%d/%d] Crawl completed: %s (%d nodes, %d failures)\n",
			index+1, len(cfg.EntryNodes), res.Entry,
			res.Session.NodeCount(), res.Session.ErrorCount())

		if werr := outputReport(cfg, batchReportFile(cfg.ReportFile, index), res.Session); werr != nil {
			logger.Error("report failed", "entry", res.Entry, "error", werr)
		}
	})

	fmt.Printf("\nBatch crawl completed in %s\n", time.Since(start).Round(time.Millisecond))

	return err
}

// outputReport writes the session report in the requested format.
// reportFile is per invocation: batch crawls pass a per-entry path so
// sessions never overwrite each other.
func outputReport(cfg *config.Config, reportFile string, session *model.CrawlSession) error {
	var output *os.File
	if reportFile != "" {
		dir := filepath.Dir(reportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(reportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(session)
	return err
}
