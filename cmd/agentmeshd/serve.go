/*
 * MIT License
 *
 * Copyright (c) 2026 AgentMesh Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/agentmesh/agentmesh/agent"
	"github.com/agentmesh/agentmesh/host"
	"github.com/agentmesh/agentmesh/log"
	"github.com/agentmesh/agentmesh/remote"
)

type serveFlags struct {
	host         string
	port         int
	maxInstances int
	timeout      time.Duration
	configFile   string
	logLevel     string
}

// serveFile is the YAML shape of --config. Values present in the file
// override the corresponding flags.
type serveFile struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	MaxInstances int           `yaml:"max_instances"`
	Timeout      time.Duration `yaml:"timeout"`
	LogLevel     string        `yaml:"log_level"`
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the agent host server",
		Long:  "Start the agent host server and serve remote agent instances until SIGINT or SIGTERM.",
		RunE:  flags.runServe,
	}

	cmd.Flags().StringVar(&flags.host, "host", "127.0.0.1", "Address to bind to")
	cmd.Flags().IntVar(&flags.port, "port", 0, "Port to bind to (0 picks an ephemeral port)")
	cmd.Flags().IntVar(&flags.maxInstances, "max-instances", 0, "Cap on concurrently executing instances (0 keeps the default)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Synchronous call timeout (0 keeps the default)")
	cmd.Flags().StringVar(&flags.configFile, "config", "", "YAML config file overriding the flags")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug|info|warning|error)")

	return cmd
}

func (f *serveFlags) runServe(cmd *cobra.Command, _ []string) error {
	if err := f.applyConfigFile(); err != nil {
		return err
	}

	logger := log.New(parseLevel(f.logLevel), os.Stderr)

	opts := []remote.Option{}
	if f.timeout > 0 {
		opts = append(opts, remote.WithCallTimeout(f.timeout))
	}
	if f.maxInstances > 0 {
		opts = append(opts, remote.WithMaxConcurrentInstances(f.maxInstances))
	}
	config := remote.NewConfig(f.host, f.port, opts...)

	server, err := host.New(config,
		host.WithLogger(logger),
		host.WithKinds(new(agent.EchoAgent)),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := server.Start(ctx); err != nil {
		return err
	}
	logger.Infof("agentmeshd serving on %s:%d", server.Host(), server.Port())

	<-ctx.Done()
	logger.Info("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(stopCtx)
}

// applyConfigFile loads --config if given; file values take precedence
// over flags.
func (f *serveFlags) applyConfigFile() error {
	if f.configFile == "" {
		return nil
	}
	payload, err := os.ReadFile(f.configFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var file serveFile
	if err := yaml.Unmarshal(payload, &file); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if file.Host != "" {
		f.host = file.Host
	}
	if file.Port != 0 {
		f.port = file.Port
	}
	if file.MaxInstances != 0 {
		f.maxInstances = file.MaxInstances
	}
	if file.Timeout != 0 {
		f.timeout = file.Timeout
	}
	if file.LogLevel != "" {
		f.logLevel = file.LogLevel
	}
	return nil
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warning", "warn":
		return log.WarningLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
