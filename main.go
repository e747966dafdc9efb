// Atomity - a terminal client for the ATOMITY analysis assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jeranaias/atomity/internal/attach"
	"github.com/jeranaias/atomity/internal/config"
	"github.com/jeranaias/atomity/internal/gemini"
	"github.com/jeranaias/atomity/internal/logging"
	"github.com/jeranaias/atomity/internal/ui/chat"
	"github.com/jeranaias/atomity/internal/ui/styles"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "atomity:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; the environment may carry GEMINI_API_KEY directly.
	_ = godotenv.Load()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("atomity requires an interactive terminal")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	logger, err := logging.New(dir, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := gemini.NewClient(config.APIKey(), gemini.WithLogger(logger))

	sessionOpts := []gemini.SessionOption{
		gemini.WithModel(cfg.Model),
		gemini.WithTemperature(cfg.Temperature),
		gemini.WithSessionLogger(logger),
	}
	if instr := cfg.SystemInstruction(); instr != "" {
		sessionOpts = append(sessionOpts, gemini.WithSystemInstruction(instr))
	}
	session := gemini.NewSession(client, sessionOpts...)

	runner := chat.NewStreamRunner(session, logger)
	pre := attach.NewPreprocessor(attach.WithLogger(logger))

	m := chat.New(styles.NewTheme(), runner, pre, session.Model(), cfg.UI, logger)

	p := tea.NewProgram(m, tea.WithAltScreen())
	runner.SetProgram(p)

	logger.Info("atomity starting",
		zap.String("model", session.Model()),
		zap.Bool("configured", client.IsConfigured()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}
