package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pmkowal/chatsnap"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Registry  chatsnap.AdapterRegistry
	Extractor chatsnap.Extractor
	Converter chatsnap.Converter
	Writer    chatsnap.ExportWriter

	// Fetcher is wired only when the command asked for a live browser.
	Fetcher chatsnap.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log component activity to stderr"`

	Capture   CaptureCmd   `cmd:"" help:"Capture conversations and render their preview pages"`
	Export    ExportCmd    `cmd:"" help:"Export conversations to markdown, JSON, or rich-text HTML"`
	Platforms PlatformsCmd `cmd:"" help:"List supported chat platforms"`
	Preview   PreviewCmd   `cmd:"" help:"Render the sample preview page"`
}

// CaptureCmd is the "capture" subcommand.
type CaptureCmd struct {
	Inputs      []string      `arg:"" help:"Saved HTML files or conversation URLs"`
	Browser     bool          `short:"b" help:"Fetch URL inputs with a headless browser"`
	AutoPrint   bool          `help:"Mark the rendered preview to print once on open"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent capture limit"`
	Timeout     time.Duration `default:"10s" help:"Abandon a capture that has not produced a result within this window"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Inputs      []string `arg:"" help:"Saved HTML files or conversation URLs"`
	Format      string   `short:"f" default:"md" enum:"md,json,html" help:"Export format (md, json, html)"`
	Browser     bool     `short:"b" help:"Fetch URL inputs with a headless browser"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent export limit"`
}

// PlatformsCmd is the "platforms" subcommand.
type PlatformsCmd struct{}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	AutoPrint bool `help:"Mark the rendered preview to print once on open"`
}
