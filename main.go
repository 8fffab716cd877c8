package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parisxmas/rosterfill/internal/config"
	"github.com/parisxmas/rosterfill/internal/formmap"
	"github.com/parisxmas/rosterfill/internal/gelf"
	"github.com/parisxmas/rosterfill/internal/handler"
	"github.com/parisxmas/rosterfill/internal/pdftool"
	"github.com/parisxmas/rosterfill/internal/router"
	"github.com/parisxmas/rosterfill/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr, "rosterfill")
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			defer gelfWriter.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}
	if cfg.IsDebug() {
		log.Printf("Debug: %s", cfg)
	}

	table, err := formmap.LoadTable(cfg.FieldMapPath)
	if err != nil {
		log.Fatalf("Failed to load field map: %v", err)
	}

	tool := pdftool.NewJar(cfg.JavaBin, cfg.ParserPath)
	tool.Timeout = cfg.ToolTimeout
	tool.Strict = cfg.StrictStderr
	tool.Debug = cfg.IsDebug()

	merger, err := service.NewMerger(cfg.MergeBackend, tool)
	if err != nil {
		log.Fatalf("Failed to create merger: %v", err)
	}

	// Services
	catalog := service.NewCatalog(cfg.PDFDirectory)
	composer := service.NewComposer(catalog, service.NewFiller(tool), merger, cfg.Variant, cfg.RosterTemplate)
	docSvc := service.NewDocumentService(cfg.PDFDirectory)
	subSvc := service.NewSubmissionService(table, composer, docSvc, cfg.ScratchDir)

	// Handlers
	subH := handler.NewSubmissionHandler(subSvc, catalog, cfg.Variant, cfg.MaxBody)
	var docH *handler.DocumentHandler
	if cfg.Variant == service.VariantRoster {
		docH = handler.NewDocumentHandler(docSvc, cfg.MaxBody)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(subH, docH),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("rosterfill (%s variant) serving %s on %s", cfg.Variant, cfg.PDFDirectory, cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Warning: shutdown: %v", err)
	}
	log.Printf("Server stopped")
}
