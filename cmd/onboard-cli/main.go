package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/wizard"

	htmlrenderer "github.com/goliatone/go-onboard/pkg/renderers/html"
	"github.com/goliatone/go-onboard/pkg/renderers/tui"
)

func main() {
	source := flag.String("source", "", "step document path (embedded default if empty)")
	mode := flag.String("mode", "tui", "run mode: tui or html")
	output := flag.String("output", "", "output file (stdout if empty)")
	strict := flag.Bool("strict-hours", false, "reject working hours where closing is not after opening")
	verbose := flag.Bool("verbose", false, "log wizard internals to stderr")
	flag.Parse()

	doc, err := loadDocument(*source)
	if err != nil {
		log.Fatalf("Failed to load step document: %v", err)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to build logger: %v", err)
		}
		defer logger.Sync()
	}

	ctx := context.Background()

	switch *mode {
	case "tui":
		if err := runTUI(ctx, doc, *strict, *output, logger); err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(os.Stderr, "Aborted.")
				os.Exit(1)
			}
			log.Fatalf("Wizard failed: %v", err)
		}
	case "html":
		if err := runHTML(ctx, doc, *output, logger); err != nil {
			log.Fatalf("Failed to render steps: %v", err)
		}
	default:
		log.Fatalf("Unknown mode %q (want tui or html)", *mode)
	}
}

func loadDocument(source string) (schema.Document, error) {
	if source == "" {
		return schema.DefaultOnboarding()
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return schema.Document{}, err
	}
	return schema.Parse(data, filepath.Base(source))
}

func runTUI(ctx context.Context, doc schema.Document, strict bool, output string, logger *zap.Logger) error {
	options := []wizard.Option{wizard.WithLogger(logger)}
	if strict {
		options = append(options, wizard.WithStrictHours())
	}
	controller, err := wizard.New(doc, options...)
	if err != nil {
		return err
	}

	session := tui.NewSession(tui.WithLogger(logger))
	if err := session.Run(ctx, controller); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(controller.Values(), "", "  ")
	if err != nil {
		return err
	}
	return write(output, append(payload, '\n'))
}

func runHTML(ctx context.Context, doc schema.Document, output string, logger *zap.Logger) error {
	renderers := render.NewRegistry()
	renderers.MustRegister(htmlrenderer.New(htmlrenderer.WithLogger(logger)))

	renderer, err := renderers.Get("html")
	if err != nil {
		return err
	}

	var buf []byte
	for _, s := range doc.Steps {
		markup, err := renderer.RenderStep(ctx, s, render.StepOptions{})
		if err != nil {
			return fmt.Errorf("render step %q: %w", s.ID, err)
		}
		buf = append(buf, markup...)
		buf = append(buf, '\n')
	}
	return write(output, buf)
}

func write(output string, data []byte) error {
	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Output written to %s\n", output)
	return nil
}
