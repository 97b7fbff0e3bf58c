package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nbenliogludev/go-form-filler/internal/browser"
	"github.com/nbenliogludev/go-form-filler/internal/form"
)

func newFieldsCmd(a *app) *cobra.Command {
	var htmlFile string

	cmd := &cobra.Command{
		Use:   "fields [url]",
		Short: "Print the form fields and resolved labels of a page as JSON",
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case htmlFile == "" && len(args) != 1:
				return fmt.Errorf("requires a url or --html")
			case htmlFile != "" && len(args) != 0:
				return fmt.Errorf("a url cannot be combined with --html")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if htmlFile != "" {
				return a.fieldsFromFile(cmd.Context(), cmd.OutOrStdout(), htmlFile)
			}
			return a.fieldsFromURL(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().StringVar(&htmlFile, "html", "", "read the form from a local HTML file instead of a browser")
	addBrowserFlags(cmd)
	return cmd
}

func (a *app) fieldsFromFile(ctx context.Context, out io.Writer, path string) error {
	page, err := browser.LoadStaticPage(path)
	if err != nil {
		return fmt.Errorf("load html: %w", err)
	}
	return a.printFields(ctx, out, page)
}

func (a *app) fieldsFromURL(ctx context.Context, out io.Writer, target string) error {
	if err := validateURL(target); err != nil {
		return err
	}

	session, err := a.open(ctx, a.cfg.Browser, a.logger)
	if err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	defer session.Close()

	if err := session.Navigate(ctx, target); err != nil {
		return err
	}
	return a.printFields(ctx, out, session)
}

func (a *app) printFields(ctx context.Context, out io.Writer, doc browser.Document) error {
	fields, err := form.NewExtractor(a.logger).Extract(ctx, doc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(fields)
}
