package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"aimarketer/internal/client"
	"aimarketer/internal/domain"
	"aimarketer/internal/editor"
	"aimarketer/internal/imaging"
	"aimarketer/internal/infra"
	"aimarketer/internal/storage"
)

const defaultRelayURL = "http://localhost:8080"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "studio",
		Short:        "Generate and edit marketing images",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("out", ".", "Directory exported files are written to")
	root.PersistentFlags().Bool("verbose", false, "Log debug output to stderr")

	root.AddCommand(newGenerateCmd(), newExportCmd(), newPresetsCmd(), newStylesCmd())
	return root
}

func registerAdjustmentFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "Preset applied before --set values (Reset, Vibrant, B&W, Retro, Dreamy, Psychedelic)")
	cmd.Flags().StringArray("set", nil, "Numeric adjustment as field=value, repeatable (e.g. --set blur=2)")
	cmd.Flags().String("text", "", "Overlay text")
	cmd.Flags().String("font", "", "Overlay font family")
	cmd.Flags().String("color", "", "Overlay text color (#rgb or #rrggbb)")
	cmd.Flags().String("format", string(editor.FormatPNG), "Output format: jpeg, webp or png")
}

// adjustmentsFromFlags edits a starting from the command's flags.
func adjustmentsFromFlags(cmd *cobra.Command, a editor.Adjustments) (editor.Adjustments, error) {
	if name, _ := cmd.Flags().GetString("preset"); name != "" {
		p, ok := editor.LookupPreset(name)
		if !ok {
			return a, fmt.Errorf("unknown preset %q", name)
		}
		a = p.Apply(a)
	}
	sets, _ := cmd.Flags().GetStringArray("set")
	for _, kv := range sets {
		field, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return a, fmt.Errorf("--set %q: expected field=value", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return a, fmt.Errorf("--set %q: %w", kv, err)
		}
		if err := a.SetNumber(editor.Field(strings.TrimSpace(field)), v); err != nil {
			return a, err
		}
	}
	if cmd.Flags().Changed("text") {
		text, _ := cmd.Flags().GetString("text")
		a.SetText(text)
	}
	if font, _ := cmd.Flags().GetString("font"); font != "" {
		if err := a.SetFontFamily(font); err != nil {
			return a, err
		}
	}
	if color, _ := cmd.Flags().GetString("color"); color != "" {
		if err := a.SetTextColor(color); err != nil {
			return a, err
		}
	}
	format, _ := cmd.Flags().GetString("format")
	if err := a.SetFormat(format); err != nil {
		return a, err
	}
	return a, nil
}

func newLogger(cmd *cobra.Command) infra.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return infra.NewLogger("development", "studio").Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	}
	return zerolog.Nop()
}

func newStore(cmd *cobra.Command) (*storage.FileStore, error) {
	out, _ := cmd.Flags().GetString("out")
	return storage.NewFileStore(out)
}

func save(cmd *cobra.Command, store *storage.FileStore, art *imaging.Artifact) error {
	key, err := store.Write(cmd.Context(), art.Filename, art.Data)
	if err != nil {
		return err
	}
	path, _ := store.Path(key)
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%dx%d\t%s\n", path, art.Width, art.Height, art.Filter)
	return nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate PROMPT",
		Short: "Generate an image through the relay and save an edited export",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			relayURL, _ := cmd.Flags().GetString("relay")
			style, _ := cmd.Flags().GetString("style")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			logger := newLogger(cmd)

			relay, err := client.NewRelayClient(client.Options{BaseURL: relayURL, Timeout: timeout, Logger: &logger})
			if err != nil {
				return err
			}
			session := editor.NewSession()
			session.SetPrompt(strings.Join(args, " "))
			if err := session.SetStyle(style); err != nil {
				return err
			}
			if err := session.Submit(cmd.Context(), relay); err != nil {
				if msg := session.Err(); msg != "" {
					return fmt.Errorf("generation failed: %s", msg)
				}
				return fmt.Errorf("generation failed: %w", err)
			}
			if err := session.Update(func(a *editor.Adjustments) error {
				next, err := adjustmentsFromFlags(cmd, *a)
				*a = next
				return err
			}); err != nil {
				return err
			}

			result, generatedAt, err := session.Result()
			if err != nil {
				return err
			}
			store, err := newStore(cmd)
			if err != nil {
				return err
			}
			art, err := imaging.NewExporter(nil).Export(cmd.Context(), result.Content, session.Adjustments(), generatedAt)
			if err != nil {
				return err
			}
			return save(cmd, store, art)
		},
	}
	cmd.Flags().String("relay", envOr("STUDIO_RELAY_URL", defaultRelayURL), "Relay base URL")
	cmd.Flags().String("style", domain.DefaultStyle, "Style: "+strings.Join(domain.Styles, ", "))
	cmd.Flags().Duration("timeout", 90*time.Second, "Relay request timeout")
	registerAdjustmentFlags(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export SOURCE",
		Short: "Apply adjustments to a local file, data URI or allowed URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hosts, _ := cmd.Flags().GetStringSlice("allow-host")
			a, err := adjustmentsFromFlags(cmd, editor.Default())
			if err != nil {
				return err
			}
			store, err := newStore(cmd)
			if err != nil {
				return err
			}
			exp := imaging.NewExporter(imaging.NewFetcher(imaging.FetchOptions{AllowedHosts: hosts}))

			var art *imaging.Artifact
			if src := args[0]; isLocalFile(src) {
				data, err := os.ReadFile(src)
				if err != nil {
					return err
				}
				art, err = exp.Render(cmd.Context(), data, a, time.Now())
				if err != nil {
					return err
				}
			} else {
				art, err = exp.Export(cmd.Context(), src, a, time.Now())
				if err != nil {
					return err
				}
			}
			return save(cmd, store, art)
		},
	}
	cmd.Flags().StringSlice("allow-host", nil, "Remote hosts SOURCE may be fetched from")
	registerAdjustmentFlags(cmd)
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List adjustment presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range editor.Presets {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", p.Name, p.Apply(editor.Default()).Filter().CSS())
			}
		},
	}
}

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List generation styles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			title := cases.Title(language.English)
			for _, s := range domain.Styles {
				marker := ""
				if s == domain.DefaultStyle {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s%s\n", s, title.String(s), marker)
			}
		},
	}
}

func isLocalFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
