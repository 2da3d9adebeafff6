package compile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gosvelte/pkg/analysis"
	"github.com/walteh/gosvelte/pkg/config"
	"github.com/walteh/gosvelte/pkg/css"
	"github.com/walteh/gosvelte/pkg/diagnostic"
	"github.com/walteh/gosvelte/pkg/finder"
	"github.com/walteh/gosvelte/pkg/logging"
)

type Handler struct {
	configPath string
	debug      bool
	format     string
	printCSS   bool
	noColor    bool

	fs afero.Fs
}

func NewCompileCommand() *cobra.Command {
	return newCompileCommand(afero.NewOsFs())
}

func newCompileCommand(fsys afero.Fs) *cobra.Command {
	me := &Handler{fs: fsys}

	cmd := &cobra.Command{
		Use:   "compile [files, directories or globs...]",
		Short: "parse components, report diagnostics and print their scope class",

		// diagnostics already explain a failed run
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&me.configPath, "config", "", "path to gosvelte.yaml or gosvelte.hcl")
	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&me.format, "format", "", "diagnostic format: text or json (overrides config)")
	cmd.Flags().BoolVar(&me.printCSS, "print-css", false, "print the scoped style sheet")
	cmd.Flags().BoolVar(&me.noColor, "no-color", false, "disable coloured output")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	cfg, err := me.loadConfig()
	if err != nil {
		return err
	}
	if me.format != "" {
		cfg.Format = me.format
	}
	useColor := cfg.UseColor() && !me.noColor

	ctx = logging.WithContext(ctx, errOut, logging.Options{Debug: me.debug, Color: useColor})

	formatter, err := diagnostic.NewFormatter(cfg.Format, useColor)
	if err != nil {
		return errors.Errorf("creating formatter: %w", err)
	}

	files, err := finder.New(me.fs, cfg.Include, cfg.Exclude).FindComponents(ctx, args)
	if err != nil {
		return errors.Errorf("finding components: %w", err)
	}
	if len(files) == 0 {
		return errors.Errorf("no components matched %v", patternsOrArgs(args, cfg))
	}

	zerolog.Ctx(ctx).Debug().Strs("files", files).Msg("compiling components")

	var result *multierror.Error
	for _, file := range files {
		if err := me.compileFile(ctx, file, cfg, formatter, out); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func (me *Handler) loadConfig() (*config.Config, error) {
	cfgPath := me.configPath
	if cfgPath == "" {
		found, err := config.Find(me.fs, ".")
		if err != nil {
			return nil, errors.Errorf("finding config: %w", err)
		}
		if found == "" {
			return config.Default(), nil
		}
		cfgPath = found
	}

	cfg, err := config.Load(me.fs, cfgPath)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

type jsonReport struct {
	File        string          `json:"file"`
	ScopeClass  string          `json:"scope_class,omitempty"`
	CSS         string          `json:"css,omitempty"`
	Diagnostics json.RawMessage `json:"diagnostics"`
}

func (me *Handler) compileFile(ctx context.Context, file string, cfg *config.Config, formatter diagnostic.Formatter, out io.Writer) error {
	data, err := afero.ReadFile(me.fs, file)
	if err != nil {
		return errors.Errorf("reading %s: %w", file, err)
	}
	source := string(data)

	ctx = zerolog.Ctx(ctx).With().Str("file", file).Logger().WithContext(ctx)

	res := analysis.Analyze(ctx, source, analysis.Options{ScopePrefix: cfg.ScopePrefix})

	diags, err := formatter.Format(file, source, res.Diagnostics)
	if err != nil {
		return errors.Errorf("formatting diagnostics for %s: %w", file, err)
	}

	var scopeClass, styles string
	if res.CSS != nil {
		scopeClass = res.CSS.ScopeClass
		if me.printCSS {
			styles = css.Print(res.CSS.StyleSheet)
		}
	}

	if cfg.Format == config.FormatJSON {
		line, err := json.Marshal(jsonReport{
			File:        file,
			ScopeClass:  scopeClass,
			CSS:         styles,
			Diagnostics: diags,
		})
		if err != nil {
			return errors.Errorf("marshaling report for %s: %w", file, err)
		}
		fmt.Fprintf(out, "%s\n", line)
	} else {
		if scopeClass != "" {
			fmt.Fprintf(out, "%s: scope class %s\n", file, scopeClass)
		}
		if _, err := out.Write(diags); err != nil {
			return errors.Errorf("writing diagnostics: %w", err)
		}
		if styles != "" {
			fmt.Fprint(out, styles)
		}
	}

	if errs := res.Diagnostics.Errors(); len(errs) > 0 {
		return errors.Errorf("%s: %d error(s)", file, len(errs))
	}
	return nil
}

func patternsOrArgs(args []string, cfg *config.Config) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Include
}
