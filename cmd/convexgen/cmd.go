package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reoring/convexmodel"
	"github.com/reoring/convexmodel/dsl"
	"github.com/reoring/convexmodel/i18n"
	"github.com/reoring/convexmodel/internal/gen"
	"github.com/reoring/convexmodel/internal/ir"
	js "github.com/reoring/convexmodel/jsonschema"
	"github.com/reoring/convexmodel/source"
	"github.com/reoring/convexmodel/value"
)

// version is set at build time with
// "-X 'main.version=${version}'".
var version = "dev"

// newRoot builds the command tree. Commands are rebuilt per call so flag
// state never leaks between executions.
func newRoot(log *logrus.Logger) *cobra.Command {
	var (
		verbose bool
		lang    string
	)
	root := &cobra.Command{
		Use:          "convexgen",
		Short:        "Compile Convex validator schemas into Go.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			log.SetLevel(logrus.InfoLevel)
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			i18n.SetLanguage(lang)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&lang, "lang", "en", "language of decode error messages (en, ja)")
	root.AddCommand(
		generateCmd(log),
		checkCmd(log),
		decodeCmd(log),
		jsonschemaCmd(log),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the convexgen version.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("convexgen version %s\n", version)
		},
	}
}

func generateCmd(log *logrus.Logger) *cobra.Command {
	var (
		flags      Config
		configPath string
	)
	cmd := &cobra.Command{
		Use:   "generate [flags] [schema.convex ...]",
		Short: "Emit typed Go records, unions and decoders for schema files.",
		Example: `  convexgen generate -p models -o models/user_gen.go user.convex
  convexgen generate --config convexgen.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags
			cfg.Schemas = args
			if configPath != "" || len(args) == 0 {
				if configPath == "" {
					configPath = DefaultConfig
				}
				loaded, err := LoadConfig(configPath)
				if err != nil {
					return err
				}
				log.WithField("config", configPath).Debug("loaded config")
				cfg = *loaded
			}
			if cfg.Package == "" {
				return errors.New("generate: package name is required (-p)")
			}
			roots, err := parseSchemas(log, cfg.Schemas)
			if err != nil {
				return err
			}
			out, err := gen.Render(cfg.Package, roots, gen.Options{
				Source:        strings.Join(baseNames(cfg.Schemas), ", "),
				UnknownStrict: cfg.Strict,
			})
			if err != nil {
				return err
			}
			if cfg.Output == "" || cfg.Output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"output": cfg.Output, "types": countTypes(roots)}).Info("generated")
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.Package, "package", "p", "", "Go package name of the generated file")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "reject undeclared object keys in generated decoders")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+DefaultConfig+" when no schema is given)")
	return cmd
}

func checkCmd(log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check schema.convex ...",
		Short: "Parse schema files and list the types they declare.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := parseSchemas(log, args)
			if err != nil {
				return err
			}
			for _, r := range roots {
				cmd.Printf("%s: %s\n", r.Name.FieldName(), strings.Join(ir.TypeNames(r), " "))
			}
			return nil
		},
	}
}

// modelFlags selects one model of a schema file.
type modelFlags struct {
	schema string
	model  string
	strict bool
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "", "schema file")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "schema name (optional when the file declares one)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject undeclared object keys")
	_ = cmd.MarkFlagRequired("schema")
}

func (f *modelFlags) load(log *logrus.Logger, opts ...convexmodel.Option) (*convexmodel.Model, error) {
	src, err := os.ReadFile(f.schema)
	if err != nil {
		return nil, err
	}
	if f.strict {
		opts = append(opts, convexmodel.WithUnknownKeys(convexmodel.UnknownStrict))
	}
	models, err := convexmodel.CompileFile(f.schema, string(src), opts...)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name()
		if m.Name() == f.model || (f.model == "" && len(models) == 1) {
			log.WithFields(logrus.Fields{"schema": f.schema, "model": m.Name()}).Debug("compiled")
			return m, nil
		}
	}
	if f.model == "" {
		return nil, fmt.Errorf("%s declares %s; choose one with --model", f.schema, strings.Join(names, ", "))
	}
	return nil, fmt.Errorf("%s: no schema named %q", f.schema, f.model)
}

func decodeCmd(log *logrus.Logger) *cobra.Command {
	var (
		mf       modelFlags
		format   string
		maxDepth int
	)
	cmd := &cobra.Command{
		Use:   "decode --schema file.convex [--model Name] [input.json|input.yaml|-]",
		Short: "Decode a JSON or YAML document and print its canonical encoding.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mf.load(log, convexmodel.WithSourceOptions(source.Options{MaxDepth: maxDepth}))
			if err != nil {
				return err
			}
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			data, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			decode := m.DecodeJSON
			if isYAML(format, input) {
				decode = m.DecodeYAML
			}
			rec, err := decode(cmd.Context(), data)
			if err != nil {
				if de, ok := convexmodel.AsDecodeError(err); ok {
					log.WithFields(logrus.Fields{"model": m.Name(), "code": de.Code, "path": de.Path}).Debug("decode failed")
				}
				return err
			}
			out, err := value.MarshalIndent(rec.Value(), "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
	mf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json or yaml (default from the file extension)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum object nesting of the input (0 for no limit)")
	return cmd
}

func jsonschemaCmd(log *logrus.Logger) *cobra.Command {
	var mf modelFlags
	cmd := &cobra.Command{
		Use:   "jsonschema --schema file.convex [--model Name]",
		Short: "Print the JSON Schema of a model.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := mf.load(log)
			if err != nil {
				return err
			}
			out, err := js.Marshal(m.JSONSchema())
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
	mf.register(cmd)
	return cmd
}

// parseSchemas parses every file and returns all roots in file order.
// Duplicate root names across files are rejected like within one file.
func parseSchemas(log *logrus.Logger, files []string) ([]ir.Field, error) {
	if len(files) == 0 {
		return nil, errors.New("no schema files given")
	}
	var (
		roots []ir.Field
		seen  = map[string]string{}
	)
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		parsed, err := dsl.ParseFile(name, string(src))
		if err != nil {
			return nil, err
		}
		for _, r := range parsed {
			id := r.Name.FieldName()
			if prev, ok := seen[id]; ok {
				return nil, fmt.Errorf("%s: schema %q already declared in %s", r.Position(), id, prev)
			}
			seen[id] = name
			roots = append(roots, r.Field)
		}
		log.WithFields(logrus.Fields{"schema": name, "models": len(parsed)}).Debug("parsed")
	}
	if err := ir.CheckNames(roots...); err != nil {
		return nil, err
	}
	return roots, nil
}

func countTypes(roots []ir.Field) int {
	n := 0
	for _, r := range roots {
		n += len(ir.TypeNames(r))
	}
	return n
}

func baseNames(files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Base(f)
	}
	return out
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func isYAML(format, name string) bool {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return true
	case "json":
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
