// Command shadergen generates shader source for every target from a YAML
// program document.
//
// Usage:
//
//	shadergen [options] <program.yaml>
//
// Examples:
//
//	shadergen shaders.yaml                       # All targets into the current directory
//	shadergen -o gen -targets hlsl,metal shaders.yaml
//	shadergen -log-level debug shaders.yaml      # Report layout mismatches
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadergen"
	"github.com/gogpu/shadergen/ir"
)

var (
	configPath    = flag.String("config", "shadergen.yaml", "configuration file")
	output        = flag.String("o", "", "output directory")
	targets       = flag.String("targets", "", "comma separated targets (default: all)")
	hostPacking   = flag.String("packing", "", "host layout packing: sequential or natural")
	parallelism   = flag.Int("j", 0, "concurrent jobs (default: GOMAXPROCS)")
	logLevel      = flag.String("log-level", "", "log level: debug, info, warn, error")
	processorArgs = flag.String("processor-args", "", "argument string passed to post-processors")
	version       = flag.Bool("version", false, "print version")
)

const shadergenVersion = "0.1.0-dev"

// genListName is the file listing every generated file, one per line.
const genListName = "shadergen.gen"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("shadergen version %s\n", shadergenVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed, err := run(ctx, cfg, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

// loadConfig reads the configuration file and applies flags given on
// the command line on top of it.
func loadConfig() (Config, error) {
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	cfg, err := LoadConfig(*configPath, !explicit)
	if err != nil {
		return Config{}, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Output = *output
		case "targets":
			cfg.Targets = strings.Split(*targets, ",")
		case "packing":
			cfg.HostPacking = *hostPacking
		case "j":
			cfg.Parallelism = *parallelism
		case "log-level":
			cfg.LogLevel = *logLevel
		case "processor-args":
			cfg.ProcessorArgs = *processorArgs
		}
	})
	return cfg, nil
}

// run generates every shader set of the program document and writes the
// results. It reports whether any (set, target) job failed.
func run(ctx context.Context, cfg Config, inputPath string) (bool, error) {
	level, err := cfg.logLevel()
	if err != nil {
		return false, err
	}
	shadergen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts := shadergen.DefaultOptions()
	if opts.Targets, err = cfg.targets(); err != nil {
		return false, err
	}
	if opts.HostPacking, err = cfg.hostPacking(); err != nil {
		return false, err
	}
	opts.Parallelism = cfg.Parallelism
	opts.ProcessorArgs = cfg.ProcessorArgs
	opts.Processors = []shadergen.Processor{shadergen.ProcessorFunc(bannerProcessor)}

	doc, err := ir.LoadProgramFile(inputPath)
	if err != nil {
		return false, err
	}
	if errs, err := ir.Validate(doc.Program); err != nil {
		return false, err
	} else if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %v\n", inputPath, e)
		}
		return false, fmt.Errorf("%s: %d validation errors", inputPath, len(errs))
	}

	result, err := shadergen.New(doc.Program, opts).Generate(ctx, doc.Sets)
	if err != nil {
		return false, err
	}
	for _, f := range result.Failures {
		fmt.Fprintf(os.Stderr, "Generation error: %v\n", f)
	}

	files, err := writeResult(cfg.Output, result)
	if err != nil {
		return false, err
	}
	fmt.Printf("Generated %d files in %s\n", len(files), cfg.Output)
	return len(result.Failures) > 0, nil
}

// writeResult writes one file per generated stage, one bind group layout
// file per shader set and the list of generated files.
func writeResult(dir string, result *shadergen.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var files []string
	layouts := make(map[string]bool)
	for _, set := range result.Sets {
		for _, kind := range []ir.FunctionKind{ir.FunctionVertex, ir.FunctionFragment, ir.FunctionCompute} {
			st := set.Stage(kind)
			if st == nil {
				continue
			}
			name := fmt.Sprintf("%s-%s.%s", set.Name, kind, set.Target.Extension())
			if err := os.WriteFile(filepath.Join(dir, name), []byte(st.Code), 0o644); err != nil {
				return nil, err
			}
			files = append(files, name)
		}

		if layouts[set.Name] {
			continue
		}
		layouts[set.Name] = true
		name, err := writeLayouts(dir, set)
		if err != nil {
			return nil, err
		}
		files = append(files, name)
	}

	sort.Strings(files)
	list := strings.Join(files, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, genListName), []byte(list), 0o644); err != nil {
		return nil, err
	}
	return files, nil
}

// writeLayouts writes the reflected bind group layouts of a set as YAML.
func writeLayouts(dir string, set *shadergen.GeneratedShaderSet) (string, error) {
	groups, err := set.Model.BindGroupLayouts()
	if err != nil {
		return "", fmt.Errorf("%s: %w", set.Name, err)
	}
	data, err := yaml.Marshal(groups)
	if err != nil {
		return "", err
	}
	name := set.Name + ".layout.yaml"
	return name, os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// bannerProcessor prefixes every stage with the processor argument as a
// line comment. All targets accept "//" comments before any directive.
func bannerProcessor(set *shadergen.GeneratedShaderSet, userArgs string) error {
	if userArgs == "" {
		return nil
	}
	for _, st := range []*shadergen.GeneratedStage{set.Vertex, set.Fragment, set.Compute} {
		if st != nil {
			st.Code = "// " + userArgs + "\n" + st.Code
		}
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shadergen [options] <program.yaml>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nTargets: hlsl, glsl330, glsles300, glsl450, metal\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment: SHADERGEN_OUTPUT, SHADERGEN_TARGETS, SHADERGEN_LOG_LEVEL,\n")
	fmt.Fprintf(os.Stderr, "SHADERGEN_PROCESSOR_ARGS, SHADERGEN_PARALLELISM (also read from .env)\n")
}
