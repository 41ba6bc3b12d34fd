package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/koskimas/schemagen/internal/config"
	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/gen"
	"github.com/koskimas/schemagen/internal/gen/cpp"
	"github.com/koskimas/schemagen/internal/gen/golang"
	"github.com/koskimas/schemagen/internal/model/jsonschema"
	"github.com/koskimas/schemagen/internal/typemap"
	"go.uber.org/zap"
)

type Settings struct {
	WorkingDir string
	Logger     *zap.Logger

	// SchemaPath selects single schema mode. When it is empty, the schemas
	// listed in schemagen.yaml under WorkingDir are generated instead.
	SchemaPath        string
	OutputPath        string
	BaseConfigPath    string
	RequireBaseConfig bool
	Target            string
	Namespace         string
	Package           string
}

// SetupError is returned when the project lacks a base configuration that the
// generation policy requires.
type SetupError struct {
	Path   string
	Schema string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf(`no configuration found in project: please create a config named "%s" based on the schema "%s"`, filepath.Base(e.Path), e.Schema)
}

type job struct {
	schemaPath string
	outPath    string
	target     gen.Target
	baseConfig *doc.Value
	instance   string
}

type result struct {
	job    job
	output *gen.Output
}

func Run(s Settings) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		jobs []job
		err  error
	)
	if s.SchemaPath != "" {
		jobs, err = singleJob(s)
	} else {
		jobs, err = configJobs(s, logger)
	}
	if err != nil {
		return err
	}

	// Nothing is written unless every output was generated.
	results := make([]result, 0, len(jobs))
	for _, j := range jobs {
		out, err := generate(j, logger)
		if err != nil {
			return err
		}
		results = append(results, result{job: j, output: out})
	}

	for _, r := range results {
		written, err := gen.WriteFile(r.job.outPath, r.output.Content)
		if err != nil {
			return err
		}

		if written {
			logger.Info("generated",
				zap.String("output", r.job.outPath),
				zap.Int("types", len(r.output.Types)),
				zap.String("digest", digest(r.output)),
			)
		} else {
			logger.Debug("unchanged", zap.String("output", r.job.outPath), zap.String("digest", digest(r.output)))
		}
	}

	return nil
}

func generate(j job, logger *zap.Logger) (*gen.Output, error) {
	schema, err := jsonschema.LoadFile(j.schemaPath)
	if err != nil {
		return nil, err
	}

	out, err := gen.Generate(schema, j.target, gen.Options{
		OutputPath:   j.outPath,
		BaseConfig:   j.baseConfig,
		InstanceName: j.instance,
	})
	if err != nil {
		return nil, fmt.Errorf(`in schema "%s": %w`, j.schemaPath, err)
	}

	for _, w := range out.Warnings {
		logger.Warn(w.Message,
			zap.String("schema", schema.Title),
			zap.String("type", w.Type),
			zap.String("field", w.Field),
			zap.String("path", w.Path),
		)
	}

	return out, nil
}

func singleJob(s Settings) ([]job, error) {
	if s.OutputPath == "" {
		return nil, fmt.Errorf("an output path is required with a schema path")
	}

	targetName := s.Target
	if targetName == "" {
		targetName = string(config.DefaultTarget)
	}

	target, err := newTarget(targetName, s.Namespace, s.Package, "", nil)
	if err != nil {
		return nil, err
	}

	j := job{
		schemaPath: resolve(s.WorkingDir, s.SchemaPath),
		outPath:    resolve(s.WorkingDir, s.OutputPath),
		target:     target,
	}

	baseConfigPath := s.BaseConfigPath
	if baseConfigPath == "" && s.RequireBaseConfig {
		baseConfigPath = config.DefaultBaseConfig
	}

	if baseConfigPath != "" {
		path := resolve(s.WorkingDir, baseConfigPath)

		j.baseConfig, err = readBaseConfig(path)
		if errors.Is(err, fs.ErrNotExist) && s.RequireBaseConfig {
			return nil, &SetupError{Path: path, Schema: s.SchemaPath}
		}
		if err != nil {
			return nil, fmt.Errorf(`base configuration: %w`, err)
		}
	}

	return []job{j}, nil
}

func configJobs(s Settings, logger *zap.Logger) ([]job, error) {
	cfg, err := config.Read(filepath.Join(s.WorkingDir, config.FileName))
	if err != nil {
		return nil, err
	}

	baseConfigPath := resolve(s.WorkingDir, cfg.BaseConfig.Path)
	required := cfg.BaseConfig.Required || s.RequireBaseConfig

	var (
		baseConfig   *doc.Value
		baseConfigOK bool
	)

	jobs := make([]job, 0, len(cfg.Schemas))
	for _, sc := range cfg.Schemas {
		target, err := newTarget(sc.Target, sc.Namespace, sc.Package, cfg.JSONHeader, cfg.TypesFor(typemap.Target(sc.Target)))
		if err != nil {
			return nil, fmt.Errorf(`for schema "%s": %w`, sc.Path, err)
		}

		j := job{
			schemaPath: resolve(s.WorkingDir, sc.Path),
			outPath:    resolve(s.WorkingDir, sc.Out),
			target:     target,
			instance:   cfg.BaseConfig.Instance,
		}

		if sc.BaseConfig {
			if !baseConfigOK {
				baseConfig, err = readBaseConfig(baseConfigPath)
				switch {
				case errors.Is(err, fs.ErrNotExist) && required:
					return nil, &SetupError{Path: baseConfigPath, Schema: sc.Path}
				case errors.Is(err, fs.ErrNotExist):
					logger.Info("no base configuration found, generating types only", zap.String("path", baseConfigPath))
				case err != nil:
					return nil, err
				}
				baseConfigOK = true
			}
			j.baseConfig = baseConfig
		}

		jobs = append(jobs, j)
	}

	return jobs, nil
}

func newTarget(name string, namespace string, pkg string, jsonHeader string, types map[string]string) (gen.Target, error) {
	target, err := typemap.ParseTarget(name)
	if err != nil {
		return nil, err
	}

	switch target {
	case typemap.TargetCpp:
		return cpp.New(cpp.Options{
			Namespace:  namespace,
			JSONHeader: jsonHeader,
			Types:      types,
		})
	case typemap.TargetGo:
		return golang.New(golang.Options{
			Package: pkg,
			Types:   types,
		})
	}

	return nil, fmt.Errorf(`no generator for target "%s"`, target)
}

func readBaseConfig(path string) (*doc.Value, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	d, err := doc.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(`failed to read base configuration: %w`, err)
	}
	return d, nil
}

func digest(out *gen.Output) string {
	return fmt.Sprintf("%016x", out.Digest)
}

func resolve(workingDir string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDir, path)
}
