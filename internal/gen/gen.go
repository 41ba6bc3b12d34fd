package gen

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/model"
	"github.com/koskimas/schemagen/internal/synth"
	"github.com/koskimas/schemagen/internal/typemap"
	"github.com/koskimas/schemagen/internal/validate"
)

// Target renders synthesized types, each followed by its codec pair, into
// one self-contained source unit.
type Target interface {
	Name() typemap.Target
	Mapper() typemap.Mapper
	Emit(unit *Unit) ([]byte, error)
}

// Unit is everything that goes into one output file.
type Unit struct {
	Schema     *model.Schema
	Types      model.Types
	Warnings   []synth.Warning
	OutputPath string
	// Instance is set when a base configuration should be emitted as a
	// constant of the root record.
	Instance *Instance
}

type Instance struct {
	Name string
	Data *doc.Value
}

type Options struct {
	OutputPath string
	// BaseConfig is validated against the schema and rendered as a constant.
	BaseConfig   *doc.Value
	InstanceName string
}

type Output struct {
	Content []byte
	// Digest is the xxhash of Content. It identifies one generation of an
	// output in logs.
	Digest   uint64
	Types    model.Types
	Warnings []synth.Warning
	Report   *validate.Report
}

// Generate computes the output for one schema without touching the file system.
func Generate(schema *model.Schema, target Target, opts Options) (*Output, error) {
	out := &Output{}

	var instance *Instance
	if opts.BaseConfig != nil {
		report, err := validate.Data(schema, opts.BaseConfig)
		out.Report = report
		if err != nil {
			return nil, fmt.Errorf(`base configuration for "%s": %w`, schema.Title, err)
		}
		instance = &Instance{Name: opts.InstanceName, Data: opts.BaseConfig}
	}

	res, err := synth.Synthesize(schema, target.Mapper())
	if err != nil {
		return nil, fmt.Errorf(`failed to synthesize types for "%s": %w`, schema.Title, err)
	}

	content, err := target.Emit(&Unit{
		Schema:     schema,
		Types:      res.Types,
		Warnings:   res.Warnings,
		OutputPath: opts.OutputPath,
		Instance:   instance,
	})
	if err != nil {
		return nil, fmt.Errorf(`failed to emit %s code for "%s": %w`, target.Name(), schema.Title, err)
	}

	out.Content = content
	out.Digest = xxhash.Sum64(content)
	out.Types = res.Types
	out.Warnings = res.Warnings
	return out, nil
}
