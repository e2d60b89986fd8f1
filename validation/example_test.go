package validation_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonwraymond/decisionkit/validation"
)

func ExamplePipeline() {
	p, _ := validation.NewPipeline()
	_ = p.AddValidator(validation.NewExtensionValidator(".pdf"))
	_ = p.AddValidator(validation.NewSizeValidator(1, 10<<20))
	_ = p.AddValidator(validation.NewPDFHeaderValidator())
	_ = p.AddValidator(validation.NewPDFStructureValidator())

	dir, _ := os.MkdirTemp("", "pipeline")
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "report.pdf")
	_ = os.WriteFile(path, []byte("%PDF-1.7\nbody\n%%EOF\n"), 0o644)

	results, _ := p.Validate(context.Background(), validation.NewContext(path))

	order, _ := p.ExecutionOrder()
	for _, name := range order {
		fmt.Println(name+":", results[name].Status)
	}
	// Output:
	// extension: valid
	// size: valid
	// pdf_header: valid
	// pdf_structure: valid
}

func ExampleGraph_ExecutionOrder() {
	g := validation.NewGraph()
	_ = g.AddValidator(validation.NewValidatorFunc("transform", []string{"parse"}, 0, nil,
		func(ctx validation.Context) validation.Outcome { return validation.Valid("transform", "ok") }))
	_ = g.AddValidator(validation.NewValidatorFunc("parse", nil, 0, nil,
		func(ctx validation.Context) validation.Outcome { return validation.Valid("parse", "ok") }))

	order, _ := g.ExecutionOrder()
	fmt.Println(order)
	// Output:
	// [parse transform]
}
