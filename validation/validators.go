package validation

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Built-in file validators. They form a small dependency chain:
//
//	extension -> size -> pdf_header -> pdf_structure
//
// Register the ones you need; the graph resolves ordering.

// ExtensionValidator checks that a file carries an allowed extension.
type ExtensionValidator struct {
	allowed map[string]struct{}
}

// NewExtensionValidator builds a validator for the given extensions
// (lowercase, including the dot). With no arguments it accepts ".pdf".
func NewExtensionValidator(allowed ...string) *ExtensionValidator {
	if len(allowed) == 0 {
		allowed = []string{".pdf"}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return &ExtensionValidator{allowed: set}
}

var _ Validator = (*ExtensionValidator)(nil)

func (v *ExtensionValidator) Name() string          { return "extension" }
func (v *ExtensionValidator) Dependencies() []string { return nil }
func (v *ExtensionValidator) Priority() int          { return DefaultPriority }

func (v *ExtensionValidator) CanValidate(ctx Context) bool {
	return ctx.FilePath != ""
}

func (v *ExtensionValidator) Validate(ctx Context) Outcome {
	if ctx.FileExt == "" {
		return Invalid(v.Name(), SeverityHigh, "no file extension found")
	}
	if _, ok := v.allowed[ctx.FileExt]; !ok {
		exts := make([]string, 0, len(v.allowed))
		for ext := range v.allowed {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		return Invalid(v.Name(), SeverityHigh, "unsupported file extension: "+ctx.FileExt).
			WithDetails(map[string]any{"allowed_extensions": exts})
	}
	return Valid(v.Name(), "valid file extension: "+ctx.FileExt)
}

// SizeValidator enforces minimum and maximum file sizes in bytes.
// It depends on the extension validator having passed.
type SizeValidator struct {
	minBytes int64
	maxBytes int64
}

// NewSizeValidator builds a size validator. Non-positive bounds fall back
// to a 1 byte minimum and a 50 MiB maximum.
func NewSizeValidator(minBytes, maxBytes int64) *SizeValidator {
	if minBytes <= 0 {
		minBytes = 1
	}
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}
	return &SizeValidator{minBytes: minBytes, maxBytes: maxBytes}
}

var _ Validator = (*SizeValidator)(nil)

func (v *SizeValidator) Name() string          { return "size" }
func (v *SizeValidator) Dependencies() []string { return []string{"extension"} }
func (v *SizeValidator) Priority() int          { return DefaultPriority }

func (v *SizeValidator) CanValidate(ctx Context) bool {
	// Applies to any named file, including empty ones: a zero-byte file
	// must reach Validate and fail the minimum-size check rather than
	// being skipped.
	return ctx.FilePath != ""
}

func (v *SizeValidator) Validate(ctx Context) Outcome {
	if ctx.FileSize < v.minBytes {
		return Invalid(v.Name(), SeverityHigh, fmt.Sprintf("file too small: %d bytes", ctx.FileSize)).
			WithDetails(map[string]any{"min_size_bytes": v.minBytes})
	}
	if ctx.FileSize > v.maxBytes {
		return Invalid(v.Name(), SeverityHigh, fmt.Sprintf("file too large: %d bytes", ctx.FileSize)).
			WithDetails(map[string]any{"max_size_bytes": v.maxBytes})
	}
	return Valid(v.Name(), fmt.Sprintf("valid file size: %d bytes", ctx.FileSize))
}

// PDFHeaderValidator verifies the %PDF- magic bytes and extracts the
// declared version. It depends on extension and size checks.
type PDFHeaderValidator struct{}

// NewPDFHeaderValidator builds a PDF header validator.
func NewPDFHeaderValidator() *PDFHeaderValidator { return &PDFHeaderValidator{} }

var _ Validator = (*PDFHeaderValidator)(nil)

func (v *PDFHeaderValidator) Name() string          { return "pdf_header" }
func (v *PDFHeaderValidator) Dependencies() []string { return []string{"extension", "size"} }
func (v *PDFHeaderValidator) Priority() int          { return DefaultPriority }

func (v *PDFHeaderValidator) CanValidate(ctx Context) bool {
	return ctx.FileExt == ".pdf"
}

func (v *PDFHeaderValidator) Validate(ctx Context) Outcome {
	f, err := os.Open(ctx.FilePath)
	if err != nil {
		return Errored(v.Name(), "error reading pdf header: "+err.Error())
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Errored(v.Name(), "error reading pdf header: "+err.Error())
	}
	header = header[:n]

	if !strings.HasPrefix(string(header), "%PDF-") {
		return Invalid(v.Name(), SeverityHigh, "invalid pdf header").
			WithDetails(map[string]any{"header_bytes": fmt.Sprintf("%x", header)})
	}

	version := string(header[5:])
	return Valid(v.Name(), "valid pdf header, version: "+version).
		WithDetails(map[string]any{"pdf_version": version})
}

// PDFStructureValidator looks for the %%EOF marker near the end of the
// file. A missing marker is reported as a warning, not a failure, since
// some producers append data after the trailer.
type PDFStructureValidator struct{}

// NewPDFStructureValidator builds a PDF structure validator.
func NewPDFStructureValidator() *PDFStructureValidator { return &PDFStructureValidator{} }

var _ Validator = (*PDFStructureValidator)(nil)

func (v *PDFStructureValidator) Name() string          { return "pdf_structure" }
func (v *PDFStructureValidator) Dependencies() []string { return []string{"pdf_header"} }
func (v *PDFStructureValidator) Priority() int          { return DefaultPriority }

func (v *PDFStructureValidator) CanValidate(ctx Context) bool {
	return ctx.FileExt == ".pdf"
}

const pdfTailWindow = 1024

func (v *PDFStructureValidator) Validate(ctx Context) Outcome {
	f, err := os.Open(ctx.FilePath)
	if err != nil {
		return Errored(v.Name(), "error reading pdf structure: "+err.Error())
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Errored(v.Name(), "error reading pdf structure: "+err.Error())
	}

	offset := info.Size() - pdfTailWindow
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return Errored(v.Name(), "error reading pdf structure: "+err.Error())
	}
	tail, err := io.ReadAll(f)
	if err != nil {
		return Errored(v.Name(), "error reading pdf structure: "+err.Error())
	}

	if !strings.Contains(string(tail), "%%EOF") {
		return Warning(v.Name(), "pdf may be incomplete (no %%EOF found)")
	}
	return Valid(v.Name(), "basic pdf structure appears valid")
}
