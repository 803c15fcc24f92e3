package pdfmeta

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// DocInfo holds the document information fields written into a PDF.
// Subject carries the generated summary, matching how PDF viewers expose
// a description field.
type DocInfo struct {
	Title    string
	Subject  string
	Keywords []string
}

func configuration() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// Apply rewrites the PDF at path in place, setting Title, Subject and
// Keywords in the document information dictionary. All other content is
// left untouched. Entries are replaced, not appended, so re-applying the
// same DocInfo is idempotent.
func Apply(path string, info DocInfo) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}

	ctx, err := api.ReadContext(f, configuration())
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to parse PDF: %w", err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return fmt.Errorf("PDF failed validation: %w", err)
	}

	if err := setDocInfo(ctx, info); err != nil {
		return err
	}

	if err := api.WriteContextFile(ctx, path); err != nil {
		return fmt.Errorf("failed to save PDF: %w", err)
	}
	return nil
}

func setDocInfo(ctx *model.Context, info DocInfo) error {
	var d types.Dict

	if ctx.Info != nil {
		var err error
		d, err = ctx.DereferenceDict(*ctx.Info)
		if err != nil {
			return fmt.Errorf("failed to resolve document info dictionary: %w", err)
		}
	}
	if d == nil {
		d = types.NewDict()
		ir, err := ctx.IndRefForNewObject(d)
		if err != nil {
			return fmt.Errorf("failed to create document info dictionary: %w", err)
		}
		ctx.Info = ir
	}

	entries := map[string]string{
		"Title":    info.Title,
		"Subject":  info.Subject,
		"Keywords": strings.Join(info.Keywords, ", "),
	}
	for k, v := range entries {
		s, err := types.Escape(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", k, err)
		}
		d[k] = types.StringLiteral(*s)
	}
	return nil
}

// ReadDocInfo returns the current Title, Subject and Keywords of the PDF
// at path. Missing entries come back empty.
func ReadDocInfo(path string) (DocInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return DocInfo{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	ctx, err := api.ReadContext(f, configuration())
	if err != nil {
		return DocInfo{}, fmt.Errorf("failed to parse PDF: %w", err)
	}

	var info DocInfo
	if ctx.Info == nil {
		return info, nil
	}
	d, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || d == nil {
		return info, err
	}

	info.Title = stringEntry(ctx, d, "Title")
	info.Subject = stringEntry(ctx, d, "Subject")
	if kw := stringEntry(ctx, d, "Keywords"); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				info.Keywords = append(info.Keywords, k)
			}
		}
	}
	return info, nil
}

func stringEntry(ctx *model.Context, d types.Dict, key string) string {
	obj, found := d.Find(key)
	if !found {
		return ""
	}
	s, err := ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return ""
	}
	return s
}
