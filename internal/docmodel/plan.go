package docmodel

// RenderPlan is the immutable unit of work for one output document. It is
// created once per source document per build pass and discarded at the end
// of the build; nothing persists between runs.
type RenderPlan struct {
	// SourcePath is the absolute path of the source document.
	SourcePath string
	// OutputPath is the absolute path the rendered document is written to.
	OutputPath string
	// RelOutput is the output path relative to the output root. It is the
	// cross-document join key used by grouping, canonical resolution and
	// the sitemap.
	RelOutput string
	// HTML is the rendered body markup.
	HTML string
	// Meta is the resolved page metadata.
	Meta PageMeta
}
