package records

import "path/filepath"

const recordExt = ".yaml"

// pathBuilder implements PathBuilder.
type pathBuilder struct {
	baseDir string
	workDir string
}

// NewPathBuilder creates a PathBuilder rooted at baseDir, producing
// Git-relative paths against workDir.
func NewPathBuilder(baseDir, workDir string) PathBuilder {
	return &pathBuilder{baseDir: baseDir, workDir: workDir}
}

func (p *pathBuilder) RecordPath(label, id string) string {
	return filepath.Join(p.baseDir, label, id+recordExt)
}

func (p *pathBuilder) RelativeRecordPath(label, id string) string {
	return p.relative(p.RecordPath(label, id))
}

func (p *pathBuilder) LabelDir(label string) string {
	return filepath.Join(p.baseDir, label)
}

func (p *pathBuilder) RelativeLabelDir(label string) string {
	return p.relative(p.LabelDir(label))
}

func (p *pathBuilder) relative(path string) string {
	rel, err := filepath.Rel(p.workDir, path)
	if err != nil {
		return path
	}

	return filepath.ToSlash(rel)
}
